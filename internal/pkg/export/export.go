// Package export renders offers and tabular reports as PDF documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"cnkcrm/internal/domain"
)

// Table is a titled grid of string cells. Widths are in mm and default to
// an even split of the page.
type Table struct {
	Title   string
	Headers []string
	Widths  []float64
	Rows    [][]string
}

const pageWidth = 190.0

func newDocument() (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2) + " TL"
}

// OfferPDF renders an offer with its customer block, item table and totals.
// customer may be nil.
func OfferPDF(offer domain.Offer, customer *domain.Customer) ([]byte, error) {
	pdf, tr := newDocument()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pageWidth, 10, tr("FİYAT TEKLİFİ"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, tr("Teklif No: "+offer.TeklifNo), "", 0, "L", false, 0, "")
	date := offer.Firma.TeklifTarihi
	if date == "" {
		date = offer.CreatedAt.Format("02.01.2006")
	}
	pdf.CellFormat(95, 6, tr("Tarih: "+date), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(pageWidth, 8, tr("Müşteri Bilgileri"), "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	name := ""
	if customer != nil {
		name = customer.Name
		if customer.CommercialTitle != "" {
			name = customer.CommercialTitle
		}
	}
	pdf.CellFormat(95, 7, tr("Firma: "+name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Yetkili: "+offer.Firma.Yetkili), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Telefon: "+offer.Firma.Telefon), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("E-posta: "+offer.Firma.Eposta), "RB", 1, "L", false, 0, "")
	if offer.Firma.Vade != "" {
		pdf.CellFormat(pageWidth, 7, tr("Vade: "+offer.Firma.Vade), "LRB", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{70, 25, 20, 35, 40}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range []string{"Cins", "Miktar", "Birim", "Birim Fiyat", "Tutar"} {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, it := range offer.Items {
		pdf.CellFormat(widths[0], 6, tr(it.Cins), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, it.Miktar.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(it.Birim), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, money(it.Fiyat), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, money(it.Tutar), "1", 1, "R", false, 0, "")
	}

	label := widths[0] + widths[1] + widths[2] + widths[3]
	for _, row := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"Ara Toplam", offer.Toplam},
		{"KDV (%20)", offer.KDV},
		{"Genel Toplam", offer.GenelToplam},
	} {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(label, 7, tr(row.name), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, money(row.value), "1", 1, "R", false, 0, "")
	}

	if offer.Notlar != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(pageWidth, 7, tr("Notlar"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(pageWidth, 5, tr(offer.Notlar), "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(pageWidth, 5, tr("Teklifi Veren: "+offer.TeklifVeren.Yetkili+" "+offer.TeklifVeren.Eposta), "", 1, "L", false, 0, "")

	return output(pdf)
}

// TablePDF renders t as a bordered grid with a shaded header row.
func TablePDF(t Table) ([]byte, error) {
	if len(t.Headers) == 0 {
		return nil, fmt.Errorf("table %q has no columns", t.Title)
	}
	widths := t.Widths
	if len(widths) != len(t.Headers) {
		widths = make([]float64, len(t.Headers))
		for i := range widths {
			widths[i] = pageWidth / float64(len(t.Headers))
		}
	}

	pdf, tr := newDocument()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(pageWidth, 10, tr(t.Title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range t.Headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range t.Rows {
		for i := range t.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return output(pdf)
}
