package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VATRate is the KDV rate applied to offers.
var VATRate = decimal.NewFromFloat(0.20)

type OfferCompany struct {
	Yetkili      string `json:"yetkili"`
	Telefon      string `json:"telefon"`
	Eposta       string `json:"eposta"`
	Vade         string `json:"vade"`
	TeklifTarihi string `json:"teklif_tarihi"`
}

type OfferIssuer struct {
	Yetkili string `json:"yetkili"`
	Telefon string `json:"telefon"`
	Eposta  string `json:"eposta"`
}

type OfferItem struct {
	ID           string          `json:"id"`
	Cins         string          `json:"cins"`
	Miktar       decimal.Decimal `json:"miktar"`
	Birim        string          `json:"birim"`
	Fiyat        decimal.Decimal `json:"fiyat"`
	Tutar        decimal.Decimal `json:"tutar"`
	TeslimSuresi string          `json:"teslim_suresi,omitempty"`
}

type Offer struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	TeklifNo        string          `json:"teklif_no" gorm:"index"`
	CustomerID      string          `json:"customer_id" gorm:"index"`
	Firma           OfferCompany    `json:"firma" gorm:"serializer:json"`
	TeklifVeren     OfferIssuer     `json:"teklif_veren" gorm:"serializer:json"`
	Items           []OfferItem     `json:"items" gorm:"serializer:json"`
	Notlar          string          `json:"notlar,omitempty" gorm:"type:text"`
	Toplam          decimal.Decimal `json:"toplam" gorm:"type:decimal(20,4)"`
	KDV             decimal.Decimal `json:"kdv" gorm:"type:decimal(20,4)"`
	GenelToplam     decimal.Decimal `json:"genel_toplam" gorm:"type:decimal(20,4)"`
	AIFollowUpEmail string          `json:"ai_follow_up_email,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at" gorm:"index"`
}

func (Offer) TableName() string { return "offers" }

// CalculateTotals fills every line total and the offer subtotal, KDV and grand total.
func (o *Offer) CalculateTotals() {
	subtotal := decimal.Zero
	for i := range o.Items {
		o.Items[i].Tutar = o.Items[i].Miktar.Mul(o.Items[i].Fiyat).Round(2)
		subtotal = subtotal.Add(o.Items[i].Tutar)
	}
	o.Toplam = subtotal
	o.KDV = subtotal.Mul(VATRate).Round(2)
	o.GenelToplam = o.Toplam.Add(o.KDV)
}
