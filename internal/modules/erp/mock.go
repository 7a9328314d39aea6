package erp

import (
	"time"

	"github.com/shopspring/decimal"

	"cnkcrm/internal/domain"
)

// The ERP connection is simulated; these rows stand in for what a WOLVOX
// database would return.

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) time.Time { return time.Date(y, m, dd, 10, 0, 0, 0, time.UTC) }

var mockStock = []domain.StockItem{
	{ID: "STK-001", Name: "Hidrolik Silindir 50x300", Quantity: 42, Price: d("1850.00")},
	{ID: "STK-002", Name: "Pnömatik Valf 5/2", Quantity: 120, Price: d("640.50")},
	{ID: "STK-003", Name: "Rulman 6205-2RS", Quantity: 800, Price: d("85.90")},
	{ID: "STK-004", Name: "Redüktör 1:30", Quantity: 9, Price: d("7420.00")},
}

var mockInvoices = []domain.Invoice{
	{ID: "FTR-2024-001", CustomerID: "1", UserID: "2", Date: day(2024, time.January, 12), TotalAmount: d("12500.00"),
		Items: []domain.InvoiceLine{{StockID: "STK-001", Quantity: 5, Price: d("1850.00")}, {StockID: "STK-003", Quantity: 38, Price: d("85.90")}}},
	{ID: "FTR-2024-002", CustomerID: "1", UserID: "2", Date: day(2024, time.February, 3), TotalAmount: d("7420.00"),
		Items: []domain.InvoiceLine{{StockID: "STK-004", Quantity: 1, Price: d("7420.00")}}},
	{ID: "FTR-2024-003", CustomerID: "2", UserID: "3", Date: day(2024, time.February, 20), TotalAmount: d("3202.50"),
		Items: []domain.InvoiceLine{{StockID: "STK-002", Quantity: 5, Price: d("640.50")}}},
	{ID: "FTR-2024-004", CustomerID: "5", UserID: "3", Date: day(2024, time.March, 8), TotalAmount: d("1718.00"),
		Items: []domain.InvoiceLine{{StockID: "STK-003", Quantity: 20, Price: d("85.90")}}},
}

var mockCustomers = []domain.Customer{
	{Name: "Anadolu Makina A.Ş.", Email: "info@anadolumakina.com.tr", CurrentCode: "120.01.001", City: "Konya", Status: domain.CustomerActive},
	{Name: "Trakya Tarım Makineleri", Email: "info@trakyatarim.com", CurrentCode: "120.02.001", City: "Edirne", Phone1: "0284 212 33 44", Status: domain.CustomerActive},
	{Name: "Çukurova Tekstil", Email: "", CurrentCode: "120.02.002", City: "Adana", Status: domain.CustomerActive},
}

type mockOffer struct {
	customerCode string
	offer        domain.Offer
}

var mockOffers = []mockOffer{
	{customerCode: "120.01.001", offer: domain.Offer{
		Firma: domain.OfferCompany{Yetkili: "Ahmet Demir", Telefon: "0332 123 45 67", Eposta: "info@anadolumakina.com.tr", Vade: "30 gün"},
		Items: []domain.OfferItem{{ID: "1", Cins: "Hidrolik Silindir 50x300", Miktar: d("4"), Birim: "Adet", Fiyat: d("1850.00")}},
	}},
	{customerCode: "120.01.002", offer: domain.Offer{
		Firma: domain.OfferCompany{Yetkili: "Zeynep Kaya", Eposta: "satis@egehidrolik.com", Vade: "Peşin"},
		Items: []domain.OfferItem{
			{ID: "1", Cins: "Pnömatik Valf 5/2", Miktar: d("10"), Birim: "Adet", Fiyat: d("640.50")},
			{ID: "2", Cins: "Rulman 6205-2RS", Miktar: d("50"), Birim: "Adet", Fiyat: d("85.90")},
		},
	}},
	{customerCode: "120.99.999", offer: domain.Offer{
		Firma: domain.OfferCompany{Yetkili: "Bilinmeyen"},
		Items: []domain.OfferItem{{ID: "1", Cins: "Redüktör 1:30", Miktar: d("1"), Birim: "Adet", Fiyat: d("7420.00")}},
	}},
}
