package domain

import "time"

// Visitor describes the person met at a fair or visit.
type Visitor struct {
	FirmaAdi string `json:"firma_adi"`
	AdSoyad  string `json:"ad_soyad"`
	Bolumu   string `json:"bolumu"`
	Telefon  string `json:"telefon"`
	Adres    string `json:"adres"`
	Email    string `json:"email"`
	Web      string `json:"web"`
}

type ReturnVisit struct {
	Tarih   string `json:"tarih"`
	AdSoyad string `json:"ad_soyad"`
}

// Actions are the follow-ups agreed during the interview.
type Actions struct {
	KatalogGonderilecek bool        `json:"katalog_gonderilecek"`
	TeklifGonderilecek  bool        `json:"teklif_gonderilecek"`
	ZiyaretEdilecek     bool        `json:"ziyaret_edilecek"`
	BizZiyaretEdecek    ReturnVisit `json:"biz_ziyaret_edecek"`
}

type Interview struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	CustomerID     string    `json:"customer_id" gorm:"index"`
	FormTarihi     string    `json:"form_tarihi" gorm:"index"`
	Fuar           string    `json:"fuar,omitempty"`
	Sektor         []string  `json:"sektor,omitempty" gorm:"serializer:json"`
	Ziyaretci      Visitor   `json:"ziyaretci" gorm:"serializer:json"`
	Aksiyonlar     Actions   `json:"aksiyonlar" gorm:"serializer:json"`
	Notlar         string    `json:"notlar,omitempty" gorm:"type:text"`
	GorusmeyiYapan string    `json:"gorusmeyi_yapan,omitempty"`
	AISummary      string    `json:"ai_summary,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Interview) TableName() string { return "interviews" }
