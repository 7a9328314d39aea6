package ai

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cnkcrm/internal/domain"
)

func (c *Client) Summarize(ctx context.Context, text string) Result {
	return c.call(ctx, "summary", fmt.Sprintf("Aşağıdaki görüşme notlarını profesyonel bir dille, anahtar noktaları vurgulayarak özetle:\n\n---\n%s\n---\n\nÖzet:", text))
}

func (c *Client) SuggestNextStep(ctx context.Context, cu domain.Customer) Result {
	return c.call(ctx, "next_step", fmt.Sprintf("CRM Müşteri Bilgileri:\nAdı: %s\nNotlar: %s\n\nBu müşteriyle olan etkileşim geçmişine göre bir sonraki mantıklı adımı öner (örn: \"Bir takip e-postası gönderin\", \"Bir demo planlayın\").\n\nÖnerilen Sonraki Adım:", cu.Name, cu.Notes))
}

func (c *Client) AnalyzeOpportunities(ctx context.Context, cu domain.Customer) Result {
	return c.call(ctx, "opportunity", fmt.Sprintf("CRM Müşteri Bilgileri:\nAdı: %s\nNotlar: %s\n\nBu müşteriyle ilgili notları analiz ederek potansiyel satış fırsatlarını veya riskleri belirle. Kısa ve maddeler halinde cevap ver.\n\nAnaliz:", cu.Name, cu.Notes))
}

func (c *Client) AnalyzeSentiment(ctx context.Context, text string) Result {
	return c.call(ctx, "sentiment", fmt.Sprintf("Aşağıdaki metnin genel hissiyatını (pozitif, negatif, nötr) belirle ve nedenini kısaca açıkla:\n\n---\n%s\n---\n\nHissiyat:", text))
}

// FollowUpEmail drafts a follow-up mail for an offer. customer may be nil.
func (c *Client) FollowUpEmail(ctx context.Context, o domain.Offer, customer *domain.Customer) Result {
	name := ""
	if customer != nil {
		name = customer.Name
	}
	return c.call(ctx, "follow_up_email", fmt.Sprintf("Müşteri: %s, Yetkili: %s, Teklif No: %s, Toplam: %s TL. Bu bilgilere göre, müşteriye gönderilecek profesyonel bir takip e-postası taslağı oluştur. E-posta sadece metin olarak oluşturulsun.", name, o.Firma.Yetkili, o.TeklifNo, o.GenelToplam.StringFixed(2)))
}

func (c *Client) ReconciliationEmail(ctx context.Context, cu domain.Customer, kind domain.ReconciliationType, period string, amount decimal.Decimal) Result {
	return c.call(ctx, "reconciliation_email", fmt.Sprintf("Müşteri: %s, Mutabakat Türü: %s, Dönem: %s, Tutar: %s TL. Bu bilgilere göre, müşteriye gönderilecek nazik ve profesyonel bir mutabakat e-postası metni oluştur. E-posta sadece metin olarak oluşturulsun.", cu.Name, kind, period, amount.StringFixed(2)))
}

func (c *Client) AnalyzeDisagreement(ctx context.Context, text string) Result {
	return c.call(ctx, "disagreement", fmt.Sprintf("Bir müşteri mutabakata itiraz etti. Müşterinin itiraz metni aşağıdadır. Bu metni analiz et, ana itiraz noktalarını özetle ve çözüm için bir sonraki adımı öner.\n\nMüşteri Metni: %q\n\nAnaliz ve Öneri:", text))
}

func (c *Client) SalesCoaching(ctx context.Context, user string, target, current decimal.Decimal, daysLeft int) Result {
	return c.call(ctx, "sales_coaching", fmt.Sprintf("Bir satış koçu olarak, aşağıdaki satış performansı verilerine göre bir öneride bulun. Kullanıcı: %s, Aylık Hedef: %s TL, Mevcut Satış: %s TL, Kalan Gün: %d. Hedefe ulaşmak için somut ve uygulanabilir bir tavsiye ver.", user, target.StringFixed(2), current.StringFixed(2), daysLeft))
}
