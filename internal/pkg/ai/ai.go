package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"cnkcrm/internal/observability/metrics"
	"cnkcrm/internal/pkg/utils"
)

// Generator turns a prompt into text.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Simulator answers every prompt after a fixed delay without calling any
// model.
type Simulator struct {
	Latency time.Duration
}

func (s Simulator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := utils.Wait(ctx, s.Latency); err != nil {
		return "", err
	}
	return fmt.Sprintf("%q istemi için sunucudan gelen yapay zeka cevabı. Bu metin, gerçek bir yapay zeka modeli yerine simüle edilmiş bir API'den gelmektedir.", truncate(prompt, 30)+"..."), nil
}

// Result mirrors what the screens show: Text is the answer on success and
// the error message otherwise.
type Result struct {
	Success bool
	Text    string
}

// Err returns nil for a successful result.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return errors.New(r.Text)
}

const fallbackMessage = "Yapay zeka servisinde beklenmedik bir hata oluştu."

// Client wraps a Generator with the CRM prompts. Its methods never return
// errors; failures are reported in Result.
type Client struct {
	gen Generator
	log *zap.Logger
}

func NewClient(gen Generator, log *zap.Logger) *Client {
	return &Client{gen: gen, log: log}
}

func (c *Client) call(ctx context.Context, kind, prompt string) Result {
	text, err := c.gen.GenerateText(ctx, prompt)
	if err != nil {
		metrics.ObserveCollaboratorCall("ai", "error")
		c.log.Warn("ai call failed", zap.String("kind", kind), zap.Error(err))
		msg := err.Error()
		if msg == "" {
			msg = fallbackMessage
		}
		return Result{Success: false, Text: msg}
	}
	metrics.ObserveCollaboratorCall("ai", "ok")
	c.log.Debug("ai call", zap.String("kind", kind), zap.Int("prompt_chars", utf8.RuneCountInString(prompt)))
	return Result{Success: true, Text: text}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
