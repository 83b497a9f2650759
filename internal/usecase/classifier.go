package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// KeywordRules são configuráveis por deploy; os defaults replicam o formulário
// original.
type KeywordRules struct {
	HotMarkers    []string
	WarmMarkers   []string
	WarmMinLength int
}

func DefaultKeywordRules() KeywordRules {
	return KeywordRules{
		HotMarkers:    []string{"automation", "ai", "business", "crm", "workflow", "price", "cost"},
		WarmMarkers:   []string{"website", "marketing"},
		WarmMinLength: 20,
	}
}

// Qualify matches markers as substrings of the lower-cased message, so "ai"
// also hits "email". A message longer than WarmMinLength characters is at
// least WARM.
func (r KeywordRules) Qualify(message string) entity.Qualification {
	text := strings.ToLower(message)

	if containsAny(text, r.HotMarkers) {
		return entity.QualificationHot
	}
	if utf8.RuneCountInString(message) > r.WarmMinLength || containsAny(text, r.WarmMarkers) {
		return entity.QualificationWarm
	}
	return entity.QualificationCold
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

type KeywordClassifier struct {
	Rules KeywordRules
}

func NewKeywordClassifier(rules KeywordRules) *KeywordClassifier {
	return &KeywordClassifier{Rules: rules}
}

func (c *KeywordClassifier) Classify(_ context.Context, lead *entity.Lead) (Classification, error) {
	return Classification{Qualification: c.Rules.Qualify(lead.Message)}, nil
}

// LabelFallback decides what happens when the model answers something other
// than HOT, WARM or COLD.
type LabelFallback string

const (
	LabelFallbackError LabelFallback = "error"
	LabelFallbackCold  LabelFallback = "cold"
)

const labelSystemPrompt = "You are a sales lead qualifier. Classify the lead's message. " +
	"Answer with exactly one word: HOT, WARM, or COLD."

type LLMClassifier struct {
	Client   Completer
	Fallback LabelFallback
}

func NewLLMClassifier(client Completer, fallback LabelFallback) *LLMClassifier {
	return &LLMClassifier{Client: client, Fallback: fallback}
}

func (c *LLMClassifier) Classify(ctx context.Context, lead *entity.Lead) (Classification, error) {
	if c.Client == nil {
		return Classification{}, ErrLLMNotConfigured
	}

	answer, err := c.Client.Complete(ctx, labelSystemPrompt, lead.Message)
	if err != nil {
		return Classification{}, err
	}

	q, ok := entity.ParseQualification(answer)
	if !ok {
		if c.Fallback == LabelFallbackCold {
			zap.L().Warn("rótulo desconhecido do modelo, usando COLD",
				zap.String("lead_id", lead.ID),
				zap.String("raw", answer),
			)
			return Classification{Qualification: entity.QualificationCold}, nil
		}
		return Classification{}, &RawOutputError{Reason: "unrecognized qualification label", Raw: answer}
	}

	return Classification{Qualification: q}, nil
}

const structuredSystemPrompt = "You are a sales assistant. Qualify the lead as HOT, WARM, or COLD " +
	"and write a short, professional reply addressed to the sender by name. " +
	`Respond only with JSON of the form {"qualification": "HOT|WARM|COLD", "reply": "..."}.`

// StructuredClassifier classifies and composes the reply in a single call.
type StructuredClassifier struct {
	Client Completer
}

func NewStructuredClassifier(client Completer) *StructuredClassifier {
	return &StructuredClassifier{Client: client}
}

func (c *StructuredClassifier) Classify(ctx context.Context, lead *entity.Lead) (Classification, error) {
	if c.Client == nil {
		return Classification{}, ErrLLMNotConfigured
	}

	raw, err := c.Client.Complete(ctx, structuredSystemPrompt, leadPrompt(lead))
	if err != nil {
		return Classification{}, err
	}

	return parseStructured(raw)
}

func parseStructured(raw string) (Classification, error) {
	var payload struct {
		Qualification string `json:"qualification"`
		Reply         string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return Classification{}, &RawOutputError{Reason: "malformed structured output", Raw: raw}
	}

	q, ok := entity.ParseQualification(payload.Qualification)
	if !ok {
		return Classification{}, &RawOutputError{Reason: "unrecognized qualification label", Raw: raw}
	}
	if strings.TrimSpace(payload.Reply) == "" {
		return Classification{}, &RawOutputError{Reason: "structured output without reply", Raw: raw}
	}

	return Classification{Qualification: q, Reply: payload.Reply}, nil
}

// stripCodeFence remove o ```json ... ``` que os modelos costumam colocar.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if i := strings.Index(text, "\n"); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

func leadPrompt(lead *entity.Lead) string {
	return "Name: " + lead.Name + "\nMessage: " + lead.Message
}
