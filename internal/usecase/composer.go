package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const DefaultReplyTemplate = `Hi {{.Name}},

Thank you for reaching out! We received your message and our team will get back to you shortly.

Best regards,
The Team`

type replyTemplateData struct {
	Name          string
	Email         string
	Message       string
	Qualification entity.Qualification
}

// TemplateComposer renders a fixed template; same lead, same bytes.
type TemplateComposer struct {
	tmpl *template.Template
}

func NewTemplateComposer(text string) (*TemplateComposer, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultReplyTemplate
	}
	tmpl, err := template.New("reply").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, eris.Wrap(err, "composer: parse reply template")
	}
	// campo inexistente só aparece no Execute; falha já na subida
	sample := replyTemplateData{Name: "Ana", Email: "ana@example.com", Message: "hi", Qualification: entity.QualificationCold}
	if err := tmpl.Execute(io.Discard, sample); err != nil {
		return nil, eris.Wrap(err, "composer: render reply template")
	}
	return &TemplateComposer{tmpl: tmpl}, nil
}

func (c *TemplateComposer) Compose(_ context.Context, lead *entity.Lead) (string, error) {
	var body bytes.Buffer
	err := c.tmpl.Execute(&body, replyTemplateData{
		Name:          lead.Name,
		Email:         lead.Email,
		Message:       lead.Message,
		Qualification: lead.Qualification,
	})
	if err != nil {
		return "", eris.Wrap(err, "composer: render reply template")
	}
	return body.String(), nil
}

const replySystemPrompt = "You are a helpful sales assistant. Write a short, professional reply " +
	"to the following customer message. Address the sender by name."

type LLMComposer struct {
	Client Completer
}

func NewLLMComposer(client Completer) *LLMComposer {
	return &LLMComposer{Client: client}
}

func (c *LLMComposer) Compose(ctx context.Context, lead *entity.Lead) (string, error) {
	if c.Client == nil {
		return "", ErrLLMNotConfigured
	}
	reply, err := c.Client.Complete(ctx, replySystemPrompt, leadPrompt(lead))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", errors.New("model returned an empty reply")
	}
	return reply, nil
}
