package mail

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

//go:embed templates/reply.html
var templatesFS embed.FS

var replyTemplate = template.Must(template.ParseFS(templatesFS, "templates/reply.html"))

const DefaultSubject = "Thanks for reaching out"

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// Send entrega um email via SMTP. gomail não aceita context, então o envio
// roda numa goroutine e o ctx só limita a espera.
func (s *EmailSender) Send(ctx context.Context, email Email) error {
	m := gomail.NewMessage()
	m.SetHeader("From", email.From)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Body)
	if email.HTML != "" {
		m.AddAlternative("text/html", email.HTML)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		return eris.Wrap(err, "smtp: send email")
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "smtp: send email")
	}
}

// ReplyBuilder turns a qualified lead into the reply email.
type ReplyBuilder struct {
	From    string
	Subject string
}

func (b ReplyBuilder) Build(lead *entity.Lead) (Email, error) {
	subject := b.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	var html bytes.Buffer
	if err := replyTemplate.Execute(&html, replyEmailData{Paragraphs: paragraphs(lead.AIReply)}); err != nil {
		return Email{}, eris.Wrap(err, "mail: render reply template")
	}

	return Email{
		From:    b.From,
		To:      lead.Email,
		Subject: subject,
		Body:    lead.AIReply,
		HTML:    html.String(),
	}, nil
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type Sender interface {
	Send(ctx context.Context, email Email) error
}

// ReplyNotifier envia a resposta direto pelo SMTP, dentro da requisição.
type ReplyNotifier struct {
	Sender  Sender
	Builder ReplyBuilder
}

func NewReplyNotifier(sender Sender, builder ReplyBuilder) *ReplyNotifier {
	return &ReplyNotifier{Sender: sender, Builder: builder}
}

func (n *ReplyNotifier) Notify(ctx context.Context, lead *entity.Lead) error {
	email, err := n.Builder.Build(lead)
	if err != nil {
		return err
	}
	return n.Sender.Send(ctx, email)
}
