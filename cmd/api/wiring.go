package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/database"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-leads/internal/infra/llm"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func openStore(ctx context.Context, c *config.Config) (database.Store, error) {
	store, err := database.Open(ctx, c.Store.Driver, c.StoreDSN())
	if err != nil {
		return nil, err
	}
	if c.Store.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

// newCompleter devolve nil (interface nula) sem api key.
func newCompleter(c config.AnthropicConfig) usecase.Completer {
	if c.APIKey == "" {
		return nil
	}
	return llm.NewClient(llm.Config{
		APIKey:    c.APIKey,
		Model:     c.Model,
		BaseURL:   c.BaseURL,
		MaxTokens: c.MaxTokens,
	})
}

func newClassifier(p config.PipelineConfig, client usecase.Completer) usecase.Classifier {
	switch p.Classifier {
	case "llm":
		return usecase.NewLLMClassifier(client, usecase.LabelFallback(p.LabelFallback))
	case "structured":
		return usecase.NewStructuredClassifier(client)
	default:
		return usecase.NewKeywordClassifier(p.KeywordRules())
	}
}

func newComposer(p config.PipelineConfig, client usecase.Completer) (usecase.Composer, error) {
	if p.Composer == "llm" {
		return usecase.NewLLMComposer(client), nil
	}
	return usecase.NewTemplateComposer(p.ReplyTemplate)
}

func replyBuilder(m config.MailConfig) mail.ReplyBuilder {
	from := m.From
	if from == "" {
		from = m.User
	}
	return mail.ReplyBuilder{From: from, Subject: m.Subject}
}

func newEmailSender(m config.MailConfig) *mail.EmailSender {
	return mail.NewEmailSender(m.Host, m.Port, m.User, m.Password)
}

// newNotifier monta o notifier do modo configurado; nil em mail.mode=none.
func newNotifier(m config.MailConfig, rabbit *queue.RabbitMQ) usecase.Notifier {
	switch m.Mode {
	case config.ModeSMTP:
		return middleware.InstrumentedNotifier{
			Mode: config.ModeSMTP,
			Next: mail.NewReplyNotifier(newEmailSender(m), replyBuilder(m)),
		}
	case config.ModeQueue:
		return middleware.InstrumentedNotifier{
			Mode: config.ModeQueue,
			Next: queue.NewProducer(rabbit.Ch, replyBuilder(m)),
		}
	}
	return nil
}

func newQualifyLeadUseCase(c *config.Config, store database.Store, client usecase.Completer, rabbit *queue.RabbitMQ) (*usecase.QualifyLeadUseCase, error) {
	composer, err := newComposer(c.Pipeline, client)
	if err != nil {
		return nil, err
	}
	if client == nil && (c.Pipeline.Classifier != "keyword" || c.Pipeline.Composer == "llm") {
		zap.L().Warn("ANTHROPIC_API_KEY ausente; estratégias LLM vão falhar",
			zap.String("classifier", c.Pipeline.Classifier),
			zap.String("composer", c.Pipeline.Composer),
		)
	}

	qcfg := c.Pipeline.QualifyLeadConfig()
	qcfg.NotifyOnce = c.Mail.Mode == config.ModeSMTP

	uc := usecase.NewQualifyLeadUseCase(
		newClassifier(c.Pipeline, client),
		composer,
		store,
		newNotifier(c.Mail, rabbit),
		middleware.PipelineMetrics{},
		qcfg,
	)

	if c.Kommo.Token != "" {
		uc.CRM = kommo.NewClient(kommo.Config{
			Token:    c.Kommo.Token,
			BaseURL:  c.Kommo.BaseURL,
			StatusID: c.Kommo.StatusID,
		})
	}

	return uc, nil
}
