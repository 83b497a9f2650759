package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func TestNewCompleter(t *testing.T) {
	assert.Nil(t, newCompleter(config.AnthropicConfig{}))
	assert.NotNil(t, newCompleter(config.AnthropicConfig{APIKey: "sk-test"}))
}

func TestNewClassifier(t *testing.T) {
	p := config.PipelineConfig{Classifier: "keyword", LabelFallback: "cold"}
	assert.IsType(t, &usecase.KeywordClassifier{}, newClassifier(p, nil))

	p.Classifier = "llm"
	c := newClassifier(p, nil)
	require.IsType(t, &usecase.LLMClassifier{}, c)
	assert.Equal(t, usecase.LabelFallbackCold, c.(*usecase.LLMClassifier).Fallback)

	p.Classifier = "structured"
	assert.IsType(t, &usecase.StructuredClassifier{}, newClassifier(p, nil))
}

func TestNewComposer(t *testing.T) {
	c, err := newComposer(config.PipelineConfig{Composer: "template"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &usecase.TemplateComposer{}, c)

	c, err = newComposer(config.PipelineConfig{Composer: "llm"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &usecase.LLMComposer{}, c)

	_, err = newComposer(config.PipelineConfig{Composer: "template", ReplyTemplate: "{{.Name"}, nil)
	assert.Error(t, err)
}

func TestNewNotifier(t *testing.T) {
	assert.Nil(t, newNotifier(config.MailConfig{Mode: config.ModeNone}, nil))

	n := newNotifier(config.MailConfig{Mode: config.ModeSMTP, Host: "localhost", Port: 25}, nil)
	require.IsType(t, middleware.InstrumentedNotifier{}, n)
	assert.Equal(t, config.ModeSMTP, n.(middleware.InstrumentedNotifier).Mode)
}

func TestReplyBuilderFallsBackToUser(t *testing.T) {
	b := replyBuilder(config.MailConfig{User: "team@ligue.com", Subject: "Oi"})
	assert.Equal(t, "team@ligue.com", b.From)
	assert.Equal(t, "Oi", b.Subject)
}

func TestOpenStoreMigratesSQLite(t *testing.T) {
	c := &config.Config{
		Store:      config.StoreConfig{Driver: "sqlite", AutoMigrate: true},
		SQLitePath: filepath.Join(t.TempDir(), "leads.db"),
	}

	store, err := openStore(context.Background(), c)
	require.NoError(t, err)
	defer store.Close()

	leads, err := store.ListRecent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestNewQualifyLeadUseCase_SMTPNotifiesOnce(t *testing.T) {
	c := &config.Config{
		Store:      config.StoreConfig{Driver: "sqlite", AutoMigrate: true},
		SQLitePath: filepath.Join(t.TempDir(), "leads.db"),
		Pipeline:   config.PipelineConfig{Classifier: "keyword", Composer: "template", RetryMaxAttempts: 2},
		Mail:       config.MailConfig{Mode: config.ModeSMTP, Host: "localhost", Port: 25},
	}
	store, err := openStore(context.Background(), c)
	require.NoError(t, err)
	defer store.Close()

	uc, err := newQualifyLeadUseCase(c, store, nil, nil)
	require.NoError(t, err)
	assert.True(t, uc.Config.NotifyOnce)
	assert.Nil(t, uc.CRM)

	c.Mail.Mode = config.ModeNone
	uc, err = newQualifyLeadUseCase(c, store, nil, nil)
	require.NoError(t, err)
	assert.False(t, uc.Config.NotifyOnce)
	assert.Nil(t, uc.Notifier)
}
