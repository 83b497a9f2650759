package usecase

import (
	"context"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Completer is a language-model call: one system instruction, one user turn,
// free text back.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, lead *entity.Lead) (Classification, error)
}

type Composer interface {
	Compose(ctx context.Context, lead *entity.Lead) (string, error)
}

// Notifier entrega a resposta ao lead (SMTP direto ou via fila).
type Notifier interface {
	Notify(ctx context.Context, lead *entity.Lead) error
}

// CRMSync espelha o lead qualificado num CRM externo.
type CRMSync interface {
	SyncLead(ctx context.Context, lead *entity.Lead) error
}

// PipelineMetrics receives pipeline outcomes; implemented by the HTTP metrics
// middleware package.
type PipelineMetrics interface {
	LeadQualified(q entity.Qualification)
	StageFailed(stage string, kind ErrorKind, tolerated bool)
}

type noopMetrics struct{}

func (noopMetrics) LeadQualified(entity.Qualification) {}
func (noopMetrics) StageFailed(string, ErrorKind, bool) {}
