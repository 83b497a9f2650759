package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/resilience"
)

type QualifyLeadConfig struct {
	StrictValidation  bool
	StageTimeout      time.Duration
	PersistencePolicy FailurePolicy
	NotifyPolicy      FailurePolicy
	Retry             resilience.RetryConfig

	// NotifyOnce desliga o retry do notify. Envio SMTP não é cancelável,
	// então uma segunda tentativa pode entregar o email duas vezes.
	NotifyOnce bool
}

func DefaultQualifyLeadConfig() QualifyLeadConfig {
	return QualifyLeadConfig{
		StageTimeout:      20 * time.Second,
		PersistencePolicy: FailFast,
		NotifyPolicy:      BestEffort,
		Retry:             resilience.DefaultRetryConfig(),
	}
}

type QualifyLeadUseCase struct {
	Classifier Classifier
	Composer   Composer
	Repo       entity.LeadRepositoryInterface
	Notifier   Notifier // nil desliga o envio
	CRM        CRMSync  // opcional, nunca derruba a requisição
	Metrics    PipelineMetrics
	Config     QualifyLeadConfig
}

func NewQualifyLeadUseCase(
	classifier Classifier,
	composer Composer,
	repo entity.LeadRepositoryInterface,
	notifier Notifier,
	metrics PipelineMetrics,
	cfg QualifyLeadConfig,
) *QualifyLeadUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &QualifyLeadUseCase{
		Classifier: classifier,
		Composer:   composer,
		Repo:       repo,
		Notifier:   notifier,
		Metrics:    metrics,
		Config:     cfg,
	}
}

// Execute runs validate → classify → compose → persist → notify (→ crm). Nothing
// reaches the store before qualification and reply are both set.
func (uc *QualifyLeadUseCase) Execute(ctx context.Context, input QualifyLeadInput) (*QualifyLeadOutput, error) {
	if validationErrors := ValidateLeadInput(input, uc.Config.StrictValidation); len(validationErrors) > 0 {
		uc.Metrics.StageFailed(StageValidate, KindValidation, false)
		return nil, &StageError{
			Kind:    KindValidation,
			Stage:   StageValidate,
			Message: "Missing required fields",
			Fields:  validationErrors,
			Err:     errors.New("missing: " + fieldNames(validationErrors)),
		}
	}

	lead := &entity.Lead{
		ID:      uuid.New().String(),
		Name:    input.Name,
		Email:   input.Email,
		Message: input.Message,
	}

	p := NewPipeline(uc.Config.StageTimeout, uc.Config.Retry, uc.Metrics)

	p.AddStage(Stage{
		Name:  StageClassify,
		Kind:  KindClassification,
		Retry: true,
		Fn: func(ctx context.Context) error {
			c, err := uc.Classifier.Classify(ctx, lead)
			if err != nil {
				return err
			}
			lead.Qualification = c.Qualification
			lead.AIReply = c.Reply
			return nil
		},
	})

	p.AddStage(Stage{
		Name:  StageCompose,
		Kind:  KindClassification,
		Retry: true,
		Fn: func(ctx context.Context) error {
			// estratégia estruturada já trouxe a resposta junto
			if strings.TrimSpace(lead.AIReply) != "" {
				return nil
			}
			reply, err := uc.Composer.Compose(ctx, lead)
			if err != nil {
				return err
			}
			lead.AIReply = reply
			return nil
		},
	})

	p.AddStage(Stage{
		Name:   StagePersist,
		Kind:   KindPersistence,
		Policy: uc.Config.PersistencePolicy,
		Fn: func(ctx context.Context) error {
			return uc.Repo.Create(ctx, lead)
		},
	})

	if uc.Notifier != nil {
		p.AddStage(Stage{
			Name:   StageNotify,
			Kind:   KindNotification,
			Policy: uc.Config.NotifyPolicy,
			Retry:  !uc.Config.NotifyOnce,
			Fn: func(ctx context.Context) error {
				return uc.Notifier.Notify(ctx, lead)
			},
		})
	}

	if uc.CRM != nil {
		p.AddStage(Stage{
			Name:   StageCRM,
			Kind:   KindNotification,
			Policy: BestEffort,
			Retry:  true,
			Fn: func(ctx context.Context) error {
				return uc.CRM.SyncLead(ctx, lead)
			},
		})
	}

	if err := p.Execute(ctx); err != nil {
		return nil, err
	}

	uc.Metrics.LeadQualified(lead.Qualification)
	zap.L().Info("lead qualificado",
		zap.String("lead_id", lead.ID),
		zap.String("qualification", string(lead.Qualification)),
	)

	return &QualifyLeadOutput{
		ID:            lead.ID,
		Qualification: lead.Qualification,
		Reply:         lead.AIReply,
	}, nil
}
