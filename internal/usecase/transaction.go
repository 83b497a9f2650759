package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/resilience"
)

// FailurePolicy decide se a falha de um estágio aborta a requisição.
type FailurePolicy string

const (
	FailFast   FailurePolicy = "fail_fast"
	BestEffort FailurePolicy = "best_effort"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case FailFast, BestEffort:
		return FailurePolicy(s), nil
	}
	return "", fmt.Errorf("invalid failure policy %q (want %s or %s)", s, FailFast, BestEffort)
}

type Stage struct {
	Name   string
	Kind   ErrorKind
	Policy FailurePolicy
	Retry  bool
	Fn     func(context.Context) error
}

// Pipeline runs its stages strictly in order. Each attempt of a stage gets
// its own timeout; stages marked Retry go through the bounded retry.
type Pipeline struct {
	stages  []Stage
	timeout time.Duration
	retry   resilience.RetryConfig
	metrics PipelineMetrics
}

func NewPipeline(timeout time.Duration, retry resilience.RetryConfig, metrics PipelineMetrics) *Pipeline {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Pipeline{timeout: timeout, retry: retry, metrics: metrics}
}

func (p *Pipeline) AddStage(st Stage) {
	if st.Policy == "" {
		st.Policy = FailFast
	}
	p.stages = append(p.stages, st)
}

func (p *Pipeline) Execute(ctx context.Context) error {
	for _, st := range p.stages {
		err := p.runStage(ctx, st)
		if err == nil {
			continue
		}

		se := newStageError(st.Name, st.Kind, err)
		tolerated := st.Policy == BestEffort
		p.metrics.StageFailed(se.Stage, se.Kind, tolerated)

		if tolerated {
			zap.L().Warn("falha tolerada no estágio",
				zap.String("stage", se.Stage),
				zap.String("kind", string(se.Kind)),
				zap.Error(err),
			)
			continue
		}
		return se
	}
	return nil
}

func (p *Pipeline) runStage(ctx context.Context, st Stage) error {
	attempt := func(ctx context.Context) error {
		return p.runAttempt(ctx, st)
	}
	if !st.Retry {
		return attempt(ctx)
	}

	cfg := p.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("pipeline", st.Name)
	}
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = func(err error) bool {
			var te *timeoutError
			if errors.As(err, &te) {
				return false
			}
			return resilience.IsTransient(err)
		}
	}
	return resilience.Do(ctx, cfg, attempt)
}

func (p *Pipeline) runAttempt(ctx context.Context, st Stage) error {
	if p.timeout <= 0 {
		return st.Fn(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := st.Fn(attemptCtx)
	if err != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return &timeoutError{stage: st.Name, err: err}
	}
	return err
}
