package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) ListRecent(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) SyncLead(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, lead *entity.Lead) (Classification, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(Classification), args.Error(1)
}

type recordedFailure struct {
	stage     string
	kind      ErrorKind
	tolerated bool
}

type fakeMetrics struct {
	qualified []entity.Qualification
	failures  []recordedFailure
}

func (f *fakeMetrics) LeadQualified(q entity.Qualification) {
	f.qualified = append(f.qualified, q)
}

func (f *fakeMetrics) StageFailed(stage string, kind ErrorKind, tolerated bool) {
	f.failures = append(f.failures, recordedFailure{stage, kind, tolerated})
}
