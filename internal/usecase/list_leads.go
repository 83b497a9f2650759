package usecase

import (
	"context"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type ListLeadsUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(repo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

// Execute returns every lead, newest first.
func (uc *ListLeadsUseCase) Execute(ctx context.Context) ([]*entity.Lead, error) {
	leads, err := uc.Repo.ListRecent(ctx)
	if err != nil {
		return nil, newStageError(StageList, KindPersistence, err)
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	return leads, nil
}
