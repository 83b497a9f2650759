package usecase

import "github.com/xavierca1/ligue-leads/internal/entity"

type QualifyLeadInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type QualifyLeadOutput struct {
	ID            string               `json:"id"`
	Qualification entity.Qualification `json:"qualification"`
	Reply         string               `json:"reply"`
}

// Classification is what a Classifier produces. Reply is only filled by the
// structured strategy, which classifies and writes the reply in one call.
type Classification struct {
	Qualification entity.Qualification `json:"qualification"`
	Reply         string               `json:"reply,omitempty"`
}
