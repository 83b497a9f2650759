package usecase

import (
	"context"
	"errors"
	"strings"
)

const assistantSystemPrompt = "You are a helpful AI assistant."

// PromptUseCase backs the free-form /api/ai endpoint.
type PromptUseCase struct {
	Client Completer
}

func NewPromptUseCase(client Completer) *PromptUseCase {
	return &PromptUseCase{Client: client}
}

func (uc *PromptUseCase) Execute(ctx context.Context, prompt string) (string, error) {
	if uc.Client == nil {
		return "", &StageError{Kind: KindClassification, Stage: StagePrompt, Message: ErrLLMNotConfigured.Error(), Err: ErrLLMNotConfigured}
	}
	if strings.TrimSpace(prompt) == "" {
		return "", &StageError{
			Kind:    KindValidation,
			Stage:   StageValidate,
			Message: "Missing required fields",
			Fields:  []ValidationError{{"prompt", "is required"}},
			Err:     errors.New("missing: prompt"),
		}
	}

	reply, err := uc.Client.Complete(ctx, assistantSystemPrompt, prompt)
	if err != nil {
		return "", newStageError(StagePrompt, KindClassification, err)
	}
	return reply, nil
}
