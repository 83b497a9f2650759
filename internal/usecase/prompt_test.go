package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPrompt(t *testing.T) {
	client := new(MockCompleter)
	client.On("Complete", mock.Anything, assistantSystemPrompt, "What is a CRM?").Return("A CRM is...", nil)

	reply, err := NewPromptUseCase(client).Execute(context.Background(), "What is a CRM?")

	require.NoError(t, err)
	assert.Equal(t, "A CRM is...", reply)
}

func TestPrompt_WithoutClient(t *testing.T) {
	_, err := NewPromptUseCase(nil).Execute(context.Background(), "hi")

	require.Error(t, err)
	assert.Equal(t, "ANTHROPIC_API_KEY is missing", err.Error())
	assert.False(t, IsKind(err, KindValidation))
}

func TestPrompt_EmptyPrompt(t *testing.T) {
	_, err := NewPromptUseCase(new(MockCompleter)).Execute(context.Background(), "  ")
	assert.True(t, IsKind(err, KindValidation))
}

func TestPrompt_ClientError(t *testing.T) {
	client := new(MockCompleter)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("overloaded"))

	_, err := NewPromptUseCase(client).Execute(context.Background(), "hi")

	se, ok := AsStageError(err)
	require.True(t, ok)
	assert.Equal(t, StagePrompt, se.Stage)
	assert.Equal(t, "prompt failed: overloaded", se.Error())
}
