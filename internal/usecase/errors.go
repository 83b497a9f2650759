package usecase

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindClassification ErrorKind = "classification"
	KindPersistence    ErrorKind = "persistence"
	KindNotification   ErrorKind = "notification"
	KindTimeout        ErrorKind = "timeout"
)

const (
	StageValidate = "validate"
	StageClassify = "classify"
	StageCompose  = "compose"
	StagePersist  = "persist"
	StageNotify   = "notify"
	StageCRM      = "crm"
	StageList     = "list"
	StagePrompt   = "prompt"
)

// StageError é o único tipo de erro que sai do pipeline. Kind decide o
// status HTTP; Raw carrega a saída crua do modelo quando ela não pôde ser
// interpretada.
type StageError struct {
	Kind    ErrorKind
	Stage   string
	Message string
	Raw     string
	Fields  []ValidationError
	Err     error
}

func (e *StageError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func AsStageError(err error) (*StageError, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	se, ok := AsStageError(err)
	return ok && se.Kind == kind
}

// RawOutputError is returned by the LLM strategies when the model answered
// but the answer is unusable.
type RawOutputError struct {
	Reason string
	Raw    string
}

func (e *RawOutputError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Raw)
}

// ErrLLMNotConfigured is returned when an LLM-backed operation runs without a
// client (missing API key).
var ErrLLMNotConfigured = errors.New("ANTHROPIC_API_KEY is missing")

type timeoutError struct {
	stage string
	err   error
}

func (e *timeoutError) Error() string {
	return e.err.Error()
}

func (e *timeoutError) Unwrap() error {
	return e.err
}

func newStageError(stage string, kind ErrorKind, err error) *StageError {
	se := &StageError{Kind: kind, Stage: stage, Err: err}

	var te *timeoutError
	if errors.As(err, &te) {
		se.Kind = KindTimeout
		se.Message = stage + " timed out"
	} else {
		se.Message = stage + " failed"
	}

	var raw *RawOutputError
	if errors.As(err, &raw) {
		se.Raw = raw.Raw
	}
	return se
}

func fieldNames(errs []ValidationError) string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return strings.Join(names, ", ")
}
