package entity

import (
	"context"
	"strings"
	"time"
)

type Qualification string

const (
	QualificationHot  Qualification = "HOT"
	QualificationWarm Qualification = "WARM"
	QualificationCold Qualification = "COLD"
)

// ParseQualification maps free text (usually a model answer) onto one of the
// three labels. Anything else is rejected.
func ParseQualification(text string) (Qualification, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.Trim(cleaned, "\"'`.!*:;, \t\r\n")
	switch Qualification(strings.ToUpper(cleaned)) {
	case QualificationHot:
		return QualificationHot, true
	case QualificationWarm:
		return QualificationWarm, true
	case QualificationCold:
		return QualificationCold, true
	}
	return "", false
}

type Lead struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Message       string        `json:"message"`
	Qualification Qualification `json:"qualification"`
	AIReply       string        `json:"ai_reply"`
	CreatedAt     time.Time     `json:"created_at"` // preenchido pelo banco
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	ListRecent(ctx context.Context) ([]*Lead, error)
}
