package usecase

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateLeadInput only checks presence. In lenient mode a value made of
// whitespace counts as present; strict mode trims before checking.
func ValidateLeadInput(input QualifyLeadInput, strict bool) []ValidationError {
	var errors []ValidationError

	fields := []struct {
		name  string
		value string
	}{
		{"name", input.Name},
		{"email", input.Email},
		{"message", input.Message},
	}

	for _, f := range fields {
		value := f.value
		if strict {
			value = strings.TrimSpace(value)
		}
		if value == "" {
			errors = append(errors, ValidationError{f.name, "is required"})
		}
	}

	return errors
}
