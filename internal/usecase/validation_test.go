package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLeadInput(t *testing.T) {
	valid := QualifyLeadInput{Name: "Ana", Email: "ana@x.com", Message: "hi"}
	assert.Empty(t, ValidateLeadInput(valid, false))
	assert.Empty(t, ValidateLeadInput(valid, true))

	errs := ValidateLeadInput(QualifyLeadInput{Email: "ana@x.com"}, false)
	assert.Equal(t, []ValidationError{{"name", "is required"}, {"message", "is required"}}, errs)
}

func TestValidateLeadInput_Whitespace(t *testing.T) {
	input := QualifyLeadInput{Name: "  ", Email: "ana@x.com", Message: "\t"}

	// modo leniente aceita espaços
	assert.Empty(t, ValidateLeadInput(input, false))

	errs := ValidateLeadInput(input, true)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "message", errs[1].Field)
	assert.Len(t, errs, 2)
}
