package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskCriteriaMatchOrder(t *testing.T) {
	criteria := RiskCriteria{
		RiskHigh:   {"No"},
		RiskMedium: {"Partially", "No"},
		RiskLow:    {"Yes"},
	}

	level, ok := criteria.Match("No")
	require.True(t, ok)
	assert.Equal(t, RiskHigh, level, "high must win when an answer appears in several levels")

	level, ok = criteria.Match("Partially")
	require.True(t, ok)
	assert.Equal(t, RiskMedium, level)

	_, ok = criteria.Match("Unlisted")
	assert.False(t, ok)
}

func TestCriteriaValuesUnmarshalBothShapes(t *testing.T) {
	var criteria RiskCriteria

	// Historical rows store single strings, newer rows store lists.
	raw := []byte(`{"high":"No","low":["Yes","Mostly"]}`)
	require.NoError(t, json.Unmarshal(raw, &criteria))

	assert.Equal(t, CriteriaValues{"No"}, criteria[RiskHigh])
	assert.Equal(t, CriteriaValues{"Yes", "Mostly"}, criteria[RiskLow])
}

func TestQuestionIsValidAnswer(t *testing.T) {
	withOthers := Question{PossibleAnswers: StringList{"Yes", "No", AnswerOthers}}
	strict := Question{PossibleAnswers: StringList{"Yes", "No"}}

	assert.True(t, withOthers.IsValidAnswer("Yes"))
	assert.True(t, withOthers.IsValidAnswer("anything goes"))
	assert.False(t, withOthers.IsValidAnswer(""))

	assert.True(t, strict.IsValidAnswer("No"))
	assert.False(t, strict.IsValidAnswer("anything goes"))
	assert.False(t, strict.AllowsCustomAnswers())
}

func TestValidateRiskCriteria(t *testing.T) {
	answers := StringList{"Yes", "No", AnswerOthers}

	assert.NoError(t, ValidateRiskCriteria(RiskCriteria{
		RiskHigh: {"No"},
		RiskLow:  {"Yes"},
	}, answers))

	// The Others sentinel is exempt from membership checks.
	assert.NoError(t, ValidateRiskCriteria(RiskCriteria{
		RiskLow: {AnswerOthers},
	}, answers))

	err := ValidateRiskCriteria(RiskCriteria{RiskHigh: {"Never"}}, answers)
	assert.Error(t, err)
}

func TestStringListContains(t *testing.T) {
	list := StringList{"Yes", "No"}
	assert.True(t, list.Contains("Yes"))
	assert.False(t, list.Contains("yes"), "matching is exact")
	assert.False(t, list.Contains(""))
}
