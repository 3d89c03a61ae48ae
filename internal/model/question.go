package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// AnswerOthers is the sentinel option that permits free-text answers.
const AnswerOthers = "Others"

// StringList is a JSON-encoded list of strings stored in a single column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

func (StringList) GormDataType() string {
	return "jsonb"
}

// Contains reports whether s is an exact member of the list.
func (l StringList) Contains(s string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}

// CriteriaValues holds the answer strings that trigger one risk level.
// Historical data encodes the value either as a single string or as a list;
// both forms unmarshal into the slice.
type CriteriaValues []string

func (c *CriteriaValues) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = CriteriaValues{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*c = CriteriaValues(list)
	return nil
}

// RiskCriteria maps a risk level to the answers that trigger it.
type RiskCriteria map[RiskLevel]CriteriaValues

func (c RiskCriteria) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *RiskCriteria) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for RiskCriteria", value)
	}
}

func (RiskCriteria) GormDataType() string {
	return "jsonb"
}

// Match returns the first risk level whose criteria contain the answer,
// checked in fixed order high, medium, low.
func (c RiskCriteria) Match(answer string) (RiskLevel, bool) {
	for _, level := range []RiskLevel{RiskHigh, RiskMedium, RiskLow} {
		for _, candidate := range c[level] {
			if candidate == answer {
				return level, true
			}
		}
	}
	return "", false
}

type Question struct {
	ID                     uint           `gorm:"primarykey" json:"id"`
	Question               string         `json:"question" gorm:"type:text;not null"`
	Description            *string        `json:"description,omitempty" gorm:"type:text"`
	Category               string         `json:"category" gorm:"not null;default:'General'"`
	PossibleAnswers        StringList     `json:"possible_answers" gorm:"type:jsonb;not null"`
	RiskCriteria           RiskCriteria   `json:"risk_criteria" gorm:"type:jsonb;not null"`
	PossibleRecommendation *string        `json:"possible_recommendation,omitempty" gorm:"type:text"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

// AllowsCustomAnswers reports whether the question accepts free text via the
// "Others" option.
func (q *Question) AllowsCustomAnswers() bool {
	return q.PossibleAnswers.Contains(AnswerOthers)
}

// IsValidAnswer reports whether answer is acceptable for this question.
// A direct match against the option list always passes; when "Others" is an
// option, any non-empty string passes too.
func (q *Question) IsValidAnswer(answer string) bool {
	if q.PossibleAnswers.Contains(answer) {
		return true
	}
	return q.AllowsCustomAnswers() && answer != ""
}

// ValidateRiskCriteria checks that every answer referenced by the criteria
// (except the "Others" sentinel) is a member of the possible-answers list.
func ValidateRiskCriteria(criteria RiskCriteria, possibleAnswers StringList) error {
	for level, answers := range criteria {
		for _, answer := range answers {
			if answer == AnswerOthers {
				continue
			}
			if !possibleAnswers.Contains(answer) {
				return fmt.Errorf("risk criteria answer %q for level %q must be one of the possible answers (excluding %q)", answer, level, AnswerOthers)
			}
		}
	}
	return nil
}
