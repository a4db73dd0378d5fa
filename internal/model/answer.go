package model

import (
	"bytes"
	"encoding/json"
	"math"
)

// Answer is a single submitted response. Option is set for numeric
// answers, Text for string answers. Any other JSON value decodes to an
// empty Answer, which never counts as correct.
type Answer struct {
	Option *int
	Text   *string
}

// UnmarshalJSON accepts any JSON value without failing the whole payload.
func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = Answer{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		a.Text = &s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil
		}
		if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return nil
		}
		n := int(f)
		a.Option = &n
	}
	return nil
}

// MarshalJSON writes the answer back in its submitted shape.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case a.Option != nil:
		return json.Marshal(*a.Option)
	case a.Text != nil:
		return json.Marshal(*a.Text)
	default:
		return []byte("null"), nil
	}
}

// IntAnswer and TextAnswer are small constructors used by callers and tests.
func IntAnswer(n int) Answer { return Answer{Option: &n} }

func TextAnswer(s string) Answer { return Answer{Text: &s} }

// SubmitRequest is the payload for finishing an attempt. Missing keys
// mean "not answered".
type SubmitRequest struct {
	Answers map[string]Answer `json:"answers"`
}

// SubmitResult is returned to the candidate after a successful submission.
type SubmitResult struct {
	ScorePercentage float64 `json:"score_percentage"`
	Correct         int     `json:"correct"`
	TotalObjective  int     `json:"total_objective"`
	Late            bool    `json:"late"`
}

// TerminateRequest carries an optional, audit-only reason.
type TerminateRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=64"`
}
