// Package scoring computes the automated score of a submitted attempt.
// Only multiple-choice questions are scored; written answers are ignored.
package scoring

import (
	"math"

	"github.com/ironcrest/proctor-backend/internal/model"
)

// Result is the outcome of scoring one submission.
type Result struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Score counts multiple-choice answers whose option index equals the key.
// A missing answer, a text answer or an unkeyed question never counts as
// correct. Percentage is rounded to two decimals and is 0 when the paper
// has no multiple-choice questions.
func Score(questions []model.Question, answers map[string]model.Answer) Result {
	var res Result
	for _, q := range questions {
		if q.Type != model.QuestionTypeMultipleChoice {
			continue
		}
		res.Total++

		if q.CorrectOptionIndex == nil {
			continue
		}
		ans, ok := answers[q.ID]
		if !ok || ans.Option == nil {
			continue
		}
		if *ans.Option == *q.CorrectOptionIndex {
			res.Correct++
		}
	}

	res.Percentage = Percentage(res.Correct, res.Total)
	return res
}

// Percentage returns correct/total*100 rounded half away from zero to two decimals.
func Percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*10000) / 100
}
