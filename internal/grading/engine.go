package grading

import (
	"errors"
	"fmt"
)

var ErrNoQuestions = errors.New("quiz has no questions")

// Result is the outcome of scoring one submission.
type Result struct {
	Score    int
	Total    int
	Correct  map[string]bool
	Warnings []string
}

// Score grades every question against answers. Unanswered questions are
// absent from answers and count as incorrect. Inputs are not modified.
func Score(questions []Question, answers map[string]string) Result {
	res := Result{
		Total:   len(questions),
		Correct: make(map[string]bool, len(questions)),
	}

	for _, q := range questions {
		if cq, ok := q.(ChoiceQuestion); ok && !cq.Kind.Known() {
			res.Warnings = append(res.Warnings, fmt.Sprintf("question %s has unknown type %q, graded by exact match", cq.ID, cq.Kind))
		}

		answer, answered := answers[q.QuestionID()]
		correct := answered && q.Matches(answer)
		res.Correct[q.QuestionID()] = correct
		if correct {
			res.Score++
		}
	}

	return res
}

// Percentage is score*100/total. Multiplying first keeps whole-number
// percentages exact, so inclusive pass marks and band edges compare equal.
// A quiz without questions has no defined percentage.
func (r Result) Percentage() (float64, error) {
	if r.Total == 0 {
		return 0, ErrNoQuestions
	}
	return float64(r.Score*100) / float64(r.Total), nil
}

// Passed compares a percentage with the quiz pass mark, inclusive.
func Passed(percentage float64, passMarkPercentage int) bool {
	return percentage >= float64(passMarkPercentage)
}
