package grading

import "strings"

// Kind is the stored question type.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindTrueFalse      Kind = "true_false"
	KindFillInGap      Kind = "fill_in_gap"
)

// Known reports whether k is one of the supported question types.
func (k Kind) Known() bool {
	switch k {
	case KindMultipleChoice, KindTrueFalse, KindFillInGap:
		return true
	}
	return false
}

// TrueFalseOptions are the fixed choices of a true_false question.
var TrueFalseOptions = []string{"True", "False"}

// Question is a gradable question. The concrete type decides how a submitted
// answer is matched.
type Question interface {
	QuestionID() string
	Matches(answer string) bool
}

// ChoiceQuestion covers multiple_choice and true_false questions. Unknown
// kinds are also represented as a ChoiceQuestion so they fall back to the
// exact-match rule.
type ChoiceQuestion struct {
	ID            string
	Kind          Kind
	Options       []string
	CorrectAnswer string
}

func (q ChoiceQuestion) QuestionID() string { return q.ID }

// Matches is exact: case-sensitive and untrimmed.
func (q ChoiceQuestion) Matches(answer string) bool {
	return answer == q.CorrectAnswer
}

// FillGapQuestion accepts any of its answer variations after trimming and
// lowercasing both sides.
type FillGapQuestion struct {
	ID                string
	AcceptableAnswers []string
}

func (q FillGapQuestion) QuestionID() string { return q.ID }

func (q FillGapQuestion) Matches(answer string) bool {
	got := normalize(answer)
	for _, v := range q.AcceptableAnswers {
		if normalize(v) == got {
			return true
		}
	}
	return false
}

// PrimaryAnswer is the canonical variation shown as "the" correct answer.
func (q FillGapQuestion) PrimaryAnswer() string {
	if len(q.AcceptableAnswers) == 0 {
		return ""
	}
	return q.AcceptableAnswers[0]
}

// NewQuestion builds the typed variant from a stored question row.
func NewQuestion(id, questionType string, options []string, correctAnswer string) Question {
	switch Kind(questionType) {
	case KindFillInGap:
		answers := options
		if len(answers) == 0 && correctAnswer != "" {
			answers = []string{correctAnswer}
		}
		return FillGapQuestion{ID: id, AcceptableAnswers: answers}
	case KindTrueFalse:
		return ChoiceQuestion{ID: id, Kind: KindTrueFalse, Options: TrueFalseOptions, CorrectAnswer: correctAnswer}
	default:
		return ChoiceQuestion{ID: id, Kind: Kind(questionType), Options: options, CorrectAnswer: correctAnswer}
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
