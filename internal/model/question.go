package model

import "encoding/json"

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeFillInGap      = "fill_in_gap"
)

// Question belongs to a quiz and optionally to a scenario.
// Options holds the choices for multiple_choice/true_false and the accepted
// answer variations for fill_in_gap.
// swagger:model Question
type Question struct {
	UUIDBase
	QuizID        string          `gorm:"index;type:varchar(36);not null" json:"quizId"`
	ScenarioID    *string         `gorm:"index;type:varchar(36)" json:"scenarioId"`
	QuestionText  string          `gorm:"type:text;not null" json:"questionText"`
	QuestionType  string          `gorm:"size:32;not null" json:"questionType"`
	Options       json.RawMessage `gorm:"type:json;not null" json:"options"`
	CorrectAnswer string          `gorm:"type:text;not null" json:"correctAnswer"`
	Explanation   *string         `gorm:"type:text" json:"explanation"`
	OrderIndex    int             `gorm:"not null" json:"orderIndex"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList decodes Options; malformed JSON yields an empty list.
func (q *Question) OptionList() []string {
	var opts []string
	if len(q.Options) == 0 {
		return opts
	}
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}
