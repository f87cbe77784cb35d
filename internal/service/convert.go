package service

import (
	"quiz_iq_backend/internal/grading"
	"quiz_iq_backend/internal/model"
)

// ToGradingQuestions 将存储的题目转换为评分引擎的类型化题目
func ToGradingQuestions(questions []model.Question) []grading.Question {
	out := make([]grading.Question, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		out = append(out, grading.NewQuestion(q.ID, q.QuestionType, q.OptionList(), q.CorrectAnswer))
	}
	return out
}

func ToBand(g model.IqGrade) grading.Band {
	return grading.Band{
		SubjectID:          g.SubjectID,
		MinScorePercentage: g.MinScorePercentage,
		MaxScorePercentage: g.MaxScorePercentage,
		MinIQ:              g.MinIQ,
		MaxIQ:              g.MaxIQ,
		Label:              g.Label,
	}
}

func ToBands(grades []model.IqGrade) []grading.Band {
	if len(grades) == 0 {
		return nil
	}
	bands := make([]grading.Band, len(grades))
	for i, g := range grades {
		bands[i] = ToBand(g)
	}
	return bands
}
