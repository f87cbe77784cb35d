package service

import (
	"context"
	"encoding/json"
	"fmt"
	"quiz_iq_backend/internal/grading"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"
	"strings"
)

type QuestionService struct {
	QuestionRepo QuestionStore
	ScenarioRepo ScenarioStore
	QuizRepo     QuizStore
}

func NewQuestionService(questionRepo QuestionStore, scenarioRepo ScenarioStore, quizRepo QuizStore) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		ScenarioRepo: scenarioRepo,
		QuizRepo:     quizRepo,
	}
}

type QuestionReq struct {
	QuestionText  *string  `json:"questionText"`
	QuestionType  *string  `json:"questionType"`
	Options       []string `json:"options"`
	CorrectAnswer *string  `json:"correctAnswer"`
	Explanation   *string  `json:"explanation"`
	ScenarioID    *string  `json:"scenarioId"`
	OrderIndex    *int     `json:"orderIndex"`
}

// NormalizeQuestion 校验并规范化题目的选项和答案：
// true_false 固定两个选项；选择题答案必须在选项中；填空题以第一个可接受答案作为标准答案
func NormalizeQuestion(questionType string, options []string, correctAnswer string) ([]string, string, error) {
	kind := grading.Kind(questionType)
	if !kind.Known() {
		return nil, "", fmt.Errorf("%w: unsupported question type %q", util.ErrInvalidQuestion, questionType)
	}

	switch kind {
	case grading.KindTrueFalse:
		opts := append([]string(nil), grading.TrueFalseOptions...)
		if !contains(opts, correctAnswer) {
			return nil, "", fmt.Errorf("%w: true_false answer must be True or False", util.ErrInvalidQuestion)
		}
		return opts, correctAnswer, nil

	case grading.KindFillInGap:
		var answers []string
		for _, o := range options {
			if v := strings.TrimSpace(o); v != "" {
				answers = append(answers, v)
			}
		}
		if len(answers) == 0 {
			if v := strings.TrimSpace(correctAnswer); v != "" {
				answers = []string{v}
			}
		}
		if len(answers) == 0 {
			return nil, "", fmt.Errorf("%w: fill_in_gap needs at least one acceptable answer", util.ErrInvalidQuestion)
		}
		return answers, answers[0], nil

	default:
		var opts []string
		for _, o := range options {
			if strings.TrimSpace(o) != "" {
				opts = append(opts, o)
			}
		}
		if len(opts) < 2 {
			return nil, "", fmt.Errorf("%w: multiple_choice needs at least two options", util.ErrInvalidQuestion)
		}
		if !contains(opts, correctAnswer) {
			return nil, "", fmt.Errorf("%w: correct answer must be one of the options", util.ErrInvalidQuestion)
		}
		return opts, correctAnswer, nil
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (s *QuestionService) ListByQuiz(ctx context.Context, quizID string) ([]model.Question, error) {
	if _, err := s.QuizRepo.FindByID(ctx, quizID); err != nil {
		return nil, err
	}
	return s.QuestionRepo.ListByQuiz(ctx, quizID)
}

// Create 新题目追加到末尾（orderIndex = 现有题目数）
func (s *QuestionService) Create(ctx context.Context, quizID string, req QuestionReq) (*model.Question, error) {
	if _, err := s.QuizRepo.FindByID(ctx, quizID); err != nil {
		return nil, err
	}
	if req.QuestionText == nil || req.QuestionType == nil {
		return nil, fmt.Errorf("%w: questionText and questionType are required", util.ErrInvalidQuestion)
	}

	count, err := s.QuestionRepo.CountByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	q := &model.Question{QuizID: quizID, OrderIndex: int(count)}
	if err := s.apply(ctx, q, req, true); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Update(ctx context.Context, id string, req QuestionReq) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, q, req, false); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, id string) error {
	if _, err := s.QuestionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.QuestionRepo.Delete(ctx, id)
}

func (s *QuestionService) apply(ctx context.Context, q *model.Question, req QuestionReq, creating bool) error {
	if req.QuestionText != nil {
		text := strings.TrimSpace(*req.QuestionText)
		if text == "" {
			return fmt.Errorf("%w: questionText is required", util.ErrInvalidQuestion)
		}
		q.QuestionText = text
	}
	if req.Explanation != nil {
		q.Explanation = req.Explanation
	}
	if req.OrderIndex != nil && !creating {
		q.OrderIndex = *req.OrderIndex
	}
	if req.ScenarioID != nil {
		if *req.ScenarioID == "" {
			q.ScenarioID = nil
		} else {
			sc, err := s.ScenarioRepo.FindByID(ctx, *req.ScenarioID)
			if err != nil {
				return err
			}
			if sc.QuizID != q.QuizID {
				return fmt.Errorf("%w: scenario belongs to another quiz", util.ErrInvalidQuestion)
			}
			id := sc.ID
			q.ScenarioID = &id
		}
	}

	// 类型、选项、答案任一变化都重新整体校验
	if creating || req.QuestionType != nil || req.Options != nil || req.CorrectAnswer != nil {
		qType := q.QuestionType
		if req.QuestionType != nil {
			qType = *req.QuestionType
		}
		options := q.OptionList()
		if req.Options != nil {
			options = req.Options
		}
		answer := q.CorrectAnswer
		if req.CorrectAnswer != nil {
			answer = *req.CorrectAnswer
		}

		opts, correct, err := NormalizeQuestion(qType, options, answer)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(opts)
		if err != nil {
			return err
		}
		q.QuestionType = qType
		q.Options = raw
		q.CorrectAnswer = correct
	}
	return nil
}

// ---- 阅读材料 ----

type ScenarioReq struct {
	Title      *string `json:"title"`
	Passage    *string `json:"passage"`
	OrderIndex *int    `json:"orderIndex"`
}

func (s *QuestionService) ListScenarios(ctx context.Context, quizID string) ([]model.Scenario, error) {
	if _, err := s.QuizRepo.FindByID(ctx, quizID); err != nil {
		return nil, err
	}
	return s.ScenarioRepo.ListByQuiz(ctx, quizID)
}

func (s *QuestionService) CreateScenario(ctx context.Context, quizID string, req ScenarioReq) (*model.Scenario, error) {
	if _, err := s.QuizRepo.FindByID(ctx, quizID); err != nil {
		return nil, err
	}
	if req.Passage == nil {
		return nil, fmt.Errorf("%w: passage is required", util.ErrInvalidSubmission)
	}
	count, err := s.ScenarioRepo.CountByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	sc := &model.Scenario{QuizID: quizID, OrderIndex: int(count)}
	if err := applyScenarioReq(sc, req); err != nil {
		return nil, err
	}
	if err := s.ScenarioRepo.Create(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *QuestionService) UpdateScenario(ctx context.Context, id string, req ScenarioReq) (*model.Scenario, error) {
	sc, err := s.ScenarioRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyScenarioReq(sc, req); err != nil {
		return nil, err
	}
	if err := s.ScenarioRepo.Update(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// DeleteScenario 材料下的题目保留为独立题目
func (s *QuestionService) DeleteScenario(ctx context.Context, id string) error {
	if _, err := s.ScenarioRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.ScenarioRepo.Delete(ctx, id)
}

func applyScenarioReq(sc *model.Scenario, req ScenarioReq) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			sc.Title = nil
		} else {
			sc.Title = &title
		}
	}
	if req.Passage != nil {
		passage := strings.TrimSpace(*req.Passage)
		if passage == "" {
			return fmt.Errorf("%w: passage is required", util.ErrInvalidSubmission)
		}
		sc.Passage = passage
	}
	if req.OrderIndex != nil {
		sc.OrderIndex = *req.OrderIndex
	}
	return nil
}
