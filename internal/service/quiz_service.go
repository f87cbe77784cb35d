package service

import (
	"context"
	"encoding/json"
	"fmt"
	"quiz_iq_backend/internal/grading"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"
	"quiz_iq_backend/pkg/events"
	"quiz_iq_backend/pkg/logger"
	"quiz_iq_backend/pkg/monitoring"
	"quiz_iq_backend/pkg/tracing"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type QuizService struct {
	QuizRepo    QuizStore
	SubjectRepo SubjectStore
	AttemptRepo AttemptStore
	GradeRepo   IqGradeStore
	PaymentRepo PaymentStore
	Publisher   events.Publisher
	now         func() time.Time
}

func NewQuizService(
	quizRepo QuizStore,
	subjectRepo SubjectStore,
	attemptRepo AttemptStore,
	gradeRepo IqGradeStore,
	paymentRepo PaymentStore,
	publisher events.Publisher,
) *QuizService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &QuizService{
		QuizRepo:    quizRepo,
		SubjectRepo: subjectRepo,
		AttemptRepo: attemptRepo,
		GradeRepo:   gradeRepo,
		PaymentRepo: paymentRepo,
		Publisher:   publisher,
		now:         time.Now,
	}
}

// SubmitQuizReq 缺失的题目按未作答处理
type SubmitQuizReq struct {
	Answers          map[string]string `json:"answers"`
	MarkedForReview  []string          `json:"markedForReview"`
	TimeSpentSeconds int               `json:"timeSpentSeconds"`
}

type AttemptCompletedEvent struct {
	AttemptID      string  `json:"attemptId"`
	UserID         string  `json:"userId"`
	QuizID         string  `json:"quizId"`
	SubjectID      string  `json:"subjectId"`
	Score          int     `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`
	Passed         bool    `json:"passed"`
	IQScore        *int    `json:"iqScore"`
	IQLabel        *string `json:"iqLabel"`
}

// Submit 评分、计算 IQ 并写入一条不可变的答题记录
func (s *QuizService) Submit(ctx context.Context, userID, quizID string, req SubmitQuizReq) (attempt *model.QuizAttempt, err error) {
	ctx, span := tracing.StartSpan(ctx, "QuizService.Submit",
		attribute.String("quiz.id", quizID),
		attribute.String("user.id", userID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if req.TimeSpentSeconds < 0 {
		return nil, fmt.Errorf("%w: timeSpentSeconds must not be negative", util.ErrInvalidSubmission)
	}

	quiz, err := s.QuizRepo.FindWithQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, util.ErrQuizHasNoQuestions
	}
	if err := s.checkAccess(ctx, userID, quiz); err != nil {
		return nil, err
	}

	result := grading.Score(ToGradingQuestions(quiz.Questions), req.Answers)
	for _, w := range result.Warnings {
		logger.Log.Warn("Unknown question type scored by exact match",
			logger.QuizID(quiz.ID),
			zap.String("detail", w),
		)
	}

	percentage, err := result.Percentage()
	if err != nil {
		return nil, err
	}
	passed := grading.Passed(percentage, quiz.PassMarkPercentage)

	iq, err := s.resolveIQ(ctx, quiz.SubjectID, percentage)
	if err != nil {
		return nil, fmt.Errorf("load iq grades: %w", err)
	}

	attempt, err = s.newAttempt(userID, quiz.ID, req, result, passed, iq)
	if err != nil {
		return nil, err
	}
	if err := s.AttemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	span.SetAttributes(
		attribute.Int("quiz.score", result.Score),
		attribute.Bool("quiz.passed", passed),
	)
	monitoring.RecordSubmission(passed, percentage, iq != nil)
	logger.Log.Debug("Quiz attempt recorded",
		logger.QuizID(quiz.ID),
		logger.AttemptID(attempt.ID),
		logger.UserID(userID),
		zap.Int("score", result.Score),
		zap.Bool("passed", passed),
	)
	s.publishCompleted(attempt, quiz.SubjectID, percentage)

	return attempt, nil
}

func (s *QuizService) newAttempt(userID, quizID string, req SubmitQuizReq, result grading.Result, passed bool, iq *grading.IQResult) (*model.QuizAttempt, error) {
	answers := req.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	marked := req.MarkedForReview
	if marked == nil {
		marked = []string{}
	}
	markedJSON, err := json.Marshal(marked)
	if err != nil {
		return nil, err
	}

	completedAt := s.now()
	attempt := &model.QuizAttempt{
		UserID:           userID,
		QuizID:           quizID,
		Answers:          answersJSON,
		MarkedForReview:  markedJSON,
		Score:            result.Score,
		TotalQuestions:   result.Total,
		Passed:           passed,
		TimeSpentSeconds: req.TimeSpentSeconds,
		StartedAt:        completedAt.Add(-time.Duration(req.TimeSpentSeconds) * time.Second),
		CompletedAt:      &completedAt,
	}
	if iq != nil {
		score, label := iq.Score, iq.Label
		attempt.IQScore = &score
		attempt.IQLabel = &label
	}
	return attempt, nil
}

// resolveIQ 科目等级存在时完全覆盖全局等级
func (s *QuizService) resolveIQ(ctx context.Context, subjectID string, percentage float64) (*grading.IQResult, error) {
	subjectGrades, err := s.GradeRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	var globalGrades []model.IqGrade
	if len(subjectGrades) == 0 {
		globalGrades, err = s.GradeRepo.ListGlobal(ctx)
		if err != nil {
			return nil, err
		}
	}

	bands := grading.ChooseBands(ToBands(subjectGrades), ToBands(globalGrades))
	return grading.ResolveIQ(percentage, bands), nil
}

func (s *QuizService) publishCompleted(attempt *model.QuizAttempt, subjectID string, percentage float64) {
	evt := AttemptCompletedEvent{
		AttemptID:      attempt.ID,
		UserID:         attempt.UserID,
		QuizID:         attempt.QuizID,
		SubjectID:      subjectID,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     percentage,
		Passed:         attempt.Passed,
		IQScore:        attempt.IQScore,
		IQLabel:        attempt.IQLabel,
	}
	if err := s.Publisher.Publish(events.AttemptCompleted, evt); err != nil {
		logger.Log.Warn("Failed to publish attempt event",
			logger.AttemptID(attempt.ID),
			zap.Error(err),
		)
	}
}

// checkAccess premium 科目需要用户有成功的支付记录
func (s *QuizService) checkAccess(ctx context.Context, userID string, quiz *model.Quiz) error {
	subject := quiz.Subject
	if subject == nil {
		var err error
		subject, err = s.SubjectRepo.FindByID(ctx, quiz.SubjectID)
		if err != nil {
			return err
		}
	}
	if !subject.IsPremium {
		return nil
	}

	paid, err := s.PaymentRepo.HasSuccessfulPayment(ctx, userID)
	if err != nil {
		return err
	}
	if !paid {
		return util.ErrPremiumRequired
	}
	return nil
}

// QuestionView 答题时下发的题目，不含答案
type QuestionView struct {
	ID            string   `json:"id"`
	ScenarioID    *string  `json:"scenarioId"`
	QuestionText  string   `json:"questionText"`
	QuestionType  string   `json:"questionType"`
	Options       []string `json:"options"`
	OrderIndex    int      `json:"orderIndex"`
	CorrectAnswer *string  `json:"correctAnswer,omitempty"`
	Explanation   *string  `json:"explanation,omitempty"`
}

type ScenarioView struct {
	ID         string         `json:"id"`
	Title      *string        `json:"title"`
	Passage    string         `json:"passage"`
	OrderIndex int            `json:"orderIndex"`
	Questions  []QuestionView `json:"questions"`
}

type QuizView struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Description        *string        `json:"description"`
	PassMarkPercentage int            `json:"passMarkPercentage"`
	TimeLimitMinutes   *int           `json:"timeLimitMinutes"`
	InstantFeedback    bool           `json:"instantFeedback"`
	RandomizeQuestions bool           `json:"randomizeQuestions"`
	Subject            *model.Subject `json:"subject"`
	Scenarios          []ScenarioView `json:"scenarios"`
	Questions          []QuestionView `json:"questions"`
}

// GetQuizForUser 返回答题视图。开启即时反馈的测验才下发答案和解析
func (s *QuizService) GetQuizForUser(ctx context.Context, userID, quizID string) (*QuizView, error) {
	quiz, err := s.QuizRepo.FindForTaking(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, userID, quiz); err != nil {
		return nil, err
	}

	view := &QuizView{
		ID:                 quiz.ID,
		Title:              quiz.Title,
		Description:        quiz.Description,
		PassMarkPercentage: quiz.PassMarkPercentage,
		TimeLimitMinutes:   quiz.TimeLimitMinutes,
		InstantFeedback:    quiz.InstantFeedback,
		RandomizeQuestions: quiz.RandomizeQuestions,
		Subject:            quiz.Subject,
		Scenarios:          []ScenarioView{},
		Questions:          []QuestionView{},
	}

	for _, sc := range quiz.Scenarios {
		sv := ScenarioView{
			ID:         sc.ID,
			Title:      sc.Title,
			Passage:    sc.Passage,
			OrderIndex: sc.OrderIndex,
			Questions:  make([]QuestionView, 0, len(sc.Questions)),
		}
		for i := range sc.Questions {
			sv.Questions = append(sv.Questions, toQuestionView(&sc.Questions[i], quiz.InstantFeedback))
		}
		view.Scenarios = append(view.Scenarios, sv)
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.ScenarioID != nil {
			continue
		}
		view.Questions = append(view.Questions, toQuestionView(q, quiz.InstantFeedback))
	}

	return view, nil
}

func toQuestionView(q *model.Question, withAnswer bool) QuestionView {
	v := QuestionView{
		ID:           q.ID,
		ScenarioID:   q.ScenarioID,
		QuestionText: q.QuestionText,
		QuestionType: q.QuestionType,
		Options:      q.OptionList(),
		OrderIndex:   q.OrderIndex,
	}
	// 填空题的 options 是可接受答案
	if grading.Kind(q.QuestionType) == grading.KindFillInGap {
		v.Options = []string{}
	}
	if v.Options == nil {
		v.Options = []string{}
	}
	if withAnswer {
		answer := q.CorrectAnswer
		v.CorrectAnswer = &answer
		v.Explanation = q.Explanation
	}
	return v
}

// GetAttempt 只能查看自己的答题记录，他人记录一律视为不存在
func (s *QuizService) GetAttempt(ctx context.Context, userID, attemptID string) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *QuizService) ListUserAttempts(ctx context.Context, userID string) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByUser(ctx, userID)
}

func (s *QuizService) ListAllAttempts(ctx context.Context) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListAll(ctx)
}

// ---- 管理端 ----

type QuizReq struct {
	SubjectID          *string `json:"subjectId"`
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	PassMarkPercentage *int    `json:"passMarkPercentage"`
	TimeLimitMinutes   *int    `json:"timeLimitMinutes"`
	InstantFeedback    *bool   `json:"instantFeedback"`
	RandomizeQuestions *bool   `json:"randomizeQuestions"`
}

func (s *QuizService) ListQuizzes(ctx context.Context) ([]model.Quiz, error) {
	return s.QuizRepo.List(ctx)
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*model.Quiz, error) {
	return s.QuizRepo.FindByID(ctx, id)
}

func (s *QuizService) CreateQuiz(ctx context.Context, req QuizReq) (*model.Quiz, error) {
	quiz := &model.Quiz{PassMarkPercentage: 50}
	if req.SubjectID == nil || *req.SubjectID == "" {
		return nil, fmt.Errorf("%w: subjectId is required", util.ErrInvalidSubmission)
	}
	if req.Title == nil {
		return nil, fmt.Errorf("%w: title is required", util.ErrInvalidSubmission)
	}
	if err := s.applyQuizReq(ctx, quiz, req); err != nil {
		return nil, err
	}
	if err := s.QuizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, id string, req QuizReq) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyQuizReq(ctx, quiz, req); err != nil {
		return nil, err
	}
	if err := s.QuizRepo.Update(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, id string) error {
	if _, err := s.QuizRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.QuizRepo.Delete(ctx, id)
}

func (s *QuizService) applyQuizReq(ctx context.Context, quiz *model.Quiz, req QuizReq) error {
	if req.SubjectID != nil {
		if _, err := s.SubjectRepo.FindByID(ctx, *req.SubjectID); err != nil {
			return err
		}
		quiz.SubjectID = *req.SubjectID
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", util.ErrInvalidSubmission)
		}
		quiz.Title = title
	}
	if req.Description != nil {
		quiz.Description = req.Description
	}
	if req.PassMarkPercentage != nil {
		if *req.PassMarkPercentage < 0 || *req.PassMarkPercentage > 100 {
			return fmt.Errorf("%w: passMarkPercentage must be between 0 and 100", util.ErrInvalidSubmission)
		}
		quiz.PassMarkPercentage = *req.PassMarkPercentage
	}
	if req.TimeLimitMinutes != nil {
		if *req.TimeLimitMinutes <= 0 {
			quiz.TimeLimitMinutes = nil
		} else {
			quiz.TimeLimitMinutes = req.TimeLimitMinutes
		}
	}
	if req.InstantFeedback != nil {
		quiz.InstantFeedback = *req.InstantFeedback
	}
	if req.RandomizeQuestions != nil {
		quiz.RandomizeQuestions = *req.RandomizeQuestions
	}
	return nil
}
