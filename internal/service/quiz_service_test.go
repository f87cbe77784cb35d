package service

import (
	"context"
	"encoding/json"
	"errors"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"
	"quiz_iq_backend/pkg/events"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quizFixture struct {
	svc       *QuizService
	subjects  *fakeSubjects
	quizzes   *fakeQuizzes
	attempts  *fakeAttempts
	grades    *fakeGrades
	payments  *fakePayments
	publisher *recordingPublisher
	quiz      *model.Quiz
}

func globalGrades() []model.IqGrade {
	return []model.IqGrade{
		{MinScorePercentage: 0, MaxScorePercentage: 39, MinIQ: 70, MaxIQ: 84, Label: "Below Average"},
		{MinScorePercentage: 40, MaxScorePercentage: 59, MinIQ: 85, MaxIQ: 99, Label: "Low Average"},
		{MinScorePercentage: 60, MaxScorePercentage: 74, MinIQ: 100, MaxIQ: 114, Label: "Average"},
		{MinScorePercentage: 75, MaxScorePercentage: 84, MinIQ: 115, MaxIQ: 129, Label: "Above Average"},
		{MinScorePercentage: 85, MaxScorePercentage: 94, MinIQ: 130, MaxIQ: 144, Label: "Superior"},
		{MinScorePercentage: 95, MaxScorePercentage: 100, MinIQ: 145, MaxIQ: 160, Label: "Genius"},
	}
}

func newQuizFixture(t *testing.T, premium bool, grades ...model.IqGrade) *quizFixture {
	t.Helper()
	subject := &model.Subject{Name: "Logic", IsPremium: premium}
	subject.ID = "subject-x"
	subjects := newFakeSubjects(subject)
	quizzes := newFakeQuizzes(subjects)

	quiz := &model.Quiz{SubjectID: subject.ID, Title: "Basics", PassMarkPercentage: 70}
	require.NoError(t, quizzes.Create(context.Background(), quiz))

	f := &quizFixture{
		subjects:  subjects,
		quizzes:   quizzes,
		attempts:  newFakeAttempts(),
		grades:    newFakeGrades(grades...),
		payments:  newFakePayments(),
		publisher: &recordingPublisher{},
		quiz:      quiz,
	}
	f.svc = NewQuizService(quizzes, subjects, f.attempts, f.grades, f.payments, f.publisher)
	f.svc.now = func() time.Time { return time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC) }
	return f
}

// addChoiceQuestions 添加 n 道答案为 "ok" 的选择题
func (f *quizFixture) addChoiceQuestions(n int) []*model.Question {
	var qs []*model.Question
	for i := 0; i < n; i++ {
		qs = append(qs, f.quizzes.addQuestion(f.quiz.ID, model.QuestionTypeMultipleChoice, []string{"ok", "no"}, "ok"))
	}
	return qs
}

func answerFirst(qs []*model.Question, n int) map[string]string {
	answers := map[string]string{}
	for i, q := range qs {
		if i < n {
			answers[q.ID] = "ok"
		} else {
			answers[q.ID] = "no"
		}
	}
	return answers
}

func TestSubmitPersistsAttemptWithIQ(t *testing.T) {
	f := newQuizFixture(t, false, globalGrades()...)
	qs := f.addChoiceQuestions(10)

	attempt, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{
		Answers:          answerFirst(qs, 7),
		MarkedForReview:  []string{qs[0].ID},
		TimeSpentSeconds: 90,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, attempt.Score)
	assert.Equal(t, 10, attempt.TotalQuestions)
	assert.True(t, attempt.Passed)
	require.NotNil(t, attempt.IQScore)
	require.NotNil(t, attempt.IQLabel)
	// 70% -> Average band: 100 + 10/14*14 = 110
	assert.Equal(t, 110, *attempt.IQScore)
	assert.Equal(t, "Average", *attempt.IQLabel)
	assert.Equal(t, 90, attempt.TimeSpentSeconds)
	require.NotNil(t, attempt.CompletedAt)
	assert.Equal(t, 90*time.Second, attempt.CompletedAt.Sub(attempt.StartedAt))

	var marked []string
	require.NoError(t, json.Unmarshal(attempt.MarkedForReview, &marked))
	assert.Equal(t, []string{qs[0].ID}, marked)

	stored, err := f.attempts.FindByID(context.Background(), attempt.ID)
	require.NoError(t, err)
	assert.Same(t, attempt, stored)
	assert.Equal(t, []string{events.AttemptCompleted}, f.publisher.events)
}

func TestSubmitBelowPassMark(t *testing.T) {
	f := newQuizFixture(t, false, globalGrades()...)
	qs := f.addChoiceQuestions(10)

	attempt, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{Answers: answerFirst(qs, 6)})
	require.NoError(t, err)

	assert.False(t, attempt.Passed)
	assert.Equal(t, 6, attempt.Score)
}

func TestSubmitMissingAnswersCountAsIncorrect(t *testing.T) {
	f := newQuizFixture(t, false, globalGrades()...)
	qs := f.addChoiceQuestions(4)

	attempt, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{
		Answers: map[string]string{qs[0].ID: "ok"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, attempt.Score)
	assert.Equal(t, 4, attempt.TotalQuestions)
}

func TestSubmitRejectsQuizWithoutQuestions(t *testing.T) {
	f := newQuizFixture(t, false, globalGrades()...)

	_, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{})

	assert.ErrorIs(t, err, util.ErrQuizHasNoQuestions)
	assert.Empty(t, f.attempts.byID)
	assert.Empty(t, f.publisher.events)
}

func TestSubmitRejectsNegativeTime(t *testing.T) {
	f := newQuizFixture(t, false)
	f.addChoiceQuestions(1)

	_, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{TimeSpentSeconds: -1})

	assert.ErrorIs(t, err, util.ErrInvalidSubmission)
}

func TestSubmitUnknownQuiz(t *testing.T) {
	f := newQuizFixture(t, false)

	_, err := f.svc.Submit(context.Background(), "user-1", "missing", SubmitQuizReq{})

	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestSubmitSubjectBandsShadowGlobal(t *testing.T) {
	grades := append(globalGrades(), model.IqGrade{
		SubjectID: strp("subject-x"), MinScorePercentage: 0, MaxScorePercentage: 50, MinIQ: 80, MaxIQ: 100, Label: "Subject",
	})
	f := newQuizFixture(t, false, grades...)
	qs := f.addChoiceQuestions(4)

	// 75% 不在科目等级范围内，也不回退到全局等级
	attempt, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{Answers: answerFirst(qs, 3)})
	require.NoError(t, err)
	assert.Nil(t, attempt.IQScore)
	assert.Nil(t, attempt.IQLabel)
	assert.Equal(t, 0, f.grades.globalCalls)

	attempt, err = f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{Answers: answerFirst(qs, 1)})
	require.NoError(t, err)
	require.NotNil(t, attempt.IQLabel)
	assert.Equal(t, "Subject", *attempt.IQLabel)
	assert.Equal(t, 90, *attempt.IQScore)
}

func TestSubmitWithoutAnyBands(t *testing.T) {
	f := newQuizFixture(t, false)
	qs := f.addChoiceQuestions(2)

	attempt, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{Answers: answerFirst(qs, 2)})
	require.NoError(t, err)

	assert.True(t, attempt.Passed)
	assert.Nil(t, attempt.IQScore)
	assert.Nil(t, attempt.IQLabel)
}

func TestSubmitGradesMixedQuestionTypes(t *testing.T) {
	f := newQuizFixture(t, false, globalGrades()...)
	mc := f.quizzes.addQuestion(f.quiz.ID, model.QuestionTypeMultipleChoice, []string{"2", "3", "4"}, "4")
	tf := f.quizzes.addQuestion(f.quiz.ID, model.QuestionTypeTrueFalse, nil, "True")
	gap := f.quizzes.addQuestion(f.quiz.ID, model.QuestionTypeFillInGap, []string{"Paris", "paris "}, "Paris")

	attempt, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{
		Answers: map[string]string{mc.ID: "4", tf.ID: "true", gap.ID: "  PARIS"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, attempt.Score)
	assert.Equal(t, 3, attempt.TotalQuestions)
}

func TestSubmitPremiumRequiresPayment(t *testing.T) {
	f := newQuizFixture(t, true, globalGrades()...)
	qs := f.addChoiceQuestions(2)

	_, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{Answers: answerFirst(qs, 2)})
	assert.ErrorIs(t, err, util.ErrPremiumRequired)

	require.NoError(t, f.payments.Create(context.Background(), &model.Payment{
		UserID: "user-1", Reference: "PAY_1", Amount: 5000, Status: model.PaymentSuccess,
	}))

	attempt, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{Answers: answerFirst(qs, 2)})
	require.NoError(t, err)
	assert.Equal(t, 2, attempt.Score)
}

func TestSubmitSucceedsWhenPublishFails(t *testing.T) {
	f := newQuizFixture(t, false, globalGrades()...)
	qs := f.addChoiceQuestions(1)
	f.publisher.err = errors.New("broker down")

	attempt, err := f.svc.Submit(context.Background(), "user-1", f.quiz.ID, SubmitQuizReq{Answers: answerFirst(qs, 1)})

	require.NoError(t, err)
	assert.NotEmpty(t, attempt.ID)
}

func TestGetQuizForUserHidesAnswers(t *testing.T) {
	f := newQuizFixture(t, false)
	sc := &model.Scenario{QuizID: f.quiz.ID, Passage: "Read this"}
	require.NoError(t, fakeScenarios{f.quizzes}.Create(context.Background(), sc))

	inScenario := f.quizzes.addQuestion(f.quiz.ID, model.QuestionTypeMultipleChoice, []string{"a", "b"}, "a")
	inScenario.ScenarioID = &sc.ID
	f.quizzes.addQuestion(f.quiz.ID, model.QuestionTypeFillInGap, []string{"Lagos", "lagos"}, "Lagos")

	view, err := f.svc.GetQuizForUser(context.Background(), "user-1", f.quiz.ID)
	require.NoError(t, err)

	require.Len(t, view.Scenarios, 1)
	require.Len(t, view.Scenarios[0].Questions, 1)
	assert.Equal(t, []string{"a", "b"}, view.Scenarios[0].Questions[0].Options)
	assert.Nil(t, view.Scenarios[0].Questions[0].CorrectAnswer)

	require.Len(t, view.Questions, 1)
	assert.Empty(t, view.Questions[0].Options)
	assert.Nil(t, view.Questions[0].CorrectAnswer)
}

func TestGetQuizForUserInstantFeedbackIncludesAnswers(t *testing.T) {
	f := newQuizFixture(t, false)
	f.quiz.InstantFeedback = true
	f.quizzes.addQuestion(f.quiz.ID, model.QuestionTypeTrueFalse, nil, "False")

	view, err := f.svc.GetQuizForUser(context.Background(), "user-1", f.quiz.ID)
	require.NoError(t, err)

	require.Len(t, view.Questions, 1)
	require.NotNil(t, view.Questions[0].CorrectAnswer)
	assert.Equal(t, "False", *view.Questions[0].CorrectAnswer)
}

func TestGetAttemptOwnerOnly(t *testing.T) {
	f := newQuizFixture(t, false)
	attempt := &model.QuizAttempt{UserID: "owner", QuizID: f.quiz.ID}
	require.NoError(t, f.attempts.Create(context.Background(), attempt))

	got, err := f.svc.GetAttempt(context.Background(), "owner", attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, attempt.ID, got.ID)

	_, err = f.svc.GetAttempt(context.Background(), "intruder", attempt.ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestCreateQuizValidation(t *testing.T) {
	f := newQuizFixture(t, false)

	_, err := f.svc.CreateQuiz(context.Background(), QuizReq{SubjectID: strp("nope"), Title: strp("T")})
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)

	_, err = f.svc.CreateQuiz(context.Background(), QuizReq{SubjectID: strp("subject-x"), Title: strp("T"), PassMarkPercentage: intp(120)})
	assert.ErrorIs(t, err, util.ErrInvalidSubmission)

	quiz, err := f.svc.CreateQuiz(context.Background(), QuizReq{SubjectID: strp("subject-x"), Title: strp(" New quiz ")})
	require.NoError(t, err)
	assert.Equal(t, "New quiz", quiz.Title)
	assert.Equal(t, 50, quiz.PassMarkPercentage)

	updated, err := f.svc.UpdateQuiz(context.Background(), quiz.ID, QuizReq{InstantFeedback: boolp(true), TimeLimitMinutes: intp(15)})
	require.NoError(t, err)
	assert.True(t, updated.InstantFeedback)
	require.NotNil(t, updated.TimeLimitMinutes)
	assert.Equal(t, 15, *updated.TimeLimitMinutes)
}
