package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/service"
	"quiz_iq_backend/internal/util"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 只实现提交流程用到的方法，其余方法调用会 panic

type stubQuizzes struct {
	service.QuizStore
	quizzes map[string]*model.Quiz
}

func (s stubQuizzes) FindWithQuestions(_ context.Context, id string) (*model.Quiz, error) {
	if q, ok := s.quizzes[id]; ok {
		return q, nil
	}
	return nil, util.ErrQuizNotFound
}

type stubAttempts struct {
	service.AttemptStore
	saved []*model.QuizAttempt
}

func (s *stubAttempts) Create(_ context.Context, a *model.QuizAttempt) error {
	a.ID = "attempt-1"
	s.saved = append(s.saved, a)
	return nil
}

type stubGrades struct {
	service.IqGradeStore
	global []model.IqGrade
}

func (s stubGrades) ListBySubject(context.Context, string) ([]model.IqGrade, error) { return nil, nil }
func (s stubGrades) ListGlobal(context.Context) ([]model.IqGrade, error)           { return s.global, nil }

func mcQuestion(id, answer string) model.Question {
	q := model.Question{QuizID: "quiz-1", QuestionType: "multiple_choice", Options: json.RawMessage(`["a","b"]`), CorrectAnswer: answer}
	q.ID = id
	return q
}

func newQuizRouter(t *testing.T) (*gin.Engine, *stubAttempts) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	subject := &model.Subject{Name: "Logic"}
	subject.ID = "subject-1"
	quiz := &model.Quiz{SubjectID: subject.ID, Subject: subject, Title: "Logic", PassMarkPercentage: 50}
	quiz.ID = "quiz-1"
	quiz.Questions = []model.Question{mcQuestion("q1", "a"), mcQuestion("q2", "b")}
	empty := &model.Quiz{SubjectID: subject.ID, Subject: subject, Title: "Empty"}
	empty.ID = "quiz-empty"

	attempts := &stubAttempts{}
	grades := stubGrades{global: []model.IqGrade{
		{MinScorePercentage: 0, MaxScorePercentage: 39, MinIQ: 70, MaxIQ: 84, Label: "Below Average"},
		{MinScorePercentage: 40, MaxScorePercentage: 59, MinIQ: 85, MaxIQ: 99, Label: "Low Average"},
	}}
	svc := service.NewQuizService(
		stubQuizzes{quizzes: map[string]*model.Quiz{quiz.ID: quiz, empty.ID: empty}},
		nil, attempts, grades, nil, nil,
	)
	ctrl := NewQuizController(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(util.CtxUserID, "user-1")
		c.Next()
	})
	r.POST("/api/quizzes/:id/submit", ctrl.Submit)
	return r, attempts
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitReturnsResult(t *testing.T) {
	r, attempts := newQuizRouter(t)

	w := postJSON(r, "/api/quizzes/quiz-1/submit", `{"answers":{"q1":"a","q2":"a"},"markedForReview":["q2"],"timeSpentSeconds":42}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Code int          `json:"code"`
		Data SubmitResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "attempt-1", resp.Data.AttemptID)
	assert.Equal(t, 1, resp.Data.Score)
	assert.Equal(t, 2, resp.Data.TotalQuestions)
	assert.True(t, resp.Data.Passed)
	require.NotNil(t, resp.Data.IQScore)
	assert.Equal(t, 92, *resp.Data.IQScore)
	assert.Equal(t, "Low Average", *resp.Data.IQLabel)

	require.Len(t, attempts.saved, 1)
	assert.Equal(t, "user-1", attempts.saved[0].UserID)
	assert.Equal(t, 42, attempts.saved[0].TimeSpentSeconds)
}

func TestSubmitErrors(t *testing.T) {
	r, attempts := newQuizRouter(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"malformed body", "/api/quizzes/quiz-1/submit", `{"answers":`, http.StatusBadRequest},
		{"negative time", "/api/quizzes/quiz-1/submit", `{"answers":{},"timeSpentSeconds":-1}`, http.StatusBadRequest},
		{"unknown quiz", "/api/quizzes/nope/submit", `{"answers":{}}`, http.StatusNotFound},
		{"no questions", "/api/quizzes/quiz-empty/submit", `{"answers":{}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, attempts.saved)
}

func httptestRequest(r *gin.Engine, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
