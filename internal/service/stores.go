package service

import (
	"context"
	"encoding/json"
	"quiz_iq_backend/internal/model"
	"time"
)

// 服务层依赖的存储接口，由 repository 包实现，测试中使用内存实现

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type AdminStore interface {
	Create(ctx context.Context, admin *model.Admin) error
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (*model.Admin, error)
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	List(ctx context.Context) ([]model.Admin, error)
	Delete(ctx context.Context, id string) error
}

type OtpStore interface {
	Create(ctx context.Context, session *model.OtpSession) error
	FindByID(ctx context.Context, id string) (*model.OtpSession, error)
	ConsumeAttempt(ctx context.Context, id string, maxAttempts int) error
	MarkVerified(ctx context.Context, id string) error
}

type SessionStore interface {
	Save(ctx context.Context, sessionID, principalID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
	AcquireOTPCooldown(ctx context.Context, phone string, ttl time.Duration) (bool, error)
}

type SubjectStore interface {
	Create(ctx context.Context, subject *model.Subject) error
	FindByID(ctx context.Context, id string) (*model.Subject, error)
	List(ctx context.Context, withQuizzes bool) ([]model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id string) error
}

type QuizStore interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	FindByID(ctx context.Context, id string) (*model.Quiz, error)
	FindWithQuestions(ctx context.Context, id string) (*model.Quiz, error)
	FindForTaking(ctx context.Context, id string) (*model.Quiz, error)
	List(ctx context.Context) ([]model.Quiz, error)
	Update(ctx context.Context, quiz *model.Quiz) error
	Delete(ctx context.Context, id string) error
}

type QuestionStore interface {
	ListByQuiz(ctx context.Context, quizID string) ([]model.Question, error)
	CountByQuiz(ctx context.Context, quizID string) (int64, error)
	Create(ctx context.Context, q *model.Question) error
	FindByID(ctx context.Context, id string) (*model.Question, error)
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id string) error
}

type ScenarioStore interface {
	ListByQuiz(ctx context.Context, quizID string) ([]model.Scenario, error)
	CountByQuiz(ctx context.Context, quizID string) (int64, error)
	Create(ctx context.Context, s *model.Scenario) error
	FindByID(ctx context.Context, id string) (*model.Scenario, error)
	Update(ctx context.Context, s *model.Scenario) error
	Delete(ctx context.Context, id string) error
}

// AttemptStore 没有 Update：答题记录写入后不可修改
type AttemptStore interface {
	Create(ctx context.Context, attempt *model.QuizAttempt) error
	FindByID(ctx context.Context, id string) (*model.QuizAttempt, error)
	ListByUser(ctx context.Context, userID string) ([]model.QuizAttempt, error)
	ListAll(ctx context.Context) ([]model.QuizAttempt, error)
}

type IqGradeStore interface {
	ListAll(ctx context.Context) ([]model.IqGrade, error)
	ListBySubject(ctx context.Context, subjectID string) ([]model.IqGrade, error)
	ListGlobal(ctx context.Context) ([]model.IqGrade, error)
	Create(ctx context.Context, g *model.IqGrade) error
	FindByID(ctx context.Context, id string) (*model.IqGrade, error)
	Update(ctx context.Context, g *model.IqGrade) error
	Delete(ctx context.Context, id string) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByReference(ctx context.Context, reference string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, reference, status string, response json.RawMessage) error
	ListByUser(ctx context.Context, userID string) ([]model.Payment, error)
	ListAll(ctx context.Context) ([]model.Payment, error)
	HasSuccessfulPayment(ctx context.Context, userID string) (bool, error)
}

type PaymentSettingsStore interface {
	Get(ctx context.Context) (*model.PaymentSettings, error)
	Save(ctx context.Context, s *model.PaymentSettings) error
}
