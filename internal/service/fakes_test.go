package service

import (
	"context"
	"encoding/json"
	"fmt"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"
	"sort"
	"sync"
	"time"
)

var seq int

func nextID(prefix string) string {
	seq++
	return fmt.Sprintf("%s-%d", prefix, seq)
}

type fakeUsers struct{ byID map[string]*model.User }

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]*model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = nextID("user")
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, util.ErrUserNotFound
}

func (f *fakeUsers) FindByPhone(_ context.Context, phone string) (*model.User, error) {
	for _, u := range f.byID {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return nil, util.ErrUserNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *model.User) error {
	f.byID[u.ID] = u
	return nil
}

type fakeAdmins struct{ byID map[string]*model.Admin }

func newFakeAdmins() *fakeAdmins { return &fakeAdmins{byID: map[string]*model.Admin{}} }

func (f *fakeAdmins) Create(_ context.Context, a *model.Admin) error {
	if a.ID == "" {
		a.ID = nextID("admin")
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAdmins) Count(context.Context) (int64, error) { return int64(len(f.byID)), nil }

func (f *fakeAdmins) FindByID(_ context.Context, id string) (*model.Admin, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, util.ErrAdminNotFound
}

func (f *fakeAdmins) FindByUsername(_ context.Context, username string) (*model.Admin, error) {
	for _, a := range f.byID {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, util.ErrAdminNotFound
}

func (f *fakeAdmins) List(context.Context) ([]model.Admin, error) {
	var out []model.Admin
	for _, a := range f.byID {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAdmins) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

type fakeOtps struct {
	mu   sync.Mutex
	byID map[string]*model.OtpSession
}

func newFakeOtps() *fakeOtps { return &fakeOtps{byID: map[string]*model.OtpSession{}} }

func (f *fakeOtps) Create(_ context.Context, s *model.OtpSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		s.ID = nextID("otp")
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeOtps) FindByID(_ context.Context, id string) (*model.OtpSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, util.ErrInvalidOTP
}

func (f *fakeOtps) ConsumeAttempt(_ context.Context, id string, maxAttempts int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok || s.Attempts >= maxAttempts {
		return util.ErrOTPAttemptsExceeded
	}
	s.Attempts++
	return nil
}

func (f *fakeOtps) MarkVerified(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok || s.Verified {
		return util.ErrInvalidOTP
	}
	s.Verified = true
	return nil
}

type fakeSessions struct {
	mu        sync.Mutex
	sessions  map[string]string
	cooldowns map[string]bool
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]string{}, cooldowns: map[string]bool{}}
}

func (f *fakeSessions) Save(_ context.Context, sid, pid string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sid] = pid
	return nil
}

func (f *fakeSessions) Lookup(_ context.Context, sid string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[sid], nil
}

func (f *fakeSessions) Delete(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sid)
	return nil
}

func (f *fakeSessions) AcquireOTPCooldown(_ context.Context, phone string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cooldowns[phone] {
		return false, nil
	}
	f.cooldowns[phone] = true
	return true, nil
}

type fakeSubjects struct{ byID map[string]*model.Subject }

func newFakeSubjects(subjects ...*model.Subject) *fakeSubjects {
	f := &fakeSubjects{byID: map[string]*model.Subject{}}
	for _, s := range subjects {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSubjects) Create(_ context.Context, s *model.Subject) error {
	if s.ID == "" {
		s.ID = nextID("subject")
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSubjects) FindByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, util.ErrSubjectNotFound
}

func (f *fakeSubjects) List(context.Context, bool) ([]model.Subject, error) {
	var out []model.Subject
	for _, s := range f.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSubjects) Update(_ context.Context, s *model.Subject) error {
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSubjects) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

// fakeQuizzes 同时实现题目和材料存储，方便在一个测验上组合数据
type fakeQuizzes struct {
	quizzes   map[string]*model.Quiz
	questions map[string]*model.Question
	scenarios map[string]*model.Scenario
	subjects  *fakeSubjects
}

func newFakeQuizzes(subjects *fakeSubjects) *fakeQuizzes {
	return &fakeQuizzes{
		quizzes:   map[string]*model.Quiz{},
		questions: map[string]*model.Question{},
		scenarios: map[string]*model.Scenario{},
		subjects:  subjects,
	}
}

func (f *fakeQuizzes) Create(_ context.Context, q *model.Quiz) error {
	if q.ID == "" {
		q.ID = nextID("quiz")
	}
	f.quizzes[q.ID] = q
	return nil
}

func (f *fakeQuizzes) FindByID(_ context.Context, id string) (*model.Quiz, error) {
	if q, ok := f.quizzes[id]; ok {
		return q, nil
	}
	return nil, util.ErrQuizNotFound
}

func (f *fakeQuizzes) sortedQuestions(quizID string, filter func(*model.Question) bool) []model.Question {
	var out []model.Question
	for _, q := range f.questions {
		if q.QuizID == quizID && (filter == nil || filter(q)) {
			out = append(out, *q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func (f *fakeQuizzes) FindWithQuestions(ctx context.Context, id string) (*model.Quiz, error) {
	q, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := *q
	cp.Subject = f.subjects.byID[q.SubjectID]
	cp.Questions = f.sortedQuestions(id, nil)
	return &cp, nil
}

func (f *fakeQuizzes) FindForTaking(ctx context.Context, id string) (*model.Quiz, error) {
	cp, err := f.FindWithQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	sc, _ := f.ListScenariosByQuiz(id)
	cp.Scenarios = sc
	return cp, nil
}

func (f *fakeQuizzes) List(context.Context) ([]model.Quiz, error) {
	var out []model.Quiz
	for _, q := range f.quizzes {
		out = append(out, *q)
	}
	return out, nil
}

func (f *fakeQuizzes) Update(_ context.Context, q *model.Quiz) error {
	f.quizzes[q.ID] = q
	return nil
}

func (f *fakeQuizzes) Delete(_ context.Context, id string) error {
	delete(f.quizzes, id)
	return nil
}

func (f *fakeQuizzes) addQuestion(quizID, qType string, options []string, answer string) *model.Question {
	raw, _ := json.Marshal(options)
	q := &model.Question{
		QuizID:        quizID,
		QuestionText:  "Q",
		QuestionType:  qType,
		Options:       raw,
		CorrectAnswer: answer,
		OrderIndex:    len(f.sortedQuestions(quizID, nil)),
	}
	q.ID = nextID("question")
	f.questions[q.ID] = q
	return q
}

func (f *fakeQuizzes) ListScenariosByQuiz(quizID string) ([]model.Scenario, error) {
	var out []model.Scenario
	for _, s := range f.scenarios {
		if s.QuizID != quizID {
			continue
		}
		cp := *s
		sid := s.ID
		cp.Questions = f.sortedQuestions(quizID, func(q *model.Question) bool {
			return q.ScenarioID != nil && *q.ScenarioID == sid
		})
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

type fakeQuestions struct{ *fakeQuizzes }

func (f fakeQuestions) ListByQuiz(_ context.Context, quizID string) ([]model.Question, error) {
	return f.sortedQuestions(quizID, nil), nil
}

func (f fakeQuestions) CountByQuiz(_ context.Context, quizID string) (int64, error) {
	return int64(len(f.sortedQuestions(quizID, nil))), nil
}

func (f fakeQuestions) Create(_ context.Context, q *model.Question) error {
	if q.ID == "" {
		q.ID = nextID("question")
	}
	f.questions[q.ID] = q
	return nil
}

func (f fakeQuestions) FindByID(_ context.Context, id string) (*model.Question, error) {
	if q, ok := f.questions[id]; ok {
		return q, nil
	}
	return nil, util.ErrQuestionNotFound
}

func (f fakeQuestions) Update(_ context.Context, q *model.Question) error {
	f.questions[q.ID] = q
	return nil
}

func (f fakeQuestions) Delete(_ context.Context, id string) error {
	delete(f.questions, id)
	return nil
}

type fakeScenarios struct{ *fakeQuizzes }

func (f fakeScenarios) ListByQuiz(_ context.Context, quizID string) ([]model.Scenario, error) {
	return f.ListScenariosByQuiz(quizID)
}

func (f fakeScenarios) CountByQuiz(_ context.Context, quizID string) (int64, error) {
	s, _ := f.ListScenariosByQuiz(quizID)
	return int64(len(s)), nil
}

func (f fakeScenarios) Create(_ context.Context, s *model.Scenario) error {
	if s.ID == "" {
		s.ID = nextID("scenario")
	}
	f.scenarios[s.ID] = s
	return nil
}

func (f fakeScenarios) FindByID(_ context.Context, id string) (*model.Scenario, error) {
	if s, ok := f.scenarios[id]; ok {
		return s, nil
	}
	return nil, util.ErrScenarioNotFound
}

func (f fakeScenarios) Update(_ context.Context, s *model.Scenario) error {
	f.scenarios[s.ID] = s
	return nil
}

func (f fakeScenarios) Delete(_ context.Context, id string) error {
	for _, q := range f.questions {
		if q.ScenarioID != nil && *q.ScenarioID == id {
			q.ScenarioID = nil
		}
	}
	delete(f.scenarios, id)
	return nil
}

type fakeAttempts struct{ byID map[string]*model.QuizAttempt }

func newFakeAttempts() *fakeAttempts { return &fakeAttempts{byID: map[string]*model.QuizAttempt{}} }

func (f *fakeAttempts) Create(_ context.Context, a *model.QuizAttempt) error {
	if a.ID == "" {
		a.ID = nextID("attempt")
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAttempts) FindByID(_ context.Context, id string) (*model.QuizAttempt, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, util.ErrAttemptNotFound
}

func (f *fakeAttempts) ListByUser(_ context.Context, userID string) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for _, a := range f.byID {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttempts) ListAll(context.Context) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for _, a := range f.byID {
		out = append(out, *a)
	}
	return out, nil
}

type fakeGrades struct {
	byID         map[string]*model.IqGrade
	subjectCalls int
	globalCalls  int
}

func newFakeGrades(grades ...model.IqGrade) *fakeGrades {
	f := &fakeGrades{byID: map[string]*model.IqGrade{}}
	for i := range grades {
		g := grades[i]
		_ = f.Create(context.Background(), &g)
	}
	return f
}

func (f *fakeGrades) filter(keep func(*model.IqGrade) bool) []model.IqGrade {
	var out []model.IqGrade
	for _, g := range f.byID {
		if keep(g) {
			out = append(out, *g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinScorePercentage < out[j].MinScorePercentage })
	return out
}

func (f *fakeGrades) ListAll(context.Context) ([]model.IqGrade, error) {
	return f.filter(func(*model.IqGrade) bool { return true }), nil
}

func (f *fakeGrades) ListBySubject(_ context.Context, subjectID string) ([]model.IqGrade, error) {
	f.subjectCalls++
	return f.filter(func(g *model.IqGrade) bool { return g.SubjectID != nil && *g.SubjectID == subjectID }), nil
}

func (f *fakeGrades) ListGlobal(context.Context) ([]model.IqGrade, error) {
	f.globalCalls++
	return f.filter(func(g *model.IqGrade) bool { return g.SubjectID == nil }), nil
}

func (f *fakeGrades) Create(_ context.Context, g *model.IqGrade) error {
	if g.ID == "" {
		g.ID = nextID("grade")
	}
	f.byID[g.ID] = g
	return nil
}

func (f *fakeGrades) FindByID(_ context.Context, id string) (*model.IqGrade, error) {
	if g, ok := f.byID[id]; ok {
		return g, nil
	}
	return nil, util.ErrIqGradeNotFound
}

func (f *fakeGrades) Update(_ context.Context, g *model.IqGrade) error {
	f.byID[g.ID] = g
	return nil
}

func (f *fakeGrades) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

type fakePayments struct{ byRef map[string]*model.Payment }

func newFakePayments() *fakePayments { return &fakePayments{byRef: map[string]*model.Payment{}} }

func (f *fakePayments) Create(_ context.Context, p *model.Payment) error {
	if p.ID == "" {
		p.ID = nextID("payment")
	}
	f.byRef[p.Reference] = p
	return nil
}

func (f *fakePayments) FindByReference(_ context.Context, ref string) (*model.Payment, error) {
	if p, ok := f.byRef[ref]; ok {
		return p, nil
	}
	return nil, util.ErrPaymentNotFound
}

func (f *fakePayments) UpdateStatus(_ context.Context, ref, status string, resp json.RawMessage) error {
	p := f.byRef[ref]
	p.Status = status
	p.PaystackResponse = resp
	return nil
}

func (f *fakePayments) ListByUser(_ context.Context, userID string) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range f.byRef {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayments) ListAll(context.Context) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range f.byRef {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePayments) HasSuccessfulPayment(_ context.Context, userID string) (bool, error) {
	for _, p := range f.byRef {
		if p.UserID == userID && p.Status == model.PaymentSuccess {
			return true, nil
		}
	}
	return false, nil
}

type fakeSettings struct {
	settings *model.PaymentSettings
	saves    int
}

func (f *fakeSettings) Get(context.Context) (*model.PaymentSettings, error) { return f.settings, nil }

func (f *fakeSettings) Save(_ context.Context, s *model.PaymentSettings) error {
	f.saves++
	f.settings = s
	return nil
}

type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) Publish(eventType string, _ interface{}) error {
	p.events = append(p.events, eventType)
	return p.err
}

func (p *recordingPublisher) Close() {}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }
func boolp(b bool) *bool    { return &b }
