package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"quiz_iq_backend/internal/config"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"
	"quiz_iq_backend/pkg/logger"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// OTP 验证后免验证码登录的有效期
const otpLoginWindow = 28 * 24 * time.Hour

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

type AuthService struct {
	UserRepo  UserStore
	AdminRepo AdminStore
	OtpRepo   OtpStore
	Sessions  SessionStore
	Sender    OTPSender
	Cfg       *config.Config
	now       func() time.Time
}

func NewAuthService(userRepo UserStore, adminRepo AdminStore, otpRepo OtpStore, sessions SessionStore, sender OTPSender, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:  userRepo,
		AdminRepo: adminRepo,
		OtpRepo:   otpRepo,
		Sessions:  sessions,
		Sender:    sender,
		Cfg:       cfg,
		now:       time.Now,
	}
}

// IssuedSession 已签发的会话令牌，由控制器写入 Cookie
type IssuedSession struct {
	Token  string
	MaxAge time.Duration
}

type SendOTPResult struct {
	SessionID    string `json:"sessionId"`
	RequiresName bool   `json:"requiresName"`
	Channel      string `json:"channel"`
}

func NormalizePhone(phone string) (string, error) {
	p := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	if !phonePattern.MatchString(p) {
		return "", util.ErrInvalidPhoneNumber
	}
	return p, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *AuthService) SendOTP(ctx context.Context, phoneNumber string) (*SendOTPResult, error) {
	phone, err := NormalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}

	cooldown := time.Duration(s.Cfg.OTP.ResendCooldownSecs) * time.Second
	if cooldown > 0 {
		ok, err := s.Sessions.AcquireOTPCooldown(ctx, phone, cooldown)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, util.ErrOTPCooldown
		}
	}

	requiresName := true
	user, err := s.UserRepo.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		requiresName = !user.HasName()
	case !errors.Is(err, util.ErrUserNotFound):
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}
	session := &model.OtpSession{
		PhoneNumber: phone,
		OTP:         otp,
		ExpiresAt:   s.now().Add(time.Duration(s.Cfg.OTP.ExpiryMinutes) * time.Minute),
	}
	if err := s.OtpRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	channel, err := s.Sender.Send(ctx, phone, otp)
	if err != nil {
		logger.Log.Error("OTP delivery failed", logger.Phone(phone), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrOTPDelivery, err)
	}

	logger.Log.Info("OTP sent", logger.Phone(phone), zap.String("channel", channel))
	return &SendOTPResult{
		SessionID:    session.ID,
		RequiresName: requiresName,
		Channel:      channel,
	}, nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, sessionID, otp, name string) (*model.User, *IssuedSession, error) {
	session, err := s.OtpRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	now := s.now()
	if session.Verified || session.Expired(now) {
		return nil, nil, util.ErrInvalidOTP
	}
	if err := s.OtpRepo.ConsumeAttempt(ctx, session.ID, util.MaxOTPAttempts); err != nil {
		if errors.Is(err, util.ErrOTPAttemptsExceeded) {
			logger.Log.Warn("OTP attempts exhausted", logger.Phone(session.PhoneNumber))
		}
		return nil, nil, err
	}
	if subtle.ConstantTimeCompare([]byte(session.OTP), []byte(otp)) != 1 {
		return nil, nil, util.ErrInvalidOTP
	}
	if err := s.OtpRepo.MarkVerified(ctx, session.ID); err != nil {
		return nil, nil, err
	}

	name = strings.TrimSpace(name)
	user, err := s.UserRepo.FindByPhone(ctx, session.PhoneNumber)
	switch {
	case errors.Is(err, util.ErrUserNotFound):
		user = &model.User{
			PhoneNumber:       session.PhoneNumber,
			IsVerified:        true,
			LastOtpVerifiedAt: &now,
		}
		if name != "" {
			user.Name = &name
		}
		if err := s.UserRepo.Create(ctx, user); err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	default:
		user.IsVerified = true
		user.LastOtpVerifiedAt = &now
		if name != "" && !user.HasName() {
			user.Name = &name
		}
		if err := s.UserRepo.Update(ctx, user); err != nil {
			return nil, nil, err
		}
	}

	issued, err := s.issueSession(ctx, user.ID, util.SessionKindUser, s.Cfg.Session.UserExpire)
	if err != nil {
		return nil, nil, err
	}
	return user, issued, nil
}

// LoginWithoutOTP 最近 28 天内完成过 OTP 验证的用户可直接登录
func (s *AuthService) LoginWithoutOTP(ctx context.Context, phoneNumber string) (*model.User, *IssuedSession, error) {
	phone, err := NormalizePhone(phoneNumber)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.UserRepo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return nil, nil, util.ErrOTPRequired
		}
		return nil, nil, err
	}
	if !user.IsVerified || user.LastOtpVerifiedAt == nil || user.LastOtpVerifiedAt.Before(s.now().Add(-otpLoginWindow)) {
		return nil, nil, util.ErrOTPRequired
	}

	issued, err := s.issueSession(ctx, user.ID, util.SessionKindUser, s.Cfg.Session.UserExpire)
	if err != nil {
		return nil, nil, err
	}
	return user, issued, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", util.ErrInvalidSubmission)
	}
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = &name
	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ---- 管理员 ----

func (s *AuthService) SetupNeeded(ctx context.Context) (bool, error) {
	count, err := s.AdminRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func validateAdminCredentials(username, password string) error {
	if len(strings.TrimSpace(username)) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters", util.ErrInvalidSubmission)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", util.ErrInvalidSubmission)
	}
	return nil
}

// SetupAdmin 仅在系统中没有任何管理员时创建首个超级管理员
func (s *AuthService) SetupAdmin(ctx context.Context, username, password string) (*model.Admin, error) {
	needed, err := s.SetupNeeded(ctx)
	if err != nil {
		return nil, err
	}
	if !needed {
		return nil, util.ErrSetupCompleted
	}
	return s.createAdmin(ctx, username, password, true, nil)
}

func (s *AuthService) CreateAdmin(ctx context.Context, creatorID, username, password string) (*model.Admin, error) {
	return s.createAdmin(ctx, username, password, false, &creatorID)
}

func (s *AuthService) createAdmin(ctx context.Context, username, password string, super bool, creatorID *string) (*model.Admin, error) {
	if err := validateAdminCredentials(username, password); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)

	if _, err := s.AdminRepo.FindByUsername(ctx, username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, util.ErrAdminNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &model.Admin{
		Username:     username,
		Password:     string(hashed),
		IsSuperAdmin: super,
		CreatedByID:  creatorID,
	}
	if err := s.AdminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*model.Admin, *IssuedSession, error) {
	admin, err := s.AdminRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, util.ErrAdminNotFound) {
			return nil, nil, util.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, nil, util.ErrInvalidCredentials
	}

	issued, err := s.issueSession(ctx, admin.ID, util.SessionKindAdmin, s.Cfg.Session.AdminExpire)
	if err != nil {
		return nil, nil, err
	}
	return admin, issued, nil
}

func (s *AuthService) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	return s.AdminRepo.List(ctx)
}

// DeleteAdmin 不能删除自己，也不能删除超级管理员
func (s *AuthService) DeleteAdmin(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return util.ErrPermissionDenied
	}
	target, err := s.AdminRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.IsSuperAdmin {
		return util.ErrPermissionDenied
	}
	return s.AdminRepo.Delete(ctx, id)
}

// ---- 会话 ----

func (s *AuthService) issueSession(ctx context.Context, principalID, kind string, ttl time.Duration) (*IssuedSession, error) {
	sessionID := uuid.NewString()
	if err := s.Sessions.Save(ctx, sessionID, principalID, ttl); err != nil {
		return nil, err
	}
	token, err := util.GenerateSessionToken(sessionID, principalID, kind, s.Cfg.Session.Secret, ttl)
	if err != nil {
		return nil, err
	}
	return &IssuedSession{Token: token, MaxAge: ttl}, nil
}

// authenticate 令牌签名有效且服务端会话仍存在时返回主体 ID
func (s *AuthService) authenticate(ctx context.Context, token, kind string) (string, error) {
	claims, err := util.ParseSessionToken(token, s.Cfg.Session.Secret)
	if err != nil || claims.Kind != kind {
		return "", util.ErrSessionInvalid
	}
	principal, err := s.Sessions.Lookup(ctx, claims.SessionID)
	if err != nil {
		return "", err
	}
	if principal == "" || principal != claims.PrincipalID {
		return "", util.ErrSessionInvalid
	}
	return principal, nil
}

func (s *AuthService) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.authenticate(ctx, token, util.SessionKindUser)
	if err != nil {
		return nil, err
	}
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return nil, util.ErrSessionInvalid
		}
		return nil, err
	}
	if !user.IsVerified {
		return nil, util.ErrSessionInvalid
	}
	return user, nil
}

func (s *AuthService) ResolveAdmin(ctx context.Context, token string) (*model.Admin, error) {
	adminID, err := s.authenticate(ctx, token, util.SessionKindAdmin)
	if err != nil {
		return nil, err
	}
	admin, err := s.AdminRepo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, util.ErrAdminNotFound) {
			return nil, util.ErrSessionInvalid
		}
		return nil, err
	}
	return admin, nil
}

// Logout 删除服务端会话，无效令牌直接忽略
func (s *AuthService) Logout(ctx context.Context, tokens ...string) {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		claims, err := util.ParseSessionToken(token, s.Cfg.Session.Secret)
		if err != nil {
			continue
		}
		if err := s.Sessions.Delete(ctx, claims.SessionID); err != nil {
			logger.Log.Warn("Failed to delete session", zap.Error(err))
		}
	}
}
