package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidPhoneNumber  = errors.New("invalid phone number")
	ErrInvalidOTP          = errors.New("invalid or expired OTP")
	ErrOTPRequired         = errors.New("OTP required")
	ErrOTPCooldown         = errors.New("OTP recently sent, please wait before requesting another")
	ErrOTPDelivery         = errors.New("failed to send OTP")
	ErrOTPAttemptsExceeded = errors.New("too many incorrect OTP attempts, please request a new code")
	ErrSessionInvalid      = errors.New("session invalid or expired")
	ErrSetupCompleted      = errors.New("setup already completed, admins exist in the system")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuizHasNoQuestions  = errors.New("quiz has no questions")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrInvalidQuestion     = errors.New("invalid question")
	ErrScenarioNotFound    = errors.New("scenario not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrInvalidSubmission   = errors.New("invalid submission")
	ErrIqGradeNotFound     = errors.New("iq grade not found")
	ErrInvalidIqGrade      = errors.New("invalid iq grade")
	ErrPremiumRequired     = errors.New("premium subject, payment required")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentInitFailed   = errors.New("payment initialization failed")
	ErrPaymentVerifyFailed = errors.New("payment verification failed")
)
