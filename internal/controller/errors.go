package controller

import (
	"errors"
	"net/http"
	"quiz_iq_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// errorStatus 业务错误到 HTTP 状态码的映射，按顺序匹配
var errorStatus = []struct {
	err    error
	status int
}{
	{util.ErrUserNotFound, http.StatusNotFound},
	{util.ErrAdminNotFound, http.StatusNotFound},
	{util.ErrSubjectNotFound, http.StatusNotFound},
	{util.ErrQuizNotFound, http.StatusNotFound},
	{util.ErrQuestionNotFound, http.StatusNotFound},
	{util.ErrScenarioNotFound, http.StatusNotFound},
	{util.ErrAttemptNotFound, http.StatusNotFound},
	{util.ErrIqGradeNotFound, http.StatusNotFound},
	{util.ErrPaymentNotFound, http.StatusNotFound},

	{util.ErrInvalidPhoneNumber, http.StatusBadRequest},
	{util.ErrInvalidOTP, http.StatusBadRequest},
	{util.ErrQuizHasNoQuestions, http.StatusBadRequest},
	{util.ErrInvalidQuestion, http.StatusBadRequest},
	{util.ErrInvalidSubmission, http.StatusBadRequest},
	{util.ErrInvalidIqGrade, http.StatusBadRequest},

	{util.ErrInvalidCredentials, http.StatusUnauthorized},
	{util.ErrOTPRequired, http.StatusUnauthorized},
	{util.ErrSessionInvalid, http.StatusUnauthorized},

	{util.ErrPremiumRequired, http.StatusPaymentRequired},
	{util.ErrPermissionDenied, http.StatusForbidden},
	{util.ErrSetupCompleted, http.StatusForbidden},
	{util.ErrUsernameTaken, http.StatusConflict},
	{util.ErrOTPCooldown, http.StatusTooManyRequests},
	{util.ErrOTPAttemptsExceeded, http.StatusTooManyRequests},

	{util.ErrOTPDelivery, http.StatusBadGateway},
	{util.ErrPaymentInitFailed, http.StatusBadGateway},
	{util.ErrPaymentVerifyFailed, http.StatusBadGateway},
}

// StatusFor 未知错误返回 500
func StatusFor(err error) int {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// respondError 已知错误直接返回其信息，未知错误记录日志并返回通用 500
func respondError(ctx *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		util.LogInternalError(ctx, err)
		return
	}
	util.Error(ctx, status, err.Error())
}
