package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"quiz_iq_backend/internal/config"
	"quiz_iq_backend/pkg/logger"
	"quiz_iq_backend/pkg/monitoring"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
)

// OTPSender 发送验证码，返回实际使用的渠道
type OTPSender interface {
	Send(ctx context.Context, phoneNumber, otp string) (string, error)
}

// TwilioSender 优先使用 WhatsApp 模板消息，失败或未配置时回退到短信
type TwilioSender struct {
	mu     sync.RWMutex
	cfg    config.OTPConfig
	client *http.Client
}

func NewTwilioSender(cfg config.OTPConfig) *TwilioSender {
	return &TwilioSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// UpdateConfig 配置热更新
func (t *TwilioSender) UpdateConfig(cfg config.OTPConfig) {
	t.mu.Lock()
	t.cfg = cfg
	t.mu.Unlock()
}

func (t *TwilioSender) config() config.OTPConfig {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *twilioError) Error() string {
	return fmt.Sprintf("twilio error %d (status %d): %s", e.Code, e.Status, e.Message)
}

func (t *TwilioSender) Send(ctx context.Context, phoneNumber, otp string) (string, error) {
	cfg := t.config()
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return "", fmt.Errorf("twilio credentials not configured")
	}

	if cfg.WhatsAppNumber != "" && cfg.WhatsAppTemplateSID != "" {
		vars, _ := json.Marshal(map[string]string{"1": otp})
		form := url.Values{
			"From":             {"whatsapp:" + cfg.WhatsAppNumber},
			"To":               {"whatsapp:" + phoneNumber},
			"ContentSid":       {cfg.WhatsAppTemplateSID},
			"ContentVariables": {string(vars)},
		}
		err := t.createMessage(ctx, cfg, form)
		monitoring.RecordOTPDelivery(ChannelWhatsApp, err)
		if err == nil {
			return ChannelWhatsApp, nil
		}
		logger.Log.Warn("WhatsApp OTP failed, falling back to SMS",
			logger.Phone(phoneNumber),
			zap.Error(err),
		)
	}

	if cfg.FromNumber == "" {
		return "", fmt.Errorf("twilio phone number not configured")
	}
	form := url.Values{
		"From": {cfg.FromNumber},
		"To":   {phoneNumber},
		"Body": {fmt.Sprintf("Your Easyread IQ verification code is: %s. Valid for %d minutes.", otp, cfg.ExpiryMinutes)},
	}
	err := t.createMessage(ctx, cfg, form)
	monitoring.RecordOTPDelivery(ChannelSMS, err)
	if err != nil {
		return "", err
	}
	return ChannelSMS, nil
}

func (t *TwilioSender) createMessage(ctx context.Context, cfg config.OTPConfig, form url.Values) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", strings.TrimRight(cfg.BaseURL, "/"), cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(cfg.AccountSID, cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	tErr := &twilioError{Status: resp.StatusCode}
	if err := json.Unmarshal(body, tErr); err != nil || tErr.Message == "" {
		tErr.Message = strings.TrimSpace(string(body))
	}
	return tErr
}
