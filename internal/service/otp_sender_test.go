package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"quiz_iq_backend/internal/config"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type twilioCall struct {
	path string
	form map[string]string
	user string
}

func newTwilioServer(t *testing.T, handler func(form map[string]string) (int, string)) (*httptest.Server, *[]twilioCall) {
	t.Helper()
	var mu sync.Mutex
	calls := &[]twilioCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		user, _, _ := r.BasicAuth()

		mu.Lock()
		*calls = append(*calls, twilioCall{path: r.URL.Path, form: form, user: user})
		mu.Unlock()

		status, body := handler(form)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func twilioConfig(baseURL string) config.OTPConfig {
	return config.OTPConfig{
		AccountSID:          "AC123",
		AuthToken:           "token",
		FromNumber:          "+15550000000",
		WhatsAppNumber:      "+15551111111",
		WhatsAppTemplateSID: "HX999",
		BaseURL:             baseURL,
		ExpiryMinutes:       10,
	}
}

func TestTwilioSenderPrefersWhatsApp(t *testing.T) {
	srv, calls := newTwilioServer(t, func(map[string]string) (int, string) {
		return http.StatusCreated, `{"sid":"SM1"}`
	})
	sender := NewTwilioSender(twilioConfig(srv.URL))

	channel, err := sender.Send(context.Background(), "+2348012345678", "123456")
	require.NoError(t, err)

	assert.Equal(t, ChannelWhatsApp, channel)
	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", call.path)
	assert.Equal(t, "AC123", call.user)
	assert.Equal(t, "whatsapp:+2348012345678", call.form["To"])
	assert.Equal(t, "HX999", call.form["ContentSid"])
	assert.JSONEq(t, `{"1":"123456"}`, call.form["ContentVariables"])
}

func TestTwilioSenderFallsBackToSMS(t *testing.T) {
	srv, calls := newTwilioServer(t, func(form map[string]string) (int, string) {
		if strings.HasPrefix(form["To"], "whatsapp:") {
			return http.StatusBadRequest, `{"code":63016,"message":"template rejected","status":400}`
		}
		return http.StatusCreated, `{"sid":"SM2"}`
	})
	sender := NewTwilioSender(twilioConfig(srv.URL))

	channel, err := sender.Send(context.Background(), "+2348012345678", "654321")
	require.NoError(t, err)

	assert.Equal(t, ChannelSMS, channel)
	require.Len(t, *calls, 2)
	sms := (*calls)[1]
	assert.Equal(t, "+2348012345678", sms.form["To"])
	assert.Equal(t, "+15550000000", sms.form["From"])
	assert.Contains(t, sms.form["Body"], "654321")
}

func TestTwilioSenderSMSOnlyWhenWhatsAppNotConfigured(t *testing.T) {
	srv, calls := newTwilioServer(t, func(map[string]string) (int, string) {
		return http.StatusCreated, `{}`
	})
	cfg := twilioConfig(srv.URL)
	cfg.WhatsAppTemplateSID = ""
	sender := NewTwilioSender(cfg)

	channel, err := sender.Send(context.Background(), "+2348012345678", "111111")
	require.NoError(t, err)

	assert.Equal(t, ChannelSMS, channel)
	assert.Len(t, *calls, 1)
}

func TestTwilioSenderReportsError(t *testing.T) {
	srv, _ := newTwilioServer(t, func(map[string]string) (int, string) {
		return http.StatusUnauthorized, `{"code":20003,"message":"Authenticate","status":401}`
	})
	cfg := twilioConfig(srv.URL)
	cfg.WhatsAppNumber = ""
	sender := NewTwilioSender(cfg)

	_, err := sender.Send(context.Background(), "+2348012345678", "111111")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authenticate")
}

func TestTwilioSenderUpdateConfig(t *testing.T) {
	sender := NewTwilioSender(config.OTPConfig{})
	_, err := sender.Send(context.Background(), "+2348012345678", "111111")
	assert.Error(t, err)

	srv, _ := newTwilioServer(t, func(map[string]string) (int, string) { return http.StatusCreated, `{}` })
	sender.UpdateConfig(twilioConfig(srv.URL))

	_, err = sender.Send(context.Background(), "+2348012345678", "111111")
	assert.NoError(t, err)
}
