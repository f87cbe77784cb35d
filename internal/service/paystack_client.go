package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"quiz_iq_backend/internal/config"
	"strings"
	"sync"
	"time"
)

// PaymentGateway 支付网关接口
type PaymentGateway interface {
	Initialize(ctx context.Context, req InitializeTransactionReq) (*GatewayResponse, error)
	Verify(ctx context.Context, reference string) (*GatewayResponse, error)
}

type InitializeTransactionReq struct {
	Email       string `json:"email"`
	Amount      int    `json:"amount"` // kobo
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url"`
	SplitCode   string `json:"split_code,omitempty"`
}

// GatewayResponse Paystack 统一响应，Data 原样保存
type GatewayResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type TransactionData struct {
	Status           string `json:"status"`
	Reference        string `json:"reference"`
	Amount           int    `json:"amount"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
}

func (r *GatewayResponse) Transaction() (*TransactionData, error) {
	var data TransactionData
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return &data, nil
	}
	if err := json.Unmarshal(r.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

type PaystackClient struct {
	mu     sync.RWMutex
	cfg    config.PaystackConfig
	client *http.Client
}

func NewPaystackClient(cfg config.PaystackConfig) *PaystackClient {
	return &PaystackClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// UpdateConfig 配置热更新（更换密钥）
func (p *PaystackClient) UpdateConfig(cfg config.PaystackConfig) {
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
}

func (p *PaystackClient) config() config.PaystackConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

func (p *PaystackClient) Initialize(ctx context.Context, req InitializeTransactionReq) (*GatewayResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return p.do(ctx, http.MethodPost, "/transaction/initialize", body)
}

func (p *PaystackClient) Verify(ctx context.Context, reference string) (*GatewayResponse, error) {
	return p.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
}

func (p *PaystackClient) do(ctx context.Context, method, path string, body []byte) (*GatewayResponse, error) {
	cfg := p.config()
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("paystack secret key not configured")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(cfg.BaseURL, "/")+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out GatewayResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("paystack returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	// 4xx 时 Paystack 也会返回 {status:false,message}，交给调用方处理
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("paystack returned status %d: %s", resp.StatusCode, out.Message)
	}
	return &out, nil
}
