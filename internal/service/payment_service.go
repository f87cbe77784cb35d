package service

import (
	"context"
	"fmt"
	"net/url"
	"quiz_iq_backend/internal/config"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"
	"quiz_iq_backend/pkg/logger"
	"quiz_iq_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
)

type PaymentService struct {
	PaymentRepo  PaymentStore
	SettingsRepo PaymentSettingsStore
	UserRepo     UserStore
	Gateway      PaymentGateway
	Cfg          *config.Config
	now          func() time.Time
}

func NewPaymentService(paymentRepo PaymentStore, settingsRepo PaymentSettingsStore, userRepo UserStore, gateway PaymentGateway, cfg *config.Config) *PaymentService {
	return &PaymentService{
		PaymentRepo:  paymentRepo,
		SettingsRepo: settingsRepo,
		UserRepo:     userRepo,
		Gateway:      gateway,
		Cfg:          cfg,
		now:          time.Now,
	}
}

// CallbackURL 由 APP_URL 拼接支付回调地址，缺少协议时补 https
func CallbackURL(appURL string) (string, error) {
	base := strings.TrimSpace(appURL)
	if base == "" {
		base = "http://localhost:5000"
	}
	if !strings.HasPrefix(base, "http") {
		base = "https://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = "/payment-callback"
	u.RawQuery = ""
	return u.String(), nil
}

// GetSettings 未配置时返回默认价格
func (s *PaymentService) GetSettings(ctx context.Context) (*model.PaymentSettings, error) {
	settings, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &model.PaymentSettings{MembershipPrice: model.DefaultMembershipPrice}, nil
	}
	return settings, nil
}

type PaymentSettingsReq struct {
	MembershipPrice   *int    `json:"membershipPrice"`
	PaystackSplitCode *string `json:"paystackSplitCode"`
}

func (s *PaymentService) UpdateSettings(ctx context.Context, req PaymentSettingsReq) (*model.PaymentSettings, error) {
	settings, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &model.PaymentSettings{MembershipPrice: model.DefaultMembershipPrice}
	}

	if req.MembershipPrice != nil {
		if *req.MembershipPrice <= 0 {
			return nil, fmt.Errorf("%w: membershipPrice must be positive", util.ErrInvalidSubmission)
		}
		settings.MembershipPrice = *req.MembershipPrice
	}
	if req.PaystackSplitCode != nil {
		code := strings.TrimSpace(*req.PaystackSplitCode)
		if code == "" {
			settings.PaystackSplitCode = nil
		} else {
			settings.PaystackSplitCode = &code
		}
	}
	settings.UpdatedAt = s.now()

	if err := s.SettingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

type InitializePaymentResult struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Amount           int    `json:"amount"`
}

func (s *PaymentService) Initialize(ctx context.Context, userID string) (*InitializePaymentResult, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	callback, err := CallbackURL(s.Cfg.Server.AppURL)
	if err != nil {
		return nil, err
	}

	reference := fmt.Sprintf("PAY_%d_%s", s.now().UnixMilli(), userID)
	req := InitializeTransactionReq{
		Email:       fmt.Sprintf("%s@%s", strings.TrimPrefix(user.PhoneNumber, "+"), s.Cfg.Paystack.CustomerEmailDomain),
		Amount:      settings.MembershipPrice,
		Reference:   reference,
		CallbackURL: callback,
	}
	if settings.PaystackSplitCode != nil {
		req.SplitCode = *settings.PaystackSplitCode
	}

	resp, err := s.Gateway.Initialize(ctx, req)
	if err != nil {
		monitoring.RecordPayment("initialize", "error")
		return nil, fmt.Errorf("%w: %v", util.ErrPaymentInitFailed, err)
	}
	if !resp.Status {
		monitoring.RecordPayment("initialize", "rejected")
		return nil, fmt.Errorf("%w: %s", util.ErrPaymentInitFailed, resp.Message)
	}
	tx, err := resp.Transaction()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPaymentInitFailed, err)
	}

	payment := &model.Payment{
		UserID:           userID,
		Reference:        reference,
		Amount:           settings.MembershipPrice,
		Status:           model.PaymentPending,
		PaystackResponse: resp.Data,
	}
	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	monitoring.RecordPayment("initialize", model.PaymentPending)

	return &InitializePaymentResult{
		Reference:        reference,
		AuthorizationURL: tx.AuthorizationURL,
		AccessCode:       tx.AccessCode,
		Amount:           settings.MembershipPrice,
	}, nil
}

type VerifyPaymentResult struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int    `json:"amount"`
}

// Verify 向 Paystack 查询交易状态，成功后标记本地支付记录，重复调用无副作用
func (s *PaymentService) Verify(ctx context.Context, reference string) (*VerifyPaymentResult, error) {
	payment, err := s.PaymentRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if payment.Status == model.PaymentSuccess {
		return &VerifyPaymentResult{Reference: reference, Status: model.PaymentSuccess, Amount: payment.Amount}, nil
	}

	resp, err := s.Gateway.Verify(ctx, reference)
	if err != nil {
		monitoring.RecordPayment("verify", "error")
		return nil, fmt.Errorf("%w: %v", util.ErrPaymentVerifyFailed, err)
	}
	if !resp.Status {
		monitoring.RecordPayment("verify", "rejected")
		return nil, fmt.Errorf("%w: %s", util.ErrPaymentVerifyFailed, resp.Message)
	}
	tx, err := resp.Transaction()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPaymentVerifyFailed, err)
	}

	status := payment.Status
	switch tx.Status {
	case "success":
		status = model.PaymentSuccess
	case "failed", "abandoned", "reversed":
		status = model.PaymentFailed
	}
	if status != payment.Status {
		if err := s.PaymentRepo.UpdateStatus(ctx, reference, status, resp.Data); err != nil {
			return nil, err
		}
		logger.Log.Info("Payment status updated",
			logger.Reference(reference),
			zap.String("status", status),
		)
	}
	monitoring.RecordPayment("verify", status)

	return &VerifyPaymentResult{Reference: reference, Status: status, Amount: payment.Amount}, nil
}

func (s *PaymentService) ListUserPayments(ctx context.Context, userID string) ([]model.Payment, error) {
	return s.PaymentRepo.ListByUser(ctx, userID)
}

func (s *PaymentService) ListAllPayments(ctx context.Context) ([]model.Payment, error) {
	return s.PaymentRepo.ListAll(ctx)
}

// HasPremiumAccess 至少一笔成功支付即视为会员
func (s *PaymentService) HasPremiumAccess(ctx context.Context, userID string) (bool, error) {
	return s.PaymentRepo.HasSuccessfulPayment(ctx, userID)
}
