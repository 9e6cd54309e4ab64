package payment

import (
	"context"
	"fmt"
	"strconv"

	"vastra-be/internal/logger"
	"vastra-be/internal/metrics"
	"vastra-be/internal/notification"
	"vastra-be/internal/order"
	"vastra-be/internal/user"
	"vastra-be/internal/utils"

	"go.uber.org/zap"
)

// Notifier is the fire-and-forget email sink, same shape the order service
// uses.
type Notifier interface {
	Dispatch(msg notification.Message)
}

// CheckoutSession is what the browser checkout widget needs to open.
type CheckoutSession struct {
	GatewayOrderID string  `json:"razorpayOrderId"`
	Amount         int64   `json:"amount"` // paise
	Currency       string  `json:"currency"`
	KeyID          string  `json:"keyId"`
	OrderNumber    string  `json:"orderNumber"`
	OrderTotal     float64 `json:"orderTotal"`
}

// VerifyInput is the client callback after a checkout attempt.
type VerifyInput struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type Service interface {
	// CreateGatewayOrder opens a gateway order for an unpaid storefront
	// order owned by userID and returns the checkout session.
	CreateGatewayOrder(ctx context.Context, userID, orderID uint) (*CheckoutSession, error)

	// VerifyPayment handles the synchronous client callback. A valid
	// signature captures the payment and confirms the order; an invalid
	// one records the failure and returns ErrSignatureMismatch.
	VerifyPayment(ctx context.Context, userID uint, input VerifyInput) (*order.Order, error)

	// HandleCaptured and HandleFailed are the webhook reconciliation
	// entry points. Both are idempotent.
	HandleCaptured(ctx context.Context, entity PaymentEntity) error
	HandleFailed(ctx context.Context, entity PaymentEntity) error

	// InitiateRefund refunds a paid order in full and marks it returned.
	InitiateRefund(ctx context.Context, orderID uint) (*RefundResult, error)

	GetByOrder(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*Payment, error)
}

type service struct {
	repo       Repository
	orderRepo  order.Repository
	userRepo   user.Repository
	gateway    Gateway
	notifier   Notifier
	metrics    *metrics.Registry
	adminEmail string
}

func NewService(
	repo Repository,
	orderRepo order.Repository,
	userRepo user.Repository,
	gateway Gateway,
	notifier Notifier,
	reg *metrics.Registry,
	adminEmail string,
) Service {
	return &service{
		repo:       repo,
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		gateway:    gateway,
		notifier:   notifier,
		metrics:    reg,
		adminEmail: adminEmail,
	}
}

func (s *service) CreateGatewayOrder(ctx context.Context, userID, orderID uint) (*CheckoutSession, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateGatewayOrder"),
		zap.Uint("order_id", orderID),
	)

	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, order.ErrUnauthorized
	}
	if o.PaymentInfo.Method != order.MethodRazorpay {
		return nil, order.ErrInvalidState
	}
	if o.PaymentInfo.Status == order.PaymentPaid {
		return nil, order.ErrInvalidState
	}

	amount := utils.RupeesToPaise(o.TotalAmount)
	gw, err := s.gateway.CreateOrder(ctx, amount, "INR", o.OrderNumber, map[string]string{
		"order_id":     strconv.FormatUint(uint64(o.ID), 10),
		"order_number": o.OrderNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	p := &Payment{
		OrderID:         o.ID,
		UserID:          userID,
		RazorpayOrderID: gw.ID,
		Amount:          o.TotalAmount,
		Currency:        gw.Currency,
		Status:          StatusCreated,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("persist payment: %w", err)
	}

	if err := s.orderRepo.SetGatewayOrder(ctx, o.ID, gw.ID); err != nil {
		return nil, fmt.Errorf("attach gateway order: %w", err)
	}

	log.Info("checkout session opened",
		zap.String("razorpay_order_id", gw.ID),
		zap.Int64("amount_paise", amount),
	)

	return &CheckoutSession{
		GatewayOrderID: gw.ID,
		Amount:         gw.Amount,
		Currency:       gw.Currency,
		KeyID:          s.gateway.KeyID(),
		OrderNumber:    o.OrderNumber,
		OrderTotal:     o.TotalAmount,
	}, nil
}

func (s *service) VerifyPayment(ctx context.Context, userID uint, input VerifyInput) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "VerifyPayment"),
		zap.String("razorpay_order_id", input.RazorpayOrderID),
	)

	o, err := s.orderRepo.GetByGatewayOrderID(ctx, input.RazorpayOrderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, order.ErrUnauthorized
	}

	if !s.gateway.VerifyPaymentSignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature) {
		log.Warn("payment signature mismatch",
			zap.String("razorpay_payment_id", input.RazorpayPaymentID),
		)

		reason := "signature verification failed"
		if err := s.repo.MarkFailed(ctx, input.RazorpayOrderID, nil, &reason); err != nil {
			log.Error("failed to record failed payment", zap.Error(err))
		}
		if err := s.orderRepo.MarkPaymentFailed(ctx, input.RazorpayOrderID); err != nil {
			log.Error("failed to mark order payment failed", zap.Error(err))
		}
		s.metrics.PaymentsFailed.Inc()

		if u, err := s.userRepo.FindByID(ctx, o.UserID); err == nil {
			s.notifier.Dispatch(notification.PaymentFailed(u.Email, u.Name, o.OrderNumber))
		}

		return nil, ErrSignatureMismatch
	}

	if err := s.repo.MarkCaptured(ctx, input.RazorpayOrderID, input.RazorpayPaymentID, &input.RazorpaySignature, nil); err != nil {
		log.Error("failed to record captured payment", zap.Error(err))
	}

	transitioned, err := s.orderRepo.MarkPaid(ctx, input.RazorpayOrderID, input.RazorpayPaymentID)
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	// Only the path that performed the transition sends the email; if the
	// webhook got here first this call is a no-op.
	if transitioned {
		s.metrics.PaymentsCaptured.Inc()
		log.Info("payment verified and captured",
			zap.String("order_number", o.OrderNumber),
			zap.String("razorpay_payment_id", input.RazorpayPaymentID),
		)
		if u, err := s.userRepo.FindByID(ctx, o.UserID); err == nil {
			s.notifier.Dispatch(notification.PaymentSuccess(u.Email, u.Name, o.OrderNumber, o.TotalAmount))
		}
	} else {
		log.Info("payment already reconciled", zap.String("order_number", o.OrderNumber))
	}

	return s.orderRepo.GetByID(ctx, o.ID)
}

func (s *service) HandleCaptured(ctx context.Context, entity PaymentEntity) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "HandleCaptured"),
		zap.String("razorpay_order_id", entity.OrderID),
	)

	o, err := s.orderRepo.GetByGatewayOrderID(ctx, entity.OrderID)
	if err != nil {
		return err
	}

	var method *string
	if entity.Method != "" {
		method = &entity.Method
	}
	if err := s.repo.MarkCaptured(ctx, entity.OrderID, entity.ID, nil, method); err != nil {
		log.Error("failed to record captured payment", zap.Error(err))
	}

	transitioned, err := s.orderRepo.MarkPaid(ctx, entity.OrderID, entity.ID)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if !transitioned {
		s.metrics.WebhooksDuplicate.Inc()
		log.Info("capture already reconciled", zap.String("order_number", o.OrderNumber))
		return nil
	}

	s.metrics.PaymentsCaptured.Inc()
	log.Info("payment captured via webhook",
		zap.String("order_number", o.OrderNumber),
		zap.String("razorpay_payment_id", entity.ID),
	)

	if u, err := s.userRepo.FindByID(ctx, o.UserID); err == nil {
		s.notifier.Dispatch(notification.PaymentSuccess(u.Email, u.Name, o.OrderNumber, o.TotalAmount))
	}
	return nil
}

func (s *service) HandleFailed(ctx context.Context, entity PaymentEntity) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "HandleFailed"),
		zap.String("razorpay_order_id", entity.OrderID),
	)

	var errCode, errDesc *string
	if entity.ErrorCode != "" {
		errCode = &entity.ErrorCode
	}
	if entity.ErrorDescription != "" {
		errDesc = &entity.ErrorDescription
	}
	// Only the payment record carries the failure. The order is left
	// untouched so the user can retry from checkout, and a late failure
	// webhook cannot downgrade an order the verify path already settled.
	if err := s.repo.MarkFailed(ctx, entity.OrderID, errCode, errDesc); err != nil {
		log.Error("failed to record failed payment", zap.Error(err))
	}

	s.metrics.PaymentsFailed.Inc()
	log.Info("payment failed via webhook",
		zap.Stringp("error_code", errCode),
	)
	return nil
}

func (s *service) InitiateRefund(ctx context.Context, orderID uint) (*RefundResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "InitiateRefund"),
		zap.Uint("order_id", orderID),
	)

	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentInfo.Status != order.PaymentPaid {
		return nil, order.ErrNotPaid
	}

	res, err := s.gateway.Refund(ctx, o.PaymentInfo.RazorpayPaymentID, utils.RupeesToPaise(o.TotalAmount), map[string]string{
		"order_number": o.OrderNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway refund: %w", err)
	}

	if err := s.orderRepo.MarkRefunded(ctx, orderID); err != nil {
		return nil, err
	}
	if err := s.repo.MarkRefunded(ctx, o.PaymentInfo.RazorpayPaymentID); err != nil {
		log.Error("failed to record refunded payment", zap.Error(err))
	}

	s.metrics.RefundsInitiated.Inc()
	log.Info("refund initiated",
		zap.String("order_number", o.OrderNumber),
		zap.String("refund_id", res.ID),
	)
	return res, nil
}

func (s *service) GetByOrder(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*Payment, error) {
	p, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && p.UserID != userID {
		return nil, order.ErrUnauthorized
	}
	return p, nil
}
