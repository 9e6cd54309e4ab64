package coupon

import (
	"context"
	"errors"

	"vastra-be/internal/logger"
	"vastra-be/internal/utils"

	"go.uber.org/zap"
)

// Redemption is the outcome of applying a coupon during order creation.
type Redemption struct {
	Code     string
	Discount float64
}

type Service interface {
	// Check validates a code against a cart total without consuming usage.
	// Authoritative for UI feedback.
	Check(ctx context.Context, code string, cartTotal float64) (*Coupon, float64, error)

	// Redeem validates and consumes one usage. A nil result with a nil
	// error means the coupon was invalid and the order proceeds at full
	// price; order creation never fails on a bad coupon.
	Redeem(ctx context.Context, code string, cartTotal float64) (*Redemption, error)

	List(ctx context.Context) ([]*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id uint) error
}

// ErrInvalidCoupon carries the evaluator's message to the validate endpoint.
type ErrInvalidCoupon struct {
	Message string
}

func (e *ErrInvalidCoupon) Error() string { return e.Message }

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Check(ctx context.Context, code string, cartTotal float64) (*Coupon, float64, error) {
	c, err := s.repo.FindByCode(ctx, utils.NormalizeCouponCode(code))
	if err != nil {
		return nil, 0, err
	}

	if v := Validate(c, cartTotal); !v.Valid {
		return nil, 0, &ErrInvalidCoupon{Message: v.Message}
	}

	return c, Discount(c, cartTotal), nil
}

func (s *service) Redeem(ctx context.Context, code string, cartTotal float64) (*Redemption, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Redeem"),
		zap.String("code", code),
	)

	c, discount, err := s.Check(ctx, code, cartTotal)
	if err != nil {
		var invalid *ErrInvalidCoupon
		if errors.Is(err, ErrCouponNotFound) || errors.As(err, &invalid) {
			log.Info("coupon skipped", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}

	if err := s.repo.IncrementUsage(ctx, c.ID); err != nil {
		if errors.Is(err, ErrLimitReached) {
			// Limit was hit between Check and the guarded increment.
			log.Info("coupon skipped, usage limit raced")
			return nil, nil
		}
		return nil, err
	}

	log.Info("coupon redeemed", zap.Float64("discount", discount))
	return &Redemption{Code: c.Code, Discount: discount}, nil
}

func (s *service) List(ctx context.Context) ([]*Coupon, error) {
	return s.repo.List(ctx)
}

func (s *service) Create(ctx context.Context, c *Coupon) error {
	c.Code = utils.NormalizeCouponCode(c.Code)
	return s.repo.Create(ctx, c)
}

func (s *service) Update(ctx context.Context, c *Coupon) error {
	return s.repo.Update(ctx, c)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
