// Package payment authorises checkout amounts against external gateways.
//
// Every gateway call is bounded by a timeout and guarded by a circuit
// breaker. Declines are reported as ErrDeclined and never trip the
// breaker; transport errors and timeouts do.
package payment

import (
	"context"
	"errors"
	"fmt"
	"marketplace-api/internal/config"
	"marketplace-api/internal/metrics"
	"marketplace-api/internal/model"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

var (
	ErrDeclined          = errors.New("payment declined")
	ErrUnsupportedMethod = errors.New("payment method not available")
	ErrUnavailable       = errors.New("payment gateway unavailable")
)

type Request struct {
	Method      model.PaymentMethod
	Credentials map[string]string
	Amount      int64 // minor units
	Currency    string
	Reference   string // our reference for the charge, the cart id
}

// Authorization identifies a successful charge on the gateway that made it.
type Authorization struct {
	Method    model.PaymentMethod
	Reference string
}

type Gateway interface {
	Charge(ctx context.Context, req Request) (*Authorization, error)
	Void(ctx context.Context, auth *Authorization) error
}

type guardedGateway struct {
	gateway Gateway
	breaker *gobreaker.CircuitBreaker[*Authorization]
}

type Processor struct {
	gateways map[model.PaymentMethod]*guardedGateway
	timeout  time.Duration
	metrics  *metrics.Metrics
}

func NewProcessor(cfg config.Payment, gateways map[model.PaymentMethod]Gateway, m *metrics.Metrics) *Processor {
	p := &Processor{
		gateways: make(map[model.PaymentMethod]*guardedGateway, len(gateways)),
		timeout:  cfg.Timeout,
		metrics:  m,
	}

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}

	for method, gw := range gateways {
		p.gateways[method] = &guardedGateway{
			gateway: gw,
			breaker: gobreaker.NewCircuitBreaker[*Authorization](gobreaker.Settings{
				Name:    string(method),
				Timeout: cfg.BreakerOpenTimeout,
				ReadyToTrip: func(counts gobreaker.Counts) bool {
					return counts.ConsecutiveFailures >= maxFailures
				},
				IsSuccessful: func(err error) bool {
					return err == nil || errors.Is(err, ErrDeclined)
				},
			}),
		}
	}

	return p
}

func (p *Processor) Supports(method model.PaymentMethod) bool {
	_, ok := p.gateways[method]
	return ok
}

// Authorize charges req.Amount. It never retries.
func (p *Processor) Authorize(ctx context.Context, req Request) (*Authorization, error) {
	gw, ok := p.gateways[req.Method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, req.Method)
	}

	start := time.Now()
	auth, err := gw.breaker.Execute(func() (*Authorization, error) {
		callCtx := ctx
		if p.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		return gw.gateway.Charge(callCtx, req)
	})
	p.metrics.ObservePayment(string(req.Method), time.Since(start), failureReason(err))

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
		}
		return nil, err
	}
	if auth == nil {
		return nil, fmt.Errorf("%w: empty authorization", ErrDeclined)
	}

	auth.Method = req.Method
	return auth, nil
}

// Void reverses a charge made by Authorize. It is not breaker-guarded.
func (p *Processor) Void(ctx context.Context, auth *Authorization) error {
	gw, ok := p.gateways[auth.Method]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, auth.Method)
	}

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return gw.gateway.Void(callCtx, auth)
}

func failureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDeclined):
		return "declined"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	default:
		return "error"
	}
}

// FormatAmount converts minor units of a two-decimal currency to the
// decimal value gateways expect.
func FormatAmount(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

func credential(req Request, key string) (string, error) {
	v := req.Credentials[key]
	if v == "" {
		return "", fmt.Errorf("%w: missing payment credential %q", ErrDeclined, key)
	}
	return v, nil
}
