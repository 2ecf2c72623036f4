package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"marketplace-api/internal/client"
	"strings"

	"github.com/shopspring/decimal"
)

// PaypalGateway captures orders the buyer approved in the PayPal popup.
// Credentials: {"token": "<paypal order id>"}.
type PaypalGateway struct {
	client client.PaypalClient
}

func NewPaypalGateway(c client.PaypalClient) *PaypalGateway {
	return &PaypalGateway{client: c}
}

func (g *PaypalGateway) Charge(ctx context.Context, req Request) (*Authorization, error) {
	orderID, err := credential(req, "token")
	if err != nil {
		return nil, err
	}

	result, err := g.client.CaptureOrder(ctx, orderID)
	if err != nil {
		var unprocessable *client.ErrPaypalUnprocessable
		if errors.As(err, &unprocessable) {
			return nil, fmt.Errorf("%w: %s", ErrDeclined, unprocessable.Body)
		}
		return nil, fmt.Errorf("paypal capture order: %w", err)
	}

	capture, ok := result.FirstCapture()
	if !ok || capture.Status != "COMPLETED" {
		return nil, fmt.Errorf("%w: paypal order %s not captured (status %s)", ErrDeclined, orderID, result.Status)
	}

	captured, err := decimal.NewFromString(capture.Amount.Value)
	if err != nil || !captured.Equal(FormatAmount(req.Amount)) || !strings.EqualFold(capture.Amount.Currency, req.Currency) {
		// buyer approved a different amount than the cart total
		if _, refundErr := g.client.RefundCapture(ctx, capture.ID); refundErr != nil {
			slog.ErrorContext(ctx, "refund mismatched paypal capture",
				slog.String("capture_id", capture.ID),
				slog.Any("err", refundErr),
			)
		}
		return nil, fmt.Errorf("%w: captured %s %s, expected %s %s", ErrDeclined,
			capture.Amount.Value, capture.Amount.Currency, FormatAmount(req.Amount).StringFixed(2), req.Currency)
	}

	return &Authorization{Reference: capture.ID}, nil
}

func (g *PaypalGateway) Void(ctx context.Context, auth *Authorization) error {
	if _, err := g.client.RefundCapture(ctx, auth.Reference); err != nil {
		return fmt.Errorf("paypal refund capture: %w", err)
	}
	return nil
}
