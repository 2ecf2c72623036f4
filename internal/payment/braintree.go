package payment

import (
	"context"
	"errors"
	"fmt"
	"marketplace-api/internal/client"
)

// BraintreeGateway runs a sale against a client-side payment method nonce.
// Credentials: {"token": "<nonce>"}.
type BraintreeGateway struct {
	client client.BraintreeClient
}

func NewBraintreeGateway(c client.BraintreeClient) *BraintreeGateway {
	return &BraintreeGateway{client: c}
}

func (g *BraintreeGateway) Charge(ctx context.Context, req Request) (*Authorization, error) {
	nonce, err := credential(req, "token")
	if err != nil {
		return nil, err
	}

	txID, err := g.client.Sale(ctx, nonce, FormatAmount(req.Amount), req.Reference)
	if err != nil {
		if errors.Is(err, client.ErrBraintreeDeclined) {
			return nil, fmt.Errorf("%w: %s", ErrDeclined, err)
		}
		return nil, fmt.Errorf("braintree sale: %w", err)
	}

	return &Authorization{Reference: txID}, nil
}

func (g *BraintreeGateway) Void(ctx context.Context, auth *Authorization) error {
	return g.client.Void(ctx, auth.Reference)
}
