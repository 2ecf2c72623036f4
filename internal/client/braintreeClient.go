package client

import (
	"context"
	"errors"
	"fmt"
	"marketplace-api/internal/config"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"
)

// --- INTERFACE ---

type BraintreeClient interface {
	// Sale charges a payment method nonce and submits it for settlement.
	Sale(ctx context.Context, nonce string, amount decimal.Decimal, orderRef string) (string, error)

	// Void cancels a transaction that has not settled yet.
	Void(ctx context.Context, transactionID string) error
}

// ErrBraintreeDeclined marks a sale the processor or gateway refused.
var ErrBraintreeDeclined = errors.New("braintree transaction declined")

// --- IMPLEMENTATION ---

type braintreeClientImpl struct {
	gateway *braintree.Braintree
}

// NewBraintreeClient initializes the Braintree SDK gateway
func NewBraintreeClient(cfg *config.Braintree) BraintreeClient {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreeClientImpl{
		gateway: gateway,
	}
}

// --- METHODS ---

func (c *braintreeClientImpl) Sale(ctx context.Context, nonce string, amount decimal.Decimal, orderRef string) (string, error) {
	// Braintree expects NewDecimal(unscaled, scale): "50.00" -> NewDecimal(5000, 2)
	cents := amount.Shift(2).IntPart()
	btAmount := braintree.NewDecimal(cents, 2)

	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             btAmount,
		PaymentMethodNonce: nonce,
		OrderId:            orderRef,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true, // Captures the funds immediately
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		var btErr *braintree.BraintreeError
		if errors.As(err, &btErr) {
			return "", fmt.Errorf("%w: %s", ErrBraintreeDeclined, btErr.Error())
		}
		return "", fmt.Errorf("transaction creation failed: %w", err)
	}

	switch tx.Status {
	case braintree.TransactionStatusProcessorDeclined, braintree.TransactionStatusGatewayRejected, braintree.TransactionStatusFailed:
		return "", fmt.Errorf("%w: %s", ErrBraintreeDeclined, tx.ProcessorResponseText)
	}

	return tx.Id, nil
}

func (c *braintreeClientImpl) Void(ctx context.Context, transactionID string) error {
	_, err := c.gateway.Transaction().Void(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to void transaction: %w", err)
	}
	return nil
}
