package payment

import (
	"context"
	"fmt"
	"strings"

	"concierge/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// StripeProcessor charges card payments through a Stripe PaymentIntent and hands
// every other method to the manual processor. stripe.Key must be set before use.
type StripeProcessor struct {
	manual   *ManualProcessor
	currency string
	logger   *zap.Logger
}

func NewStripeProcessor(currency string, logger *zap.Logger) *StripeProcessor {
	return &StripeProcessor{
		manual:   NewManualProcessor(logger),
		currency: strings.ToLower(currency),
		logger:   logger,
	}
}

func (p *StripeProcessor) Process(ctx context.Context, req Request) (*Result, error) {
	if req.Method != models.MethodCard {
		return p.manual.Process(ctx, req)
	}
	if err := validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	currency := p.currency
	if req.Currency != "" {
		currency = strings.ToLower(req.Currency)
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(ToMinorUnits(req.Amount)),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.AddMetadata("invoice_id", req.InvoiceID)
	params.AddMetadata("client_id", req.ClientID)

	pi, err := paymentintent.New(params)
	if err != nil {
		p.logger.Error("Stripe payment intent failed", zap.String("invoice", req.InvoiceID), zap.Error(err))
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	p.logger.Info("Stripe payment intent created",
		zap.String("invoice", req.InvoiceID),
		zap.String("intent", pi.ID),
		zap.String("status", string(pi.Status)))
	return &Result{Status: intentStatus(pi.Status), ExternalRef: pi.ID}, nil
}

// intentStatus maps a PaymentIntent status onto ours. Anything still in flight is pending.
func intentStatus(s stripe.PaymentIntentStatus) models.PaymentStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return models.PaymentSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return models.PaymentFailed
	}
	return models.PaymentPending
}
