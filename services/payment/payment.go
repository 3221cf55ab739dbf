// Package payment records payments against invoices through a processor.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"concierge/models"

	"go.uber.org/zap"
)

// Request is one attempt to pay an invoice.
type Request struct {
	InvoiceID string
	ClientID  string
	Amount    float64
	Method    models.PaymentMethod
	Currency  string
}

// Result is what the processor decided. ExternalRef is empty for manual payments.
type Result struct {
	Status      models.PaymentStatus
	ExternalRef string
}

type Processor interface {
	Process(ctx context.Context, req Request) (*Result, error)
}

func validateRequest(req Request) error {
	if req.Amount <= 0 {
		return errors.New("invalid payment amount")
	}
	if req.InvoiceID == "" {
		return errors.New("missing invoice ID")
	}
	if !req.Method.Valid() {
		return fmt.Errorf("unsupported payment method: %s", req.Method)
	}
	return nil
}

// ToMinorUnits converts an amount to cents, rounding to the nearest cent.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ManualProcessor records payments staff confirm by hand. Bank transfers stay pending
// until they are reconciled; every other method is taken as settled.
type ManualProcessor struct {
	logger *zap.Logger
}

func NewManualProcessor(logger *zap.Logger) *ManualProcessor {
	return &ManualProcessor{logger: logger}
}

func (p *ManualProcessor) Process(_ context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}
	status := models.PaymentSucceeded
	if req.Method == models.MethodBankTransfer {
		status = models.PaymentPending
	}
	p.logger.Info("Manual payment recorded",
		zap.String("invoice", req.InvoiceID),
		zap.String("method", string(req.Method)),
		zap.String("status", string(status)))
	return &Result{Status: status}, nil
}
