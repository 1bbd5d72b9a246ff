package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "CARD"
	PaymentCash   PaymentMethod = "CASH"
	PaymentWallet PaymentMethod = "WALLET"
	PaymentUPI    PaymentMethod = "UPI"
)

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCard, PaymentCash, PaymentWallet, PaymentUPI:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", string(m)))
	}
}

// PaymentStatus tracks settlement separately from the order lifecycle.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentCompleted     PaymentStatus = "COMPLETED"
	PaymentFailed        PaymentStatus = "FAILED"
	PaymentRefundPending PaymentStatus = "REFUND_PENDING"
	PaymentRefunded      PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefundPending, PaymentRefunded:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not supported", string(s)))
	}
}
