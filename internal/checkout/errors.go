package checkout

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrAuthRequired blocks entry into checkout for anonymous users.
	ErrAuthRequired = errors.New("authentication required")
	// ErrEmptyCart blocks entry into checkout when the cart has no lines.
	ErrEmptyCart = errors.New("cart is empty")

	ErrDeliveryRequired      = errors.New("a delivery option must be selected")
	ErrUnknownDeliveryOption = errors.New("unknown delivery option")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
	ErrUnknownField          = errors.New("unknown customer field")
	ErrSubmissionInProgress  = errors.New("order submission already in progress")
	ErrNotOnConfirmation     = errors.New("order can only be submitted from the confirmation step")
	ErrOrderAlreadyCreated   = errors.New("order already created for this checkout")
	ErrSessionNotFound       = errors.New("checkout session not found")
)

// ValidationError carries the field to message map of the customer info step.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// OrderCreationFailedError wraps a store failure during submission. The
// checkout stays on the confirmation step and can be submitted again.
type OrderCreationFailedError struct {
	Err error
}

func (e *OrderCreationFailedError) Error() string {
	return "order creation failed: " + e.Err.Error()
}

func (e *OrderCreationFailedError) Unwrap() error { return e.Err }
