package orders

import (
	"errors"
	"fmt"
	"sync"

	validatorv10 "github.com/go-playground/validator/v10"
)

// ErrInvalidOrder wraps every validation failure returned by Validate.
var ErrInvalidOrder = errors.New("invalid order")

var (
	validatorOnce sync.Once
	validate      *validatorv10.Validate
)

func orderValidator() *validatorv10.Validate {
	validatorOnce.Do(func() {
		validate = validatorv10.New()
		validate.RegisterStructValidation(orderStructValidation, Order{})
	})
	return validate
}

// orderStructValidation checks Total equals the item subtotal plus delivery.
func orderStructValidation(sl validatorv10.StructLevel) {
	o := sl.Current().Interface().(Order)
	if o.Total != o.Subtotal()+o.DeliveryPrice {
		sl.ReportError(o.Total, "Total", "total", "total_matches_items", fmt.Sprintf("%d", o.Subtotal()+o.DeliveryPrice))
	}
}

// Validate checks an order payload before it is persisted.
func Validate(o Order) error {
	if err := orderValidator().Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return nil
}
