package validation

import (
	"github.com/imrishuroy/fybyshop/internal/account"
	"github.com/imrishuroy/fybyshop/internal/orders"
)

// AddToCartRequest is the payload for POST /cart/items
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=99"`
}

// UpdateCartItemRequest is the payload for PATCH /cart/items/:id. Zero or less removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=99"`
}

// FavoriteRequest is the payload for POST /favorites
type FavoriteRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// DeliveryRequest selects a delivery option on step 1.
type DeliveryRequest struct {
	OptionID string `json:"optionId" validate:"required"`
}

// CustomerFieldsRequest edits customer info fields on step 2, keyed by field name.
type CustomerFieldsRequest struct {
	Fields map[string]string `json:"fields" validate:"required,min=1"`
}

// PaymentRequest selects the payment method on step 3.
type PaymentRequest struct {
	Method string `json:"method" validate:"required,oneof=cash mobile_money"`
}

// UpdateStatusRequest is the payload for PATCH /orders/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// UpdateProfileRequest is the payload for PUT /profile. Omitted fields are unchanged.
type UpdateProfileRequest struct {
	FirstName    *string              `json:"firstName" validate:"omitempty,max=100"`
	LastName     *string              `json:"lastName" validate:"omitempty,max=100"`
	Phone        *string              `json:"phone" validate:"omitempty,max=30"`
	Address      *orders.Address      `json:"address"`
	ClearAddress bool                 `json:"clearAddress"`
	Preferences  *account.Preferences `json:"preferences"`
}

// Update converts the request to a profile update.
func (r UpdateProfileRequest) Update() account.Update {
	return account.Update{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Phone:        r.Phone,
		Address:      r.Address,
		ClearAddress: r.ClearAddress,
		Preferences:  r.Preferences,
	}
}
