package orders

import "time"

// Order statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Payment methods
const (
	PaymentCash        = "cash"
	PaymentMobileMoney = "mobile_money"
)

// Delivery types, derived from whether the customer gave an address.
const (
	DeliveryPickup = "pickup"
	DeliveryHome   = "delivery"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Address struct {
	Street     string `json:"street" dynamodbav:"street" validate:"required"`
	City       string `json:"city" dynamodbav:"city" validate:"required"`
	PostalCode string `json:"postalCode" dynamodbav:"postal_code"`
	Country    string `json:"country" dynamodbav:"country" validate:"required"`
}

// CustomerInfo is who placed the order. Address is nil for store pickup and
// serializes as null, never as an empty object.
type CustomerInfo struct {
	FirstName string   `json:"firstName" dynamodbav:"first_name" validate:"required"`
	LastName  string   `json:"lastName" dynamodbav:"last_name" validate:"required"`
	Email     string   `json:"email" dynamodbav:"email" validate:"required"`
	Phone     string   `json:"phone" dynamodbav:"phone" validate:"required"`
	Address   *Address `json:"address" dynamodbav:"address"`
}

// FullName is "First Last".
func (c CustomerInfo) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Item is a product line frozen at order time.
type Item struct {
	ID       string `json:"id" dynamodbav:"id" validate:"required"`
	Name     string `json:"name" dynamodbav:"name" validate:"required"`
	Image    string `json:"image" dynamodbav:"image"`
	Price    int64  `json:"price" dynamodbav:"price" validate:"gte=0"`
	Quantity int    `json:"quantity" dynamodbav:"quantity" validate:"min=1"`
}

// Order represents the item stored in the Orders DynamoDB table. Once created
// only Status and UpdatedAt change.
type Order struct {
	OrderID       string       `json:"id" dynamodbav:"order_id"` // PK
	UserID        string       `json:"userId" dynamodbav:"user_id" validate:"required"`
	Items         []Item       `json:"items" dynamodbav:"items" validate:"required,min=1,dive"`
	Total         int64        `json:"total" dynamodbav:"total" validate:"gte=0"`
	DeliveryPrice int64        `json:"deliveryPrice" dynamodbav:"delivery_price" validate:"gte=0"`
	PaymentMethod string       `json:"paymentMethod" dynamodbav:"payment_method" validate:"oneof=cash mobile_money"`
	Status        string       `json:"status" dynamodbav:"status" validate:"oneof=pending confirmed shipped delivered cancelled"`
	CustomerInfo  CustomerInfo `json:"customerInfo" dynamodbav:"customer_info"`
	CreatedAt     time.Time    `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" dynamodbav:"updated_at"`
}

// DeliveryType is DeliveryHome when the order carries an address.
func (o Order) DeliveryType() string {
	if o.CustomerInfo.Address != nil {
		return DeliveryHome
	}
	return DeliveryPickup
}

// Subtotal is the sum of item price times quantity, without delivery.
func (o Order) Subtotal() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += it.Price * int64(it.Quantity)
	}
	return sum
}
