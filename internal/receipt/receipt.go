// Package receipt builds the order receipt summary and its QR code.
package receipt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/imrishuroy/fybyshop/internal/orders"
	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the edge of the rendered PNG, in pixels.
const QRSize = 300

type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// Summary is the data encoded in the receipt QR code.
type Summary struct {
	OrderID       string          `json:"orderId"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	Total         int64           `json:"total"`
	Items         []Item          `json:"items"`
	DeliveryType  string          `json:"deliveryType"`
	Address       *orders.Address `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// FromOrder extracts the receipt summary of an order.
func FromOrder(o orders.Order) Summary {
	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, Item{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return Summary{
		OrderID:       o.OrderID,
		CustomerName:  o.CustomerInfo.FullName(),
		CustomerPhone: o.CustomerInfo.Phone,
		Total:         o.Total,
		Items:         items,
		DeliveryType:  o.DeliveryType(),
		Address:       o.CustomerInfo.Address,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
}

// QRCode renders the order summary as a PNG QR code.
func QRCode(o orders.Order) ([]byte, error) {
	payload, err := json.Marshal(FromOrder(o))
	if err != nil {
		return nil, fmt.Errorf("marshal receipt: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
