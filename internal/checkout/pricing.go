package checkout

import (
	"strings"

	"github.com/imrishuroy/fybyshop/internal/cart"
	"github.com/imrishuroy/fybyshop/internal/orders"
)

// InFreeZone reports whether city contains any free shipping zone, ignoring case.
func (c Config) InFreeZone(city string) bool {
	if city == "" {
		return false
	}
	lc := strings.ToLower(city)
	for _, zone := range c.FreeShippingZones {
		if strings.Contains(lc, strings.ToLower(zone)) {
			return true
		}
	}
	return false
}

// ComputeDeliveryPrice prices a delivery option for an address. Pickup is
// always free; home delivery is free in the zones and otherwise costs the
// surcharge for the paid option only.
func (c Config) ComputeDeliveryPrice(option *DeliveryOption, addr *orders.Address) int64 {
	if option == nil || option.Type == orders.DeliveryPickup {
		return 0
	}
	if addr != nil && c.InFreeZone(addr.City) {
		return 0
	}
	if option.ID == c.PaidOptionID {
		return c.DeliverySurcharge
	}
	return 0
}

// FinalTotal is the cart subtotal plus delivery. No taxes or discounts.
func FinalTotal(lines []cart.Line, deliveryPrice int64) int64 {
	return cart.Cart{Lines: lines}.Subtotal() + deliveryPrice
}

// Quote is the price breakdown shown on the confirmation step.
type Quote struct {
	Subtotal      int64 `json:"subtotal"`
	DeliveryPrice int64 `json:"deliveryPrice"`
	Total         int64 `json:"total"`
	FreeShipping  bool  `json:"freeShipping"`
}
