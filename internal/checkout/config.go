package checkout

import "github.com/imrishuroy/fybyshop/internal/orders"

// DeliveryOption is one entry of the delivery catalog shown on step 1.
type DeliveryOption struct {
	ID            string `json:"id"`
	Type          string `json:"type"` // orders.DeliveryPickup | orders.DeliveryHome
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	EstimatedTime string `json:"estimatedTime"`
}

// Config holds the pricing inputs of the checkout flow.
type Config struct {
	// FreeShippingZones are matched case-insensitively as substrings of the city.
	FreeShippingZones []string
	// DeliverySurcharge applies to PaidOptionID outside the free zones.
	DeliverySurcharge int64
	PaidOptionID      string
	Options           []DeliveryOption
	MobileMoneyNumber string
}

const (
	PickupOptionID   = "pickup"
	StandardOptionID = "standard"
)

// DefaultConfig is the storefront's stock configuration.
func DefaultConfig() Config {
	return Config{
		FreeShippingZones: []string{"Cococodji", "Hêvié", "Pahou", "Calavi"},
		DeliverySurcharge: 2500,
		PaidOptionID:      StandardOptionID,
		MobileMoneyNumber: "52 35 34 84",
		Options: []DeliveryOption{
			{
				ID:            PickupOptionID,
				Type:          orders.DeliveryPickup,
				Name:          "Retrait en magasin",
				Description:   "Prenez rendez-vous pour récupérer votre commande",
				Price:         0,
				EstimatedTime: "Dès demain",
			},
			{
				ID:            StandardOptionID,
				Type:          orders.DeliveryHome,
				Name:          "Livraison standard",
				Description:   "Livraison à domicile, gratuite dans les zones partenaires",
				Price:         2500,
				EstimatedTime: "24 à 48h",
			},
		},
	}
}

// Option looks up a delivery option by id.
func (c Config) Option(id string) (DeliveryOption, bool) {
	for _, o := range c.Options {
		if o.ID == id {
			return o, true
		}
	}
	return DeliveryOption{}, false
}
