// Package notify renders order notifications and delivers them.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/imrishuroy/fybyshop/internal/orders"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PickupLocation is printed for store pickup orders.
const PickupLocation = "Abomey Calavi, Benin"

var fr = message.NewPrinter(language.French)

// FormatAmount groups thousands the French way.
func FormatAmount(n int64) string {
	return fr.Sprintf("%d", n)
}

// OrderMessage renders the order summary sent to the shop.
func OrderMessage(o orders.Order) string {
	c := o.CustomerInfo

	var b strings.Builder
	b.WriteString("🛒 *Nouvelle commande FybyShop*\n\n")
	fmt.Fprintf(&b, "#%s%s#\n\n", c.FirstName, c.LastName)
	fmt.Fprintf(&b, "👤 *Client:* %s %s\n", c.FirstName, c.LastName)
	fmt.Fprintf(&b, "📧 *Email:* %s\n", c.Email)
	fmt.Fprintf(&b, "📱 *Téléphone:* %s\n\n", c.Phone)

	if a := c.Address; a != nil {
		fmt.Fprintf(&b, "🏠 *Adresse de livraison:*\n%s\n%s, %s\n%s\n\n", a.Street, a.City, a.PostalCode, a.Country)
	} else {
		fmt.Fprintf(&b, "🏪 *Retrait en magasin*\n%s\n\n", PickupLocation)
	}

	b.WriteString("📦 *Produits commandés:*\n")
	for i, it := range o.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s x%d - %s FCFA", it.Name, it.Quantity, FormatAmount(it.Price))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "💰 *Total:* %s FCFA\n", FormatAmount(o.Total))
	deliveryLabel := "Retrait en magasin"
	if o.DeliveryType() == orders.DeliveryHome {
		deliveryLabel = "Livraison"
	}
	deliveryPrice := "Gratuite"
	if o.DeliveryPrice != 0 {
		deliveryPrice = FormatAmount(o.DeliveryPrice) + " FCFA"
	}
	fmt.Fprintf(&b, "🚚 *%s:* %s\n", deliveryLabel, deliveryPrice)
	payment := "Mobile Money"
	if o.PaymentMethod == orders.PaymentCash {
		payment = "À la livraison"
	}
	fmt.Fprintf(&b, "💳 *Paiement:* %s\n\n", payment)
	fmt.Fprintf(&b, "📋 *Commande #%s*", o.OrderID)
	return b.String()
}

// WhatsAppLink builds a wa.me deep link that opens a chat with text prefilled.
// number is digits only, country code included.
func WhatsAppLink(number, text string) string {
	return "https://wa.me/" + number + "?text=" + encodeURIComponent(text)
}

// encodeURIComponent escapes s for a query value with spaces as %20, which
// WhatsApp expects.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
