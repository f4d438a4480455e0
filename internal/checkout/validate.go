package checkout

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/imrishuroy/fybyshop/internal/orders"
)

// Messages shown next to each customer info field.
var fieldMessages = map[string]string{
	"firstName": "Le prénom est obligatoire",
	"lastName":  "Le nom est obligatoire",
	"email":     "L'email est obligatoire",
	"phone":     "Le téléphone est obligatoire",
	"street":    "L'adresse est obligatoire",
	"city":      "La ville est obligatoire",
	"country":   "Le pays est obligatoire",
}

type contactForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

type addressForm struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	Country string `json:"country" validate:"required"`
}

var (
	formOnce      sync.Once
	formValidator *validatorv10.Validate
)

func forms() *validatorv10.Validate {
	formOnce.Do(func() {
		formValidator = validatorv10.New()
		formValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
			return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		})
	})
	return formValidator
}

// ValidateCustomer checks the customer info step. The address is only required
// for home delivery. Returns nil when everything is filled in.
func ValidateCustomer(info orders.CustomerInfo, option *DeliveryOption) map[string]string {
	out := map[string]string{}
	collect(out, contactForm{
		FirstName: info.FirstName,
		LastName:  info.LastName,
		Email:     info.Email,
		Phone:     info.Phone,
	})

	if option != nil && option.Type == orders.DeliveryHome {
		var addr orders.Address
		if info.Address != nil {
			addr = *info.Address
		}
		collect(out, addressForm{Street: addr.Street, City: addr.City, Country: addr.Country})
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func collect(out map[string]string, form any) {
	err := forms().Struct(form)
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return
	}
	for _, fe := range ve {
		out[fe.Field()] = fieldMessages[fe.Field()]
	}
}
