package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator that reports fields by their json name.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// an address cannot be set and cleared in the same request
	v.RegisterStructValidation(updateProfileStructValidation, UpdateProfileRequest{})

	return v
}

func updateProfileStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(UpdateProfileRequest)
	if req.ClearAddress && req.Address != nil {
		sl.ReportError(req.Address, "address", "Address", "address_or_clear", "")
	}
}
