package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var fieldLabels = map[string]string{
	"Username":    "Username",
	"Email":       "Email",
	"Password":    "Password",
	"CarName":     "Car name",
	"ModelName":   "Model name",
	"BuyDate":     "Buy date",
	"BuyPrice":    "Buy price",
	"Description": "Description",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// only fails on an empty tag or a nil func
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// check validates s and turns the first failure into an *InputError.
func check(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate input: %w", err)
	}

	fe := verrs[0]
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "email":
		return invalid("Email is not valid")
	case "min":
		return invalid(fmt.Sprintf("%s must be at least %s characters", label, fe.Param()))
	case "datetime":
		return invalid(label + " must be a date in YYYY-MM-DD format")
	case "numeric":
		return invalid(label + " must be a non-negative number")
	default:
		return invalid(label + " is required")
	}
}
