// Package validation checks DTO field constraints declared in `validate` struct tags.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
)

var patterns = map[string]*regexp.Regexp{
	"upper_snake": regexp.MustCompile(`^[A-Z_]+$`),
	"lower_snake": regexp.MustCompile(`^[a-z_]+$`),
	"language":    regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`),
	"locale":      regexp.MustCompile(`^[a-z]{2}_[A-Z]{2}$`),
	"phone":       regexp.MustCompile(`^\+?[1-9]\d{1,14}$`),
	"avatar_url":  regexp.MustCompile(`(?i)^(https?://)?[\w\-]+(\.[\w\-]+)+([\w\-.,@?^=%&:/~+#]*[\w\-@?^=%&/~+#])?$`),
}

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		for tag, re := range patterns {
			re := re
			err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return re.MatchString(fl.Field().String())
			})
			if err != nil {
				panic("validation: register " + tag + ": " + err.Error())
			}
		}
		instance = v
	})
	return instance
}

// Struct validates s and returns a VALIDATION_FAILED error whose details map
// each offending JSON field to the rule it broke.
func Struct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return idmerrors.InternalWrap(err, "failed to validate request")
	}

	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = describe(fe)
	}
	return idmerrors.ValidationFailed(details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "ip":
		return "must be a valid IPv4 or IPv6 address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "upper_snake":
		return "must contain only uppercase letters and underscores"
	case "lower_snake":
		return "must contain only lowercase letters and underscores"
	case "language":
		return "must be a language tag like en or en-US"
	case "locale":
		return "must be a locale like en_US"
	case "phone":
		return "must be a valid phone number"
	case "avatar_url":
		return "must be a valid URL"
	}
	return "failed " + fe.Tag() + " validation"
}
