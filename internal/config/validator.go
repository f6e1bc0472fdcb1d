package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("intervals", isIntervalTable); err != nil {
		return nil, nil, fmt.Errorf("failed to register intervals validation: %w", err)
	}
	if err := validate.RegisterTranslation("intervals", trans, func(ut ut.Translator) error {
		return ut.Add("intervals", "{0} must be a strictly ascending list of positive day counts", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("intervals", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register intervals translation: %w", err)
	}

	return validate, trans, nil
}

// isIntervalTable checks that an interval ladder is non-empty, positive, and
// strictly ascending. An empty slice passes so omitempty semantics stay with
// the field's other tags; the ladder constructor applies the defaults.
func isIntervalTable(fl validator.FieldLevel) bool {
	intervals, ok := fl.Field().Interface().([]int)
	if !ok {
		return false
	}
	for i, days := range intervals {
		if days <= 0 {
			return false
		}
		if i > 0 && days <= intervals[i-1] {
			return false
		}
	}
	return true
}
