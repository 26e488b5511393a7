package Validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"Fleetbook/Models"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Amount is validated by its numeric value so gt/gte tags apply
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if amount, ok := field.Interface().(Models.Amount); ok {
			return amount.InexactFloat64()
		}
		return nil
	}, Models.Amount{})

	mustRegister("date", isDate, "{0} must be a date in YYYY-MM-DD format")
	mustRegister("yearmonth", isYearMonth, "{0} must be a month in YYYY-MM format")

	english := en.New()
	trans, _ = ut.New(english, english).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
	for _, tag := range []string{"date", "yearmonth"} {
		registerMessage(tag)
	}
}

var messages = map[string]string{}

func mustRegister(tag string, fn validator.Func, message string) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
	messages[tag] = message
}

func registerMessage(tag string) {
	message := messages[tag]
	err := validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return t
		},
	)
	if err != nil {
		panic(err)
	}
}

func isDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(Models.DateLayout, fl.Field().String())
	return err == nil
}

func isYearMonth(fl validator.FieldLevel) bool {
	_, err := time.Parse(Models.YearMonthLayout, fl.Field().String())
	return err == nil
}

// Error carries the translated message of every failed field.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, e.Fields[key])
	}
	return strings.Join(parts, "; ")
}

// Struct validates s against its validate tags. Failures come back as *Error
// keyed by the JSON path of the field.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	out := &Error{Fields: make(map[string]string, len(fieldErrors))}
	for _, fe := range fieldErrors {
		out.Fields[fieldPath(fe.Namespace())] = fe.Translate(trans)
	}
	return out
}

// fieldPath drops the struct name from a namespace like "TripInput.costs[0].amount".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// Var validates a single value, such as a query parameter, against tag.
func Var(name string, value interface{}, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	out := &Error{Fields: make(map[string]string, len(fieldErrors))}
	for _, fe := range fieldErrors {
		out.Fields[name] = name + " " + strings.TrimSpace(fe.Translate(trans))
	}
	return out
}
