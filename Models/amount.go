package Models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal money or volume column.
//
// Scan never fails: a stored value that cannot be read as a number becomes
// zero and is flagged as malformed so callers can report it.
type Amount struct {
	decimal.Decimal
	raw       string
	malformed bool
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// ParseAmount parses user input. Unlike Scan it rejects malformed values.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{Decimal: d}, nil
}

// MustAmount is ParseAmount for literals.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Malformed reports whether the stored value could not be parsed.
func (a Amount) Malformed() bool {
	return a.malformed
}

// Raw returns the unparsable stored value, if any.
func (a Amount) Raw() string {
	return a.raw
}

func (a *Amount) Scan(value interface{}) error {
	*a = Amount{}
	switch v := value.(type) {
	case nil:
	case int64:
		a.Decimal = decimal.NewFromInt(v)
	case float64:
		a.Decimal = decimal.NewFromFloat(v)
	case float32:
		a.Decimal = decimal.NewFromFloat32(v)
	case []byte:
		a.parseStored(string(v))
	case string:
		a.parseStored(v)
	default:
		a.raw = fmt.Sprintf("%v", v)
		a.malformed = true
	}
	return nil
}

func (a *Amount) parseStored(s string) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		a.raw = s
		a.malformed = true
		return
	}
	a.Decimal = d
}

func (a Amount) Value() (driver.Value, error) {
	return a.Decimal.String(), nil
}

func (Amount) GormDataType() string {
	return "decimal"
}
