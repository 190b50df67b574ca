package validation

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Violations maps a field name to an i18n code describing what is wrong with it.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Fields returns the violated field names in a stable order.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v))
	for f := range v {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// AtLeastOne flags field when n is zero.
func AtLeastOne(field string, n int, v Violations) {
	if n < 1 {
		v[field] = "at_least_one"
	}
}

// Decimal parses value and flags field when it is not a number.
// Blank input yields zero without a violation.
func Decimal(field, value string, v Violations) decimal.Decimal {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		v[field] = "invalid_number"
		return decimal.Zero
	}
	return d
}
