package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/common"
)

// DiscountType selects how a global discount value is interpreted.
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// ParseDiscountType normalises a client supplied type. Empty input defaults to fixed.
func ParseDiscountType(raw string) (DiscountType, error) {
	switch DiscountType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DiscountFixed:
		return DiscountFixed, nil
	case DiscountPercentage:
		return DiscountPercentage, nil
	default:
		return "", common.InvalidInput("discount type must be fixed or percentage")
	}
}

// DiscountSpec is the global discount applied to a pre-sale subtotal.
type DiscountSpec struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Amount resolves the discount against a subtotal, capped at the subtotal.
func (s DiscountSpec) Amount(subtotal decimal.Decimal) (decimal.Decimal, error) {
	if s.Value.IsNegative() {
		return decimal.Zero, common.InvalidInput("discount must not be negative")
	}
	var amount decimal.Decimal
	switch s.Type {
	case DiscountPercentage:
		if s.Value.GreaterThan(hundred) {
			return decimal.Zero, common.InvalidInput("percentage discount cannot exceed 100")
		}
		amount = subtotal.Mul(s.Value).Div(hundred)
	case DiscountFixed, "":
		amount = s.Value
	default:
		return decimal.Zero, common.InvalidInput("discount type must be fixed or percentage")
	}
	return Round2(minDec(amount, subtotal)), nil
}

// PercentageToFixed converts a percentage of subtotal to a currency amount.
func PercentageToFixed(subtotal, pct decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.IsNegative() {
		return decimal.Zero, common.InvalidInput("subtotal must not be negative")
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return decimal.Zero, common.InvalidInput("percentage must be between 0 and 100")
	}
	return Round2(subtotal.Mul(pct).Div(hundred)), nil
}

// FixedToPercentage expresses a currency amount as a percentage of subtotal.
// The amount is capped at the subtotal and a zero subtotal yields zero.
func FixedToPercentage(subtotal, fixed decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.IsNegative() {
		return decimal.Zero, common.InvalidInput("subtotal must not be negative")
	}
	if fixed.IsNegative() {
		return decimal.Zero, common.InvalidInput("discount must not be negative")
	}
	if subtotal.IsZero() {
		return decimal.Zero, nil
	}
	return Round2(minDec(fixed, subtotal).Div(subtotal).Mul(hundred)), nil
}

// DiscountConversion carries both representations of one discount.
type DiscountConversion struct {
	Type        DiscountType    `json:"type"`
	Value       decimal.Decimal `json:"value"`
	FixedAmount decimal.Decimal `json:"fixedAmount"`
	Percentage  decimal.Decimal `json:"percentage"`
}

// ConvertDiscount returns the fixed and percentage forms of value interpreted
// as typ against subtotal, so a caller can swap the type without changing the
// effective discount.
func ConvertDiscount(subtotal, value decimal.Decimal, typ DiscountType) (DiscountConversion, error) {
	out := DiscountConversion{Type: typ, Value: Round2(value)}
	switch typ {
	case DiscountPercentage:
		fixed, err := PercentageToFixed(subtotal, value)
		if err != nil {
			return DiscountConversion{}, err
		}
		out.FixedAmount = fixed
		out.Percentage = Round2(value)
	case DiscountFixed:
		pct, err := FixedToPercentage(subtotal, value)
		if err != nil {
			return DiscountConversion{}, err
		}
		out.FixedAmount = Round2(minDec(value, subtotal))
		out.Percentage = pct
	default:
		return DiscountConversion{}, common.InvalidInput("discount type must be fixed or percentage")
	}
	return out, nil
}

// As returns the value of the conversion expressed in typ.
func (c DiscountConversion) As(typ DiscountType) decimal.Decimal {
	if typ == DiscountPercentage {
		return c.Percentage
	}
	return c.FixedAmount
}
