package stock

import "github.com/noah-isme/backend-crm/internal/common"

// Reason classifies a stock movement.
type Reason string

const (
	ReasonAdjustment        Reason = "adjustment"
	ReasonRestock           Reason = "restock"
	ReasonPresaleConversion Reason = "presale_conversion"
)

// ParseReason validates a client supplied movement reason. Conversion
// movements are only recorded by the pre-sale workflow.
func ParseReason(raw string) (Reason, error) {
	switch Reason(raw) {
	case "", ReasonAdjustment:
		return ReasonAdjustment, nil
	case ReasonRestock:
		return ReasonRestock, nil
	default:
		return "", common.InvalidInput("reason must be adjustment or restock")
	}
}
