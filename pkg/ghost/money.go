package ghost

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// FormatPrice renders a price in minor units, e.g. 500 "usd" as "5.00 USD".
func FormatPrice(amount int64, currency string) string {
	value := decimal.New(amount, constants.MinorUnitExponent).StringFixed(2)
	if currency == "" {
		return value
	}

	return value + " " + strings.ToUpper(currency)
}

// ParsePrice converts a major unit amount such as "5.99" into minor units.
func ParsePrice(value string) (int64, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, NewValidationError("price", "must be a decimal amount")
	}

	if parsed.IsNegative() {
		return 0, NewValidationError("price", "must not be negative")
	}

	return parsed.Shift(-constants.MinorUnitExponent).Round(0).IntPart(), nil
}

// FormatOfferAmount renders an offer discount according to its type.
func FormatOfferAmount(offer *Offer) string {
	switch offer.Type {
	case "percent":
		return decimal.NewFromInt(offer.Amount).String() + "%"
	case "fixed":
		return FormatPrice(offer.Amount, offer.Currency)
	case "trial":
		return decimal.NewFromInt(offer.Amount).String() + " days"
	default:
		return decimal.NewFromInt(offer.Amount).String()
	}
}
