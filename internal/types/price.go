package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BillingCadence discriminates PriceKind.
type BillingCadence string

const (
	BILLING_CADENCE_ONETIME   BillingCadence = "ONETIME"
	BILLING_CADENCE_RECURRING BillingCadence = "RECURRING"
)

// RecurringInterval is the unit of a recurring price's billing interval.
type RecurringInterval string

const (
	RecurringIntervalDay   RecurringInterval = "day"
	RecurringIntervalWeek  RecurringInterval = "week"
	RecurringIntervalMonth RecurringInterval = "month"
	RecurringIntervalYear  RecurringInterval = "year"
)

// PriceKind is either a one-time price or a recurring price with an interval
// and interval count. Interval and IntervalCount are zero for one-time prices.
type PriceKind struct {
	Cadence       BillingCadence    `json:"cadence"`
	Interval      RecurringInterval `json:"interval,omitempty"`
	IntervalCount int64             `json:"interval_count,omitempty"`
}

func OneTimePriceKind() PriceKind {
	return PriceKind{Cadence: BILLING_CADENCE_ONETIME}
}

func RecurringPriceKind(interval RecurringInterval, count int64) PriceKind {
	return PriceKind{
		Cadence:       BILLING_CADENCE_RECURRING,
		Interval:      interval,
		IntervalCount: count,
	}
}

func (k PriceKind) IsRecurring() bool {
	return k.Cadence == BILLING_CADENCE_RECURRING
}

// Compatible reports whether two kinds may describe the same price: both
// one-time, or both recurring with equal interval and interval count.
func (k PriceKind) Compatible(other PriceKind) bool {
	switch k.Cadence {
	case BILLING_CADENCE_RECURRING:
		return other.Cadence == BILLING_CADENCE_RECURRING &&
			k.Interval == other.Interval &&
			k.IntervalCount == other.IntervalCount
	case BILLING_CADENCE_ONETIME:
		return other.Cadence == BILLING_CADENCE_ONETIME
	default:
		return false
	}
}

func (k PriceKind) String() string {
	switch k.Cadence {
	case BILLING_CADENCE_RECURRING:
		return fmt.Sprintf("recurring every %d %s", k.IntervalCount, k.Interval)
	case BILLING_CADENCE_ONETIME:
		return "one-time"
	default:
		return "unknown"
	}
}

// zeroDecimalCurrencies have no minor unit; amounts are already whole units.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true,
	"kmf": true, "krw": true, "mga": true, "pyg": true, "rwf": true,
	"ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true,
	"xpf": true,
}

// FormatAmount renders an amount in minor units as "12.50 usd".
func FormatAmount(unitAmount int64, currency string) string {
	currency = strings.ToLower(currency)
	amount := decimal.NewFromInt(unitAmount)
	if zeroDecimalCurrencies[currency] {
		return fmt.Sprintf("%s %s", amount.String(), currency)
	}
	return fmt.Sprintf("%s %s", amount.Shift(-2).StringFixed(2), currency)
}
