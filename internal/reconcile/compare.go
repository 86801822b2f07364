package reconcile

import "github.com/shopspring/decimal"

// Tolerance decides how far apart two monthly totals may drift before the
// difference counts as a real disagreement rather than rounding noise.
// The threshold is the larger of an absolute floor and a fraction of the
// server's figure.
type Tolerance struct {
	Floor decimal.Decimal
	Ratio decimal.Decimal
}

// DefaultTolerance allows one cent or half a percent of the server total,
// whichever is larger.
func DefaultTolerance() Tolerance {
	return Tolerance{
		Floor: decimal.New(1, -2), // 0.01
		Ratio: decimal.New(5, -3), // 0.005
	}
}

// Threshold returns the maximum acceptable absolute difference for a given
// server-reported total.
func (t Tolerance) Threshold(serverTotal decimal.Decimal) decimal.Decimal {
	relative := serverTotal.Mul(t.Ratio)
	if relative.GreaterThan(t.Floor) {
		return relative
	}
	return t.Floor
}

// FlagDiscrepancy compares an independently computed monthly total against
// the server's, returning true when they disagree beyond tolerance.
//
// Either side being absent means no flag: missing data is not evidence of
// disagreement. The comparison is pure; it never triggers a re-fetch or a
// correction, it only informs the caller.
func FlagDiscrepancy(computed, serverTotal *decimal.Decimal, tol Tolerance) bool {
	if computed == nil || serverTotal == nil {
		return false
	}
	diff := serverTotal.Sub(*computed).Abs()
	return diff.GreaterThan(tol.Threshold(*serverTotal))
}
