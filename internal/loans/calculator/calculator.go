// Package calculator computes fixed-rate annuity loan repayments.
// All functions are pure and safe for concurrent use. Inputs are assumed to
// be validated by the caller: principal > 0, rate in [0, 100], term in [1, 360].
package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Quote is the rounded outcome of a loan calculation.
type Quote struct {
	MonthlyPayment float64
	TotalPayment   float64
	TotalInterest  float64
}

// Installment is one row of an amortization schedule.
type Installment struct {
	Period    int
	Payment   float64
	Principal float64
	Interest  float64
	Balance   float64
}

var hundred = decimal.NewFromInt(100)

// Round2 rounds half away from zero to two decimals, working on the shortest
// decimal representation of x so 2.675 becomes 2.68.
func Round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

// MonthlyRate converts an annual percentage into a monthly fraction.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 12 / 100
}

// monthlyPayment returns the unrounded annuity payment, using the
// equivalent form P·r / (1 − (1+r)^−n). The discount factor is computed with
// Expm1/Log1p so rates too small to change 1+r in float64 stay accurate; when
// it still underflows the loan is repaid as if interest-free.
func monthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	r := MonthlyRate(annualRatePercent)
	n := float64(termMonths)
	if r <= 0 {
		return principal / n
	}
	factor := -math.Expm1(-n * math.Log1p(r))
	if factor <= 0 {
		return principal / n
	}
	payment := principal * (r / factor)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return principal / n
	}
	return payment
}

// Calculate returns the monthly payment, total payment and total interest.
//
// The monthly payment is rounded first; totals are derived from the rounded
// payment so TotalPayment == round(MonthlyPayment*termMonths) and
// TotalInterest == round(TotalPayment-principal) hold exactly. For zero-rate
// loans that do not divide evenly this can leave a cent-level negative
// TotalInterest; Schedule shows how the final installment absorbs it.
func Calculate(principal, annualRatePercent float64, termMonths int) Quote {
	monthly := decimal.NewFromFloat(monthlyPayment(principal, annualRatePercent, termMonths)).Round(2)
	total := monthly.Mul(decimal.NewFromInt(int64(termMonths))).Round(2)
	interest := total.Sub(decimal.NewFromFloat(principal)).Round(2)

	m, _ := monthly.Float64()
	t, _ := total.Float64()
	i, _ := interest.Float64()
	return Quote{MonthlyPayment: m, TotalPayment: t, TotalInterest: i}
}

// Schedule returns the month-by-month amortization table. Interest accrues
// on the outstanding balance each month and is rounded to cents; the final
// installment pays off whatever balance remains so the table closes at zero.
func Schedule(principal, annualRatePercent float64, termMonths int) []Installment {
	if termMonths < 1 {
		return nil
	}

	payment := decimal.NewFromFloat(monthlyPayment(principal, annualRatePercent, termMonths)).Round(2)
	rate := decimal.NewFromFloat(annualRatePercent).Div(hundred).Div(decimal.NewFromInt(12))
	balance := decimal.NewFromFloat(principal).Round(2)

	rows := make([]Installment, 0, termMonths)
	for period := 1; period <= termMonths; period++ {
		interest := balance.Mul(rate).Round(2)
		principalPart := payment.Sub(interest)
		if period == termMonths || principalPart.GreaterThan(balance) {
			principalPart = balance
		}
		paid := principalPart.Add(interest)
		balance = balance.Sub(principalPart)

		rows = append(rows, Installment{
			Period:    period,
			Payment:   toFloat(paid),
			Principal: toFloat(principalPart),
			Interest:  toFloat(interest),
			Balance:   toFloat(balance),
		})
		if balance.IsZero() && period < termMonths {
			break
		}
	}
	return rows
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
