package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyInstallment divides the total evenly across the duration,
// rounded to the minor unit. The final scheduled payment absorbs any
// rounding remainder (see BuildSchedule).
func MonthlyInstallment(total decimal.Decimal, durationMonths int) decimal.Decimal {
	if durationMonths <= 0 {
		return total.Round(2)
	}
	return total.Div(decimal.NewFromInt(int64(durationMonths))).Round(2)
}

// BuildSchedule produces one payment row per month starting at
// firstDue. Every row carries the even installment except the last,
// which is adjusted so the scheduled amounts sum to the total exactly.
func BuildSchedule(total decimal.Decimal, durationMonths int, firstDue time.Time) []Payment {
	if durationMonths <= 0 {
		durationMonths = 1
	}
	installment := MonthlyInstallment(total, durationMonths)

	payments := make([]Payment, 0, durationMonths)
	due := firstDue
	for i := 1; i <= durationMonths; i++ {
		amount := installment
		if i == durationMonths {
			amount = total.Sub(installment.Mul(decimal.NewFromInt(int64(durationMonths - 1))))
		}
		payments = append(payments, Payment{
			Sequence:        i,
			DueDate:         due,
			ScheduledAmount: amount,
			ActualAmount:    decimal.Zero,
			Status:          PaymentStatusScheduled,
		})
		due = due.AddDate(0, 1, 0)
	}
	return payments
}

// InstallmentDue reports whether the loan's next scheduled payment
// falls due on or before end. A loan whose first payment date lies
// past the period is not withheld yet, matching the grant-month grace.
func InstallmentDue(schedule []Payment, end time.Time) bool {
	for _, p := range schedule {
		if p.Status == PaymentStatusScheduled {
			return !p.DueDate.After(end)
		}
	}
	return false
}

// DeductionForPeriod returns what a payroll run should withhold for
// the loan: the scheduled installment, capped by what the loan still
// owes. alreadyApplied is the amount a previous run of the same period
// bound to this loan; counting it keeps recalculation idempotent.
func DeductionForPeriod(l Loan, alreadyApplied decimal.Decimal) decimal.Decimal {
	outstanding := l.RemainingBalance.Add(alreadyApplied)
	if outstanding.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if l.MonthlyInstallment.GreaterThan(outstanding) {
		return outstanding
	}
	return l.MonthlyInstallment
}
