package internal

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRecurringTolerance is the max allowed change between consecutive
// monthly amounts of a recurring charge (0.35 = 35%)
const DefaultRecurringTolerance = 0.35

type RecurringStatus string

const (
	RecurringActive RecurringStatus = "active"
	RecurringLapsed RecurringStatus = "lapsed"
)

// RecurringCharge is a payee charged exactly once in every month it appears
type RecurringCharge struct {
	Payee        string          `json:"payee"`
	Category     string          `json:"category"`
	Account      string          `json:"account"`
	AvgAmount    Amount          `json:"avg_amount"`
	LatestAmount Amount          `json:"latest_amount"`
	MinAmount    Amount          `json:"min_amount"`
	MaxAmount    Amount          `json:"max_amount"`
	Months       int             `json:"months"`
	FirstDate    Timestamp       `json:"first_date"`
	LastDate     Timestamp       `json:"last_date"`
	TypicalDay   int             `json:"typical_day"`
	Status       RecurringStatus `json:"status"`
}

// DetectRecurring finds the monthly charges in a fixture. Payees are grouped
// case-insensitively; a payee qualifies when it has at least two expenses, never
// more than one in a month, and consecutive amounts within tolerance. Status is
// judged against the export date.
func DetectRecurring(f *Fixture, tolerance float64) []RecurringCharge {
	byName := make(map[string][]Transaction)
	for _, tx := range FilterExpenses(f.Transactions) {
		key := strings.ToLower(tx.Payee)
		byName[key] = append(byName[key], tx)
	}

	var charges []RecurringCharge
	for _, txs := range byName {
		if len(txs) < 2 {
			continue
		}

		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].Date.Before(txs[j].Date.Time)
		})

		// If there are ever 2+ payments in any month, it's not a recurring charge
		if !IsMonthlyPattern(txs) || !AmountsWithinTolerance(txs, tolerance) {
			continue
		}

		first, last := txs[0], txs[len(txs)-1]
		minAmount, maxAmount := CalculateAmountRange(txs)
		typicalDay := CalculateTypicalDay(txs)

		charges = append(charges, RecurringCharge{
			Payee:        last.Payee,
			Category:     last.CategoryName,
			Account:      last.AccountName,
			AvgAmount:    CalculateAverageAmount(txs),
			LatestAmount: last.Amount,
			MinAmount:    minAmount,
			MaxAmount:    maxAmount,
			Months:       len(txs),
			FirstDate:    first.Date,
			LastDate:     last.Date,
			TypicalDay:   typicalDay,
			Status:       DetermineStatus(last.Date.Time, typicalDay, f.ExportDate.Time),
		})
	}

	// Sort: active first, then by amount (highest first), then by name
	sort.Slice(charges, func(i, j int) bool {
		if charges[i].Status != charges[j].Status {
			return charges[i].Status == RecurringActive
		}
		if c := charges[i].AvgAmount.Cmp(charges[j].AvgAmount); c != 0 {
			return c > 0
		}
		return charges[i].Payee < charges[j].Payee
	})

	return charges
}

// FilterExpenses returns only Expense transactions
func FilterExpenses(txs []Transaction) []Transaction {
	var expenses []Transaction
	for _, tx := range txs {
		if tx.Type == TypeExpense {
			expenses = append(expenses, tx)
		}
	}
	return expenses
}

// IsMonthlyPattern checks if transactions occur at most once per calendar month.
func IsMonthlyPattern(txs []Transaction) bool {
	byMonth := make(map[Month]int)
	for _, tx := range txs {
		m := MonthOf(tx.Date.Time)
		byMonth[m]++
		if byMonth[m] > 1 {
			return false
		}
	}
	return true
}

// AmountsWithinTolerance checks if consecutive amounts are within the given tolerance.
// Comparing neighbours lets a charge drift over the year, like energy bills do.
func AmountsWithinTolerance(txs []Transaction, tolerance float64) bool {
	if len(txs) < 2 {
		return len(txs) == 1
	}

	for i := 1; i < len(txs); i++ {
		prev := txs[i-1].Amount.Float64()
		curr := txs[i].Amount.Float64()
		if prev == 0 {
			if curr != 0 {
				return false
			}
			continue
		}
		if math.Abs(curr-prev)/prev > tolerance {
			return false
		}
	}
	return true
}

// CalculateAverageAmount returns the mean amount, rounded to the cent
func CalculateAverageAmount(txs []Transaction) Amount {
	if len(txs) == 0 {
		return ZeroAmount
	}
	sum := ZeroAmount
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}
	return Amount{d: sum.Decimal().Div(decimal.NewFromInt(int64(len(txs)))).Round(2)}
}

// CalculateAmountRange returns the min and max amounts.
func CalculateAmountRange(txs []Transaction) (lo, hi Amount) {
	if len(txs) == 0 {
		return ZeroAmount, ZeroAmount
	}
	lo, hi = txs[0].Amount, txs[0].Amount
	for _, tx := range txs[1:] {
		if tx.Amount.Cmp(lo) < 0 {
			lo = tx.Amount
		}
		if tx.Amount.Cmp(hi) > 0 {
			hi = tx.Amount
		}
	}
	return lo, hi
}

// CalculateTypicalDay returns the average day of month for payments.
func CalculateTypicalDay(txs []Transaction) int {
	if len(txs) == 0 {
		return 0
	}
	sum := 0
	for _, tx := range txs {
		sum += tx.Date.Day()
	}
	return sum / len(txs)
}

// DetermineStatus checks if a charge is still running as of asOf. A charge
// last paid in the previous month stays active until five days after its
// typical day.
func DetermineStatus(lastPayment time.Time, typicalDay int, asOf time.Time) RecurringStatus {
	last := MonthOf(lastPayment)
	current := MonthOf(asOf)

	if !last.Before(current) {
		return RecurringActive
	}

	monthsDiff := (current.Year-last.Year)*12 + int(current.Month-last.Month)
	if monthsDiff > 1 {
		return RecurringLapsed
	}

	expected := current.At(typicalDay, 0, 0)
	if asOf.After(expected.AddDate(0, 0, 5)) {
		return RecurringLapsed
	}
	return RecurringActive
}
