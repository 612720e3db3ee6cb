package internal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// CategoryReconciliation compares what a category was given with what it spent
type CategoryReconciliation struct {
	Category  string `json:"category"`
	Monthly   Amount `json:"monthly_budget"`
	Budgeted  Amount `json:"budgeted"`
	Spent     Amount `json:"spent"`
	Available Amount `json:"available"`
	Over      bool   `json:"over_budget"`
}

// ReconciliationSummary holds the fixture-wide totals
type ReconciliationSummary struct {
	Months       int    `json:"months"`
	Transactions int    `json:"transactions"`
	Income       Amount `json:"income"`
	Budgeted     Amount `json:"budgeted"`
	Expenses     Amount `json:"expenses"`
	Unallocated  Amount `json:"unallocated"` // income - budgeted
	Surplus      Amount `json:"surplus"`     // budgeted - expenses
}

// Reconciliation is the JSON report root
type Reconciliation struct {
	Categories []CategoryReconciliation `json:"categories"`
	Summary    ReconciliationSummary    `json:"summary"`
	Recurring  []RecurringCharge        `json:"recurring"`
}

// Reconcile folds allocations and expenses per category name. Categories are
// reported in base budget order.
func Reconcile(f *Fixture, base []BudgetLine) Reconciliation {
	budgeted := make(map[string]Amount)
	spent := make(map[string]Amount)
	summary := ReconciliationSummary{
		Months:       len(f.BudgetMonths),
		Transactions: len(f.Transactions),
	}

	for _, al := range f.BudgetAllocations {
		budgeted[al.CategoryName] = budgeted[al.CategoryName].Add(al.Budgeted)
		summary.Budgeted = summary.Budgeted.Add(al.Budgeted)
	}
	for _, tx := range f.Transactions {
		switch tx.Type {
		case TypeExpense:
			if tx.CategoryName != "" {
				spent[tx.CategoryName] = spent[tx.CategoryName].Add(tx.Amount)
			}
			summary.Expenses = summary.Expenses.Add(tx.Amount)
		case TypeIncome:
			summary.Income = summary.Income.Add(tx.Amount)
		}
	}
	summary.Unallocated = summary.Income.Sub(summary.Budgeted)
	summary.Surplus = summary.Budgeted.Sub(summary.Expenses)

	lines := make([]CategoryReconciliation, 0, len(base))
	for _, line := range base {
		available := budgeted[line.Category].Sub(spent[line.Category])
		lines = append(lines, CategoryReconciliation{
			Category:  line.Category,
			Monthly:   line.Amount,
			Budgeted:  budgeted[line.Category],
			Spent:     spent[line.Category],
			Available: available,
			Over:      available.Sign() < 0,
		})
	}

	return Reconciliation{
		Categories: lines,
		Summary:    summary,
		Recurring:  DetectRecurring(f, DefaultRecurringTolerance),
	}
}

// OverBudget returns the categories that spent more than they were given
func (r Reconciliation) OverBudget() []string {
	var names []string
	for _, line := range r.Categories {
		if line.Over {
			names = append(names, line.Category)
		}
	}
	return names
}

// PrintReconciliationJSON outputs the report in JSON format
func PrintReconciliationJSON(w io.Writer, r Reconciliation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// PrintReconciliationTable outputs the per-category table followed by the totals lines
func PrintReconciliationTable(w io.Writer, r Reconciliation, cur Currency) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	months := r.Summary.Months
	t.AppendHeader(table.Row{
		"Category", "Monthly",
		fmt.Sprintf("%d-Month Budget", months),
		fmt.Sprintf("%d-Month Spent", months),
		"Available", "",
	})

	var monthly, budgeted, spent, available Amount
	for _, line := range r.Categories {
		flag := ""
		availableStr := cur.Format(line.Available)
		if line.Over {
			flag = text.FgRed.Sprint("◀ OVER")
			availableStr = text.FgRed.Sprint(availableStr)
		}
		t.AppendRow(table.Row{
			line.Category,
			cur.Format(line.Monthly),
			cur.Format(line.Budgeted),
			cur.Format(line.Spent),
			availableStr,
			flag,
		})
		monthly = monthly.Add(line.Monthly)
		budgeted = budgeted.Add(line.Budgeted)
		spent = spent.Add(line.Spent)
		available = available.Add(line.Available)
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{
		text.Bold.Sprint("Total"),
		text.Bold.Sprint(cur.Format(monthly)),
		text.Bold.Sprint(cur.Format(budgeted)),
		text.Bold.Sprint(cur.Format(spent)),
		text.Bold.Sprint(cur.Format(available)),
		"",
	})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	t.Render()

	s := r.Summary
	fmt.Fprintf(w, "\nTransactions: %d\n", s.Transactions)
	fmt.Fprintf(w, "Income: %s, Budgeted: %s, Expenses: %s\n",
		cur.Format(s.Income), cur.Format(s.Budgeted), cur.Format(s.Expenses))
	fmt.Fprintf(w, "To Budget remaining: %s\n", cur.Format(s.Unallocated))
	fmt.Fprintf(w, "Budget surplus (budgeted-expenses): %s\n", cur.Format(s.Surplus))

	if len(r.Recurring) > 0 {
		fmt.Fprintf(w, "\nRecurring charges: %d\n", len(r.Recurring))
		printRecurringTable(w, r.Recurring, cur)
	}
}

func printRecurringTable(w io.Writer, charges []RecurringCharge, cur Currency) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Payee", "Category", "Account", "Avg", "Latest", "Day", "Months", "Status"})

	for _, c := range charges {
		status := string(c.Status)
		if c.Status == RecurringLapsed {
			status = text.FgYellow.Sprint(status)
		}
		t.AppendRow(table.Row{
			c.Payee,
			c.Category,
			c.Account,
			cur.Format(c.AvgAmount),
			cur.Format(c.LatestAmount),
			c.TypicalDay,
			c.Months,
			status,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}
