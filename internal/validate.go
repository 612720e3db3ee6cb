package internal

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ValidateFixture checks the structural invariants of a fixture against the
// catalog it was generated from. All violations are returned joined.
func ValidateFixture(f *Fixture, catalog *Catalog) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	accounts := make(map[string]bool, len(f.Accounts))
	for _, a := range f.Accounts {
		if _, ok := catalog.Account(a.Name); !ok {
			add("account %q is not in the catalog", a.Name)
		}
		accounts[a.Name] = true
	}

	checkLeaf := func(what, name, parent string) {
		cat, ok := catalog.Category(name)
		switch {
		case !ok:
			add("%s: unknown category %q", what, name)
		case cat.IsHeader:
			add("%s: category %q is a header", what, name)
		case cat.ParentName != parent:
			add("%s: category %q has parent %q, want %q", what, name, parent, cat.ParentName)
		}
	}

	for i, al := range f.BudgetAllocations {
		checkLeaf(fmt.Sprintf("allocation %d (%s)", i, al.Month), al.CategoryName, al.CategoryParent)
	}

	type payeeStats struct {
		count    int
		lastDate time.Time
		category string
	}
	stats := make(map[string]*payeeStats)
	var payeeOrder []string
	settled := make(map[Month]Amount)
	var months []Month
	seenMonth := make(map[Month]bool)
	addMonth := func(m Month) {
		if !seenMonth[m] {
			seenMonth[m] = true
			months = append(months, m)
		}
	}

	for i, tx := range f.Transactions {
		what := fmt.Sprintf("transaction %d (%s %s)", i, tx.Type, tx.Date)
		if !accounts[tx.AccountName] {
			add("%s: unknown account %q", what, tx.AccountName)
		}

		switch tx.Type {
		case TypeExpense, TypeIncome:
			checkLeaf(what, tx.CategoryName, tx.CategoryParent)
			if tx.TransferToAccountName != "" {
				add("%s: has a transfer destination", what)
			}
			s, ok := stats[tx.Payee]
			if !ok {
				s = &payeeStats{lastDate: tx.Date.Time, category: tx.CategoryName}
				stats[tx.Payee] = s
				payeeOrder = append(payeeOrder, tx.Payee)
			}
			if tx.Type == TypeExpense && tx.AccountName == CreditCard {
				addMonth(MonthOf(tx.Date.Time))
			}
			s.count++
			if tx.Date.After(s.lastDate) {
				s.lastDate = tx.Date.Time
				s.category = tx.CategoryName
			}
		case TypeTransfer:
			if !accounts[tx.TransferToAccountName] {
				add("%s: unknown destination account %q", what, tx.TransferToAccountName)
			}
			if tx.TransferToAccountName == tx.AccountName {
				add("%s: transfer to the same account %q", what, tx.AccountName)
			}
			if tx.CategoryName != "" {
				add("%s: transfer has category %q", what, tx.CategoryName)
			}
			if tx.AccountName == JointCurrent && tx.TransferToAccountName == CreditCard {
				m := MonthOf(tx.Date.Time)
				settled[m] = settled[m].Add(tx.Amount)
				addMonth(m)
			}
		default:
			add("%s: unknown transaction type", what)
		}

		if tx.Amount.Sign() < 0 {
			add("%s: negative amount %s", what, tx.Amount)
		}
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	for _, m := range months {
		want := SettlementAmount(f.Transactions, m)
		amount, ok := settled[m]
		switch {
		case !ok && want.Sign() > 0:
			add("no settlement for %s, card spend is %s", m, want)
		case ok && !amount.Equal(want):
			add("settlement for %s is %s, card spend is %s", m, amount, want)
		}
	}

	recorded := make(map[string]bool, len(f.Payees))
	for _, p := range f.Payees {
		recorded[p.Name] = true
		s, ok := stats[p.Name]
		if !ok {
			add("payee %q has no transactions", p.Name)
			continue
		}
		if p.UseCount != s.count {
			add("payee %q: useCount %d, counted %d", p.Name, p.UseCount, s.count)
		}
		if !p.LastUsedDate.Equal(s.lastDate) {
			add("payee %q: lastUsedDate %s, latest transaction %s", p.Name, p.LastUsedDate, NewTimestamp(s.lastDate))
		}
		if p.LastUsedCategoryName != s.category {
			add("payee %q: lastUsedCategoryName %q, latest transaction %q", p.Name, p.LastUsedCategoryName, s.category)
		}
	}

	for _, name := range payeeOrder {
		if !recorded[name] {
			add("payee %q is used by transactions but has no payee record", name)
		}
	}

	return errors.Join(errs...)
}
