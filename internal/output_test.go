package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func reconciliationFixture() *Fixture {
	mar := NewTimestamp(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	apr := NewTimestamp(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	day := NewTimestamp(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	return &Fixture{
		BudgetMonths: []BudgetMonth{{Month: mar}, {Month: apr}},
		BudgetAllocations: []BudgetAllocation{
			{Budgeted: MustAmount("100.00"), CategoryName: "Groceries", Month: mar, CategoryParent: "Living"},
			{Budgeted: MustAmount("100.00"), CategoryName: "Groceries", Month: apr, CategoryParent: "Living"},
			{Budgeted: MustAmount("50.00"), CategoryName: "Gifts", Month: mar, CategoryParent: "Personal"},
		},
		Transactions: []Transaction{
			{Amount: MustAmount("1000.00"), Payee: salaryPayee, Date: day, Type: TypeIncome, AccountName: JointCurrent, CategoryName: ToBudget},
			{Amount: MustAmount("150.25"), Payee: "Tesco", Date: day, Type: TypeExpense, AccountName: CreditCard, CategoryName: "Groceries", CategoryParent: "Living"},
			{Amount: MustAmount("99.80"), Payee: "Aldi", Date: day, Type: TypeExpense, AccountName: CreditCard, CategoryName: "Groceries", CategoryParent: "Living"},
			{Amount: MustAmount("20.00"), Payee: "Moonpig", Date: day, Type: TypeExpense, AccountName: CreditCard, CategoryName: "Gifts", CategoryParent: "Personal"},
			{Amount: MustAmount("270.05"), Payee: transferPayee, Date: day, Type: TypeTransfer, AccountName: JointCurrent, TransferToAccountName: CreditCard},
		},
	}
}

var reconciliationBudget = []BudgetLine{
	{"Groceries", MustAmount("100.00")},
	{"Gifts", MustAmount("50.00")},
	{"Holiday Fund", MustAmount("500.00")},
}

func TestReconcile(t *testing.T) {
	r := Reconcile(reconciliationFixture(), reconciliationBudget)

	if len(r.Categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(r.Categories))
	}

	groceries := r.Categories[0]
	if groceries.Category != "Groceries" {
		t.Fatalf("expected base budget order, got %s first", groceries.Category)
	}
	if groceries.Budgeted.String() != "200.00" || groceries.Spent.String() != "250.05" {
		t.Errorf("groceries: budgeted %s spent %s", groceries.Budgeted, groceries.Spent)
	}
	if groceries.Available.String() != "-50.05" || !groceries.Over {
		t.Errorf("groceries should be over budget by 50.05, got available %s", groceries.Available)
	}

	gifts := r.Categories[1]
	if gifts.Available.String() != "30.00" || gifts.Over {
		t.Errorf("gifts: available %s over %v", gifts.Available, gifts.Over)
	}

	holiday := r.Categories[2]
	if !holiday.Budgeted.IsZero() || !holiday.Spent.IsZero() || holiday.Over {
		t.Errorf("holiday fund should be untouched, got %+v", holiday)
	}

	s := r.Summary
	if s.Months != 2 || s.Transactions != 5 {
		t.Errorf("unexpected counts: months %d transactions %d", s.Months, s.Transactions)
	}
	if s.Income.String() != "1000.00" {
		t.Errorf("expected income 1000.00, got %s", s.Income)
	}
	if s.Budgeted.String() != "250.00" {
		t.Errorf("expected budgeted 250.00, got %s", s.Budgeted)
	}
	// transfers are not expenses
	if s.Expenses.String() != "270.05" {
		t.Errorf("expected expenses 270.05, got %s", s.Expenses)
	}
	if s.Unallocated.String() != "750.00" {
		t.Errorf("expected unallocated 750.00, got %s", s.Unallocated)
	}
	if s.Surplus.String() != "-20.05" {
		t.Errorf("expected surplus -20.05, got %s", s.Surplus)
	}

	over := r.OverBudget()
	if len(over) != 1 || over[0] != "Groceries" {
		t.Errorf("expected [Groceries] over budget, got %v", over)
	}
}

func TestPrintReconciliationTable(t *testing.T) {
	var buf bytes.Buffer
	PrintReconciliationTable(&buf, Reconcile(reconciliationFixture(), reconciliationBudget), GetCurrency("GBP"))
	out := buf.String()

	for _, want := range []string{
		"Category",
		"2-Month Budget",
		"2-Month Spent",
		"Groceries",
		"Holiday Fund",
		"£250.05",
		"OVER",
		"Total",
		"Transactions: 5",
		"Income: £1,000.00, Budgeted: £250.00, Expenses: £270.05",
		"To Budget remaining: £750.00",
		"Budget surplus (budgeted-expenses): -£20.05",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrintReconciliationJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintReconciliationJSON(&buf, Reconcile(reconciliationFixture(), reconciliationBudget)); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Categories []struct {
			Category  string `json:"category"`
			Available string `json:"available"`
			Over      bool   `json:"over_budget"`
		} `json:"categories"`
		Summary struct {
			Surplus string `json:"surplus"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded.Categories) != 3 || decoded.Categories[0].Available != "-50.05" || !decoded.Categories[0].Over {
		t.Errorf("unexpected categories: %+v", decoded.Categories)
	}
	if decoded.Summary.Surplus != "-20.05" {
		t.Errorf("expected surplus -20.05, got %s", decoded.Summary.Surplus)
	}
}

func TestReconcile_GeneratedFixture(t *testing.T) {
	f, catalog := generateDefault(t, GeneratorOptions{Seed: 42})
	r := Reconcile(f, catalog.BaseBudget)

	// salary: 11 x 3800 + 4100 + 4350
	if got := r.Summary.Income.String(); got != "50250.00" {
		t.Errorf("expected income 50250.00, got %s", got)
	}
	// 8 x 3750 + Nov 3795 + Dec 3950 + Jan 3800 + Feb 3790 (twice)
	if got := r.Summary.Budgeted.String(); got != "49125.00" {
		t.Errorf("expected budgeted 49125.00, got %s", got)
	}

	spent := ZeroAmount
	for _, line := range r.Categories {
		spent = spent.Add(line.Spent)
	}
	if !spent.Equal(r.Summary.Expenses) {
		t.Errorf("category spend %s does not add up to expenses %s", spent, r.Summary.Expenses)
	}
}
