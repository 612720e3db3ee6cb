package internal

import (
	"errors"
	"testing"
)

func TestDefaultCatalog_BudgetTotal(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}

	total := ZeroAmount
	for _, line := range c.BaseBudget {
		total = total.Add(line.Amount)
	}
	if total.String() != "3750.00" {
		t.Errorf("expected base budget 3750.00, got %s", total)
	}
}

func TestValidateBudget_Mismatch(t *testing.T) {
	lines := append([]BudgetLine(nil), DefaultBaseBudget...)
	lines[0].Amount = MustAmount("900.00")

	err := ValidateBudget(lines, ExpectedBudgetTotal)
	if !errors.Is(err, ErrBudgetTotal) {
		t.Fatalf("expected ErrBudgetTotal, got %v", err)
	}

	_, err = NewCatalog(DefaultAccounts, DefaultCategories, lines, ExpectedBudgetTotal)
	if !errors.Is(err, ErrBudgetTotal) {
		t.Errorf("NewCatalog should reject the budget, got %v", err)
	}
}

func TestNewCatalog_RejectsBadTree(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		budget     []BudgetLine
	}{
		{
			name:       "unknown parent",
			categories: []Category{{Name: "Groceries", ParentName: "Food"}},
			budget:     nil,
		},
		{
			name: "parent is not a header",
			categories: []Category{
				{Name: "Living"},
				{Name: "Groceries", ParentName: "Living"},
			},
		},
		{
			name: "budget line on header",
			categories: []Category{
				{Name: "Living", IsHeader: true},
			},
			budget: []BudgetLine{{"Living", MustAmount("10.00")}},
		},
		{
			name: "duplicate category",
			categories: []Category{
				{Name: "Living", IsHeader: true},
				{Name: "Living", IsHeader: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCatalog(DefaultAccounts, tt.categories, tt.budget, ZeroAmount); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCatalog_Lookups(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}

	if got := c.ParentOf("Groceries"); got != "Living" {
		t.Errorf("expected Groceries under Living, got %q", got)
	}
	if got := c.ParentOf(ToBudget); got != "" {
		t.Errorf("To Budget should have no parent, got %q", got)
	}
	if c.IsLeaf("Bills") {
		t.Error("Bills is a header")
	}
	if !c.IsLeaf("Holiday Fund") {
		t.Error("Holiday Fund should be a leaf")
	}
	if _, ok := c.Account(ISA); !ok {
		t.Error("expected ISA account")
	}
	if got := c.BaseAmount("Mortgage Payment"); got.String() != "895.00" {
		t.Errorf("expected 895.00, got %s", got)
	}
	if !c.BaseAmount("Bills").IsZero() {
		t.Error("header should have no budget")
	}
}
