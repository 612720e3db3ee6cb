package internal

import (
	"errors"
	"fmt"
	"time"
)

const (
	JointCurrent = "Joint Current"
	SavingsAcct  = "Savings"
	CreditCard   = "Credit Card"
	ISA          = "ISA"
	MortgageAcct = "Mortgage"

	// ToBudget is the system category that income lands in
	ToBudget = "To Budget"
)

// ErrBudgetTotal is returned when the base budget does not add up to the expected total
var ErrBudgetTotal = errors.New("base budget total mismatch")

// ExpectedBudgetTotal is what the base monthly budget must sum to
var ExpectedBudgetTotal = MustAmount("3750.00")

var accountsCreatedAt = NewTimestamp(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))

// DefaultAccounts are the accounts in every fixture
var DefaultAccounts = []Account{
	{Name: JointCurrent, Type: AccountCurrent, IsBudget: true, SortOrder: 0, CreatedAt: accountsCreatedAt},
	{Name: SavingsAcct, Type: AccountSavings, IsBudget: true, SortOrder: 1, CreatedAt: accountsCreatedAt},
	{Name: CreditCard, Type: AccountCreditCard, IsBudget: true, SortOrder: 2, CreatedAt: accountsCreatedAt},
	{Name: ISA, Type: AccountSavings, IsBudget: false, SortOrder: 3, CreatedAt: accountsCreatedAt},
	{Name: MortgageAcct, Type: AccountMortgage, IsBudget: false, SortOrder: 4, CreatedAt: accountsCreatedAt},
}

// DefaultCategories is the category tree. Headers are followed by their leaves.
var DefaultCategories = []Category{
	{Name: ToBudget, Emoji: "\U0001f4b0", IsSystem: true, SortOrder: 0},

	{Name: "Bills", Emoji: "\U0001f3e0", IsHeader: true, SortOrder: 1},
	{Name: "Mortgage Payment", Emoji: "\U0001f3e0", SortOrder: 0, ParentName: "Bills"},
	{Name: "Council Tax", Emoji: "\U0001f3db\ufe0f", SortOrder: 1, ParentName: "Bills"},
	{Name: "Energy", Emoji: "\u26a1", SortOrder: 2, ParentName: "Bills"},
	{Name: "Water", Emoji: "\U0001f4a7", SortOrder: 3, ParentName: "Bills"},
	{Name: "Internet", Emoji: "\U0001f4e1", SortOrder: 4, ParentName: "Bills"},
	{Name: "Mobile Phones", Emoji: "\U0001f4f1", SortOrder: 5, ParentName: "Bills"},
	{Name: "Insurance", Emoji: "\U0001f6e1\ufe0f", SortOrder: 6, ParentName: "Bills"},

	{Name: "Living", Emoji: "\U0001f6d2", IsHeader: true, SortOrder: 2},
	{Name: "Groceries", Emoji: "\U0001f6d2", SortOrder: 0, ParentName: "Living"},
	{Name: "Eating Out", Emoji: "\U0001f37d\ufe0f", SortOrder: 1, ParentName: "Living"},
	{Name: "Transport", Emoji: "\U0001f697", SortOrder: 2, ParentName: "Living"},
	{Name: "Clothing", Emoji: "\U0001f455", SortOrder: 3, ParentName: "Living"},
	{Name: "Household", Emoji: "\U0001f3e1", SortOrder: 4, ParentName: "Living"},

	{Name: "Personal", Emoji: "\U0001f9d1", IsHeader: true, SortOrder: 3},
	{Name: "Entertainment", Emoji: "\U0001f3ac", SortOrder: 0, ParentName: "Personal"},
	{Name: "Subscriptions", Emoji: "\U0001f4fa", SortOrder: 1, ParentName: "Personal"},
	{Name: "Health", Emoji: "\U0001f48a", SortOrder: 2, ParentName: "Personal"},
	{Name: "Kids", Emoji: "\U0001f476", SortOrder: 3, ParentName: "Personal"},
	{Name: "Gifts", Emoji: "\U0001f381", SortOrder: 4, ParentName: "Personal"},

	{Name: "Savings Goals", Emoji: "\U0001f3af", IsHeader: true, SortOrder: 4},
	{Name: "Holiday Fund", Emoji: "\u2708\ufe0f", SortOrder: 0, ParentName: "Savings Goals"},
	{Name: "Emergency Fund", Emoji: "\U0001f198", SortOrder: 1, ParentName: "Savings Goals"},
}

// BudgetLine is a monthly budget target for one leaf category
type BudgetLine struct {
	Category string
	Amount   Amount
}

// DefaultBaseBudget is the monthly budget. Order matters: allocations and the
// reconciliation report follow it.
var DefaultBaseBudget = []BudgetLine{
	{"Mortgage Payment", MustAmount("895.00")},
	{"Council Tax", MustAmount("165.00")},
	{"Energy", MustAmount("140.00")},
	{"Water", MustAmount("42.00")},
	{"Internet", MustAmount("32.00")},
	{"Mobile Phones", MustAmount("45.00")},
	{"Insurance", MustAmount("85.00")},
	{"Groceries", MustAmount("686.00")},
	{"Eating Out", MustAmount("150.00")},
	{"Transport", MustAmount("250.00")},
	{"Clothing", MustAmount("75.00")},
	{"Household", MustAmount("55.00")},
	{"Entertainment", MustAmount("75.00")},
	{"Subscriptions", MustAmount("35.00")},
	{"Health", MustAmount("40.00")},
	{"Kids", MustAmount("175.00")},
	{"Gifts", MustAmount("55.00")},
	{"Holiday Fund", MustAmount("500.00")},
	{"Emergency Fund", MustAmount("250.00")},
}

// Subscription is a fixed monthly charge on the credit card
type Subscription struct {
	Name   string
	Amount Amount
}

var DefaultSubscriptions = []Subscription{
	{"Netflix", MustAmount("10.99")},
	{"Spotify", MustAmount("10.99")},
	{"Disney+", MustAmount("7.99")},
	{"iCloud", MustAmount("2.99")},
}

// PartialMonthSkippedSubscription is not charged yet in the current month
const PartialMonthSkippedSubscription = "Disney+"

// Payee pools per spending category
var (
	groceryPayees       = []string{"Tesco", "Sainsburys", "Aldi", "Lidl", "M&S Food", "Waitrose", "Co-op"}
	eatingOutPayees     = []string{"Nandos", "Costa", "Pizza Express", "The Crown", "Wagamama", "Greggs", "Pret"}
	transportPayees     = []string{"BP", "Shell", "Trainline", "TfL", "Uber"}
	entertainmentPayees = []string{"Vue Cinema", "Cineworld", "Amazon", "Waterstones"}
	clothingPayees      = []string{"Next", "Primark", "John Lewis", "H&M", "Zara"}
	householdPayees     = []string{"B&Q", "Wilko", "IKEA", "Dunelm", "Robert Dyas"}
	kidsExtraPayees     = []string{"Smyths Toys", "Clarks", "Book People", "JoJo Maman"}
	healthPayees        = []string{"Boots", "Specsavers", "Dentist"}
	giftPayees          = []string{"Amazon", "John Lewis", "Moonpig", "Not On The High Street"}
)

// Catalog is the static reference data a fixture is generated from
type Catalog struct {
	Accounts   []Account
	Categories []Category
	BaseBudget []BudgetLine

	categories map[string]Category
	accounts   map[string]Account
}

// DefaultCatalog returns the built-in catalog. It fails if the base budget
// does not add up to ExpectedBudgetTotal.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog(DefaultAccounts, DefaultCategories, DefaultBaseBudget, ExpectedBudgetTotal)
}

// NewCatalog indexes the reference data and checks that every budget line is a
// known leaf category and that the lines sum to expectedTotal.
func NewCatalog(accounts []Account, categories []Category, base []BudgetLine, expectedTotal Amount) (*Catalog, error) {
	c := &Catalog{
		Accounts:   append([]Account(nil), accounts...),
		Categories: append([]Category(nil), categories...),
		BaseBudget: append([]BudgetLine(nil), base...),
		categories: make(map[string]Category, len(categories)),
		accounts:   make(map[string]Account, len(accounts)),
	}
	for _, a := range accounts {
		if _, dup := c.accounts[a.Name]; dup {
			return nil, fmt.Errorf("duplicate account %q", a.Name)
		}
		c.accounts[a.Name] = a
	}
	for _, cat := range categories {
		if _, dup := c.categories[cat.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		c.categories[cat.Name] = cat
	}
	for _, cat := range categories {
		if cat.ParentName == "" {
			continue
		}
		parent, ok := c.categories[cat.ParentName]
		if !ok || !parent.IsHeader {
			return nil, fmt.Errorf("category %q has unknown header parent %q", cat.Name, cat.ParentName)
		}
	}
	for _, line := range base {
		if !c.IsLeaf(line.Category) {
			return nil, fmt.Errorf("budget line %q is not a leaf category", line.Category)
		}
	}
	if err := ValidateBudget(base, expectedTotal); err != nil {
		return nil, err
	}
	return c, nil
}

// ValidateBudget checks that the budget lines sum to exactly expected
func ValidateBudget(lines []BudgetLine, expected Amount) error {
	total := ZeroAmount
	for _, line := range lines {
		total = total.Add(line.Amount)
	}
	if !total.Equal(expected) {
		return fmt.Errorf("%w: lines sum to %s, want %s", ErrBudgetTotal, total, expected)
	}
	return nil
}

// Category returns the named category
func (c *Catalog) Category(name string) (Category, bool) {
	cat, ok := c.categories[name]
	return cat, ok
}

// IsLeaf reports whether name is a non-header category
func (c *Catalog) IsLeaf(name string) bool {
	cat, ok := c.categories[name]
	return ok && !cat.IsHeader
}

// ParentOf returns the parent header name of a leaf, or "" for top-level categories
func (c *Catalog) ParentOf(name string) string {
	return c.categories[name].ParentName
}

func (c *Catalog) Account(name string) (Account, bool) {
	a, ok := c.accounts[name]
	return a, ok
}

// BaseAmount returns the base monthly budget for a category, or zero
func (c *Catalog) BaseAmount(category string) Amount {
	for _, line := range c.BaseBudget {
		if line.Category == category {
			return line.Amount
		}
	}
	return ZeroAmount
}
