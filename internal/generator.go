package internal

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const (
	salaryPayee   = "Employer - Salary"
	transferPayee = "Transfer"
	nurseryPayee  = "Nursery Fees"
)

// variableSpend is a budget-driven category: a monthly total is drawn around
// the budget and split across a random number of uneven transactions.
type variableSpend struct {
	category     string
	payees       []string
	minCount     int
	maxCount     int
	partialCount int        // count used in the current month
	total        [2]float64 // multiplier range applied to the budget
	each         [2]float64 // multiplier range applied to each share
	spread       bool       // date each transaction in its own slice of the month
	cardChance   float64    // probability of paying by credit card, else Joint Current
}

var variableSpends = []variableSpend{
	{category: "Groceries", payees: groceryPayees, minCount: 5, maxCount: 7, partialCount: 3,
		total: [2]float64{0.88, 1.12}, each: [2]float64{0.7, 1.3}, spread: true, cardChance: 1},
	{category: "Eating Out", payees: eatingOutPayees, minCount: 3, maxCount: 5, partialCount: 2,
		total: [2]float64{0.75, 1.25}, each: [2]float64{0.5, 1.5}, cardChance: 1},
	{category: "Transport", payees: transportPayees, minCount: 3, maxCount: 5, partialCount: 2,
		total: [2]float64{0.7, 1.2}, each: [2]float64{0.5, 1.5}, cardChance: 0.7},
}

// occasionalSpend happens in some months only, with an amount independent of the budget
type occasionalSpend struct {
	category  string
	payees    []string
	chance    float64
	min, max  float64
	firstDay  int
	minCutoff int // skipped when the month's cutoff day is not above this
}

var occasionalSpends = []occasionalSpend{
	{category: "Entertainment", payees: entertainmentPayees, chance: 0.85, min: 20, max: 80, firstDay: 5, minCutoff: 7},
	{category: "Clothing", payees: clothingPayees, chance: 0.6, min: 40, max: 120, firstDay: 3},
	{category: "Household", payees: householdPayees, chance: 0.55, min: 20, max: 75, firstDay: 3},
}

// standingTransfer moves a fixed amount out of the current account early each month
type standingTransfer struct {
	amount       Amount
	to           string
	day          int
	hour, minute int
}

var standingTransfers = []standingTransfer{
	{amount: MustAmount("200.00"), to: SavingsAcct, day: 2, hour: 9, minute: 0},
	{amount: MustAmount("100.00"), to: ISA, day: 2, hour: 9, minute: 30},
}

// december gift shopping
const (
	decemberGiftCount   = 4
	decemberGiftLastDay = 20
)

// GeneratorOptions controls a generation run
type GeneratorOptions struct {
	Seed uint64
	// WithIDs fills every record id with a UUID derived from Seed
	WithIDs bool
}

// Generator synthesizes a fixture month by month. Generate can be called
// repeatedly; every call starts from the seed and yields the same fixture.
type Generator struct {
	cfg     *Config
	catalog *Catalog
	opts    GeneratorOptions

	rng          *Random
	transactions []Transaction
	budgetMonths []BudgetMonth
	allocations  []BudgetAllocation
	payees       *PayeeTracker
}

func NewGenerator(cfg *Config, catalog *Catalog, opts GeneratorOptions) (*Generator, error) {
	for _, category := range cfg.SeasonalCategories() {
		if !budgetHas(catalog.BaseBudget, category) {
			return nil, fmt.Errorf("seasonal override for %q: not a budgeted category", category)
		}
	}
	for _, spend := range variableSpends {
		if !catalog.IsLeaf(spend.category) {
			return nil, fmt.Errorf("catalog has no %q category", spend.category)
		}
	}
	return &Generator{cfg: cfg, catalog: catalog, opts: opts}, nil
}

// Generate produces the full fixture
func (g *Generator) Generate() (*Fixture, error) {
	g.rng = NewRandom(g.opts.Seed)
	g.transactions = nil
	g.budgetMonths = nil
	g.allocations = nil
	g.payees = NewPayeeTracker()

	for _, m := range g.cfg.Months() {
		g.generateMonth(m)
	}

	fixture := &Fixture{
		ExportDate:        NewTimestamp(g.cfg.ExportTime()),
		AppVersion:        g.cfg.AppVersion,
		Accounts:          append([]Account(nil), g.catalog.Accounts...),
		Transactions:      g.transactions,
		Categories:        append([]Category(nil), g.catalog.Categories...),
		BudgetMonths:      g.budgetMonths,
		BudgetAllocations: g.allocations,
		Payees:            g.payees.Payees(),
	}

	if g.opts.WithIDs {
		if err := assignIDs(fixture, g.opts.Seed); err != nil {
			return nil, fmt.Errorf("assigning ids: %w", err)
		}
	}

	slog.Debug("generated fixture",
		"months", len(g.budgetMonths),
		"transactions", len(g.transactions),
		"payees", g.payees.Len())
	return fixture, nil
}

func (g *Generator) generateMonth(m Month) {
	first := len(g.transactions)
	budget := g.cfg.MonthBudget(g.catalog.BaseBudget, m.Month)
	cutoff := g.cfg.CutoffDay(m)
	partial := m == g.cfg.CurrentMonth()

	g.addBudget(m, budget)
	g.addSalary(m)
	g.addBills(m, budget, cutoff)

	for _, spend := range variableSpends {
		g.addVariableSpend(m, spend, budgetAmount(budget, spend.category), cutoff, partial)
	}

	for _, sub := range DefaultSubscriptions {
		if partial && sub.Name == PartialMonthSkippedSubscription {
			continue
		}
		g.expense(sub.Amount, sub.Name, "Subscriptions", RandomDate(g.rng, m, 1, min(10, cutoff)), CreditCard)
	}

	for _, spend := range occasionalSpends {
		g.addOccasionalSpend(m, spend, cutoff)
	}

	g.addKids(m, cutoff)
	g.addHealth(m, cutoff)
	g.addGifts(m, cutoff)

	for _, tr := range standingTransfers {
		g.transfer(tr.amount, JointCurrent, tr.to, m.At(min(tr.day, cutoff), tr.hour, tr.minute))
	}

	cardSpend := SettlementAmount(g.transactions, m)
	if cardSpend.Sign() > 0 {
		g.transfer(cardSpend, JointCurrent, CreditCard, m.At(min(20, cutoff), 10, 0))
	}

	slog.Debug("generated month",
		"month", m.Key(),
		"partial", partial,
		"transactions", len(g.transactions)-first,
		"card_spend", cardSpend.String())
}

func (g *Generator) addBudget(m Month, budget []BudgetLine) {
	monthStart := NewTimestamp(m.Start())
	g.budgetMonths = append(g.budgetMonths, BudgetMonth{Month: monthStart})
	for _, line := range budget {
		g.allocations = append(g.allocations, BudgetAllocation{
			Budgeted:       line.Amount,
			CategoryName:   line.Category,
			Month:          monthStart,
			CategoryParent: g.catalog.ParentOf(line.Category),
		})
	}
}

// addSalary books the salary that funds month m. It is paid on the 28th of the
// month before.
func (g *Generator) addSalary(m Month) {
	date := m.Prev().At(28, 8, 0)
	g.income(g.cfg.SalaryFor(m.Month), salaryPayee, date, JointCurrent)
}

func (g *Generator) addBills(m Month, budget []BudgetLine, cutoff int) {
	g.expense(budgetAmount(budget, "Mortgage Payment"), "Nationwide BS", "Mortgage Payment", m.At(1, 7, 0), JointCurrent)
	g.expense(budgetAmount(budget, "Council Tax"), "Bristol City Council", "Council Tax", m.At(1, 7, 30), JointCurrent)
	g.expense(Vary(g.rng, budgetAmount(budget, "Energy"), 0.05), "Octopus Energy", "Energy",
		RandomDate(g.rng, m, 3, min(7, cutoff)), JointCurrent)
	g.expense(budgetAmount(budget, "Water"), "Bristol Water", "Water", m.At(min(5, cutoff), 8, 0), JointCurrent)
	g.expense(budgetAmount(budget, "Internet"), "BT Broadband", "Internet", m.At(min(4, cutoff), 9, 0), JointCurrent)
	g.expense(budgetAmount(budget, "Mobile Phones"), "Three Mobile", "Mobile Phones",
		RandomDate(g.rng, m, 8, min(12, cutoff)), JointCurrent)
	g.expense(budgetAmount(budget, "Insurance"), "Aviva", "Insurance",
		RandomDate(g.rng, m, 10, min(15, cutoff)), JointCurrent)
}

func (g *Generator) addVariableSpend(m Month, spend variableSpend, budget Amount, cutoff int, partial bool) {
	count := g.rng.IntRange(spend.minCount, spend.maxCount)
	if partial {
		count = spend.partialCount
	}
	total := budget.Float64() * g.rng.Uniform(spend.total[0], spend.total[1])
	share := total / float64(count)
	window := cutoff / count

	for i := 0; i < count; i++ {
		lo, hi := 1, cutoff
		if spend.spread {
			lo = max(1, 1+i*window)
			hi = max(lo, min(lo+window, cutoff))
		}
		amount := NewAmount(share * g.rng.Uniform(spend.each[0], spend.each[1]))
		payee := Pick(g.rng, spend.payees)
		account := JointCurrent
		if g.rng.Chance(spend.cardChance) {
			account = CreditCard
		}
		g.expense(amount, payee, spend.category, RandomDate(g.rng, m, lo, hi), account)
	}
}

func (g *Generator) addOccasionalSpend(m Month, spend occasionalSpend, cutoff int) {
	if !g.rng.Chance(spend.chance) || cutoff <= spend.minCutoff {
		return
	}
	amount := NewAmount(g.rng.Uniform(spend.min, spend.max))
	g.expense(amount, Pick(g.rng, spend.payees), spend.category, RandomDate(g.rng, m, spend.firstDay, cutoff), CreditCard)
}

// addKids books nursery fees every month plus an occasional extra
func (g *Generator) addKids(m Month, cutoff int) {
	g.expense(NewAmount(g.rng.Uniform(70, 95)), nurseryPayee, "Kids", RandomDate(g.rng, m, 1, min(5, cutoff)), JointCurrent)
	g.addOccasionalSpend(m, occasionalSpend{
		category: "Kids", payees: kidsExtraPayees, chance: 0.65, min: 15, max: 65, firstDay: 5,
	}, cutoff)
}

func (g *Generator) addHealth(m Month, cutoff int) {
	g.addOccasionalSpend(m, occasionalSpend{
		category: "Health", payees: healthPayees, chance: 0.4, min: 12, max: 55, firstDay: 1,
	}, cutoff)
}

// addGifts books a run of Christmas shopping in December and an occasional gift otherwise
func (g *Generator) addGifts(m Month, cutoff int) {
	if m.Month != time.December {
		g.addOccasionalSpend(m, occasionalSpend{
			category: "Gifts", payees: giftPayees, chance: 0.45, min: 15, max: 55, firstDay: 1,
		}, cutoff)
		return
	}
	// A partial December stops at the cutoff like every other spend, so gift
	// dates never pass the export date.
	for i := 0; i < decemberGiftCount; i++ {
		amount := NewAmount(g.rng.Uniform(25, 70))
		g.expense(amount, Pick(g.rng, giftPayees), "Gifts",
			RandomDate(g.rng, m, 1, min(decemberGiftLastDay, cutoff)), CreditCard)
	}
}

func (g *Generator) expense(amount Amount, payee, category string, date time.Time, account string) {
	g.transactions = append(g.transactions, Transaction{
		Amount:         amount,
		Payee:          payee,
		Date:           NewTimestamp(date),
		Type:           TypeExpense,
		IsCleared:      true,
		AccountName:    account,
		CategoryName:   category,
		CategoryParent: g.catalog.ParentOf(category),
	})
	g.payees.Track(payee, date, category)
}

func (g *Generator) income(amount Amount, payee string, date time.Time, account string) {
	g.transactions = append(g.transactions, Transaction{
		Amount:       amount,
		Payee:        payee,
		Date:         NewTimestamp(date),
		Type:         TypeIncome,
		IsCleared:    true,
		AccountName:  account,
		CategoryName: ToBudget,
	})
	g.payees.Track(payee, date, ToBudget)
}

func (g *Generator) transfer(amount Amount, from, to string, date time.Time) {
	g.transactions = append(g.transactions, Transaction{
		Amount:                amount,
		Payee:                 transferPayee,
		Date:                  NewTimestamp(date),
		Type:                  TypeTransfer,
		IsCleared:             true,
		AccountName:           from,
		TransferToAccountName: to,
	})
}

// SettlementAmount sums the credit card expenses dated in month m
func SettlementAmount(txs []Transaction, m Month) Amount {
	total := ZeroAmount
	for _, tx := range txs {
		if tx.Type == TypeExpense && tx.AccountName == CreditCard && m.Contains(tx.Date.Time) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Vary jitters base uniformly by up to +-pct and rounds the result
func Vary(r *Random, base Amount, pct float64) Amount {
	return NewAmount(base.Float64() * (1 + r.Uniform(-pct, pct)))
}

func budgetAmount(lines []BudgetLine, category string) Amount {
	for _, line := range lines {
		if line.Category == category {
			return line.Amount
		}
	}
	return ZeroAmount
}

func budgetHas(lines []BudgetLine, category string) bool {
	for _, line := range lines {
		if line.Category == category {
			return true
		}
	}
	return false
}

// assignIDs gives every record a UUID drawn from a stream seeded by seed, so
// ids are stable across runs without disturbing the main random sequence.
func assignIDs(f *Fixture, seed uint64) error {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)

	next := func() (string, error) {
		id, err := uuid.NewRandomFromReader(src)
		if err != nil {
			return "", err
		}
		return id.String(), nil
	}

	var err error
	for i := range f.Accounts {
		if f.Accounts[i].ID, err = next(); err != nil {
			return err
		}
	}
	for i := range f.Categories {
		if f.Categories[i].ID, err = next(); err != nil {
			return err
		}
	}
	for i := range f.BudgetMonths {
		if f.BudgetMonths[i].ID, err = next(); err != nil {
			return err
		}
	}
	for i := range f.BudgetAllocations {
		if f.BudgetAllocations[i].ID, err = next(); err != nil {
			return err
		}
	}
	for i := range f.Transactions {
		if f.Transactions[i].ID, err = next(); err != nil {
			return err
		}
	}
	for i := range f.Payees {
		if f.Payees[i].ID, err = next(); err != nil {
			return err
		}
	}
	return nil
}
