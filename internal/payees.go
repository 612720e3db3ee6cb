package internal

import "time"

type payeeUsage struct {
	lastDate time.Time
	count    int
	category string
}

// PayeeTracker accumulates how often and how recently each payee was used.
// Records keep first-seen order so output is stable for a given seed.
type PayeeTracker struct {
	order []string
	usage map[string]*payeeUsage
}

func NewPayeeTracker() *PayeeTracker {
	return &PayeeTracker{usage: make(map[string]*payeeUsage)}
}

// Track records one use of a payee. The category only replaces the stored one
// when date is strictly later than the last recorded use.
func (p *PayeeTracker) Track(name string, date time.Time, category string) {
	u, ok := p.usage[name]
	if !ok {
		u = &payeeUsage{lastDate: date, category: category}
		p.usage[name] = u
		p.order = append(p.order, name)
	}
	u.count++
	if date.After(u.lastDate) {
		u.lastDate = date
		u.category = category
	}
}

func (p *PayeeTracker) Len() int {
	return len(p.order)
}

// Payees returns one record per tracked payee in first-seen order
func (p *PayeeTracker) Payees() []Payee {
	payees := make([]Payee, 0, len(p.order))
	for _, name := range p.order {
		u := p.usage[name]
		payees = append(payees, Payee{
			Name:                 name,
			LastUsedDate:         NewTimestamp(u.lastDate),
			UseCount:             u.count,
			LastUsedCategoryName: u.category,
		})
	}
	return payees
}
