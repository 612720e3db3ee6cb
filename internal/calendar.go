package internal

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for every date in a fixture
const TimestampLayout = "2006-01-02T15:04:05Z"

// Month identifies a calendar month
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses "YYYY-MM"
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Start returns midnight UTC on the first day of the month
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Days returns the number of days in the month
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Key returns "YYYY-MM"
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) String() string {
	return m.Key()
}

func (m Month) Prev() Month {
	return MonthOf(m.Start().AddDate(0, -1, 0))
}

func (m Month) Next() Month {
	return MonthOf(m.Start().AddDate(0, 1, 0))
}

func (m Month) Before(o Month) bool {
	return m.Year < o.Year || (m.Year == o.Year && m.Month < o.Month)
}

func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// At returns the given day and time in the month. Days past the end of the month are clamped.
func (m Month) At(day, hour, minute int) time.Time {
	day = min(day, m.Days())
	return time.Date(m.Year, m.Month, day, hour, minute, 0, 0, time.UTC)
}

// MonthRange returns every month from..to inclusive. It is empty when to is before from.
func MonthRange(from, to Month) []Month {
	var months []Month
	for m := from; !to.Before(m); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// Timestamp is a time that serializes as TimestampLayout
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Random is the seeded source behind every random choice in a generation run
type Random struct {
	r *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntRange returns a uniform int in [lo, hi]
func (r *Random) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.r.IntN(hi-lo+1)
}

// Uniform returns a uniform float in [lo, hi)
func (r *Random) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.r.Float64()
}

func (r *Random) Float64() float64 {
	return r.r.Float64()
}

// Chance reports true with probability p
func (r *Random) Chance(p float64) bool {
	return r.r.Float64() < p
}

// Pick returns a uniformly chosen element of items
func Pick[T any](r *Random, items []T) T {
	return items[r.r.IntN(len(items))]
}

// RandomDate draws a timestamp in the day window [lo, hi] of the month. hi is
// clamped to the month's last day and lo to hi; the hour falls in 8-20 and the
// minute in 0-59.
func RandomDate(r *Random, m Month, lo, hi int) time.Time {
	hi = min(hi, m.Days())
	lo = min(lo, hi)
	day := r.IntRange(lo, hi)
	hour := r.IntRange(8, 20)
	minute := r.IntRange(0, 59)
	return time.Date(m.Year, m.Month, day, hour, minute, 0, 0, time.UTC)
}
