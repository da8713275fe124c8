package core

import (
	"fmt"
	"time"
)

// Period identifies a billing month.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) Validate() error {
	if p.Year < 1900 || p.Year > 3000 {
		return ErrInvalidPeriod
	}
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// AddMonths returns the period n months after p. n may be negative.
func (p Period) AddMonths(n int) Period {
	idx := p.Year*12 + (p.Month - 1) + n
	return Period{Year: idx / 12, Month: idx%12 + 1}
}

// MonthsSince returns how many months separate p from earlier.
func (p Period) MonthsSince(earlier Period) int {
	return (p.Year-earlier.Year)*12 + (p.Month - earlier.Month)
}

func (p Period) Before(other Period) bool {
	return p.Year < other.Year || (p.Year == other.Year && p.Month < other.Month)
}

func (p Period) After(other Period) bool {
	return other.Before(p)
}

func (p Period) Equal(other Period) bool {
	return p.Year == other.Year && p.Month == other.Month
}
