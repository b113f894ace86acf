package client

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bytebank/internal/domain/transaction"
)

// Filter values as the UI presents them.
const (
	FilterAll = "todos"

	PeriodToday  = "hoje"
	PeriodLast7  = "ultimos7"
	PeriodLast30 = "ultimos30"
)

const pageSize = 10

// loadMoreCooldown spaces out consecutive load-more calls so a burst of
// scroll events grows the page once, not once per event.
const loadMoreCooldown = time.Second

// Filter narrows the transaction list by type, period and a free-text query.
// The zero value keeps everything that has a transaction date.
type Filter struct {
	Type   string
	Period string
	Search string
}

// Apply returns the transactions matching the filter, in input order.
// now anchors the period comparisons.
func (f Filter) Apply(transactions []*transaction.Transaction, now time.Time) []*transaction.Transaction {
	var out []*transaction.Transaction
	for _, t := range transactions {
		if f.matches(t, now) {
			out = append(out, t)
		}
	}
	return out
}

func (f Filter) matches(t *transaction.Transaction, now time.Time) bool {
	if f.Type != "" && f.Type != FilterAll && string(t.TransactionType) != f.Type {
		return false
	}

	if query := strings.ToLower(strings.TrimSpace(f.Search)); query != "" {
		if isNumericQuery(query) {
			// Numeric queries match the amount exactly, in the same
			// comma-decimal form the UI renders: "50" and "50,00" both
			// hit an amount of 50.00, but "50" does not hit 50.50.
			amount := FormatAmount(t.Amount)
			if amount != query && amount != query+",00" {
				return false
			}
		} else {
			var description string
			if t.Description != nil {
				description = strings.ToLower(*t.Description)
			}
			if !strings.Contains(description, query) {
				return false
			}
		}
	}

	// Undated rows never show up in the filtered list.
	if t.TransactionDate.IsZero() {
		return false
	}

	switch f.Period {
	case PeriodToday:
		y1, m1, d1 := t.TransactionDate.Year(), t.TransactionDate.Month(), t.TransactionDate.Day()
		y2, m2, d2 := now.Year(), now.Month(), now.Day()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			return false
		}
	case PeriodLast7:
		if t.TransactionDate.Before(now.AddDate(0, 0, -7)) {
			return false
		}
	case PeriodLast30:
		if t.TransactionDate.Before(now.AddDate(0, 0, -30)) {
			return false
		}
	}

	return true
}

// isNumericQuery reports whether the query should take the amount path.
// A comma works as the decimal separator, like in the rendered amounts.
func isNumericQuery(query string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(query, ",", "."), 64)
	return err == nil
}

// FormatAmount renders an amount the way the list does: absolute value,
// two decimals, comma separator.
func FormatAmount(amount float64) string {
	d := decimal.NewFromFloat(math.Abs(amount))
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}

// ListView combines a Filter with infinite-scroll pagination: the visible
// window starts at ten rows and grows by ten per load-more, with a cooldown
// between grows. Not safe for concurrent use; it models one screen.
type ListView struct {
	Filter Filter

	itemsToShow int
	readyAt     time.Time
	now         func() time.Time
}

func NewListView() *ListView {
	return &ListView{itemsToShow: pageSize, now: time.Now}
}

// SetTypeFilter changes the type filter and rewinds pagination, so switching
// between "todos" and a concrete type starts from the top again.
func (v *ListView) SetTypeFilter(filterType string) {
	v.Filter.Type = filterType
	v.itemsToShow = pageSize
}

func (v *ListView) SetPeriodFilter(period string) {
	v.Filter.Period = period
}

func (v *ListView) SetSearch(search string) {
	v.Filter.Search = search
}

// Visible returns the currently displayed window of the filtered list.
func (v *ListView) Visible(transactions []*transaction.Transaction, now time.Time) []*transaction.Transaction {
	filtered := v.Filter.Apply(transactions, now)
	if len(filtered) > v.itemsToShow {
		filtered = filtered[:v.itemsToShow]
	}
	return filtered
}

// LoadMore grows the window by one page, capped at filteredLen. It reports
// whether anything changed; calls during the cooldown or with the window
// already at the end are no-ops.
func (v *ListView) LoadMore(filteredLen int) bool {
	now := v.now()
	if now.Before(v.readyAt) {
		return false
	}
	if v.itemsToShow >= filteredLen {
		return false
	}

	v.itemsToShow += pageSize
	if v.itemsToShow > filteredLen {
		v.itemsToShow = filteredLen
	}
	v.readyAt = now.Add(loadMoreCooldown)
	return true
}
