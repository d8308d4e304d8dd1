package core

import (
	"sort"
	"time"
)

type (
	// CategoryAgg is one row of the expense breakdown. AmountAbs is the
	// absolute spend, AmountSigned its negative counterpart, Pct the share
	// of the month's total expense in [0,1].
	CategoryAgg struct {
		Category     string
		AmountAbs    float64
		AmountSigned float64
		Pct          float64
	}

	// ExpenseBreakdown is the per-month aggregation result driving the
	// analysis view.
	ExpenseBreakdown struct {
		Currency   string
		ExpenseAbs float64
		Income     float64
		Total      float64
		ByCategory []CategoryAgg
	}

	// DaySection groups one day's transactions, newest day first.
	DaySection struct {
		Date         time.Time
		Title        string
		Transactions []Transaction
	}
)

// BuildExpenseBreakdown aggregates the transactions that fall in month's
// calendar month. Negative amounts contribute their absolute value to the
// per-category totals and to ExpenseAbs; non-negative amounts count as
// income. Rows are sorted by AmountAbs descending; ties keep the order in
// which a category first appears in the input. The currency is taken from
// the first matching transaction, or defaultCurrency if none match.
//
// An empty input produces a zeroed, well-formed result; there is no error
// path and the input slice is never modified.
func BuildExpenseBreakdown(txns []Transaction, month time.Time, defaultCurrency string) ExpenseBreakdown {
	out := ExpenseBreakdown{Currency: defaultCurrency}

	sums := make(map[string]float64)
	var order []string

	first := true
	for _, t := range txns {
		if !SameMonth(t.OccurredAt, month) {
			continue
		}
		if first {
			out.Currency = t.Currency
			first = false
		}
		out.Total += t.Amount
		if t.Amount < 0 {
			abs := -t.Amount
			out.ExpenseAbs += abs
			if _, seen := sums[t.Category]; !seen {
				order = append(order, t.Category)
			}
			sums[t.Category] += abs
		} else {
			out.Income += t.Amount
		}
	}

	for _, name := range order {
		abs := sums[name]
		pct := 0.0
		if out.ExpenseAbs > 0 {
			pct = abs / out.ExpenseAbs
		}
		out.ByCategory = append(out.ByCategory, CategoryAgg{
			Category:     name,
			AmountAbs:    abs,
			AmountSigned: -abs,
			Pct:          pct,
		})
	}
	sort.SliceStable(out.ByCategory, func(i, j int) bool {
		return out.ByCategory[i].AmountAbs > out.ByCategory[j].AmountAbs
	})

	return out
}

// Summarize computes the income/expense/net totals for month's calendar
// month. Expense is reported as a positive number.
func Summarize(txns []Transaction, month time.Time) MoneySummary {
	var s MoneySummary
	for _, t := range txns {
		if !SameMonth(t.OccurredAt, month) {
			continue
		}
		if t.Amount < 0 {
			s.Expense += -t.Amount
		} else {
			s.Income += t.Amount
		}
	}
	s.Total = s.Income - s.Expense
	return s
}

// GroupByDay splits a month's transactions into per-day sections, newest
// day first, transactions within a day newest first.
func GroupByDay(txns []Transaction, month time.Time) []DaySection {
	var monthTxns []Transaction
	for _, t := range txns {
		if SameMonth(t.OccurredAt, month) {
			monthTxns = append(monthTxns, t)
		}
	}
	sort.SliceStable(monthTxns, func(i, j int) bool {
		return monthTxns[i].OccurredAt.After(monthTxns[j].OccurredAt)
	})

	var sections []DaySection
	index := make(map[string]int)
	for _, t := range monthTxns {
		key := t.OccurredAt.Format("2006-01-02")
		if i, ok := index[key]; ok {
			sections[i].Transactions = append(sections[i].Transactions, t)
			continue
		}
		index[key] = len(sections)
		sections = append(sections, DaySection{
			Date:         t.OccurredAt,
			Title:        t.OccurredAt.Format("Jan 2, Monday"),
			Transactions: []Transaction{t},
		})
	}
	return sections
}
