package core

import (
	"sort"
	"time"
)

type (
	// BudgetedCategory joins a declared limit with the spend derived from
	// transactions. Spent is always a positive absolute value.
	BudgetedCategory struct {
		Category string
		Limit    float64
		Spent    float64
		Currency string
	}

	// BudgetReport is the full rollup for one month.
	BudgetReport struct {
		MonthKey    int
		Currency    string
		Rows        []BudgetedCategory
		TotalBudget float64
		TotalSpent  float64
		NotBudgeted []string
	}
)

// Remaining is the limit still available, floored at zero.
func (b BudgetedCategory) Remaining() float64 {
	if r := b.Limit - b.Spent; r > 0 {
		return r
	}
	return 0
}

// Over reports whether spend exceeds the limit.
func (b BudgetedCategory) Over() bool {
	return b.Spent > b.Limit
}

// Progress is spent/limit clamped to [0,1] for progress-bar rendering.
// A zero (or invalid) limit always yields 0 rather than dividing.
func (b BudgetedCategory) Progress() float64 {
	if b.Limit <= 0 {
		return 0
	}
	if p := b.Spent / b.Limit; p < 1 {
		return p
	}
	return 1
}

// BuildBudgetReport joins the budgets declared for monthAnchor's month
// against the spend computed from txns over the half-open window
// [StartOfMonth(anchor), AddMonths(anchor, 1)). Only negative amounts count
// toward spend, as absolute values. categories supplies the full set of
// known names for the NotBudgeted difference.
//
// A budget whose category has been deleted still yields a row (the storage
// layer's cascade normally removes such budgets before they get here).
func BuildBudgetReport(budgets []Budget, txns []Transaction, monthAnchor time.Time, categories []Category, defaultCurrency string) BudgetReport {
	report := BudgetReport{
		MonthKey: MonthKey(monthAnchor),
		Currency: defaultCurrency,
	}

	start := StartOfMonth(monthAnchor)
	end := AddMonths(monthAnchor, 1)

	spent := make(map[string]float64)
	first := true
	for _, t := range txns {
		if t.OccurredAt.Before(start) || !t.OccurredAt.Before(end) {
			continue
		}
		if first {
			report.Currency = t.Currency
			first = false
		}
		if t.Amount < 0 {
			spent[t.Category] += -t.Amount
		}
	}

	budgeted := make(map[string]bool)
	for _, b := range budgets {
		if b.MonthKey != report.MonthKey {
			continue
		}
		row := BudgetedCategory{
			Category: b.Category,
			Limit:    b.Amount,
			Spent:    spent[b.Category],
			Currency: report.Currency,
		}
		report.Rows = append(report.Rows, row)
		report.TotalBudget += row.Limit
		report.TotalSpent += row.Spent
		budgeted[b.Category] = true
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		return report.Rows[i].Category < report.Rows[j].Category
	})

	for _, c := range categories {
		if !budgeted[c.Name] {
			report.NotBudgeted = append(report.NotBudgeted, c.Name)
		}
	}

	return report
}
