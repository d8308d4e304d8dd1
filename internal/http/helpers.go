package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendy/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB for JSON bodies

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseYearMonth reads optional year/month query parameters and returns the
// first instant of that month in UTC. Missing parameters default to the
// current month.
func parseYearMonth(r *http.Request) (time.Time, error) {
	now := time.Now().UTC()
	year := now.Year()
	month := int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			return time.Time{}, fmt.Errorf("invalid year %q", v)
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return time.Time{}, fmt.Errorf("invalid month %q", v)
		}
		month = m
	}

	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// Wire shapes. The core types stay free of serialization concerns.

type transactionJSON struct {
	ID         string    `json:"id"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	Category   string    `json:"category"`
	Method     string    `json:"method,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Merchant   string    `json:"merchant,omitempty"`
	Note       string    `json:"note,omitempty"`
	AIComment  string    `json:"ai_comment,omitempty"`
	Display    string    `json:"display"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:         t.ID,
		Amount:     t.Amount,
		Currency:   t.Currency,
		Category:   t.Category,
		Method:     t.Method,
		OccurredAt: t.OccurredAt,
		Merchant:   t.Merchant,
		Note:       t.Note,
		AIComment:  t.AIComment,
		Display:    core.FormatMoney(t.Currency, t.Amount),
	}
}

func toTransactionsJSON(txns []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

type categoryJSON struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	ColorKey string `json:"color_key"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{Name: c.Name, Icon: c.Icon, ColorKey: c.ColorKey}
}

type budgetJSON struct {
	Category string  `json:"category"`
	MonthKey int     `json:"month_key"`
	Amount   float64 `json:"amount"`
}

func toBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{Category: b.Category, MonthKey: b.MonthKey, Amount: b.Amount}
}

type summaryJSON struct {
	Expense float64 `json:"expense"`
	Income  float64 `json:"income"`
	Total   float64 `json:"total"`
}

type categoryAggJSON struct {
	Category     string  `json:"category"`
	AmountAbs    float64 `json:"amount_abs"`
	AmountSigned float64 `json:"amount_signed"`
	Pct          float64 `json:"pct"`
}

type analysisJSON struct {
	Currency   string            `json:"currency"`
	ExpenseAbs float64           `json:"expense_abs"`
	Income     float64           `json:"income"`
	Total      float64           `json:"total"`
	ByCategory []categoryAggJSON `json:"by_category"`
}

func toAnalysisJSON(b core.ExpenseBreakdown) analysisJSON {
	rows := make([]categoryAggJSON, 0, len(b.ByCategory))
	for _, agg := range b.ByCategory {
		rows = append(rows, categoryAggJSON{
			Category:     agg.Category,
			AmountAbs:    agg.AmountAbs,
			AmountSigned: agg.AmountSigned,
			Pct:          agg.Pct,
		})
	}
	return analysisJSON{
		Currency:   b.Currency,
		ExpenseAbs: b.ExpenseAbs,
		Income:     b.Income,
		Total:      b.Total,
		ByCategory: rows,
	}
}

type budgetRowJSON struct {
	Category  string  `json:"category"`
	Limit     float64 `json:"limit"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Progress  float64 `json:"progress"`
	Over      bool    `json:"over"`
}

type budgetReportJSON struct {
	MonthKey    int             `json:"month_key"`
	Currency    string          `json:"currency"`
	Rows        []budgetRowJSON `json:"rows"`
	TotalBudget float64         `json:"total_budget"`
	TotalSpent  float64         `json:"total_spent"`
	NotBudgeted []string        `json:"not_budgeted"`
}

func toBudgetReportJSON(rep core.BudgetReport) budgetReportJSON {
	rows := make([]budgetRowJSON, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		rows = append(rows, budgetRowJSON{
			Category:  row.Category,
			Limit:     row.Limit,
			Spent:     row.Spent,
			Remaining: row.Remaining(),
			Progress:  row.Progress(),
			Over:      row.Over(),
		})
	}
	notBudgeted := rep.NotBudgeted
	if notBudgeted == nil {
		notBudgeted = []string{}
	}
	return budgetReportJSON{
		MonthKey:    rep.MonthKey,
		Currency:    rep.Currency,
		Rows:        rows,
		TotalBudget: rep.TotalBudget,
		TotalSpent:  rep.TotalSpent,
		NotBudgeted: notBudgeted,
	}
}

type daySectionJSON struct {
	Date         string            `json:"date"`
	Title        string            `json:"title"`
	Transactions []transactionJSON `json:"transactions"`
}

func toSectionsJSON(sections []core.DaySection) []daySectionJSON {
	out := make([]daySectionJSON, 0, len(sections))
	for _, sec := range sections {
		out = append(out, daySectionJSON{
			Date:         sec.Date.Format("2006-01-02"),
			Title:        sec.Title,
			Transactions: toTransactionsJSON(sec.Transactions),
		})
	}
	return out
}
