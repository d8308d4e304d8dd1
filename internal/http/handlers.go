package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendy/internal/core"
	"spendy/internal/receipt"
	"spendy/internal/storage"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sections := s.svc.MonthlySections(month)
	writeJSON(w, http.StatusOK, map[string]any{
		"month":    core.MonthTitle(month),
		"sections": toSectionsJSON(sections),
	})
}

type transactionRequest struct {
	Amount     *float64  `json:"amount"`
	AmountExpr string    `json:"amount_expr"`
	Currency   string    `json:"currency"`
	Category   string    `json:"category"`
	Method     string    `json:"method"`
	OccurredAt time.Time `json:"occurred_at"`
	Merchant   string    `json:"merchant"`
	Note       string    `json:"note"`
}

// toTransaction resolves the amount. A literal amount wins; otherwise the
// expression is evaluated, so clients can submit "3+4*2" straight from the
// amount field.
func (req transactionRequest) toTransaction() core.Transaction {
	var amount float64
	if req.Amount != nil {
		amount = core.SafeRound(*req.Amount)
	} else {
		amount = core.EvalExpr(req.AmountExpr)
	}

	return core.Transaction{
		Amount:     amount,
		Currency:   strings.TrimSpace(req.Currency),
		Category:   sanitizeInput(req.Category),
		Method:     sanitizeInput(req.Method),
		OccurredAt: req.OccurredAt,
		Merchant:   sanitizeInput(req.Merchant),
		Note:       sanitizeInput(req.Note),
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txn := req.toTransaction()
	if txn.OccurredAt.IsZero() {
		txn.OccurredAt = time.Now().UTC()
	}

	saved, err := s.svc.CreateTransaction(r.Context(), txn)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateMonth(saved.OccurredAt)
	writeJSON(w, http.StatusCreated, toTransactionJSON(saved))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txn := req.toTransaction()
	txn.ID = id

	if err := s.svc.UpdateTransaction(r.Context(), txn); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// The update may have moved the transaction to another month.
	s.invalidateAll()
	writeJSON(w, http.StatusOK, toTransactionJSON(txn))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.svc.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.svc.Store().Categories()
	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryJSON
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat := core.Category{
		Name:     sanitizeInput(req.Name),
		Icon:     sanitizeInput(req.Icon),
		ColorKey: sanitizeInput(req.ColorKey),
	}
	if err := s.svc.CreateCategory(r.Context(), cat); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryJSON(cat))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := s.svc.DeleteCategory(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The cascade may have touched any month.
	s.invalidateAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets := s.svc.Store().Budgets()

	if v := strings.TrimSpace(r.URL.Query().Get("month_key")); v != "" {
		key, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month_key")
			return
		}
		filtered := budgets[:0:0]
		for _, b := range budgets {
			if b.MonthKey == key {
				filtered = append(filtered, b)
			}
		}
		budgets = filtered
	}

	out := make([]budgetJSON, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetJSON
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.svc.SetBudget(r.Context(), core.Budget{
		Category: sanitizeInput(req.Category),
		MonthKey: req.MonthKey,
		Amount:   req.Amount,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if anchor, err := core.MonthAnchor(saved.MonthKey); err == nil {
		s.invalidateMonth(anchor)
	}
	writeJSON(w, http.StatusCreated, toBudgetJSON(saved))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	monthKey, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("month_key")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month_key")
		return
	}

	if err := s.svc.DeleteBudget(r.Context(), category, monthKey); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if anchor, err := core.MonthAnchor(monthKey); err == nil {
		s.invalidateMonth(anchor)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := s.cacheKey(month.Year(), int(month.Month()))
	if rep, found := s.reportCache.Get(key); found {
		slog.DebugContext(r.Context(), "Budget report cache hit", "key", key)
		writeJSON(w, http.StatusOK, toBudgetReportJSON(rep))
		return
	}

	rep, err := s.svc.BudgetReport(core.MonthKey(month))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.reportCache.Set(key, rep)

	writeJSON(w, http.StatusOK, toBudgetReportJSON(rep))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum := s.svc.MonthlySummary(month)
	writeJSON(w, http.StatusOK, summaryJSON{
		Expense: sum.Expense,
		Income:  sum.Income,
		Total:   sum.Total,
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := s.cacheKey(month.Year(), int(month.Month()))
	if breakdown, found := s.analysisCache.Get(key); found {
		slog.DebugContext(r.Context(), "Analysis cache hit", "key", key)
		writeJSON(w, http.StatusOK, toAnalysisJSON(breakdown))
		return
	}

	breakdown := s.svc.MonthlyAnalysis(month)
	s.analysisCache.Set(key, breakdown)

	writeJSON(w, http.StatusOK, toAnalysisJSON(breakdown))
}

func (s *Server) handleEvalAmount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expr string `json:"expr"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{
		"value": core.EvalExpr(req.Expr),
	})
}

const maxReceiptBytes = 10 << 20 // 10 MiB for receipt images

func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	if s.parser == nil {
		writeError(w, http.StatusServiceUnavailable, "receipt parsing not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes)
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with an image field")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read image: "+err.Error())
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	rcpt, err := s.parser.Parse(r.Context(), data, mimeType)
	if err != nil {
		slog.ErrorContext(r.Context(), "Receipt parse failed", "error", err)
		writeError(w, http.StatusBadGateway, "could not parse receipt")
		return
	}

	writeJSON(w, http.StatusOK, rcpt)
}

type confirmReceiptRequest struct {
	Receipt    receipt.ParsedReceipt `json:"receipt"`
	Groups     []receipt.Group       `json:"groups"`
	OccurredAt time.Time             `json:"occurred_at"`
}

func (s *Server) handleConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	var req confirmReceiptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := s.svc.ConfirmReceipt(r.Context(), req.Receipt, req.Groups, req.OccurredAt)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	for _, txn := range txns {
		s.invalidateMonth(txn.OccurredAt)
	}
	writeJSON(w, http.StatusCreated, toTransactionsJSON(txns))
}
