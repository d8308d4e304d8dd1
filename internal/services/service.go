package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spendy/internal/core"
	"spendy/internal/receipt"
	"spendy/internal/store"
)

// Repository is the durable store the service writes through to.
type Repository interface {
	store.Loader
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	UpsertTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	UpsertCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, name string) error
	UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	DeleteBudget(ctx context.Context, category string, monthKey int) error
}

// Publisher hands remark generation off to the worker.
type Publisher interface {
	PublishRemarkRequest(ctx context.Context, txnID string) error
}

// Service orchestrates writes across SQLite, the in-memory store and AMQP.
// Writes go to the repository first, then the store mirror, so a failed
// write never leaves the mirror ahead of disk.
type Service struct {
	repo            Repository
	store           *store.Store
	publisher       Publisher
	defaultCurrency string
}

func New(repo Repository, st *store.Store, publisher Publisher, defaultCurrency string) *Service {
	return &Service{
		repo:            repo,
		store:           st,
		publisher:       publisher,
		defaultCurrency: defaultCurrency,
	}
}

// Bootstrap loads the durable state into the in-memory store.
func (s *Service) Bootstrap(ctx context.Context) error {
	return s.store.Bootstrap(ctx, s.repo)
}

// Store exposes the in-memory mirror for read paths.
func (s *Service) Store() *store.Store {
	return s.store
}

// CreateTransaction persists a new transaction and requests commentary for
// it. A missing id or currency is filled in, everything else must validate.
func (s *Service) CreateTransaction(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.Currency == "" {
		txn.Currency = s.defaultCurrency
	}
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	if err := s.repo.UpsertTransaction(ctx, txn); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.store.UpsertTransaction(txn)

	s.requestRemark(ctx, txn.ID)
	return txn, nil
}

// UpdateTransaction replaces an existing transaction.
func (s *Service) UpdateTransaction(ctx context.Context, txn core.Transaction) error {
	if err := txn.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if _, err := s.repo.GetTransaction(ctx, txn.ID); err != nil {
		return err
	}

	if err := s.repo.UpsertTransaction(ctx, txn); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	s.store.UpsertTransaction(txn)
	return nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.store.DeleteTransaction(id)
	return nil
}

// ConfirmReceipt turns a parsed receipt plus the caller's grouping into
// transactions, one per category group, and persists them all.
func (s *Service) ConfirmReceipt(ctx context.Context, rcpt receipt.ParsedReceipt, groups []receipt.Group, occurredAt time.Time) ([]core.Transaction, error) {
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	txns, err := receipt.ToTransactions(rcpt, groups, s.defaultCurrency, occurredAt)
	if err != nil {
		return nil, fmt.Errorf("build transactions: %w", err)
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("no items selected")
	}

	out := make([]core.Transaction, 0, len(txns))
	for _, txn := range txns {
		saved, err := s.CreateTransaction(ctx, txn)
		if err != nil {
			return out, err
		}
		out = append(out, saved)
	}
	return out, nil
}

func (s *Service) CreateCategory(ctx context.Context, cat core.Category) error {
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("validate category: %w", err)
	}
	if err := s.repo.UpsertCategory(ctx, cat); err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	s.store.UpsertCategory(cat)
	return nil
}

// DeleteCategory removes a category. The database cascade also removes the
// category's transactions and budgets, so the store mirror is reloaded from
// disk instead of patched.
func (s *Service) DeleteCategory(ctx context.Context, name string) error {
	if err := s.repo.DeleteCategory(ctx, name); err != nil {
		return err
	}
	s.store.DeleteCategory(name)

	txns, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("reload transactions after cascade: %w", err)
	}
	budgets, err := s.repo.ListBudgets(ctx)
	if err != nil {
		return fmt.Errorf("reload budgets after cascade: %w", err)
	}
	s.store.ReplaceTransactions(txns)
	s.store.ReplaceBudgets(budgets)
	return nil
}

// SetBudget creates or replaces the budget for (category, month).
func (s *Service) SetBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("validate budget: %w", err)
	}

	saved, err := s.repo.UpsertBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	s.store.UpsertBudget(saved)
	return saved, nil
}

func (s *Service) DeleteBudget(ctx context.Context, category string, monthKey int) error {
	if err := s.repo.DeleteBudget(ctx, category, monthKey); err != nil {
		return err
	}
	s.store.DeleteBudget(category, monthKey)
	return nil
}

// MonthlyAnalysis builds the per-category expense breakdown for a month.
func (s *Service) MonthlyAnalysis(month time.Time) core.ExpenseBreakdown {
	return core.BuildExpenseBreakdown(s.store.Transactions(), month, s.defaultCurrency)
}

// MonthlySummary totals expenses and income for a month.
func (s *Service) MonthlySummary(month time.Time) core.MoneySummary {
	return core.Summarize(s.store.Transactions(), month)
}

// MonthlySections groups a month's transactions into day sections for display.
func (s *Service) MonthlySections(month time.Time) []core.DaySection {
	return core.GroupByDay(s.store.Transactions(), month)
}

// BudgetReport compares a month's budgets against actual spending.
func (s *Service) BudgetReport(monthKey int) (core.BudgetReport, error) {
	anchor, err := core.MonthAnchor(monthKey)
	if err != nil {
		return core.BudgetReport{}, err
	}
	return core.BuildBudgetReport(
		s.store.Budgets(), s.store.Transactions(), anchor,
		s.store.Categories(), s.defaultCurrency), nil
}

func (s *Service) requestRemark(ctx context.Context, txnID string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping remark request")
		return
	}
	// Commentary is best effort, the transaction is already saved.
	if err := s.publisher.PublishRemarkRequest(ctx, txnID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish remark request",
			"txn_id", txnID, "error", err)
	}
}
