// Package store keeps the in-memory working copies of transactions,
// categories and budgets that screens read from. After every successful
// persistent write the caller applies the same change here, so the cache
// reflects the write without a full reload while preserving each
// collection's sort order.
//
// Storage-level cascades (deleting a category removes its transactions and
// budgets in SQLite) are NOT mirrored automatically; callers refresh the
// dependent collections explicitly after a cascading delete.
package store

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"spendy/internal/core"
)

// Loader is the subset of the storage layer the store needs to (re)load
// its collections.
type Loader interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListBudgets(ctx context.Context) ([]core.Budget, error)
}

// Store holds the three collections under one mutex. Each mutation runs as
// a single read-modify-write, so concurrent writers cannot interleave
// updates to the same collection.
type Store struct {
	mu      sync.RWMutex
	txns    []core.Transaction
	cats    []core.Category
	budgets []core.Budget
	subs    []func()
}

func New() *Store {
	return &Store{}
}

// Bootstrap loads all three collections in parallel and replaces the
// store's contents.
func (s *Store) Bootstrap(ctx context.Context, loader Loader) error {
	var (
		txns    []core.Transaction
		cats    []core.Category
		budgets []core.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txns, err = loader.ListTransactions(gctx)
		return err
	})
	g.Go(func() (err error) {
		cats, err = loader.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		budgets, err = loader.ListBudgets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.txns = txns
	s.cats = cats
	s.budgets = budgets
	s.mu.Unlock()
	s.notify()
	return nil
}

// Subscribe registers fn to run after every mutation. Callbacks run outside
// the store lock; it is safe for fn to read the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// Transactions returns a copy of the cached transactions, newest first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// Categories returns a copy of the cached categories, sorted by name.
func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Category, len(s.cats))
	copy(out, s.cats)
	return out
}

// Budgets returns a copy of the cached budgets, newest month first.
func (s *Store) Budgets() []core.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Budget, len(s.budgets))
	copy(out, s.budgets)
	return out
}

// UpsertTransaction replaces any entry with the same ID and re-inserts the
// transaction at the position keeping descending OccurredAt order: before
// the first entry that is strictly older, appended if none is.
func (s *Store) UpsertTransaction(txn core.Transaction) {
	s.mu.Lock()
	without := s.txns[:0:0]
	for _, t := range s.txns {
		if t.ID != txn.ID {
			without = append(without, t)
		}
	}
	pos := len(without)
	for i, t := range without {
		if t.OccurredAt.Before(txn.OccurredAt) {
			pos = i
			break
		}
	}
	without = append(without, core.Transaction{})
	copy(without[pos+1:], without[pos:])
	without[pos] = txn
	s.txns = without
	s.mu.Unlock()
	s.notify()
}

// DeleteTransaction removes the entry with the given ID, if present.
func (s *Store) DeleteTransaction(id string) {
	s.mu.Lock()
	kept := s.txns[:0:0]
	for _, t := range s.txns {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.txns = kept
	s.mu.Unlock()
	s.notify()
}

// UpsertCategory replaces any same-name entry and re-sorts by name.
func (s *Store) UpsertCategory(cat core.Category) {
	s.mu.Lock()
	kept := s.cats[:0:0]
	for _, c := range s.cats {
		if c.Name != cat.Name {
			kept = append(kept, c)
		}
	}
	kept = append(kept, cat)
	sort.Slice(kept, func(i, j int) bool { return kept[i].Name < kept[j].Name })
	s.cats = kept
	s.mu.Unlock()
	s.notify()
}

// DeleteCategory removes the named category from the cache. Dependent
// transactions and budgets are cascaded in storage only; refresh those
// collections explicitly if the screen needs them.
func (s *Store) DeleteCategory(name string) {
	s.mu.Lock()
	kept := s.cats[:0:0]
	for _, c := range s.cats {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	s.cats = kept
	s.mu.Unlock()
	s.notify()
}

// UpsertBudget replaces any entry with the same (category, monthKey) and
// re-sorts by monthKey descending, then category ascending.
func (s *Store) UpsertBudget(b core.Budget) {
	s.mu.Lock()
	kept := s.budgets[:0:0]
	for _, x := range s.budgets {
		if !(x.Category == b.Category && x.MonthKey == b.MonthKey) {
			kept = append(kept, x)
		}
	}
	kept = append(kept, b)
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].MonthKey != kept[j].MonthKey {
			return kept[i].MonthKey > kept[j].MonthKey
		}
		return kept[i].Category < kept[j].Category
	})
	s.budgets = kept
	s.mu.Unlock()
	s.notify()
}

// DeleteBudget removes the entry keyed by (category, monthKey), if present.
func (s *Store) DeleteBudget(category string, monthKey int) {
	s.mu.Lock()
	kept := s.budgets[:0:0]
	for _, x := range s.budgets {
		if !(x.Category == category && x.MonthKey == monthKey) {
			kept = append(kept, x)
		}
	}
	s.budgets = kept
	s.mu.Unlock()
	s.notify()
}

// ReplaceTransactions swaps in a freshly loaded transaction list. Used
// after cascading deletes when the caller opts to refresh.
func (s *Store) ReplaceTransactions(txns []core.Transaction) {
	s.mu.Lock()
	s.txns = txns
	s.mu.Unlock()
	s.notify()
}

// ReplaceBudgets swaps in a freshly loaded budget list.
func (s *Store) ReplaceBudgets(budgets []core.Budget) {
	s.mu.Lock()
	s.budgets = budgets
	s.mu.Unlock()
	s.notify()
}
