// Package store owns the expense and income collections and is the only
// writer to durable storage. Every mutation is applied in memory first and
// then persisted; in-memory state is authoritative and persistence is
// best-effort, so a write failure never rolls back or blocks a mutation.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/kv"
)

// Persisted entry names in durable storage.
const (
	keyExpenses = "expenses"
	keyIncome   = "income"
)

// Publisher is the optional mutation-event sink.
type Publisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

type (
	// ExpenseDraft is a validated expense submission without identity.
	ExpenseDraft struct {
		Description string
		Amount      core.Money
		Category    core.Category
		Date        core.Date
	}

	// IncomeDraft is a validated income submission without identity.
	IncomeDraft struct {
		Description string
		Amount      core.Money
		Date        core.Date
	}
)

// Store is the authoritative, mutable collection of transactions. A single
// mutex guards the read-modify-persist sequence so each mutation stays
// atomic under concurrent callers.
type Store struct {
	mu       sync.Mutex
	kv       kv.Store
	ids      IDGenerator
	pub      Publisher
	expenses []core.Expense
	income   []core.Income
}

// New builds a Store and rehydrates its collections from durable storage.
// An absent entry starts the collection empty; a malformed one is logged
// and treated as empty rather than failing startup. pub may be nil.
func New(ctx context.Context, kvs kv.Store, ids IDGenerator, pub Publisher) *Store {
	s := &Store{kv: kvs, ids: ids, pub: pub}
	s.expenses = loadCollection[core.Expense](ctx, kvs, keyExpenses)
	s.income = loadCollection[core.Income](ctx, kvs, keyIncome)
	slog.InfoContext(ctx, "Store rehydrated",
		"expenses", len(s.expenses),
		"income", len(s.income))
	return s
}

func loadCollection[T any](ctx context.Context, kvs kv.Store, key string) []T {
	raw, ok, err := kvs.Get(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read persisted collection, starting empty",
			"key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		slog.ErrorContext(ctx, "Persisted collection is malformed, starting empty",
			"key", key, "error", err)
		return nil
	}
	return list
}

// Expenses returns a snapshot of the expense collection in insertion order.
func (s *Store) Expenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses...)
}

// Income returns a snapshot of the income collection in insertion order.
func (s *Store) Income() []core.Income {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Income(nil), s.income...)
}

// AddExpense assigns a fresh id, appends the expense, and persists both
// collections. The caller has already validated and rounded the draft; the
// store still rejects non-positive amounts and empty descriptions as a
// contract check rather than coercing them.
func (s *Store) AddExpense(ctx context.Context, draft ExpenseDraft) (core.Expense, error) {
	expense := core.Expense{
		ID:          s.ids.NewID(),
		Description: draft.Description,
		Amount:      draft.Amount,
		Category:    draft.Category,
		Date:        draft.Date,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	s.dispatch(ctx, addExpense{expense: expense})
	return expense, nil
}

// AddIncome is the income counterpart of AddExpense.
func (s *Store) AddIncome(ctx context.Context, draft IncomeDraft) (core.Income, error) {
	income := core.Income{
		ID:          s.ids.NewID(),
		Description: draft.Description,
		Amount:      draft.Amount,
		Date:        draft.Date,
	}
	if err := income.Validate(); err != nil {
		return core.Income{}, fmt.Errorf("add income: %w", err)
	}
	s.dispatch(ctx, addIncome{income: income})
	return income, nil
}

// DeleteExpense removes the expense with the given id. Deleting an absent
// id is a no-op, so deletion is idempotent.
func (s *Store) DeleteExpense(ctx context.Context, id string) {
	s.dispatch(ctx, deleteExpense{id: id})
}

// DeleteIncome removes the income record with the given id. Idempotent.
func (s *Store) DeleteIncome(ctx context.Context, id string) {
	s.dispatch(ctx, deleteIncome{id: id})
}

// ReplaceExpenses overwrites the expense collection wholesale. This is a
// full overwrite for bulk import or reset, never a merge.
func (s *Store) ReplaceExpenses(ctx context.Context, list []core.Expense) {
	s.dispatch(ctx, replaceExpenses{expenses: list})
}

// ReplaceIncome overwrites the income collection wholesale.
func (s *Store) ReplaceIncome(ctx context.Context, list []core.Income) {
	s.dispatch(ctx, replaceIncome{income: list})
}

// dispatch applies a mutation, persists the new state and emits the audit
// event, in that order. The mutex covers apply and persist only; the event
// is captured under the lock but published outside it, so a slow broker
// never stalls other mutations or reads.
func (s *Store) dispatch(ctx context.Context, m mutation) {
	s.mu.Lock()
	s.apply(m)
	s.persistLocked(ctx)
	var ev events.Event
	if s.pub != nil {
		ev = s.event(m)
	}
	s.mu.Unlock()

	if s.pub != nil {
		if err := s.pub.Publish(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "Failed to publish mutation event", "error", err)
		}
	}
}

// persistLocked serializes both collections to durable storage. Failures
// are logged and swallowed; the in-memory state stays authoritative.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.writeLocked(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to persist collections", "error", err)
	}
}

func (s *Store) writeLocked(ctx context.Context) error {
	expenses, err := marshalCollection(s.expenses)
	if err != nil {
		return fmt.Errorf("marshal expenses: %w", err)
	}
	income, err := marshalCollection(s.income)
	if err != nil {
		return fmt.Errorf("marshal income: %w", err)
	}
	if err := s.kv.Set(ctx, keyExpenses, expenses); err != nil {
		return fmt.Errorf("write expenses: %w", err)
	}
	if err := s.kv.Set(ctx, keyIncome, income); err != nil {
		return fmt.Errorf("write income: %w", err)
	}
	return nil
}

// marshalCollection always yields a JSON array, "[]" for an empty one.
func marshalCollection[T any](list []T) (string, error) {
	if len(list) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Flush writes both collections one final time, returning the error so the
// caller can report a failed shutdown flush.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(ctx)
}
