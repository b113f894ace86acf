package client

import (
	"context"
	"log"
	"sync"

	"bytebank/internal/domain/transaction"
)

// Session is the client-side view of the user's data: an in-memory cache of
// transactions and balances kept in step with the server. Mutating calls go
// to the API first and then refresh the cache, so readers always see what
// the server last confirmed.
type Session struct {
	api     *API
	cleaner *Cleaner

	mu           sync.RWMutex
	transactions []*transaction.Transaction
	balances     transaction.Balances
}

// NewSession wraps an API. cleaner may be nil, in which case deleted
// attachments are simply left behind.
func NewSession(api *API, cleaner *Cleaner) *Session {
	return &Session{api: api, cleaner: cleaner}
}

// Refresh refetches transactions and balances from the server.
func (s *Session) Refresh(ctx context.Context) error {
	transactions, err := s.api.ListTransactions(ctx)
	if err != nil {
		return err
	}
	balances, err := s.api.Balances(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.transactions = transactions
	s.balances = balances
	s.mu.Unlock()
	return nil
}

// Transactions returns the cached list. The slice is a copy; mutating it
// does not touch the cache.
func (s *Session) Transactions() []*transaction.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*transaction.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Balances returns the cached totals.
func (s *Session) Balances() transaction.Balances {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances
}

// Find returns the cached transaction with the given id, or nil.
func (s *Session) Find(id int64) *transaction.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.transactions {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Create posts a new transaction and refreshes the cache.
func (s *Session) Create(ctx context.Context, input TransactionInput) (*transaction.Transaction, error) {
	created, err := s.api.CreateTransaction(ctx, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.transactions = append([]*transaction.Transaction{created}, s.transactions...)
	s.mu.Unlock()

	s.refreshBestEffort(ctx)
	return created, nil
}

// Update sends a partial update and refreshes the cache.
func (s *Session) Update(ctx context.Context, id int64, input TransactionInput) (*transaction.Transaction, error) {
	updated, err := s.api.UpdateTransaction(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.refreshBestEffort(ctx)
	return updated, nil
}

// Delete removes a transaction. Once the server confirms, the row leaves
// the cache immediately and its attachment is handed to the cleaner; neither
// the cleanup nor the follow-up refresh can fail the delete.
func (s *Session) Delete(ctx context.Context, id int64) error {
	var attachmentURL string
	if t := s.Find(id); t != nil && t.AttachmentURL != nil {
		attachmentURL = *t.AttachmentURL
	}

	if err := s.api.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.transactions[:0]
	for _, t := range s.transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.transactions = kept
	s.mu.Unlock()

	if s.cleaner != nil && attachmentURL != "" {
		s.cleaner.Enqueue(attachmentURL)
	}

	s.refreshBestEffort(ctx)
	return nil
}

// refreshBestEffort syncs the cache after a confirmed mutation. The mutation
// already succeeded server-side, so a failed refetch is only logged.
func (s *Session) refreshBestEffort(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("Error refreshing after mutation: %v", err)
	}
}
