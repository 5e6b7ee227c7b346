package payments

import (
	"context"
	"sync"
)

// MemStore keeps everything in-process: dev mode (DB yoksa) ve testler için.
// Aynı Store sözleşmesi: per-order mutex ile Mutate serialize edilir.
type MemStore struct {
	mu     sync.Mutex
	txs    map[string]Transaction
	locks  map[string]*sync.Mutex
	events map[string]struct{}
}

func NewMemStore() *MemStore {
	return &MemStore{
		txs:    make(map[string]Transaction),
		locks:  make(map[string]*sync.Mutex),
		events: make(map[string]struct{}),
	}
}

func (s *MemStore) orderLock(orderCode string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[orderCode]
	if !ok {
		l = &sync.Mutex{}
		s.locks[orderCode] = l
	}
	return l
}

func (s *MemStore) Create(_ context.Context, t *Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.txs[t.OrderCode]; exists {
		return ErrDuplicateOrderCode
	}
	s.txs[t.OrderCode] = *t
	return nil
}

func (s *MemStore) Get(_ context.Context, orderCode string) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[orderCode]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return t, nil
}

func (s *MemStore) ActiveOrderCodeExists(_ context.Context, orderCode string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[orderCode]
	return ok && !IsTerminal(t.State), nil
}

func (s *MemStore) Mutate(_ context.Context, orderCode string, fn func(*Transaction) error) (Transaction, error) {
	l := s.orderLock(orderCode)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	t, ok := s.txs[orderCode]
	s.mu.Unlock()
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}

	if err := fn(&t); err != nil {
		return Transaction{}, err
	}

	s.mu.Lock()
	s.txs[orderCode] = t
	s.mu.Unlock()
	return t, nil
}

func (s *MemStore) InsertEvent(_ context.Context, ev *GatewayEvent) (bool, error) {
	key := ev.OrderCode + "|" + ev.Signature
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.events[key]; dup {
		return false, nil
	}
	s.events[key] = struct{}{}
	return true, nil
}
