package memory

import (
	"context"
	"sync"
	"time"
)

// Store хранилище в памяти с тем же контрактом, что и Postgres репозитории.
// Все операции атомарны под одним мьютексом.
type Store struct {
	mu sync.RWMutex

	fields   map[int64]fieldRecord
	bookings map[int64]bookingRecord

	nextFieldID   int64
	nextBookingID int64

	now func() time.Time

	// txMu сериализует транзакции, эмулируя SERIALIZABLE
	txMu sync.Mutex
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		fields:   make(map[int64]fieldRecord),
		bookings: make(map[int64]bookingRecord),
		now:      time.Now,
	}
}

// Bookings возвращает репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Fields возвращает репозиторий полей
func (s *Store) Fields() *FieldRepository {
	return &FieldRepository{store: s}
}

// TxManager возвращает менеджер транзакций хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

type txKey struct{}

// TxManager выполняет функции последовательно; вложенные вызовы не блокируются повторно
type TxManager struct {
	store *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}
