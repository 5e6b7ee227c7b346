package payments

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store owns transaction state persistence. Mutate serializes all writes for
// one order code; farklı order code'lar birbirini beklemez.
type Store interface {
	Create(ctx context.Context, t *Transaction) error
	Get(ctx context.Context, orderCode string) (Transaction, error)
	ActiveOrderCodeExists(ctx context.Context, orderCode string) (bool, error)
	Mutate(ctx context.Context, orderCode string, fn func(*Transaction) error) (Transaction, error)

	// InsertEvent: dedupe insert. created=false => aynı teslimat daha önce
	// kaydedilmiş.
	InsertEvent(ctx context.Context, ev *GatewayEvent) (created bool, err error)
}

// GormStore is the MySQL-backed store. Per-order serialization comes from the
// row lock inside Mutate.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Create(ctx context.Context, t *Transaction) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		if isDup(err) {
			return ErrDuplicateOrderCode
		}
		return err
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, orderCode string) (Transaction, error) {
	var t Transaction
	if err := s.db.WithContext(ctx).First(&t, "order_code = ?", orderCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Transaction{}, ErrTransactionNotFound
		}
		return Transaction{}, err
	}
	return t, nil
}

func (s *GormStore) ActiveOrderCodeExists(ctx context.Context, orderCode string) (bool, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&Transaction{}).
		Where("order_code = ? AND state NOT IN ?", orderCode,
			[]string{StateCaptured, StateCancelled, StateFailed}).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (s *GormStore) Mutate(ctx context.Context, orderCode string, fn func(*Transaction) error) (Transaction, error) {
	var out Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Transaction
		// row lock: aynı order code için webhook/capture yarışı serialize olur
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, "order_code = ?", orderCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if err := fn(&t); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Save(&t).Error; err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

func (s *GormStore) InsertEvent(ctx context.Context, ev *GatewayEvent) (bool, error) {
	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		if isDup(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
