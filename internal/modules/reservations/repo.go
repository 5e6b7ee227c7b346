package reservations

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repo is the read side the payment engine consumes: amount, currency and
// payability of a reservation. Writes (status flips after payment) stay with
// the booking flow that owns the table.
type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Get(ctx context.Context, id string) (Reservation, error) {
	var res Reservation
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Reservation{}, ErrNotFound
		}
		return Reservation{}, err
	}
	return res, nil
}

// Payable: sadece confirmed rezervasyon ödemeye girer.
func (r *Repo) Payable(ctx context.Context, id string) (Reservation, error) {
	res, err := r.Get(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	if res.Status != StatusConfirmed {
		return Reservation{}, ErrNotPayable
	}
	return res, nil
}
