package reservations

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

type Reservation struct {
	ID            string    `gorm:"type:char(36);primaryKey"`
	TourName      string    `gorm:"type:varchar(255);not null"`
	CustomerEmail string    `gorm:"type:varchar(255);not null"`
	TourDate      time.Time `gorm:"type:date;not null"`
	Participants  int       `gorm:"not null"`
	AmountCents   int64     `gorm:"not null"`
	Currency      string    `gorm:"type:char(3);not null"`
	Status        string    `gorm:"type:varchar(32);not null"`
	CreatedAt     time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt     time.Time `gorm:"type:datetime(3);not null"`
}

func (Reservation) TableName() string { return "reservations" }
