package payments

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatePending    = "pending"
	StateAuthorized = "authorized"
	StateCaptured   = "captured"
	StateCancelled  = "cancelled"
	StateFailed     = "failed"
)

// Transaction is one payment attempt against the gateway, keyed by the
// 12-char order code. State sadece bu paketteki geçiş fonksiyonları üzerinden
// değişir.
type Transaction struct {
	OrderCode     string `gorm:"type:char(12);primaryKey"`
	ReservationID string `gorm:"type:char(36);not null;index:ix_gateway_transactions_reservation_id"`
	Attempt       int    `gorm:"not null"`

	AmountCents   int64  `gorm:"not null"`
	RefundedCents int64  `gorm:"not null;default:0"`
	Currency      string `gorm:"type:char(3);not null"`

	State               string  `gorm:"type:varchar(32);not null"`
	GatewayResponseCode *string `gorm:"type:varchar(8)"`
	AuthorisationCode   *string `gorm:"type:varchar(16)"`

	CreatedAt   time.Time `gorm:"type:datetime(3);not null"`
	LastEventAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Transaction) TableName() string { return "gateway_transactions" }

// GatewayEvent is the audit/dedupe record of one webhook delivery
// (signature dahil: aynı teslimat => aynı satır).
type GatewayEvent struct {
	ID           string         `gorm:"type:char(36);primaryKey"`
	OrderCode    string         `gorm:"type:char(12);not null;uniqueIndex:ux_gateway_events_order_sig,priority:1"`
	Signature    string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_gateway_events_order_sig,priority:2"`
	ResponseCode string         `gorm:"type:varchar(8);not null"`
	Verified     bool           `gorm:"not null"`
	PayloadJSON  datatypes.JSON `gorm:"type:json;not null"`
	ReceivedAt   time.Time      `gorm:"type:datetime(3);not null"`
}

func (GatewayEvent) TableName() string { return "gateway_events" }
