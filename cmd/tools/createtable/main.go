package main

import (
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "tenerife:paradise@tcp(localhost:3306)/tenerife_go?parseTime=true&multiStatements=true&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	sql := `
	CREATE TABLE IF NOT EXISTS reservations (
	  id CHAR(36) NOT NULL,
	  tour_name VARCHAR(255) NOT NULL,
	  customer_email VARCHAR(255) NOT NULL,
	  tour_date DATE NOT NULL,
	  participants INT NOT NULL,
	  amount_cents BIGINT NOT NULL,
	  currency CHAR(3) NOT NULL,
	  status VARCHAR(32) NOT NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_reservations_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS gateway_transactions (
	  order_code CHAR(12) NOT NULL,
	  reservation_id CHAR(36) NOT NULL,
	  attempt INT NOT NULL DEFAULT 0,
	  amount_cents BIGINT NOT NULL,
	  refunded_cents BIGINT NOT NULL DEFAULT 0,
	  currency CHAR(3) NOT NULL,
	  state VARCHAR(32) NOT NULL,
	  gateway_response_code VARCHAR(8) NULL,
	  authorisation_code VARCHAR(16) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  last_event_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (order_code),
	  KEY ix_gateway_transactions_reservation_id (reservation_id),
	  KEY ix_gateway_transactions_state (state),
	  CONSTRAINT fk_gateway_transactions_reservation FOREIGN KEY (reservation_id) REFERENCES reservations(id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS gateway_events (
	  id CHAR(36) NOT NULL,
	  order_code CHAR(12) NOT NULL,
	  signature VARCHAR(64) NOT NULL,
	  response_code VARCHAR(8) NOT NULL,
	  payload_json JSON NOT NULL,
	  verified TINYINT(1) NOT NULL DEFAULT 0,
	  received_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_gateway_events_order_sig (order_code, signature),
	  KEY ix_gateway_events_order (order_code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if _, err := sqlDB.Exec(sql); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("✓ reservations table created successfully")
	log.Println("✓ gateway_transactions table created successfully")
	log.Println("✓ gateway_events table created successfully")
}
