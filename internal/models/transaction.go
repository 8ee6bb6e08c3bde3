package models

import "time"

// LedgerTransaction mirrors the coordinator's view of a submitted
// transaction. Confirmations is monotonically non-decreasing until the
// status turns terminal.
type LedgerTransaction struct {
	Hash          string            `gorm:"primaryKey" json:"hash"`
	BlockNumber   *uint64           `json:"block_number,omitempty"`
	GasUsed       uint64            `json:"gas_used"`
	GasPrice      int64             `json:"gas_price"`
	Status        TransactionStatus `gorm:"not null;default:'pending';index" json:"status"`
	Confirmations int               `gorm:"not null;default:0" json:"confirmations"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
