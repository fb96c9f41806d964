package model

import (
	"time"
)

// Status is the order lifecycle state. Transitions are forward-only:
// pending -> processing -> success | failed. Terminal states are never
// overwritten.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Order is the sole mutable entity: one package purchase tracked from
// QRIS deposit creation through panel provisioning. JSON names follow the
// storefront wire contract.
type Order struct {
	ReffID      string `gorm:"primaryKey;column:reff_id" json:"reff_id"`
	PackageID   int    `gorm:"column:package_id" json:"package_id"`
	PackageName string `gorm:"column:package_name" json:"package_name"`
	RAM         int    `gorm:"column:ram" json:"ram"`
	Disk        int    `gorm:"column:disk" json:"disk"`
	CPU         int    `gorm:"column:cpu" json:"cpu"`
	Price       int    `gorm:"column:price" json:"price"`

	PanelUsername string `gorm:"column:panel_username" json:"panel_username"`
	CustomerEmail string `gorm:"column:customer_email" json:"customer_email"`

	PaymentMethod         string `gorm:"column:payment_method" json:"payment_method"`
	QRISURL               string `gorm:"column:qris_url" json:"qris_url"`
	QRISContent           string `gorm:"column:qris_content" json:"qris_content"`
	AtlanticTransactionID string `gorm:"column:atlantic_transaction_id" json:"atlantic_transaction_id"`

	PanelDomain   string `gorm:"column:panel_domain" json:"panel_domain"`
	PanelPassword string `gorm:"column:panel_password" json:"panel_password"`
	UserID        int    `gorm:"column:user_id" json:"user_id,omitempty"`
	ServerID      int    `gorm:"column:server_id" json:"server_id,omitempty"`

	Status       Status `gorm:"column:status;default:'pending'" json:"status"`
	ErrorMessage string `gorm:"column:error_message" json:"error_message"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName pins the table for the durable store.
func (Order) TableName() string {
	return "orders"
}

// Patch is a merge-update applied by reference id. Nil fields are left
// untouched; the store stamps updated_at on every apply.
type Patch struct {
	Status                *Status
	AtlanticTransactionID *string
	PanelDomain           *string
	PanelPassword         *string
	UserID                *int
	ServerID              *int
	ErrorMessage          *string
}
