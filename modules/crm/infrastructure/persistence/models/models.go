package models

import "time"

type Customer struct {
	ID        uint
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WorkOrder struct {
	ID          uint
	CustomerID  uint
	Title       string
	Description string
	Status      string
	Priority    string
	DueAt       *time.Time
	CreatedBy   uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type WorkOrderNote struct {
	ID          uint
	WorkOrderID uint
	UserID      uint
	Note        string
	CreatedAt   time.Time
}

type StatusHistory struct {
	ID          uint
	WorkOrderID uint
	FromStatus  *string
	ToStatus    string
	ChangedBy   uint
	ChangedAt   time.Time
}

type NotificationLog struct {
	ID          uint
	WorkOrderID uint
	CustomerID  uint
	Channel     string
	Payload     []byte
	Status      string
	SentAt      *time.Time
	Error       *string
	CreatedAt   time.Time
}
