package viewmodels

// API shapes. Timestamps are RFC3339 strings; nullable fields are pointers.

type Customer struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type WorkOrder struct {
	ID          uint    `json:"id"`
	CustomerID  uint    `json:"customer_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueAt       *string `json:"due_at"`
	CreatedBy   uint    `json:"created_by"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type Note struct {
	ID          uint   `json:"id"`
	WorkOrderID uint   `json:"work_order_id"`
	UserID      uint   `json:"user_id"`
	Note        string `json:"note"`
	CreatedAt   string `json:"created_at"`
}

type StatusHistory struct {
	ID          uint    `json:"id"`
	WorkOrderID uint    `json:"work_order_id"`
	FromStatus  *string `json:"from_status"`
	ToStatus    string  `json:"to_status"`
	ChangedBy   uint    `json:"changed_by"`
	ChangedAt   string  `json:"changed_at"`
}
