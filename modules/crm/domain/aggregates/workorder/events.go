package workorder

// TopicStatusChangedV1 is the outbox topic for committed status transitions.
const TopicStatusChangedV1 = "crm.work_order.status_changed.v1"

// StatusChangedEvent is the payload enqueued on the transactional outbox in
// the same transaction as the status update. Delivery is at-least-once;
// consumers dedupe on the outbox event id.
type StatusChangedEvent struct {
	WorkOrderID uint   `json:"work_order_id"`
	CustomerID  uint   `json:"customer_id"`
	Title       string `json:"title"`
	OldStatus   Status `json:"old_status"`
	NewStatus   Status `json:"new_status"`
	ChangedBy   uint   `json:"changed_by"`
}
