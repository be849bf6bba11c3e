package permission

import "github.com/google/uuid"

type Resource string

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionChange Action = "change"
	ActionCancel Action = "cancel"
	ActionImport Action = "import"
	ActionAdd    Action = "add"
)

// Permission is a grantable capability token. Name is the stable identifier
// checked by business rules; Resource and Action exist for grouping and
// administration screens.
type Permission struct {
	ID       uuid.UUID
	Name     string
	Resource Resource
	Action   Action
}

func (p *Permission) Equals(other *Permission) bool {
	if p == nil || other == nil {
		return false
	}
	return p.Name == other.Name
}
