package permissions

import (
	"github.com/google/uuid"

	"github.com/rsmhq/rsm/modules/core/domain/entities/permission"
)

const (
	ResourceWorkOrder permission.Resource = "work_order"
	ResourceCustomer  permission.Resource = "customer"
)

var (
	WorkOrderView = &permission.Permission{
		ID:       uuid.MustParse("5d3f9a71-2f0e-4a4e-8c2b-9f5cf1a7d2b1"),
		Name:     "view-work-orders",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionView,
	}
	WorkOrderCreate = &permission.Permission{
		ID:       uuid.MustParse("c2de1de1-8b6f-4f57-9d3a-51f740dc7a9e"),
		Name:     "create-work-orders",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionCreate,
	}
	WorkOrderEdit = &permission.Permission{
		ID:       uuid.MustParse("0c0f8f6e-0f3f-4f87-90cd-3f72f2b1a64d"),
		Name:     "edit-work-orders",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionEdit,
	}
	WorkOrderDelete = &permission.Permission{
		ID:       uuid.MustParse("8f2ce9a3-6a44-4be4-8f2d-6a3c0f2be301"),
		Name:     "delete-work-orders",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionDelete,
	}
	// WorkOrderChangeStatus is the base capability for any status transition;
	// alone it grants the in_progress and waiting_customer targets.
	WorkOrderChangeStatus = &permission.Permission{
		ID:       uuid.MustParse("21d7a6b5-00e5-47e8-a7b4-ec2ffdc347a2"),
		Name:     "change-work-order-status",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionChange,
	}
	// WorkOrderResolve additionally grants the done and new targets.
	WorkOrderResolve = &permission.Permission{
		ID:       uuid.MustParse("0aa3f3f7-7f04-4f06-a9dd-51d1c49c3f5e"),
		Name:     "resolve-work-orders",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionChange,
	}
	// WorkOrderCancel additionally grants the cancelled target.
	WorkOrderCancel = &permission.Permission{
		ID:       uuid.MustParse("e0b9a1fd-5a8a-45ab-b9a9-4f2b6f8f6de0"),
		Name:     "cancel-work-orders",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionCancel,
	}
	WorkOrderAddNote = &permission.Permission{
		ID:       uuid.MustParse("74c5af8e-9a6a-4d3a-95e1-0a54b1de6a0c"),
		Name:     "add-work-order-notes",
		Resource: ResourceWorkOrder,
		Action:   permission.ActionAdd,
	}
	CustomerView = &permission.Permission{
		ID:       uuid.MustParse("d2ffca30-7f41-4e7a-bd35-6fbe87ddc43f"),
		Name:     "view-customers",
		Resource: ResourceCustomer,
		Action:   permission.ActionView,
	}
	CustomerCreate = &permission.Permission{
		ID:       uuid.MustParse("6cf98e94-8c68-4bb0-bb8b-bd21d4b5c21a"),
		Name:     "create-customers",
		Resource: ResourceCustomer,
		Action:   permission.ActionCreate,
	}
	CustomerEdit = &permission.Permission{
		ID:       uuid.MustParse("b3d6e19e-3b2c-4e55-b0a3-ff0f1e04da82"),
		Name:     "edit-customers",
		Resource: ResourceCustomer,
		Action:   permission.ActionEdit,
	}
	CustomerDelete = &permission.Permission{
		ID:       uuid.MustParse("4e7ddcb2-e339-4d5c-9a9b-20b36c4ae301"),
		Name:     "delete-customers",
		Resource: ResourceCustomer,
		Action:   permission.ActionDelete,
	}
	CustomerImport = &permission.Permission{
		ID:       uuid.MustParse("a1f9d3fb-7c16-4d29-9c10-562ab4e3df89"),
		Name:     "import-customers",
		Resource: ResourceCustomer,
		Action:   permission.ActionImport,
	}
)

var Permissions = []*permission.Permission{
	WorkOrderView,
	WorkOrderCreate,
	WorkOrderEdit,
	WorkOrderDelete,
	WorkOrderChangeStatus,
	WorkOrderResolve,
	WorkOrderCancel,
	WorkOrderAddNote,
	CustomerView,
	CustomerCreate,
	CustomerEdit,
	CustomerDelete,
	CustomerImport,
}

// RoleSets are the seeded capability sets. The transition targets each role
// may reach fall out of set membership alone (see workorder.Transition).
var RoleSets = map[string][]*permission.Permission{
	"Admin": Permissions,
	"Staff": {
		WorkOrderView,
		WorkOrderCreate,
		WorkOrderEdit,
		WorkOrderChangeStatus,
		WorkOrderResolve,
		WorkOrderAddNote,
		CustomerView,
		CustomerCreate,
		CustomerEdit,
		CustomerImport,
	},
	"Support": {
		WorkOrderView,
		WorkOrderAddNote,
		WorkOrderChangeStatus,
		CustomerView,
	},
}
