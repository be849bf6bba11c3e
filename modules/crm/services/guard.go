package services

import (
	"context"

	"github.com/rsmhq/rsm/modules/core/domain/entities/permission"
	"github.com/rsmhq/rsm/pkg/composables"
	"github.com/rsmhq/rsm/pkg/serrors"
)

var ErrPermissionDenied = serrors.NewError("CRM_FORBIDDEN", "You do not have permission to perform this action.")

func ensureCan(ctx context.Context, perm *permission.Permission) error {
	u, err := composables.UseUser(ctx)
	if err != nil {
		return ErrPermissionDenied
	}
	if !u.Can(perm) {
		return ErrPermissionDenied
	}
	return nil
}
