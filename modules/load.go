package modules

import (
	"github.com/rsmhq/rsm/modules/core"
	"github.com/rsmhq/rsm/modules/crm"
	"github.com/rsmhq/rsm/pkg/application"
)

var BuiltInModules = []application.Module{
	core.NewModule(),
	crm.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
