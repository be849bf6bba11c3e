package core

import (
	"embed"
	"io/fs"

	"github.com/rsmhq/rsm/modules/core/infrastructure/persistence"
	"github.com/rsmhq/rsm/pkg/application"
)

//go:embed infrastructure/persistence/schema/migrations/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "core"
}

func (m *Module) Register(app application.Application) error {
	schemaFS, err := fs.Sub(migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(application.SchemaSet{Name: "core", FS: schemaFS})
	app.RegisterServices(
		persistence.NewUserRepository(),
	)
	return nil
}
