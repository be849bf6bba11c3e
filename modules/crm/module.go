package crm

import (
	"context"
	"embed"
	"io/fs"

	corepersistence "github.com/rsmhq/rsm/modules/core/infrastructure/persistence"
	"github.com/rsmhq/rsm/modules/crm/handlers"
	crmoutbox "github.com/rsmhq/rsm/modules/crm/infrastructure/outbox"
	"github.com/rsmhq/rsm/modules/crm/infrastructure/persistence"
	"github.com/rsmhq/rsm/modules/crm/permissions"
	"github.com/rsmhq/rsm/modules/crm/presentation/controllers"
	"github.com/rsmhq/rsm/modules/crm/services"
	"github.com/rsmhq/rsm/pkg/application"
)

//go:embed infrastructure/persistence/schema/migrations/*.sql
var migrationFiles embed.FS

// SeedUsers are the bootstrap accounts, one per capability set. Static dev
// tokens; replace before exposing an environment.
var SeedUsers = []corepersistence.SeedUser{
	{Name: "Admin", Email: "admin@rsm.local", Token: "dev-token-admin", Role: "Admin"},
	{Name: "Staff", Email: "staff@rsm.local", Token: "dev-token-staff", Role: "Staff"},
	{Name: "Support", Email: "support@rsm.local", Token: "dev-token-support", Role: "Support"},
}

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "crm"
}

func (m *Module) Register(app application.Application) error {
	schemaFS, err := fs.Sub(migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(application.SchemaSet{Name: "crm", FS: schemaFS})

	customerRepo := persistence.NewCustomerRepository()
	workOrderRepo := persistence.NewWorkOrderRepository()
	notificationRepo := persistence.NewNotificationRepository()

	app.RegisterServices(
		services.NewCustomerService(customerRepo),
		services.NewWorkOrderService(workOrderRepo, crmoutbox.NewEnqueuer()),
		services.NewCustomerImportService(customerRepo),
		services.NewWorkOrderImportService(workOrderRepo, customerRepo),
	)

	handler := handlers.NewNotificationHandler(app.DB(), notificationRepo, nil, app.Logger())
	handler.Register(app.EventPublisher())

	app.RegisterControllers(
		controllers.NewCustomersController(app),
		controllers.NewWorkOrdersController(app),
		controllers.NewImportController(app),
	)

	app.Seeder().Register(func(ctx context.Context, a application.Application) error {
		return corepersistence.SeedAccessControl(ctx, a, permissions.Permissions, permissions.RoleSets, SeedUsers)
	})

	return nil
}
