package application

import (
	"context"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// SchemaSet is one module's embedded goose migrations. Each set tracks its
// versions in its own table so modules can evolve independently.
type SchemaSet struct {
	// Name becomes part of the goose version table: goose_db_version_<name>.
	Name string
	// FS must contain a "migrations" directory with goose SQL files.
	FS fs.FS
}

type MigrationManager interface {
	RegisterSchema(sets ...SchemaSet)
	Run(ctx context.Context) error
	Rollback(ctx context.Context) error
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

type migrationManager struct {
	pool *pgxpool.Pool
	sets []SchemaSet
}

func (m *migrationManager) RegisterSchema(sets ...SchemaSet) {
	m.sets = append(m.sets, sets...)
}

func (m *migrationManager) Run(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	for _, set := range m.sets {
		goose.SetBaseFS(set.FS)
		goose.SetTableName("goose_db_version_" + set.Name)
		if err := goose.UpContext(ctx, db, "migrations"); err != nil {
			return err
		}
	}
	return nil
}

// Rollback undoes the latest migration of every registered set, in reverse
// registration order.
func (m *migrationManager) Rollback(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	for i := len(m.sets) - 1; i >= 0; i-- {
		set := m.sets[i]
		goose.SetBaseFS(set.FS)
		goose.SetTableName("goose_db_version_" + set.Name)
		if err := goose.DownContext(ctx, db, "migrations"); err != nil {
			return err
		}
	}
	return nil
}
