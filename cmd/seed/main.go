package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"inkwell/internal/config"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/seed"
	"inkwell/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	fixturePath := flag.String("fixture", "seed.yaml", "Path to the YAML workspace fixture")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	fixture, err := seed.Load(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	pageRepo := postgres.NewPageRepository(repoConfig)
	linkRepo := postgres.NewPageLinkRepository(repoConfig)

	folderService := service.NewFolderService(folderRepo, logger)
	linkService := service.NewLinkService(linkRepo, pageRepo, logger)
	pageService := service.NewPageService(pageRepo, folderRepo, linkService, logger)

	log.Printf("Seeding workspace for user %s...", fixture.UserID)
	seeder := seed.NewSeeder(folderService, pageService, linkService, logger)
	if err := seeder.Apply(ctx, fixture); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createPages := `
		CREATE TABLE IF NOT EXISTS ` + tables.Pages + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			title TEXT NOT NULL,
			content JSONB NOT NULL DEFAULT '{}',
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			slug TEXT,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createPages); err != nil {
		return err
	}

	createPageLinks := `
		CREATE TABLE IF NOT EXISTS ` + tables.PageLinks + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			from_page_id UUID NOT NULL REFERENCES ` + tables.Pages + `(id) ON DELETE CASCADE,
			to_page_id UUID NOT NULL REFERENCES ` + tables.Pages + `(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(from_page_id, to_page_id)
		)
	`
	if _, err := pool.Exec(ctx, createPageLinks); err != nil {
		return err
	}

	createBinItems := `
		CREATE TABLE IF NOT EXISTS ` + tables.BinItems + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			item_type TEXT NOT NULL,
			item_id UUID NOT NULL,
			item_data JSONB NOT NULL,
			deleted_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createBinItems); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_user_parent ON ` + tables.Folders + `(user_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `pages_user_folder ON ` + tables.Pages + `(user_id, folder_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `pages_slug_unique ON ` + tables.Pages + `(slug) WHERE slug IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `page_links_to ON ` + tables.PageLinks + `(to_page_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `bin_items_user ON ` + tables.BinItems + `(user_id, deleted_at DESC)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.BinItems,
		tables.PageLinks,
		tables.Pages,
		tables.Folders,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}

	return nil
}
