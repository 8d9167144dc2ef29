package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/news-portal-api/config"
	pginfra "github.com/oksasatya/news-portal-api/internal/infrastructure/postgres"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
)

// seeds the admin identity; rerunning resets its name, role and password
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	hash, err := helpers.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = pool.QueryRow(ctx, `
		INSERT INTO identities (name, email, password_hash, role, category)
		VALUES ($1, $2, $3, 'admin', '')
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash, role = 'admin', updated_at = now()
		RETURNING id
	`, cfg.SeedAdminName, cfg.SeedAdminEmail, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	helpers.LogInfo(logger, "seeded admin", map[string]any{"id": id, "email": cfg.SeedAdminEmail})
}
