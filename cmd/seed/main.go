package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/careerpath/careerpath-api/config"
	"github.com/careerpath/careerpath-api/pkg/helpers"
)

// Seeds a demo account with one saved roadmap for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@careerpath.local"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	content := `{
		"title": "Backend Developer Roadmap",
		"stages": [
			{"id": 1, "name": "Foundations", "duration": "2-3 months", "description": "Programming basics, Git, HTTP.", "skills": ["Go", "Git", "HTTP"], "resources": ["The Go Programming Language"]},
			{"id": 2, "name": "Databases", "duration": "2 months", "description": "SQL, schema design, indexing.", "skills": ["PostgreSQL", "SQL"], "resources": ["Use The Index, Luke"]}
		]
	}`
	var rid string
	err = db.QueryRow(`
		INSERT INTO roadmaps (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, "Backend Developer", content).Scan(&rid)
	if err != nil {
		log.Fatalf("failed to seed roadmap: %v", err)
	}
	fmt.Printf("seeded roadmap: id=%s\n", rid)
}
