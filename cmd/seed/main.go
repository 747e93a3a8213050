// seed registers two demo users and records a trade between them in the
// local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/ErlanBelekov/trade-tally/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/trade-tally/internal/password"
	"github.com/ErlanBelekov/trade-tally/internal/token"
	"github.com/ErlanBelekov/trade-tally/internal/usecase"
	"github.com/ErlanBelekov/trade-tally/migrations"
)

const seedPassword = "trade-tally-seed"

var seedUsers = []usecase.RegisterInput{
	{Username: "ada", Password: seedPassword, FirstName: "Ada", LastName: "Lovelace", Email: "ada@test.local", Profession: "Mathematician"},
	{Username: "grace", Password: seedPassword, FirstName: "Grace", LastName: "Hopper", Email: "grace@test.local", Profession: "Programmer"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set; run: direnv allow")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "seed-only-secret-not-used-by-the-server"
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err = migrations.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	tokens, err := token.NewService([]byte(secret), token.DefaultTTL)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userRepo := postgres.NewUserRepository(pool)
	auth := usecase.NewAuthUsecase(userRepo, password.NewHasher(password.DefaultCost), tokens)
	trades := usecase.NewTradeUsecase(postgres.NewTradeRepository(pool, logger))

	// Register the users, or log in if a previous run already did.
	sessions := make([]*usecase.Session, 0, len(seedUsers))
	for _, in := range seedUsers {
		s, err := auth.Register(ctx, in)
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			s, err = auth.Login(ctx, in.Username, in.Password)
		}
		if err != nil {
			log.Fatalf("seed user %s: %v", in.Username, err)
		}
		sessions = append(sessions, s)
	}

	ada, grace := sessions[0].User, sessions[1].User
	trade, err := trades.CreateTrade(ctx, usecase.CreateTradeInput{
		CallerID:           ada.ID,
		UserID:             ada.ID,
		PartnerID:          grace.ID,
		Date:               time.Now().UTC().Truncate(24 * time.Hour),
		ServiceDescription: "Reviewed the compiler manual",
		Amount:             120,
	})
	if err != nil {
		log.Fatalf("seed trade: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	for _, s := range sessions {
		fmt.Printf("  %-6s id=%s\n", s.User.Username, s.User.ID)
	}
	fmt.Printf("  trade  id=%s\n", trade.ID)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"username\":\"ada\",\"password\":\"%s\"}'\n", seedPassword)
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Printf("    curl -s http://localhost:8080/trades/user/%s -H \"Authorization: Bearer $JWT\"\n", grace.ID)
}
