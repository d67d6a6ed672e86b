package main

import (
	"flag"
	"log"

	"winehouse-pos/internal/repository"
	"winehouse-pos/internal/service"
	"winehouse-pos/pkg/config"
	"winehouse-pos/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Resets an account password and signs out its active session.
//
//	go run ./cmd/reset-password -username owner -password newsecret
func main() {
	username := flag.String("username", "", "account to reset")
	newPassword := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	if *username == "" || len(*newPassword) < 6 {
		log.Fatal("usage: reset-password -username <name> -password <min 6 chars>")
	}

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseURL)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	system := service.NewSystemService(
		repository.NewPrivilegeRepo(db),
		repository.NewRoleRepo(db),
		repository.NewSystemRepo(db),
		userRepo,
	)
	if err := system.Initialize(); err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}

	// 3. Find account
	user, err := userRepo.FindByUsername(*username)
	if err != nil {
		log.Fatalf("User %s not found in database: %v", *username, err)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// 5. Update and drop the current session
	if err := userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}
	if err := userRepo.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		log.Fatalf("Failed to revoke session: %v", err)
	}

	log.Printf("Password for %s (%s) has been reset", user.Username, user.RoleCode())
}
