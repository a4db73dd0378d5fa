package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/ironcrest/proctor-backend/internal/config"
	"github.com/ironcrest/proctor-backend/internal/database"
	"github.com/ironcrest/proctor-backend/internal/logger"
	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/repository"
	"github.com/ironcrest/proctor-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// create-admin provisions an admin account, or resets the password of an
// existing one when the username is already taken.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "")

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	adminService := service.NewAdminService(repository.NewAdminRepository(pool))

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Admin ===")

	username := prompt(reader, "Username: ")
	if username == "" {
		fmt.Println("Error: username is required")
		os.Exit(1)
	}

	name := prompt(reader, "Display name (optional): ")
	if name == "" {
		name = username
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}
	password := string(bytePassword)
	if len(password) < 8 {
		fmt.Println("Error: password must be at least 8 characters")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	// ─── Create or Reset ───────────────────────────────────────────────
	admin := &model.Admin{Username: username, Name: name, PasswordHash: string(hash)}
	err = adminService.Create(ctx, admin)
	switch {
	case err == nil:
		fmt.Printf("\nAdmin '%s' created with ID %d\n", admin.Username, admin.ID)
	case errors.Is(err, repository.ErrDuplicateUsername):
		answer := prompt(reader, fmt.Sprintf("Admin '%s' exists. Reset password? [y/N]: ", username))
		if !strings.EqualFold(answer, "y") {
			fmt.Println("Aborted")
			return
		}
		if err := adminService.SetPassword(ctx, username, string(hash)); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset admin password")
		}
		fmt.Printf("\nPassword for '%s' updated\n", username)
	default:
		log.Fatal().Err(err).Msg("Failed to create admin")
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
