package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/ironcrest/proctor-backend/internal/config"
	"github.com/ironcrest/proctor-backend/internal/database"
	"github.com/ironcrest/proctor-backend/internal/logger"
	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/repository"
	"github.com/ironcrest/proctor-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// seed loads the sample recruitment paper and, optionally, a first admin and
// a demo candidate. Safe to run repeatedly.
func main() {
	adminUser := flag.String("admin-user", "admin", "admin username to create")
	adminPassword := flag.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password; admin is skipped when empty")
	candidateName := flag.String("candidate", "", "issue credentials for a demo candidate with this name")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "")

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	assessmentService := service.NewAssessmentService(repository.NewAssessmentRepository(pool), nil, cfg.AssessmentCacheTTL, log)
	candidateService := service.NewCandidateService(repository.NewCandidateRepository(pool), assessmentService, cfg.CandidateEmailDomain, cfg.BcryptCost, log)
	adminService := service.NewAdminService(repository.NewAdminRepository(pool))

	// ─── Assessment ────────────────────────────────────────────────────
	paper := samplePaper()
	if _, err := assessmentService.GetByID(ctx, paper.ID); errors.Is(err, service.ErrNotFound) {
		a, err := assessmentService.Create(ctx, paper)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sample assessment")
		}
		log.Info().Str("assessment_id", a.ID).Int("questions", len(a.Questions)).Msg("Sample assessment created")
	} else if err != nil {
		log.Fatal().Err(err).Msg("Failed to look up sample assessment")
	} else {
		log.Info().Str("assessment_id", paper.ID).Msg("Sample assessment already present")
	}

	// ─── Admin ─────────────────────────────────────────────────────────
	if *adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), cfg.BcryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash admin password")
		}
		err = adminService.Create(ctx, &model.Admin{Username: *adminUser, Name: *adminUser, PasswordHash: string(hash)})
		switch {
		case err == nil:
			log.Info().Str("username", *adminUser).Msg("Admin created")
		case errors.Is(err, repository.ErrDuplicateUsername):
			log.Info().Str("username", *adminUser).Msg("Admin already present")
		default:
			log.Fatal().Err(err).Msg("Failed to create admin")
		}
	}

	// ─── Demo candidate ────────────────────────────────────────────────
	if *candidateName != "" {
		out, err := candidateService.CreateCandidate(ctx, &model.CreateCandidateRequest{
			Name:         *candidateName,
			Designation:  "Site Engineer",
			AssessmentID: paper.ID,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create demo candidate")
		}
		fmt.Printf("Candidate ID: %s\nPassword:     %s\nEmail:        %s\n", out.ID, out.Password, out.Email)
	}
}
