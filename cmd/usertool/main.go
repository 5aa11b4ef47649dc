// Command usertool performs account chores that have no HTTP surface:
// creating the first administrator and resetting a password by hand.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/config"
	"fieldops-backend/internal/domain"
	"fieldops-backend/internal/logger"
	"fieldops-backend/internal/repository"
	"fieldops-backend/internal/repository/postgres"
	"fieldops-backend/internal/security"
	"fieldops-backend/internal/service"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: usertool <seed-admin|set-password> [flags]\n")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]

	fs := pflag.NewFlagSet(command, pflag.ExitOnError)
	configPath := fs.StringP("config", "c", "config/config.dev.yaml", "Path to configuration file")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "New password (at least 8 characters)")
	name := fs.String("name", "Administrator", "Display name for seed-admin")
	force := fs.Bool("force", false, "seed-admin: create even when an admin already exists")
	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := postgres.NewStore(db)
	clk := clock.Real(cfg.Location())
	hasher := security.NewBcryptHasher(security.PasswordCost)

	switch command {
	case "seed-admin":
		err = seedAdmin(ctx, store.UserRepository, service.NewUserService(store.UserRepository, hasher, clk), *email, *password, *name, *force)
	case "set-password":
		err = setPassword(ctx, store.UserRepository, hasher, clk, *email, *password)
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

func seedAdmin(ctx context.Context, users repository.UserRepository, svc service.UserService, email, password, name string, force bool) error {
	count, err := users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 && !force {
		logger.Info("Administrator already exists, nothing to do", "count", count)
		return nil
	}
	user, err := svc.CreateUser(ctx, service.CreateUserInput{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.Info("Administrator created", "userID", user.ID, "email", user.Email)
	return nil
}

func setPassword(ctx context.Context, users repository.UserRepository, hasher security.PasswordHasher, clk clock.Clock, email, password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	user, err := users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no account for %q", email)
		}
		return err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := users.UpdatePassword(ctx, user.ID, hash, clk.Now()); err != nil {
		return err
	}
	logger.Info("Password updated", "userID", user.ID)
	return nil
}
