package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/chess-academy-site/internal/models"
	"github.com/noah-isme/chess-academy-site/internal/repository"
	"github.com/noah-isme/chess-academy-site/internal/service"
	"github.com/noah-isme/chess-academy-site/pkg/config"
	"github.com/noah-isme/chess-academy-site/pkg/database"
	"github.com/noah-isme/chess-academy-site/pkg/logger"
)

const minPasswordLength = 8

func main() {
	var (
		email    string
		password string
		name     string
		role     string
	)

	flag.StringVar(&email, "email", "", "Admin email address")
	flag.StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "Password (defaults to $ADMIN_PASSWORD)")
	flag.StringVar(&name, "name", "Site Admin", "Display name")
	flag.StringVar(&role, "role", string(models.RoleAdmin), "Role: SUPERADMIN, ADMIN or EDITOR")
	flag.Parse()

	user, err := buildUser(email, password, name, role)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repository.NewUserRepository(db).Upsert(ctx, user); err != nil {
		logr.Fatal("save admin user", zap.Error(err))
	}
	logr.Info("admin user saved", zap.String("id", user.ID), zap.String("email", user.Email), zap.String("role", string(user.Role)))
}

func buildUser(email, password, name, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid -email is required")
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	userRole := models.UserRole(strings.ToUpper(strings.TrimSpace(role)))
	switch userRole {
	case models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditor:
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(name),
		Role:         userRole,
	}, nil
}
