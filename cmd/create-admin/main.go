package main

import (
	"context"
	"flag"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/arduinodayph/adph-merch/internal/users"
	"github.com/arduinodayph/adph-merch/pkg/config"
	"github.com/arduinodayph/adph-merch/pkg/db"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	"github.com/arduinodayph/adph-merch/pkg/logger"
	"github.com/arduinodayph/adph-merch/pkg/security"
)

const (
	passwordEnv        = "ADPH_ADMIN_PASSWORD"
	tempPasswordLength = 20
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "create-admin"})
	_ = godotenv.Load()

	email := flag.String("email", "", "operator email (required)")
	name := flag.String("name", "", "display name")
	role := flag.String("role", string(enums.AppRoleAdmin), "app role: admin|staff")
	flag.Parse()

	addr, err := mail.ParseAddress(strings.TrimSpace(*email))
	if err != nil {
		fmt.Fprintln(os.Stderr, "a valid -email is required")
		os.Exit(1)
	}
	appRole, err := enums.ParseAppRole(*role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -role: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "create-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"app_role": appRole.String(),
	})

	password := os.Getenv(passwordEnv)
	generated := password == ""
	if generated {
		password, err = security.GenerateTempPassword(tempPasswordLength)
		requireResource(logg, "password generator", err)
	}
	hash, err := security.HashPassword(password, cfg.Password)
	requireResource(logg, "password hash", err)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(logg, "database", err)
	defer dbClient.Close()

	user, err := users.NewRepository(dbClient.DB()).Create(ctx, users.CreateAdminDTO{
		Email:        addr.Address,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(*name),
		AppRole:      appRole,
	})
	if err != nil {
		logg.Error(ctx, "failed to create operator", err)
		dbClient.Close()
		os.Exit(1)
	}

	logg.Info(logg.WithUserID(ctx, user.ID.String()), "operator created")
	fmt.Println("created operator:", user.Email)
	if generated {
		fmt.Println("temporary password:", password)
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
