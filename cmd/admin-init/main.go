// Command admin-init provisions the admin account in the configured
// key-value store. With ADMIN_PASSWORD set it also overwrites the password.
package main

import (
	"context"
	"os"
	"time"

	"vestadmin/internal/auth"
	"vestadmin/internal/cli"
	applog "vestadmin/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(applog.ComponentAuth, "", ""))
	logger := cli.SetupLogger(applog.ComponentAuth, cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := cli.InitStore(ctx, logger, cfg)
	defer func() {
		if store.Cleanup != nil {
			_ = store.Cleanup()
		}
	}()

	admins := auth.NewAdminStore(store.Store)
	user, err := admins.EnsureAdmin(ctx)
	if err != nil {
		logger.Error("Failed to provision admin account", applog.FieldError, err)
		os.Exit(1)
	}

	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		if err := admins.SetPassword(ctx, password); err != nil {
			logger.Error("Failed to set admin password", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Admin password updated", applog.FieldIdentity, user.ID)
		return
	}

	logger.Info("Admin account ready", applog.FieldIdentity, user.ID, applog.FieldBackend, cfg.KVBackend)
}
