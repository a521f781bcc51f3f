package main

import (
	"context"
	"errors"
	"fmt"

	"nonprofit-api/internal/adapters/persistence/models"
	"nonprofit-api/internal/adapters/persistence/repositories"
	"nonprofit-api/internal/config"
	"nonprofit-api/internal/core/domain"
	"nonprofit-api/internal/core/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is what every command needs: configuration, a logger and the database
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	_ = config.CloseDatabase(e.db)
	_ = e.log.Sync()
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := models.AutoMigrate(e.db); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
			return nil
		},
	}
}

func seedSuperAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "seed-superadmin",
		Short: "Create the super admin account",
		Long: `Create the single super admin account.

Credentials come from the flags, falling back to SUPERADMIN_USERNAME,
SUPERADMIN_EMAIL and SUPERADMIN_PASSWORD. The command refuses to run when a
super admin already exists.

Examples:
  nonprofitctl seed-superadmin --username root --email root@example.org --password '...'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			sa := e.cfg.SuperAdmin
			if username != "" {
				sa.Username = username
			}
			if email != "" {
				sa.Email = email
			}
			if password != "" {
				sa.Password = password
			}

			seeder := config.NewSeeder(repositories.NewAdminRepository(e.db), sa, e.log)
			admin, err := seeder.SeedSuperAdmin(context.Background())
			if errors.Is(err, domain.ErrSuperAdminExists) {
				return fmt.Errorf("a super admin already exists; only one is allowed")
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "super admin %q created (id %d)\n", admin.Username, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "super admin username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "super admin email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "super admin password")

	return cmd
}

func sweepTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-tokens",
		Short: "Clear expired password reset codes now",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			cron := services.NewCronService(repositories.NewAdminRepository(e.db), e.cfg.Security.TokenSweepSpec, e.log)
			n, err := cron.SweepExpiredResetTokens(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d expired reset codes\n", n)
			return nil
		},
	}
}
