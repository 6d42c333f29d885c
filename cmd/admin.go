// admin.go - Bootstraps the first admin account

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-room-booking/config"
	"go-room-booking/database"
	"go-room-booking/models"
)

var adminFlags struct {
	name     string
	email    string
	password string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account unless one exists",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		name := firstNonEmpty(adminFlags.name, cfg.AdminName)
		email := firstNonEmpty(adminFlags.email, cfg.AdminEmail)
		password := firstNonEmpty(adminFlags.password, cfg.AdminPassword)
		if len(password) < 6 {
			return fmt.Errorf("admin password must be at least 6 characters (use --password or ADMIN_PASSWORD)")
		}

		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		created, err := database.EnsureAdmin(db, name, email, password)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", models.NormalizeEmail(email))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "an admin account already exists, nothing to do")
		}
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.name, "name", "", "display name (default ADMIN_NAME)")
	f.StringVar(&adminFlags.email, "email", "", "login email (default ADMIN_EMAIL)")
	f.StringVar(&adminFlags.password, "password", "", "password (default ADMIN_PASSWORD)")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
