package system

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/internal/service/doctor"
	"github.com/Alijeyrad/triage_backend/pkg/util/password"
)

func NewMigrateCommand() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed the default doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, cfg, client, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			defer client.Close()

			if status {
				return printStatus(ctx, cmd, client)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Running migrations on %s.\n", cfg.Database.Path)
			applied, err := client.Migrate(ctx)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s).\n", applied)

			auth := cfg.Authentication
			if auth.DefaultDoctorID != "" && auth.DefaultDoctorPass != "" {
				// no token manager or redis needed to seed
				svc := doctor.New(client, nil, password.New(password.FromCentralConfig(cfg.Password)), nil)
				created, err := svc.SeedDefault(ctx, auth.DefaultDoctorID, auth.DefaultDoctorPass)
				if err != nil {
					return fmt.Errorf("failed to seed default doctor: %w", err)
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "Created doctor %q.\n", auth.DefaultDoctorID)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations executed successfully.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Print applied and pending migrations without running them")

	return cmd
}

func printStatus(ctx context.Context, cmd *cobra.Command, client *repo.Client) error {
	rows, err := client.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	for _, r := range rows {
		state := "pending"
		if r.Applied && r.AppliedAt != nil {
			state = "applied " + r.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%04d %-32s %s\n", r.Version, r.Name, state)
	}
	return nil
}
