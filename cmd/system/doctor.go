package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/triage_backend/internal/service/doctor"
	"github.com/Alijeyrad/triage_backend/pkg/constants"
	"github.com/Alijeyrad/triage_backend/pkg/util/password"
)

// passwordEnv lets scripts pass the password without it showing in argv.
var passwordEnv = constants.EnvPrefix + "_DOCTOR_PASSWORD"

func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Manage doctor dashboard accounts",
	}
	cmd.AddCommand(newSetPasswordCommand())
	return cmd
}

func newSetPasswordCommand() *cobra.Command {
	var plain string

	cmd := &cobra.Command{
		Use:   "set-password <doctor-id>",
		Short: "Create a doctor account or reset its password",
		Long: fmt.Sprintf(`Create a doctor account or replace its password. The password is hashed
with argon2id before it is stored, and any login lockout is cleared.

The password is taken from --password or, when that is empty, from $%s.`, passwordEnv),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain == "" {
				plain = os.Getenv(passwordEnv)
			}
			if plain == "" {
				return errors.New("no password given: use --password or " + passwordEnv)
			}

			ctx, cancel, cfg, client, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			defer client.Close()

			if _, err := client.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			svc := doctor.New(client, nil, password.New(password.FromCentralConfig(cfg.Password)), nil)
			created, err := svc.SetPassword(ctx, args[0], plain)
			if err != nil {
				return fmt.Errorf("failed to set password: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created doctor %q.\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated password for doctor %q.\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&plain, "password", "", "new password")
	return cmd
}
