package system

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/triage_backend/config"
	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/pkg/database"
)

func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Database, account and tooling commands",
	}

	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewDoctorCommand())
	cmd.AddCommand(NewGenDocsCommand())

	return cmd
}

// openStore reads the config named by --config and opens the database it
// points at. The returned context is bounded by the server timeout.
func openStore(cmd *cobra.Command) (context.Context, context.CancelFunc, *config.Config, *repo.Client, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to read config: %w", err)
	}

	db, err := database.Open(database.FromCentralConfig(cfg.Database))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return ctx, cancel, cfg, repo.NewClient(db), nil
}
