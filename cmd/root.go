package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/triage_backend/cmd/http"
	systemcmd "github.com/Alijeyrad/triage_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Patient intake and advisory triage service for the medical robot kiosk.",
	Long: `Triage records patient identity, vitals and pain questionnaires from the
intake kiosk, asks a generative-language classifier for an advisory severity,
and serves the doctor dashboard with history, documents and PDF reports.

Results are advisory only and never a diagnosis.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
