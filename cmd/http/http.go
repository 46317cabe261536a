package http

import "github.com/spf13/cobra"

// NewHTTPCommand groups the commands that run the kiosk and dashboard API.
func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Run the kiosk and doctor dashboard API",
	}
	cmd.AddCommand(NewStartCommand())
	return cmd
}
