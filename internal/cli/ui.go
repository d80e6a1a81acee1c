package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/grocery/internal/tui"
)

func addUI(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive list.",
		Example: `
grocery ui
grocery ui --endpoint http://localhost:3500/items --load-delay 2s
`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, e)
		},
	}

	topLevel.AddCommand(cmd)
}

// runUI never logs to the terminal it draws on.
func runUI(cmd *cobra.Command, e *env) error {
	log, closeLog, err := e.logger(nil)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := e.store(log)
	if err != nil {
		return err
	}
	log.Info("starting ui", "endpoint", e.cfg.Endpoint, "id_policy", e.cfg.IDPolicy.String())
	return tui.Run(cmd.Context(), s)
}
