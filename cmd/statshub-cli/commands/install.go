package commands

import (
	"log/slog"

	"statshub-collector/lib/browser"
	"statshub-collector/lib/serviceutil"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install-browser",
	Short: "Download the chromium build the collector drives.",
	Run: func(cmd *cobra.Command, args []string) {
		err := browser.Install()
		if err != nil {
			serviceutil.Fatal("failed to install browser", err)
		}
		slog.Info("chromium ready")
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
