package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"diranalyzer-setup/internal/config"
	"diranalyzer-setup/internal/install"
	"diranalyzer-setup/internal/logger"
)

// ExecuteInstall parses flags and runs the installer. The --uninstall flag
// hands the whole run to the default uninstall flow so a single binary can
// cover both directions.
func ExecuteInstall() error {
	var (
		debug        bool
		showVersion  bool
		runUninstall bool
	)

	cmd := &cobra.Command{
		Use:   "diranalyzer-install",
		Short: "Install the diranalyzer directory analysis tool",
		Long: "Downloads the latest diranalyzer release for this platform, falls back\n" +
			"to a cargo source build when no prebuilt artifact exists, places the\n" +
			"binary on the PATH, and writes the default configuration.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "%s installer %s\n", config.ToolName, config.Version)
				return nil
			}
			layout, err := config.NewLayout()
			if err != nil {
				return err
			}
			if runUninstall {
				return NewUninstaller(layout).Run()
			}
			return install.NewManager(layout).Install(cmd.Context())
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Print the installer version and exit")
	cmd.Flags().BoolVar(&runUninstall, "uninstall", false, "Remove an existing installation instead of installing")

	return cmd.Execute()
}
