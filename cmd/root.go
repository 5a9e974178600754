package cmd

import (
	"os"

	"packsmith/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var projectDir string

// rootCmd opens the interactive interface when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "packsmith",
	Short: "Build and maintain Minecraft modpacks",
	Long: `packsmith keeps a modpack manifest (packsmith.json) in a project directory,
resolves mods on Modrinth and CurseForge, checks them for updates and installs
them into separate client and server folders.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTUI(cmd.Context(), projectDir)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "d", ".", "Project directory")
}

// Execute runs the root command and exits non-zero when it fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.Errorw("Command failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
