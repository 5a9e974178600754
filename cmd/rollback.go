package cmd

import (
	"fmt"

	"packsmith/backend"
	"packsmith/logger"
	"packsmith/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historyCmd = &cobra.Command{
	Use:   "history <mod-id>",
	Short: "List the versions a mod had before its updates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := startSession()
		defer s.close()
		if s.app == nil {
			return backend.ErrNoDatabase
		}
		if err := s.open(cmd.Context(), projectDir); err != nil {
			return err
		}

		versions, err := s.app.History(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(versions) == 0 {
			fmt.Fprintln(out, ui.Muted.Render("No previous versions recorded."))
			return nil
		}
		for _, v := range versions {
			fmt.Fprintf(out, "  %-24s %s  %s\n",
				ui.Truncate(v.Version, 24), ui.Muted.Render(v.CreatedAt.Format("2006-01-02 15:04")), v.Filename)
		}
		return nil
	},
}

// rollbackCmd represents the rollback command
var rollbackCmd = &cobra.Command{
	Use:   "rollback <mod-id>",
	Short: "Rollback a mod to its previous version",
	Long: `Rollback a mod to its previous version.
Example: packsmith rollback sodium

This downloads the version the mod had before its last update, records it in
packsmith.json and removes that entry from the history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := startSession()
		defer s.close()
		if s.app == nil {
			return backend.ErrNoDatabase
		}
		ctx := cmd.Context()
		if err := s.open(ctx, projectDir); err != nil {
			return err
		}

		modID := args[0]
		log := logger.Log.With(zap.String("mod", modID))
		log.Infow("Attempting rollback")

		restored, err := s.app.RollbackMod(ctx, modID)
		if err != nil {
			log.Warnw("Rollback failed", zap.Error(err))
			return fmt.Errorf("rollback %s: %w", modID, err)
		}
		log.Infow("Rollback successful", zap.String("restored_version", restored.Version))
		return showMod(cmd, s, modID, "Rolled back")
	},
}

func init() {
	rootCmd.AddCommand(historyCmd, rollbackCmd)
}
