package cmd

import (
	"context"
	"fmt"

	"packsmith/logger"
	"packsmith/types"
	"packsmith/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var updateApply bool

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [mod-id...]",
	Short: "Check mods for newer compatible versions",
	Long: `Check the given mods, or every mod of the project, for newer versions that
support the project's Minecraft version and loader. Locked mods are skipped.
With --yes the updates are downloaded and written to packsmith.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Log.Info("Running update command...")
		s := startSession()
		defer s.close()
		ctx := cmd.Context()
		if err := s.open(ctx, projectDir); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var updates []types.ModUpdateInfo
		err := runTask(ctx, out, "Checking for updates...", func(ctx context.Context) (string, error) {
			var err error
			updates, err = s.mods.CheckModsUpdates(ctx, args)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d update(s) available", len(updates)), nil
		})
		if err != nil {
			return fmt.Errorf("check updates: %w", err)
		}
		if len(updates) == 0 {
			fmt.Fprintln(out, ui.Success.Render("All mods are up to date."))
			return nil
		}

		mods := s.project.Current.Get().Mods
		for _, u := range updates {
			fmt.Fprintf(out, "  %-32s %s -> %s\n", ui.Truncate(u.ModID, 32), mods[u.ModID].Version, ui.Success.Render(u.Version))
		}
		if !updateApply {
			fmt.Fprintln(out, ui.Muted.Render("Run again with --yes to apply."))
			return nil
		}

		s.ui.OpenUpdateModsDialog(updates)
		defer s.ui.CloseUpdateModsDialog()
		err = runTask(ctx, out, "Downloading updates...", func(ctx context.Context) (string, error) {
			if err := s.mods.UpdateMods(ctx, s.ui.UpdateMods.Value()); err != nil {
				return "", err
			}
			return fmt.Sprintf("Updated %d mod(s)", len(updates)), nil
		})
		if err != nil {
			logger.Log.Errorw("Some updates failed", zap.Error(err))
			return fmt.Errorf("apply updates: %w", err)
		}
		s.refresh(ctx)
		return nil
	},
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Copy the project's mods into the client and server folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := startSession()
		defer s.close()
		ctx := cmd.Context()
		if err := s.open(ctx, projectDir); err != nil {
			return err
		}

		count := len(s.project.Current.Get().Mods)
		return runTask(ctx, cmd.OutOrStdout(), "Installing mods...", func(ctx context.Context) (string, error) {
			if err := s.mods.InstallMods(ctx); err != nil {
				return "", fmt.Errorf("install mods: %w", err)
			}
			return fmt.Sprintf("Installed %d mod(s) into client/ and server/", count), nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <directory>",
	Short: "Add the jars of an existing mods folder to the project",
	Long: `Hash every .jar in the directory, look the files up on Modrinth and add the
ones that are found and not yet part of the project.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := startSession()
		defer s.close()
		ctx := cmd.Context()
		if err := s.open(ctx, projectDir); err != nil {
			return err
		}

		err := runTask(ctx, cmd.OutOrStdout(), "Importing mods...", func(ctx context.Context) (string, error) {
			count, err := s.mods.ImportMods(ctx, args[0])
			if err != nil {
				return "", fmt.Errorf("import mods: %w", err)
			}
			return fmt.Sprintf("Imported %d mod(s)", count), nil
		})
		if err != nil {
			return err
		}
		s.refresh(ctx)
		printProject(cmd.OutOrStdout(), s.project.Current.Get())
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVarP(&updateApply, "yes", "y", false, "Apply the available updates")
	rootCmd.AddCommand(updateCmd, installCmd, importCmd)
}
