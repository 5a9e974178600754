package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"packsmith/backend"
	"packsmith/logger"
	"packsmith/packfile"
	"packsmith/types"
	"packsmith/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errAlreadyInitialized = errors.New("a packsmith project already exists in this directory")

var (
	initMinecraft string
	initLoader    string
	recentLimit   int
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a packsmith project in the project directory",
	Long: `Create packsmith.json in the project directory. The name defaults to the
directory name and the loader to DEFAULT_LOADER.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := startSession()
		defer s.close()
		ctx := cmd.Context()

		loader := types.Loader(s.cfg.DefaultLoader)
		if initLoader != "" {
			var err error
			if loader, err = parseLoader(initLoader); err != nil {
				return err
			}
		}

		err := s.open(ctx, projectDir)
		switch {
		case err == nil:
			return errAlreadyInitialized
		case !errors.Is(err, packfile.ErrNotInitialized):
			// an unreadable manifest must not be overwritten
			return err
		}
		if !s.ui.NewProject.IsOpen() {
			return errNoProject
		}

		name := filepath.Base(s.project.Current.Get().Path)
		if len(args) == 1 {
			name = args[0]
		}
		if err := s.project.CreateProject(ctx, name, initMinecraft, loader); err != nil {
			return fmt.Errorf("create project: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success.Render("Project created"))
		printProject(out, s.project.Current.Get())
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Show the project in the project directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := startSession()
		defer s.close()
		if err := s.open(cmd.Context(), projectDir); err != nil {
			return err
		}
		printProject(cmd.OutOrStdout(), s.project.Current.Get())
		return nil
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := startSession()
		defer s.close()
		if s.app == nil {
			return backend.ErrNoDatabase
		}

		projects, err := s.app.RecentProjects(recentLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(projects) == 0 {
			fmt.Fprintln(out, ui.Muted.Render("No projects opened yet."))
			return nil
		}
		for _, p := range projects {
			fmt.Fprintf(out, "%-24s %-8s %-9s %s  %s\n",
				ui.Truncate(p.Name, 24), p.Minecraft, p.Loader,
				ui.Muted.Render(p.OpenedAt.Format("2006-01-02 15:04")), p.Path)
		}
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the application log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := startSession()
		defer s.close()
		if err := s.ui.OpenLogsDialog(cmd.Context()); err != nil {
			logger.Log.Warnw("Failed to read logs", zap.Error(err))
			return err
		}
		defer s.ui.CloseLogsDialog()
		fmt.Fprint(cmd.OutOrStdout(), s.ui.Logs.Value())
		return nil
	},
}

func init() {
	initCmd.Flags().StringVarP(&initMinecraft, "minecraft", "m", "", "Minecraft version, for example 1.20.1")
	initCmd.Flags().StringVarP(&initLoader, "loader", "l", "", "Mod loader: forge, fabric, neoforge or quilt")
	_ = initCmd.MarkFlagRequired("minecraft")
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 10, "Number of projects to list")

	rootCmd.AddCommand(initCmd, openCmd, recentCmd, logsCmd)
}
