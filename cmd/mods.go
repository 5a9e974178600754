package cmd

import (
	"errors"
	"fmt"
	"strings"

	"packsmith/service"
	"packsmith/types"
	"packsmith/ui"

	"github.com/spf13/cobra"
)

var errSideRequired = errors.New("the mod is optional on one side, choose where it goes with --side")

var (
	searchPlatform string
	addPlatform    string
	addVersion     string
	addSide        string
)

// platformFlag resolves a --platform value, falling back to DEFAULT_PLATFORM.
func platformFlag(s *session, value string) (types.Platform, error) {
	if value == "" {
		return types.Platform(s.cfg.DefaultPlatform), nil
	}
	return parsePlatform(value)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search mods compatible with the project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := startSession()
		defer s.close()
		ctx := cmd.Context()
		if err := s.open(ctx, projectDir); err != nil {
			return err
		}
		platform, err := platformFlag(s, searchPlatform)
		if err != nil {
			return err
		}

		s.search.SetPlatform(platform)
		s.search.SetQuery(strings.Join(args, " "))
		failures := s.notices.count()
		s.search.Search(ctx)
		if s.notices.count() > failures {
			return fmt.Errorf("%s: %w", s.notices.last(), errSearchFailed)
		}

		out := cmd.OutOrStdout()
		results := s.search.Results.Get()
		if len(results) == 0 {
			fmt.Fprintln(out, ui.Muted.Render("No mods found."))
			return nil
		}
		for _, r := range results {
			latest := ""
			if len(r.Versions) > 0 {
				latest = r.Versions[0]
			}
			fmt.Fprintf(out, "%-32s %-10s %-20s %s\n",
				ui.Truncate(r.ID, 32), r.Downloads, ui.Truncate(latest, 20), ui.Muted.Render(ui.Truncate(r.Description, 60)))
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <mod-id>",
	Short: "Add a mod to the project",
	Long: `Add a mod found with 'packsmith search'. Without --version the newest
compatible version is used. The side is taken from the platform metadata when
it is unambiguous, otherwise --side is required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := startSession()
		defer s.close()
		ctx := cmd.Context()
		if err := s.open(ctx, projectDir); err != nil {
			return err
		}
		platform, err := platformFlag(s, addPlatform)
		if err != nil {
			return err
		}

		modID := args[0]
		result, err := s.findResult(ctx, modID, platform)
		if err != nil {
			return err
		}

		var side types.Side
		switch {
		case addSide != "":
			if side, err = parseSide(addSide); err != nil {
				return err
			}
		case service.RequiresSideSelection(platform, result.ClientSide, result.ServerSide):
			return errSideRequired
		default:
			side = service.DetermineModSide(platform, result.ClientSide, result.ServerSide)
		}

		opts := types.AddModOptions{URL: result.URL, Side: side, Version: addVersion}
		if err := s.mods.AddMod(ctx, modID, platform, opts); err != nil {
			return fmt.Errorf("add %s: %w", modID, err)
		}
		return showMod(cmd, s, modID, "Added")
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <mod-id>",
	Short: "Remove a mod from the project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := startSession()
		defer s.close()
		ctx := cmd.Context()
		if err := s.open(ctx, projectDir); err != nil {
			return err
		}
		if err := s.mods.RemoveMod(ctx, args[0]); err != nil {
			return fmt.Errorf("remove %s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Render("Removed "+args[0]))
		return nil
	},
}

var sideCmd = &cobra.Command{
	Use:   "side <mod-id> <client|server|both>",
	Short: "Change where a mod is installed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		side, err := parseSide(args[1])
		if err != nil {
			return err
		}
		s := startSession()
		defer s.close()
		ctx := cmd.Context()
		if err := s.open(ctx, projectDir); err != nil {
			return err
		}
		if err := s.mods.ChangeModSide(ctx, args[0], side); err != nil {
			return fmt.Errorf("change side of %s: %w", args[0], err)
		}
		return showMod(cmd, s, args[0], "Updated")
	},
}

func lockCommand(use, short string, locked bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <mod-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := startSession()
			defer s.close()
			ctx := cmd.Context()
			if err := s.open(ctx, projectDir); err != nil {
				return err
			}
			if err := s.mods.ChangeModLocked(ctx, args[0], locked); err != nil {
				return fmt.Errorf("%s %s: %w", use, args[0], err)
			}
			return showMod(cmd, s, args[0], "Updated")
		},
	}
}

var versionsCmd = &cobra.Command{
	Use:   "versions <mod-id>",
	Short: "List the versions a mod can be switched to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := startSession()
		defer s.close()
		ctx := cmd.Context()
		if err := s.open(ctx, projectDir); err != nil {
			return err
		}
		versions, err := s.mods.GetModVersions(ctx, args[0])
		if err != nil {
			return fmt.Errorf("list versions of %s: %w", args[0], err)
		}

		current := s.project.Current.Get().Mods[args[0]].Version
		out := cmd.OutOrStdout()
		for _, v := range versions {
			if v == current {
				fmt.Fprintln(out, ui.Success.Render("* "+v))
				continue
			}
			fmt.Fprintln(out, "  "+v)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version <mod-id> <version>",
	Short: "Switch a mod to another version",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := startSession()
		defer s.close()
		ctx := cmd.Context()
		if err := s.open(ctx, projectDir); err != nil {
			return err
		}
		if err := s.mods.ChangeModVersion(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("change version of %s: %w", args[0], err)
		}
		return showMod(cmd, s, args[0], "Updated")
	},
}

// showMod reloads the project and prints the row of modID.
func showMod(cmd *cobra.Command, s *session, modID, verb string) error {
	s.refresh(cmd.Context())
	mod, ok := s.project.Current.Get().Mods[modID]
	if !ok {
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Success.Render(verb+" "+modID))
	printMod(out, modID, mod)
	return nil
}

func init() {
	searchCmd.Flags().StringVarP(&searchPlatform, "platform", "p", "", "modrinth or curseforge (default DEFAULT_PLATFORM)")
	addCmd.Flags().StringVarP(&addPlatform, "platform", "p", "", "modrinth or curseforge (default DEFAULT_PLATFORM)")
	addCmd.Flags().StringVarP(&addVersion, "version", "v", "", "Version to install (default newest compatible)")
	addCmd.Flags().StringVarP(&addSide, "side", "s", "", "client, server or both")

	rootCmd.AddCommand(
		searchCmd,
		addCmd,
		removeCmd,
		sideCmd,
		lockCommand("lock", "Exclude a mod from update checks", true),
		lockCommand("unlock", "Include a mod in update checks again", false),
		versionsCmd,
		versionCmd,
	)
}
