package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"packsmith/logger"
	"packsmith/packfile"
	"packsmith/service"
	"packsmith/types"
	"packsmith/ui"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive interface",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTUI(cmd.Context(), projectDir)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// view is what the TUI shows. It is derived from the stores on every render.
type view int

const (
	viewOpen view = iota
	viewMods
	viewNewProject
	viewAddMod
	viewAddModSide
	viewChangeSide
	viewChangeVersion
	viewUpdates
	viewImport
	viewLogs
)

// Message types
type storeChangedMsg struct{}

type opDoneMsg struct {
	message string
	err     error
}

type versionsLoadedMsg struct {
	modID    string
	versions []string
	err      error
}

type updatesCheckedMsg struct {
	updates []types.ModUpdateInfo
	err     error
}

// Model represents the state of the TUI. Project and dialog state live in the stores;
// the model only keeps cursors, inputs and transient messages.
type Model struct {
	s   *session
	ctx context.Context

	width  int
	height int

	cursor       int
	resultCursor int
	choiceCursor int
	versions     []string
	reopening    bool

	pathInput   textinput.Model
	searchInput textinput.Model
	importInput textinput.Model
	form        []textinput.Model
	formFocus   int
	logs        viewport.Model
	spinner     spinner.Model

	busy    string
	message string
	err     string
}

const (
	formName = iota
	formMinecraft
	formLoader
)

func newModel(ctx context.Context, s *session, dir string) Model {
	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/modpack"
	pathInput.Prompt = "Project directory: "
	pathInput.SetValue(dir)
	pathInput.Focus()

	searchInput := textinput.New()
	searchInput.Placeholder = "search mods"
	searchInput.Prompt = "> "

	importInput := textinput.New()
	importInput.Placeholder = "path/to/mods"
	importInput.Prompt = "Import from: "

	form := make([]textinput.Model, 3)
	for i, label := range []string{"Name: ", "Minecraft: ", "Loader: "} {
		form[i] = textinput.New()
		form[i].Prompt = label
	}
	form[formMinecraft].Placeholder = "1.20.1"
	form[formLoader].SetValue(s.cfg.DefaultLoader)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		s:           s,
		ctx:         ctx,
		width:       80,
		height:      24,
		pathInput:   pathInput,
		searchInput: searchInput,
		importInput: importInput,
		form:        form,
		logs:        viewport.New(80, 18),
		spinner:     sp,
	}
}

// Initialize the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.openProject(m.pathInput.Value()))
}

// current picks the view from the dialog flags of the UI store.
func (m Model) current() view {
	u := m.s.ui
	switch {
	case u.Logs.IsOpen():
		return viewLogs
	case u.NewProject.IsOpen():
		return viewNewProject
	case u.AddModSide.IsOpen():
		return viewAddModSide
	case u.AddMod.IsOpen():
		return viewAddMod
	case u.ChangeVersion.IsOpen():
		return viewChangeVersion
	case u.ChangeModSide.IsOpen():
		return viewChangeSide
	case u.UpdateMods.IsOpen():
		return viewUpdates
	case u.ImportMods.IsOpen():
		return viewImport
	case m.reopening || !m.s.project.HasProject():
		return viewOpen
	default:
		return viewMods
	}
}

func (m Model) modIDs() []string {
	return sortedModIDs(m.s.project.Current.Get().Mods)
}

func (m Model) selectedMod() (string, bool) {
	ids := m.modIDs()
	if m.cursor < 0 || m.cursor >= len(ids) {
		return "", false
	}
	return ids[m.cursor], true
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logs.Width = msg.Width - 4
		m.logs.Height = max(msg.Height-6, 3)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKeyMsg(msg)
	case storeChangedMsg:
		m.syncFromStores()
		return m, nil
	case spinner.TickMsg:
		if m.busy == "" && !m.s.search.IsSearching.Get() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case opDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.err = msg.err.Error()
			m.message = ""
		} else {
			m.err = ""
			m.message = msg.message
		}
		m.syncFromStores()
		return m, nil
	case versionsLoadedMsg:
		m.busy = ""
		if msg.err != nil {
			m.err = msg.err.Error()
			m.s.ui.CloseChangeVersionModDialog()
			return m, nil
		}
		m.versions = msg.versions
		m.choiceCursor = 0
		current := m.s.project.Current.Get().Mods[msg.modID].Version
		for i, v := range msg.versions {
			if v == current {
				m.choiceCursor = i
			}
		}
		return m, nil
	case updatesCheckedMsg:
		m.busy = ""
		switch {
		case msg.err != nil:
			m.err = msg.err.Error()
		case len(msg.updates) == 0:
			m.message = "All mods are up to date"
		default:
			m.s.ui.OpenUpdateModsDialog(msg.updates)
		}
		return m, nil
	}
	return m, nil
}

// syncFromStores keeps cursors in range and loads dialog payloads into widgets.
func (m *Model) syncFromStores() {
	if n := len(m.modIDs()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if n := len(m.s.search.Results.Get()); m.resultCursor >= n {
		m.resultCursor = max(n-1, 0)
	}
	if m.s.ui.Logs.IsOpen() {
		m.logs.SetContent(m.s.ui.Logs.Value())
	}
	if m.s.ui.NewProject.IsOpen() && m.form[formName].Value() == "" {
		m.form[formName].SetValue(filepath.Base(m.s.project.Current.Get().Path))
		m.focusForm(formMinecraft)
	}
}

func (m *Model) focusForm(i int) {
	m.formFocus = i
	for j := range m.form {
		if j == i {
			m.form[j].Focus()
		} else {
			m.form[j].Blur()
		}
	}
}

// run executes fn in the background and reloads the project when it succeeds.
func (m *Model) run(label, done string, fn func(ctx context.Context) error) tea.Cmd {
	m.busy = label
	m.err = ""
	m.message = ""
	s, ctx := m.s, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if err := fn(ctx); err != nil {
			logger.Log.Warnw("Operation failed", zap.String("operation", label), zap.Error(err))
			return opDoneMsg{err: err}
		}
		s.refresh(ctx)
		return opDoneMsg{message: done}
	})
}

func (m *Model) openProject(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	m.reopening = false
	m.form[formName].SetValue("")
	m.busy = "Opening " + path
	m.err = ""
	s, ctx := m.s, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		// a missing manifest opens the new project dialog instead
		if err := s.open(ctx, path); err != nil && !errors.Is(err, packfile.ErrNotInitialized) {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{}
	})
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.current() {
	case viewOpen:
		return m.handleOpenKeys(msg)
	case viewNewProject:
		return m.handleNewProjectKeys(msg)
	case viewAddMod:
		return m.handleAddModKeys(msg)
	case viewAddModSide, viewChangeSide:
		return m.handleSideKeys(msg)
	case viewChangeVersion:
		return m.handleVersionKeys(msg)
	case viewUpdates:
		return m.handleUpdatesKeys(msg)
	case viewImport:
		return m.handleImportKeys(msg)
	case viewLogs:
		return m.handleLogsKeys(msg)
	default:
		return m.handleModsKeys(msg)
	}
}

func (m Model) handleOpenKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.openProject(strings.TrimSpace(m.pathInput.Value()))
	case "esc":
		if m.s.project.HasProject() {
			m.reopening = false
			return m, nil
		}
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) handleNewProjectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.s.ui.CloseNewProjectDialog()
		return m, nil
	case "tab", "down":
		m.focusForm((m.formFocus + 1) % len(m.form))
		return m, nil
	case "shift+tab", "up":
		m.focusForm((m.formFocus + len(m.form) - 1) % len(m.form))
		return m, nil
	case "enter":
		if m.formFocus < len(m.form)-1 {
			m.focusForm(m.formFocus + 1)
			return m, nil
		}
		loader, err := parseLoader(m.form[formLoader].Value())
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		name := strings.TrimSpace(m.form[formName].Value())
		minecraft := strings.TrimSpace(m.form[formMinecraft].Value())
		if name == "" || minecraft == "" {
			m.err = "name and Minecraft version are required"
			return m, nil
		}
		return m, m.run("Creating project", "Project created", func(ctx context.Context) error {
			return m.s.project.CreateProject(ctx, name, minecraft, loader)
		})
	}
	var cmd tea.Cmd
	m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) handleModsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modID, hasMod := m.selectedMod()
	s := m.s
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.modIDs())-1 {
			m.cursor++
		}
	case "a":
		m.searchInput.SetValue(s.search.Query.Get())
		m.searchInput.Focus()
		s.ui.OpenAddModDialog()
	case "o":
		m.reopening = true
		m.pathInput.SetValue(s.project.Current.Get().Path)
		m.pathInput.Focus()
	case "r":
		return m, m.run("Refreshing", "Project reloaded", func(ctx context.Context) error {
			return nil
		})
	case "u":
		m.busy = "Checking for updates"
		ctx := m.ctx
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			updates, err := s.mods.CheckModsUpdates(ctx, nil)
			return updatesCheckedMsg{updates: updates, err: err}
		})
	case "i":
		return m, m.run("Installing mods", "Mods installed into client/ and server/", func(ctx context.Context) error {
			return s.mods.InstallMods(ctx)
		})
	case "m":
		m.importInput.SetValue("")
		m.importInput.Focus()
		s.ui.OpenImportModsDialog()
	case "L":
		return m, m.run("Reading logs", "", func(ctx context.Context) error {
			return s.ui.OpenLogsDialog(ctx)
		})
	}

	if !hasMod {
		return m, nil
	}
	switch msg.String() {
	case "d", "delete":
		return m, m.run("Removing "+modID, "Removed "+modID, func(ctx context.Context) error {
			return s.mods.RemoveMod(ctx, modID)
		})
	case "s":
		m.choiceCursor = sideIndex(types.Side(s.project.Current.Get().Mods[modID].Side))
		s.ui.OpenChangeModSideDialog(modID)
	case "l":
		locked := !s.project.Current.Get().Mods[modID].Locked
		return m, m.run("Updating "+modID, "Updated "+modID, func(ctx context.Context) error {
			return s.mods.ChangeModLocked(ctx, modID, locked)
		})
	case "v":
		m.versions = nil
		m.busy = "Loading versions"
		s.ui.OpenChangeVersionModDialog(modID)
		ctx := m.ctx
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			versions, err := s.mods.GetModVersions(ctx, modID)
			return versionsLoadedMsg{modID: modID, versions: versions, err: err}
		})
	}
	return m, nil
}

func (m Model) handleAddModKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.s
	results := s.search.Results.Get()
	switch msg.String() {
	case "esc":
		s.ui.CloseAddModDialog()
		return m, nil
	case "tab":
		next := types.PlatformModrinth
		if s.search.Platform.Get() == types.PlatformModrinth {
			next = types.PlatformCurseForge
		}
		s.search.SetPlatform(next)
		s.search.ClearResults()
		return m, nil
	case "up":
		if m.resultCursor > 0 {
			m.resultCursor--
		}
		return m, nil
	case "down":
		if m.resultCursor < len(results)-1 {
			m.resultCursor++
		}
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		if query != s.search.Query.Get() || len(results) == 0 {
			s.search.SetQuery(query)
			m.resultCursor = 0
			ctx := m.ctx
			return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
				s.search.Search(ctx)
				return storeChangedMsg{}
			})
		}
		if m.resultCursor >= len(results) {
			return m, nil
		}
		return m, m.pickResult(results[m.resultCursor])
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// pickResult adds r right away when its side is known and asks for a side otherwise.
func (m *Model) pickResult(r types.ModSearchResult) tea.Cmd {
	platform := m.s.search.Platform.Get()
	if service.RequiresSideSelection(platform, r.ClientSide, r.ServerSide) {
		m.choiceCursor = sideIndex(types.SideBoth)
		m.s.ui.OpenAddModSideDialog(r)
		return nil
	}
	return m.addMod(r, platform, service.DetermineModSide(platform, r.ClientSide, r.ServerSide))
}

func (m *Model) addMod(r types.ModSearchResult, platform types.Platform, side types.Side) tea.Cmd {
	s := m.s
	return m.run("Adding "+r.Name, "Added "+r.Name, func(ctx context.Context) error {
		if err := s.mods.AddMod(ctx, r.ID, platform, types.AddModOptions{URL: r.URL, Side: side}); err != nil {
			return err
		}
		s.ui.CloseAddModSideDialog()
		s.ui.CloseAddModDialog()
		return nil
	})
}

func sideIndex(side types.Side) int {
	for i, sd := range types.Sides {
		if sd == side {
			return i
		}
	}
	return len(types.Sides) - 1
}

// handleSideKeys serves both the side prompt of a new mod and the side change of an
// existing one.
func (m Model) handleSideKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	adding := m.current() == viewAddModSide
	switch msg.String() {
	case "esc":
		if adding {
			m.s.ui.CloseAddModSideDialog()
		} else {
			m.s.ui.CloseChangeModSideDialog()
		}
	case "left", "h", "up", "k":
		if m.choiceCursor > 0 {
			m.choiceCursor--
		}
	case "right", "l", "down", "j":
		if m.choiceCursor < len(types.Sides)-1 {
			m.choiceCursor++
		}
	case "enter":
		side := types.Sides[m.choiceCursor]
		if adding {
			r := m.s.ui.AddModSide.Value()
			if r == nil {
				return m, nil
			}
			return m, m.addMod(*r, m.s.search.Platform.Get(), side)
		}
		s := m.s
		modID := s.ui.ChangeModSide.Value()
		return m, m.run("Updating "+modID, "Updated "+modID, func(ctx context.Context) error {
			if err := s.mods.ChangeModSide(ctx, modID, side); err != nil {
				return err
			}
			s.ui.CloseChangeModSideDialog()
			return nil
		})
	}
	return m, nil
}

func (m Model) handleVersionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.s
	switch msg.String() {
	case "esc":
		s.ui.CloseChangeVersionModDialog()
	case "up", "k":
		if m.choiceCursor > 0 {
			m.choiceCursor--
		}
	case "down", "j":
		if m.choiceCursor < len(m.versions)-1 {
			m.choiceCursor++
		}
	case "enter":
		if len(m.versions) == 0 {
			return m, nil
		}
		modID := s.ui.ChangeVersion.Value()
		version := m.versions[m.choiceCursor]
		return m, m.run("Switching "+modID, fmt.Sprintf("%s is now at %s", modID, version), func(ctx context.Context) error {
			if err := s.mods.ChangeModVersion(ctx, modID, version); err != nil {
				return err
			}
			s.ui.CloseChangeVersionModDialog()
			return nil
		})
	}
	return m, nil
}

func (m Model) handleUpdatesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.s
	switch msg.String() {
	case "esc", "n":
		s.ui.CloseUpdateModsDialog()
	case "enter", "y":
		updates := s.ui.UpdateMods.Value()
		return m, m.run("Updating mods", fmt.Sprintf("Updated %d mod(s)", len(updates)), func(ctx context.Context) error {
			defer s.ui.CloseUpdateModsDialog()
			return s.mods.UpdateMods(ctx, updates)
		})
	}
	return m, nil
}

func (m Model) handleImportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.s
	switch msg.String() {
	case "esc":
		s.ui.CloseImportModsDialog()
		return m, nil
	case "enter":
		dir := strings.TrimSpace(m.importInput.Value())
		if dir == "" {
			return m, nil
		}
		m.busy = "Importing mods"
		ctx := m.ctx
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			count, err := s.mods.ImportMods(ctx, dir)
			if err != nil {
				return opDoneMsg{err: err}
			}
			s.ui.CloseImportModsDialog()
			s.refresh(ctx)
			return opDoneMsg{message: fmt.Sprintf("Imported %d mod(s)", count)}
		})
	}
	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func (m Model) handleLogsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.s.ui.CloseLogsDialog()
		return m, nil
	}
	var cmd tea.Cmd
	m.logs, cmd = m.logs.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder
	switch m.current() {
	case viewOpen:
		b.WriteString(ui.Header.Render("packsmith") + "\n\n")
		b.WriteString(m.pathInput.View() + "\n\n")
		b.WriteString(ui.Footer.Render("enter: open  esc: back"))
	case viewNewProject:
		b.WriteString(m.renderNewProject())
	case viewAddMod:
		b.WriteString(m.renderAddMod())
	case viewAddModSide:
		name := ""
		if r := m.s.ui.AddModSide.Value(); r != nil {
			name = r.Name
		}
		b.WriteString(m.renderSideChoice("Where should "+name+" be installed?", "enter: add  esc: back"))
	case viewChangeSide:
		b.WriteString(m.renderSideChoice("Side of "+m.s.ui.ChangeModSide.Value(), "enter: save  esc: cancel"))
	case viewChangeVersion:
		b.WriteString(m.renderVersions())
	case viewUpdates:
		b.WriteString(m.renderUpdates())
	case viewImport:
		b.WriteString(ui.Dialog.Render("Import mods\n\n"+m.importInput.View()) + "\n")
		b.WriteString(ui.Footer.Render("enter: import  esc: cancel"))
	case viewLogs:
		b.WriteString(ui.Header.Render("Logs") + "\n")
		b.WriteString(m.logs.View() + "\n")
		b.WriteString(ui.Footer.Render("↑/↓: scroll  esc: close"))
	default:
		b.WriteString(m.renderMods())
	}

	b.WriteString("\n")
	if m.busy != "" {
		b.WriteString(m.spinner.View() + " " + m.busy + "...\n")
	}
	if m.err != "" {
		b.WriteString(ui.Error.Render("Error: "+m.err) + "\n")
	} else if m.message != "" {
		b.WriteString(ui.Success.Render(m.message) + "\n")
	}
	return b.String()
}

func (m Model) renderMods() string {
	p := m.s.project.Current.Get()
	var b strings.Builder
	b.WriteString(ui.Header.Render(fmt.Sprintf("%s  Minecraft %s  %s", p.Name, p.Minecraft, p.Loader)) + "\n")
	b.WriteString(ui.Muted.Render(p.Path) + "\n\n")

	ids := m.modIDs()
	if len(ids) == 0 {
		b.WriteString(ui.Muted.Render("No mods yet. Press a to add one.") + "\n")
	}
	for i, id := range ids {
		mod := p.Mods[id]
		row := fmt.Sprintf("%-36s %-24s %s %s",
			ui.Truncate(id, 36), ui.Truncate(mod.Version, 24), ui.SideBadge(mod.Side), ui.Locked(mod.Locked))
		if i == m.cursor {
			row = ui.Selected.Render(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString("\n" + ui.Footer.Render(
		"↑/k ↓/j: move  a: add  d: remove  s: side  l: lock  v: version  u: update  i: install  m: import  L: logs  o: open  q: quit"))
	return b.String()
}

func (m Model) renderNewProject() string {
	var b strings.Builder
	b.WriteString("No packsmith project in " + m.s.project.Current.Get().Path + "\nCreate one:\n\n")
	for _, in := range m.form {
		b.WriteString(in.View() + "\n")
	}
	b.WriteString(ui.Muted.Render(fmt.Sprintf("loaders: %v", types.Loaders)))
	return ui.Dialog.Render(b.String()) + "\n" + ui.Footer.Render("tab: next field  enter: create  esc: cancel")
}

func (m Model) renderAddMod() string {
	s := m.s
	var b strings.Builder
	b.WriteString(ui.Header.Render("Add mod from "+string(s.search.Platform.Get())) + "\n")
	b.WriteString(m.searchInput.View() + "\n\n")

	results := s.search.Results.Get()
	switch {
	case s.search.IsSearching.Get():
		b.WriteString(m.spinner.View() + " Searching...\n")
	case len(results) == 0 && s.search.Query.Get() != "":
		b.WriteString(ui.Muted.Render("No results") + "\n")
	}
	for i, r := range results {
		row := fmt.Sprintf("%-30s %-10s %s", ui.Truncate(r.Name, 30), r.Downloads, ui.Truncate(r.Description, 50))
		if i == m.resultCursor {
			row = ui.Selected.Render(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString("\n" + ui.Footer.Render("enter: search / add selected  ↑/↓: move  tab: switch platform  esc: close"))
	return b.String()
}

func (m Model) renderSideChoice(title, help string) string {
	choices := make([]string, len(types.Sides))
	for i, side := range types.Sides {
		label := " " + string(side) + " "
		if i == m.choiceCursor {
			label = ui.Selected.Render(label)
		}
		choices[i] = label
	}
	return ui.Dialog.Render(title+"\n\n"+strings.Join(choices, "  ")) + "\n" + ui.Footer.Render(help)
}

func (m Model) renderVersions() string {
	modID := m.s.ui.ChangeVersion.Value()
	current := m.s.project.Current.Get().Mods[modID].Version
	var b strings.Builder
	b.WriteString("Versions of " + modID + "\n\n")
	for i, v := range m.versions {
		row := v
		if v == current {
			row += " (current)"
		}
		if i == m.choiceCursor {
			row = ui.Selected.Render(row)
		}
		b.WriteString(row + "\n")
	}
	return ui.Dialog.Render(b.String()) + "\n" + ui.Footer.Render("enter: switch  esc: cancel")
}

func (m Model) renderUpdates() string {
	mods := m.s.project.Current.Get().Mods
	var b strings.Builder
	b.WriteString("Updates available\n\n")
	for _, u := range m.s.ui.UpdateMods.Value() {
		b.WriteString(fmt.Sprintf("%-30s %s -> %s\n", ui.Truncate(u.ModID, 30), mods[u.ModID].Version, ui.Success.Render(u.Version)))
	}
	return ui.Dialog.Render(b.String()) + "\n" + ui.Footer.Render("y/enter: update all  n/esc: cancel")
}

func runTUI(ctx context.Context, dir string) error {
	s := startSession()
	defer s.close()

	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve project directory: %w", err)
	}

	p := tea.NewProgram(newModel(ctx, s, abs), tea.WithAltScreen(), tea.WithContext(ctx))
	// Store changes may come from inside Update, where a blocking Send would deadlock.
	unsubscribe := s.onChange(func() {
		go p.Send(storeChangedMsg{})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		logger.Log.Errorw("Failed to run TUI", zap.Error(err))
		return err
	}
	return nil
}
