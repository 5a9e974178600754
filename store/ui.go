package store

import (
	"context"

	"packsmith/service"
	"packsmith/types"
)

// UIStore holds which dialogs are open and the data each of them needs.
// Dialogs are independent of each other.
type UIStore struct {
	AddMod        *Dialog[struct{}]
	NewProject    *Dialog[struct{}]
	AddModSide    *Dialog[*types.ModSearchResult]
	UpdateMods    *Dialog[[]types.ModUpdateInfo]
	ChangeVersion *Dialog[string]
	ChangeModSide *Dialog[string]
	ImportMods    *Dialog[struct{}]
	Logs          *Dialog[string]

	projects *service.Projects
}

func NewUIStore(projects *service.Projects) *UIStore {
	return &UIStore{
		AddMod:        newDialog[struct{}](),
		NewProject:    newDialog[struct{}](),
		AddModSide:    newDialog[*types.ModSearchResult](),
		UpdateMods:    newDialog[[]types.ModUpdateInfo](),
		ChangeVersion: newDialog[string](),
		ChangeModSide: newDialog[string](),
		ImportMods:    newDialog[struct{}](),
		Logs:          newDialog[string](),
		projects:      projects,
	}
}

func (s *UIStore) OpenAddModDialog()  { s.AddMod.Show(struct{}{}) }
func (s *UIStore) CloseAddModDialog() { s.AddMod.Hide() }

func (s *UIStore) OpenNewProjectDialog()  { s.NewProject.Show(struct{}{}) }
func (s *UIStore) CloseNewProjectDialog() { s.NewProject.Hide() }

// OpenAddModSideDialog asks the user to pick a side for mod before it is added.
func (s *UIStore) OpenAddModSideDialog(mod types.ModSearchResult) {
	s.AddModSide.Show(&mod)
}

func (s *UIStore) CloseAddModSideDialog() { s.AddModSide.Hide() }

func (s *UIStore) OpenUpdateModsDialog(updates []types.ModUpdateInfo) {
	s.UpdateMods.Show(updates)
}

func (s *UIStore) CloseUpdateModsDialog() { s.UpdateMods.Hide() }

func (s *UIStore) OpenChangeVersionModDialog(modID string) { s.ChangeVersion.Show(modID) }
func (s *UIStore) CloseChangeVersionModDialog()           { s.ChangeVersion.Hide() }

func (s *UIStore) OpenChangeModSideDialog(modID string) { s.ChangeModSide.Show(modID) }
func (s *UIStore) CloseChangeModSideDialog()           { s.ChangeModSide.Hide() }

func (s *UIStore) OpenImportModsDialog()  { s.ImportMods.Show(struct{}{}) }
func (s *UIStore) CloseImportModsDialog() { s.ImportMods.Hide() }

// OpenLogsDialog fetches the application log and then shows it. When the fetch fails the
// dialog stays closed.
func (s *UIStore) OpenLogsDialog(ctx context.Context) error {
	content, err := s.projects.GetLogs(ctx)
	if err != nil {
		return err
	}
	s.Logs.Show(content)
	return nil
}

func (s *UIStore) CloseLogsDialog() { s.Logs.Hide() }

func (s *UIStore) OnChange(fn func()) func() {
	return unsubscribeAll(
		s.AddMod.onChange(fn),
		s.NewProject.onChange(fn),
		s.AddModSide.onChange(fn),
		s.UpdateMods.onChange(fn),
		s.ChangeVersion.onChange(fn),
		s.ChangeModSide.onChange(fn),
		s.ImportMods.onChange(fn),
		s.Logs.onChange(fn),
	)
}
