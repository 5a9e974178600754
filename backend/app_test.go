package backend

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"packsmith/config"
	"packsmith/db"
	"packsmith/modrinth"
	"packsmith/packfile"
	"packsmith/types"
)

const cfFilesPage = `<html><body>
<span class="project-id">238222</span>
<a class="file-row-details" href="/minecraft/mc-mods/jei/files/5101366"><span class="name" title="jei-1.20.1-fabric-15.3.0.4.jar">15.3.0.4</span></a>
<a class="file-row-details" href="/minecraft/mc-mods/jei/files/5000001"><span class="name" title="jei-1.20.1-fabric-15.2.0.27.jar">15.2.0.27</span></a>
</body></html>`

const cfSearchPage = `<html><body>
<div class="project-card">
  <a class="name" href="/minecraft/mc-mods/jei"><span>Just Enough Items</span></a>
  <p class="description">View items and recipes</p>
  <ul class="details-list"><li class="detail-downloads">350M</li></ul>
</div>
</body></html>`

// fakePlatforms serves the Modrinth API under /v2, CurseForge pages under /cf and mod files
// under /files.
type fakePlatforms struct {
	srv *httptest.Server

	mu        sync.Mutex
	hits      []modrinth.SearchHit
	versions  map[string][]modrinth.Version
	projects  map[string]modrinth.Project
	hashes    map[string]modrinth.Version
	downloads map[string]int
}

func newFakePlatforms(t *testing.T) *fakePlatforms {
	t.Helper()
	f := &fakePlatforms{
		versions:  map[string][]modrinth.Version{},
		projects:  map[string]modrinth.Project{},
		hashes:    map[string]modrinth.Version{},
		downloads: map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/search", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(modrinth.SearchResponse{Hits: f.hits})
	})
	mux.HandleFunc("GET /v2/project/{slug}/version", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		versions, ok := f.versions[r.PathValue("slug")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(versions)
	})
	mux.HandleFunc("GET /v2/project/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		p, ok := f.projects[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(p)
	})
	mux.HandleFunc("GET /v2/version_file/{hash}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		v, ok := f.hashes[r.PathValue("hash")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(v)
	})
	mux.HandleFunc("GET /files/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.countDownload(r.PathValue("name"))
		fmt.Fprintf(w, "jar:%s", r.PathValue("name"))
	})
	mux.HandleFunc("GET /cf/minecraft/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cfSearchPage))
	})
	mux.HandleFunc("GET /cf/minecraft/mc-mods/jei/files/all", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cfFilesPage))
	})
	mux.HandleFunc("GET /cf/api/v1/mods/238222/files/{file}/download", func(w http.ResponseWriter, r *http.Request) {
		f.countDownload(r.PathValue("file"))
		fmt.Fprintf(w, "jar:%s", r.PathValue("file"))
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakePlatforms) countDownload(name string) {
	f.mu.Lock()
	f.downloads[name]++
	f.mu.Unlock()
}

func (f *fakePlatforms) downloadCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads[name]
}

// release publishes a new fabric 1.20.1 version of slug, making it the newest.
func (f *fakePlatforms) release(slug, number string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := modrinth.Version{
		ProjectID:     slug,
		VersionNumber: number,
		GameVersions:  []string{"1.20.1"},
		Loaders:       []string{"fabric"},
		Files: []modrinth.File{
			{Filename: slug + "-" + number + ".jar", URL: f.fileURL(slug + "-" + number + ".jar"), Primary: true},
		},
	}
	f.versions[slug] = append([]modrinth.Version{v}, f.versions[slug]...)
}

func (f *fakePlatforms) setHits(hits ...modrinth.SearchHit) {
	f.mu.Lock()
	f.hits = hits
	f.mu.Unlock()
}

func (f *fakePlatforms) addHash(hash string, v modrinth.Version, p modrinth.Project) {
	f.mu.Lock()
	f.hashes[hash] = v
	f.projects[v.ProjectID] = p
	f.mu.Unlock()
}

func (f *fakePlatforms) fileURL(name string) string {
	return f.srv.URL + "/files/" + name
}

type testEnv struct {
	app  *App
	fake *fakePlatforms
	dir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fake := newFakePlatforms(t)

	conn, err := db.Open(filepath.Join(t.TempDir(), "packsmith.db"))
	if err != nil {
		t.Fatal(err)
	}
	app, err := New(config.Config{
		UserAgent:      "packsmith-test",
		ModrinthAPIURL: fake.srv.URL + "/v2",
		CurseForgeURL:  fake.srv.URL + "/cf",
		SearchLimit:    5,
		Workers:        2,
		RequestTimeout: 5 * time.Second,
	}, conn, nil)
	if err != nil {
		t.Fatal(err)
	}

	return &testEnv{app: app, fake: fake, dir: t.TempDir()}
}

// open initializes a fabric 1.20.1 project and opens it.
func (e *testEnv) open(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if err := e.app.InitializeProject(ctx, e.dir, "Pack", "1.20.1", "fabric"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.app.OpenProject(ctx, e.dir); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) manifest(t *testing.T) *packfile.Manifest {
	t.Helper()
	m, err := packfile.Load(e.dir)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func (e *testEnv) setMods(t *testing.T, mods map[string]types.Mod) {
	t.Helper()
	m := e.manifest(t)
	m.Mods = mods
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) cached(name string) bool {
	_, err := os.Stat(filepath.Join(e.dir, cacheDir, name))
	return err == nil
}

func TestNewDefaultsZeroWorkers(t *testing.T) {
	fake := newFakePlatforms(t)
	app, err := New(config.Config{
		UserAgent:      "packsmith-test",
		ModrinthAPIURL: fake.srv.URL + "/v2",
		CurseForgeURL:  fake.srv.URL + "/cf",
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if app.cfg.Workers <= 0 || app.cfg.SearchLimit <= 0 {
		t.Fatalf("Workers = %d, SearchLimit = %d, want defaults", app.cfg.Workers, app.cfg.SearchLimit)
	}

	e := &testEnv{app: app, fake: fake, dir: t.TempDir()}
	e.open(t)
	importDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(importDir, "unknown.jar"), []byte("who knows"), 0o644); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := app.ImportMods(context.Background(), importDir)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ImportMods() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ImportMods() did not return")
	}
}

func TestOpenProjectWithoutManifest(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.app.OpenProject(context.Background(), e.dir)
	if !errors.Is(err, packfile.ErrNotInitialized) {
		t.Fatalf("OpenProject() error = %v, want ErrNotInitialized", err)
	}
	if e.app.ProjectPath() != "" {
		t.Error("a failed open must not change the open project")
	}
}

type recordingPresence struct {
	opened [][3]string
}

func (p *recordingPresence) ProjectOpened(name, minecraft, loader string) {
	p.opened = append(p.opened, [3]string{name, minecraft, loader})
}

func TestOpenProjectUpdatesPresence(t *testing.T) {
	e := newTestEnv(t)
	p := &recordingPresence{}
	e.app.SetPresence(p)

	if _, err := e.app.OpenProject(context.Background(), e.dir); err == nil {
		t.Fatal("expected an error without a manifest")
	}
	if len(p.opened) != 0 {
		t.Fatalf("failed open reported %v", p.opened)
	}

	e.open(t)
	want := [][3]string{{"Pack", "1.20.1", "fabric"}}
	if !slices.Equal(p.opened, want) {
		t.Errorf("opened = %v, want %v", p.opened, want)
	}
}

func TestModOperationsNeedOpenProject(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	if _, err := e.app.SearchMods(ctx, "sodium", "modrinth"); !errors.Is(err, ErrNoProject) {
		t.Errorf("SearchMods() error = %v", err)
	}
	if err := e.app.RemoveMod(ctx, "sodium"); !errors.Is(err, ErrNoProject) {
		t.Errorf("RemoveMod() error = %v", err)
	}
	if err := e.app.InstallMods(ctx); !errors.Is(err, ErrNoProject) {
		t.Errorf("InstallMods() error = %v", err)
	}
}

func TestInitializeAndOpenProject(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	if err := e.app.InitializeProject(ctx, e.dir, "Pack", "1.20.1", "rift"); !errors.Is(err, packfile.ErrInvalidLoader) {
		t.Errorf("InitializeProject() with bad loader error = %v", err)
	}
	e.open(t)

	resp, err := e.app.OpenProject(ctx, e.dir)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Name != "Pack" || resp.Minecraft != "1.20.1" || resp.Loader != "fabric" || len(resp.Mods) != 0 {
		t.Errorf("response = %+v", resp)
	}
	if e.app.ProjectPath() != e.dir {
		t.Errorf("ProjectPath() = %s", e.app.ProjectPath())
	}

	recent, err := e.app.RecentProjects(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Path != e.dir || recent[0].Loader != "fabric" {
		t.Errorf("recent = %+v", recent)
	}
}

func TestSearchModrinth(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	e.fake.setHits(
		modrinth.SearchHit{Slug: "sodium", Title: "Sodium", ClientSide: "required", ServerSide: "unsupported", Downloads: 1200},
		modrinth.SearchHit{Slug: "lithium", Title: "Lithium", ClientSide: "optional", ServerSide: "optional", Downloads: 800},
	)
	e.fake.release("sodium", "0.5.2")
	e.fake.release("sodium", "0.5.3")
	e.fake.release("lithium", "0.11.2")

	results, err := e.app.SearchMods(context.Background(), "perf", "modrinth")
	if err != nil {
		t.Fatalf("SearchMods() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	sodium := results[0]
	if sodium.ID != "sodium" || sodium.Downloads != "1200" || sodium.URL != "https://modrinth.com/mod/sodium" {
		t.Errorf("sodium = %+v", sodium)
	}
	if !slices.Equal(sodium.Versions, []string{"0.5.3", "0.5.2"}) {
		t.Errorf("sodium versions = %v", sodium.Versions)
	}
	if results[1].ID != "lithium" || results[1].ServerSide != "optional" {
		t.Errorf("lithium = %+v", results[1])
	}
}

func TestSearchCurseForge(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)

	results, err := e.app.SearchMods(context.Background(), "jei", "curseforge")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v", results)
	}
	jei := results[0]
	if jei.ID != "jei" || jei.ClientSide != "" || jei.ServerSide != "" || len(jei.Versions) != 2 {
		t.Errorf("jei = %+v", jei)
	}
	if e.app.platformOf(jei.URL) != types.PlatformCurseForge {
		t.Error("curseforge result URL should map back to curseforge")
	}
}

func TestSearchUnknownPlatform(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	if _, err := e.app.SearchMods(context.Background(), "jei", "thunderstore"); !errors.Is(err, ErrUnknownPlatform) {
		t.Errorf("error = %v", err)
	}
}

func TestAddAndRemoveMod(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	ctx := context.Background()
	e.fake.release("sodium", "0.5.2")
	e.fake.release("sodium", "0.5.3")

	err := e.app.AddMod(ctx, "sodium", "modrinth", types.AddModOptions{
		URL:     "https://modrinth.com/mod/sodium",
		Side:    types.SideClient,
		Version: "0.5.2",
	})
	if err != nil {
		t.Fatalf("AddMod() error = %v", err)
	}

	mod := e.manifest(t).Mods["sodium"]
	want := types.Mod{
		Source:   "https://modrinth.com/mod/sodium",
		Side:     "client",
		Version:  "0.5.2",
		URL:      e.fake.fileURL("sodium-0.5.2.jar"),
		Filename: "sodium-0.5.2.jar",
	}
	if mod != want {
		t.Errorf("mod = %+v, want %+v", mod, want)
	}
	if !e.cached("sodium-0.5.2.jar") {
		t.Error("mod file should be cached")
	}

	if err := e.app.RemoveMod(ctx, "sodium"); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.manifest(t).Mods["sodium"]; ok {
		t.Error("mod should be removed from the manifest")
	}
	if e.cached("sodium-0.5.2.jar") {
		t.Error("cached file should be deleted")
	}
	if err := e.app.RemoveMod(ctx, "sodium"); !errors.Is(err, ErrModNotFound) {
		t.Errorf("second RemoveMod() error = %v", err)
	}
}

func TestAddModWithoutVersionUsesLatest(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	e.fake.release("sodium", "0.5.2")
	e.fake.release("sodium", "0.5.3")

	if err := e.app.AddMod(context.Background(), "sodium", "modrinth", types.AddModOptions{Side: types.SideBoth}); err != nil {
		t.Fatal(err)
	}
	if got := e.manifest(t).Mods["sodium"].Version; got != "0.5.3" {
		t.Errorf("version = %s, want 0.5.3", got)
	}
}

func TestAddModUnknownVersion(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	e.fake.release("sodium", "0.5.3")

	err := e.app.AddMod(context.Background(), "sodium", "modrinth", types.AddModOptions{Version: "9.9.9"})
	if !errors.Is(err, ErrNoCompatibleVersion) {
		t.Errorf("AddMod() error = %v", err)
	}
	if len(e.manifest(t).Mods) != 0 {
		t.Error("manifest should be unchanged")
	}
}

func TestAddCurseForgeMod(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)

	err := e.app.AddMod(context.Background(), "jei", "curseforge", types.AddModOptions{
		URL:     e.app.curseforge.ProjectURL("jei"),
		Side:    types.SideBoth,
		Version: "jei-1.20.1-fabric-15.3.0.4.jar",
	})
	if err != nil {
		t.Fatal(err)
	}
	mod := e.manifest(t).Mods["jei"]
	if mod.Filename != "jei-1.20.1-fabric-15.3.0.4.jar" {
		t.Errorf("filename = %s, want the version name", mod.Filename)
	}
	if !e.cached(mod.Filename) {
		t.Error("file should be cached")
	}

	versions, err := e.app.GetModVersions(context.Background(), "jei")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 2 {
		t.Errorf("versions = %v", versions)
	}
}

func TestChangeSideAndLock(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	ctx := context.Background()
	e.setMods(t, map[string]types.Mod{"sodium": {Side: "both", Version: "0.5.3"}})

	if err := e.app.ChangeModSide(ctx, "sodium", "client"); err != nil {
		t.Fatal(err)
	}
	if err := e.app.ChangeModLocked(ctx, "sodium", true); err != nil {
		t.Fatal(err)
	}
	mod := e.manifest(t).Mods["sodium"]
	if mod.Side != "client" || !mod.Locked {
		t.Errorf("mod = %+v", mod)
	}
	if err := e.app.ChangeModSide(ctx, "ghost", "client"); !errors.Is(err, ErrModNotFound) {
		t.Errorf("error = %v", err)
	}
}

func TestCheckModsUpdatesSkipsLockedAndSourceless(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	e.fake.release("sodium", "0.5.3")
	e.fake.release("lithium", "0.11.3")
	e.fake.release("iris", "1.6.10")
	e.setMods(t, map[string]types.Mod{
		"sodium":  {Source: "https://modrinth.com/mod/sodium", Version: "0.5.2"},
		"lithium": {Source: "https://modrinth.com/mod/lithium", Version: "0.11.2", Locked: true},
		"manual":  {Version: "1.0"},
		"iris":    {Source: "https://modrinth.com/mod/iris", Version: "1.6.10"},
	})

	updates, err := e.app.CheckModsUpdates(context.Background(), []string{"sodium", "lithium", "manual", "iris", "ghost"})
	if err != nil {
		t.Fatal(err)
	}
	want := []types.ModUpdateInfo{{ModID: "sodium", Version: "0.5.3", URL: e.fake.fileURL("sodium-0.5.3.jar")}}
	if !slices.Equal(updates, want) {
		t.Errorf("updates = %+v, want %+v", updates, want)
	}

	all, err := e.app.CheckModsUpdates(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(all, want) {
		t.Errorf("checking all mods = %+v", all)
	}
}

func TestUpdateModsAndRollback(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	ctx := context.Background()
	e.fake.release("sodium", "0.5.2")
	if err := e.app.AddMod(ctx, "sodium", "modrinth", types.AddModOptions{
		URL: "https://modrinth.com/mod/sodium", Side: types.SideClient, Version: "0.5.2",
	}); err != nil {
		t.Fatal(err)
	}

	e.fake.release("sodium", "0.5.3")
	updates, err := e.app.CheckModsUpdates(ctx, []string{"sodium"})
	if err != nil || len(updates) != 1 {
		t.Fatalf("updates = %+v, err = %v", updates, err)
	}
	if err := e.app.UpdateMods(ctx, updates); err != nil {
		t.Fatalf("UpdateMods() error = %v", err)
	}

	mod := e.manifest(t).Mods["sodium"]
	if mod.Version != "0.5.3" || mod.Filename != "sodium-0.5.3.jar" || mod.Side != "client" {
		t.Errorf("updated mod = %+v", mod)
	}
	if e.cached("sodium-0.5.2.jar") || !e.cached("sodium-0.5.3.jar") {
		t.Error("cache should hold only the new file")
	}

	history, err := e.app.History("sodium")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Version != "0.5.2" {
		t.Fatalf("history = %+v", history)
	}

	restored, err := e.app.RollbackMod(ctx, "sodium")
	if err != nil {
		t.Fatalf("RollbackMod() error = %v", err)
	}
	if restored.Version != "0.5.2" {
		t.Errorf("restored = %s", restored.Version)
	}
	mod = e.manifest(t).Mods["sodium"]
	if mod.Version != "0.5.2" || mod.Filename != "sodium-0.5.2.jar" {
		t.Errorf("rolled back mod = %+v", mod)
	}
	if !e.cached("sodium-0.5.2.jar") || e.cached("sodium-0.5.3.jar") {
		t.Error("cache should hold only the restored file")
	}

	if _, err := e.app.RollbackMod(ctx, "sodium"); !errors.Is(err, db.ErrNoHistory) {
		t.Errorf("second RollbackMod() error = %v", err)
	}
}

func TestUpdateModsReportsFailures(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	e.setMods(t, map[string]types.Mod{
		"sodium": {Source: "https://modrinth.com/mod/sodium", Version: "0.5.2", Filename: "sodium-0.5.2.jar"},
		"iris":   {Source: "https://modrinth.com/mod/iris", Version: "1.6.9", Filename: "iris-1.6.9.jar"},
	})

	err := e.app.UpdateMods(context.Background(), []types.ModUpdateInfo{
		{ModID: "sodium", Version: "0.5.3", URL: e.fake.fileURL("sodium-0.5.3.jar")},
		{ModID: "iris", Version: "1.6.10", URL: e.fake.srv.URL + "/missing/iris.jar"},
	})
	if err == nil {
		t.Fatal("expected the iris failure to be reported")
	}

	m := e.manifest(t)
	if m.Mods["sodium"].Version != "0.5.3" {
		t.Error("successful update should be saved")
	}
	if m.Mods["iris"].Version != "1.6.9" {
		t.Error("failed update should leave the mod untouched")
	}
}

func TestChangeModVersion(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	ctx := context.Background()
	e.fake.release("sodium", "0.5.2")
	e.fake.release("sodium", "0.5.3")
	if err := e.app.AddMod(ctx, "sodium", "modrinth", types.AddModOptions{
		URL: "https://modrinth.com/mod/sodium", Side: types.SideClient, Version: "0.5.3",
	}); err != nil {
		t.Fatal(err)
	}

	if err := e.app.ChangeModVersion(ctx, "sodium", "0.5.2"); err != nil {
		t.Fatal(err)
	}
	if got := e.manifest(t).Mods["sodium"].Version; got != "0.5.2" {
		t.Errorf("version = %s", got)
	}
	history, err := e.app.History("sodium")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Version != "0.5.3" {
		t.Errorf("history = %+v", history)
	}
}

func TestInstallModsBySide(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	e.setMods(t, map[string]types.Mod{
		"sodium":  {Side: "client", URL: e.fake.fileURL("sodium.jar"), Filename: "sodium.jar"},
		"ledger":  {Side: "server", URL: e.fake.fileURL("ledger.jar"), Filename: "ledger.jar"},
		"lithium": {Side: "both", URL: e.fake.fileURL("lithium.jar"), Filename: "lithium.jar"},
	})
	if err := os.MkdirAll(filepath.Join(e.dir, cacheDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(e.dir, cacheDir, "lithium.jar"), []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}
	// stale files from an earlier install are removed
	if err := os.MkdirAll(filepath.Join(e.dir, clientDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(e.dir, clientDir, "old.jar"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := e.app.InstallMods(context.Background()); err != nil {
		t.Fatalf("InstallMods() error = %v", err)
	}

	list := func(dir string) []string {
		entries, err := os.ReadDir(filepath.Join(e.dir, dir))
		if err != nil {
			t.Fatal(err)
		}
		var names []string
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		return names
	}
	if got := list(clientDir); !slices.Equal(got, []string{"lithium.jar", "sodium.jar"}) {
		t.Errorf("client = %v", got)
	}
	if got := list(serverDir); !slices.Equal(got, []string{"ledger.jar", "lithium.jar"}) {
		t.Errorf("server = %v", got)
	}
	if e.fake.downloadCount("lithium.jar") != 0 {
		t.Error("cached mod should not be downloaded again")
	}
	if e.fake.downloadCount("sodium.jar") != 1 {
		t.Error("missing mod should be downloaded once")
	}
}

func TestImportMods(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)
	ctx := context.Background()

	importDir := t.TempDir()
	content := []byte("sodium jar bytes")
	if err := os.WriteFile(filepath.Join(importDir, "sodium-fabric-0.5.3.jar"), content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(importDir, "unknown.jar"), []byte("who knows"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(importDir, "readme.txt"), []byte("not a mod"), 0o644); err != nil {
		t.Fatal(err)
	}

	sum := sha1.Sum(content)
	e.fake.addHash(hex.EncodeToString(sum[:]), modrinth.Version{
		ProjectID:     "AANobbMI",
		VersionNumber: "0.5.3",
		GameVersions:  []string{"1.20.1"},
		Loaders:       []string{"fabric"},
		Files:         []modrinth.File{{Filename: "sodium-fabric-0.5.3.jar", URL: "https://cdn.modrinth.com/sodium.jar", Primary: true}},
	}, modrinth.Project{ID: "AANobbMI", Slug: "sodium", ClientSide: "required", ServerSide: "unsupported"})

	added, err := e.app.ImportMods(ctx, importDir)
	if err != nil {
		t.Fatalf("ImportMods() error = %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}

	mod := e.manifest(t).Mods["sodium"]
	want := types.Mod{
		Source:   "https://modrinth.com/mod/sodium",
		Side:     "client",
		Version:  "0.5.3",
		URL:      "https://cdn.modrinth.com/sodium.jar",
		Filename: "sodium-fabric-0.5.3.jar",
	}
	if mod != want {
		t.Errorf("mod = %+v, want %+v", mod, want)
	}
	if !e.cached("sodium-fabric-0.5.3.jar") {
		t.Error("imported jar should be copied into the cache")
	}

	again, err := e.app.ImportMods(ctx, importDir)
	if err != nil {
		t.Fatal(err)
	}
	if again != 0 {
		t.Errorf("re-import added %d mods", again)
	}
}

func TestImportModsFromCache(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)

	cache := filepath.Join(e.dir, cacheDir)
	if err := os.MkdirAll(cache, 0o755); err != nil {
		t.Fatal(err)
	}
	content := []byte("sodium jar bytes")
	if err := os.WriteFile(filepath.Join(cache, "sodium-fabric-0.5.3.jar"), content, 0o644); err != nil {
		t.Fatal(err)
	}
	sum := sha1.Sum(content)
	e.fake.addHash(hex.EncodeToString(sum[:]), modrinth.Version{
		ProjectID:     "AANobbMI",
		VersionNumber: "0.5.3",
		GameVersions:  []string{"1.20.1"},
		Loaders:       []string{"fabric"},
		Files:         []modrinth.File{{Filename: "sodium-fabric-0.5.3.jar", URL: "https://cdn.modrinth.com/sodium.jar", Primary: true}},
	}, modrinth.Project{ID: "AANobbMI", Slug: "sodium", ClientSide: "required", ServerSide: "unsupported"})

	added, err := e.app.ImportMods(context.Background(), cache)
	if err != nil {
		t.Fatalf("ImportMods() error = %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	got, err := os.ReadFile(filepath.Join(cache, "sodium-fabric-0.5.3.jar"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("cached jar = %q, want %q", got, content)
	}
}

func TestDownloadFailureKeepsCachedFile(t *testing.T) {
	e := newTestEnv(t)
	e.open(t)

	cached := filepath.Join(e.dir, cacheDir, "sodium-0.5.3.jar")
	if err := os.MkdirAll(filepath.Dir(cached), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cached, []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("truncated"))
	}))
	defer srv.Close()

	if _, err := e.app.download(context.Background(), e.dir, srv.URL+"/sodium-0.5.3.jar", "0.5.3"); err == nil {
		t.Fatal("download of a truncated body should fail")
	}
	got, err := os.ReadFile(cached)
	if err != nil {
		t.Fatalf("cached file removed: %v", err)
	}
	if string(got) != "cached" {
		t.Errorf("cached file = %q, want %q", got, "cached")
	}
	entries, err := os.ReadDir(filepath.Dir(cached))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("cache holds %d entries, want only the cached jar", len(entries))
	}
}

func TestGetLogs(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.app.logPath = func() string { return "" }
	if _, err := e.app.GetLogs(ctx); err == nil {
		t.Error("expected an error without a log file")
	}

	path := filepath.Join(t.TempDir(), "packsmith.log")
	if err := os.WriteFile(path, []byte("line 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	e.app.logPath = func() string { return path }
	got, err := e.app.GetLogs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "line 1\n" {
		t.Errorf("GetLogs() = %q", got)
	}
}

func TestPresetPicker(t *testing.T) {
	p := &PresetPicker{}
	ctx := context.Background()

	if path, _ := p.PickDirectory(ctx); path != "" {
		t.Errorf("unset picker returned %q", path)
	}
	p.Set("/packs/a")
	if path, _ := p.PickDirectory(ctx); path != "/packs/a" {
		t.Errorf("PickDirectory() = %q", path)
	}
	if path, _ := p.PickDirectory(ctx); path != "" {
		t.Error("a preset path is handed out once")
	}
}

func TestDownloadFilename(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		version string
		want    string
	}{
		{"from url", "https://cdn.modrinth.com/data/x/sodium-0.5.3.jar", "0.5.3", "sodium-0.5.3.jar"},
		{"download endpoint with jar version", "https://www.curseforge.com/api/v1/mods/1/files/2/download", "jei-15.jar", "jei-15.jar"},
		{"download endpoint without jar version", "https://www.curseforge.com/api/v1/mods/1/files/2/download", "15.2", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			resp := &http.Response{Request: req}
			if got := downloadFilename(resp, tt.version); got != tt.want {
				t.Errorf("downloadFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCalculateSHA1(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "test.txt")
	content := []byte("hello world")

	if err := os.WriteFile(filePath, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// echo -n "hello world" | sha1sum
	expected := "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"

	hash, err := calculateSHA1(filePath)
	if err != nil {
		t.Fatalf("calculateSHA1 failed: %v", err)
	}
	if hash != expected {
		t.Errorf("calculateSHA1() = %s, want %s", hash, expected)
	}

	if _, err := calculateSHA1("non-existent-file"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}
