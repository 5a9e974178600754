package store

import (
	"context"

	"packsmith/logger"
	"packsmith/service"
	"packsmith/types"

	"go.uber.org/zap"
)

// SearchStore holds the state of the mod browser.
type SearchStore struct {
	Results     *Observable[[]types.ModSearchResult]
	IsSearching *Observable[bool]
	Query       *Observable[string]
	Platform    *Observable[types.Platform]

	mods     *service.Mods
	notifier Notifier
}

func NewSearchStore(mods *service.Mods, notifier Notifier) *SearchStore {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &SearchStore{
		Results:     NewObservable([]types.ModSearchResult{}),
		IsSearching: NewObservable(false),
		Query:       NewObservable(""),
		Platform:    NewObservable(types.PlatformModrinth),
		mods:        mods,
		notifier:    notifier,
	}
}

func (s *SearchStore) SetQuery(query string) {
	s.Query.Set(query)
}

func (s *SearchStore) SetPlatform(platform types.Platform) {
	s.Platform.Set(platform)
}

// Search runs a search for override, or for the stored query when no override is given.
// An empty query does nothing. Failures are reported through the notifier and leave the
// results empty; they are not returned. Overlapping searches are not cancelled: the one
// that finishes last wins.
func (s *SearchStore) Search(ctx context.Context, override ...string) {
	query := s.Query.Get()
	if len(override) > 0 {
		query = override[0]
	}
	if query == "" {
		return
	}

	platform := s.Platform.Get()
	s.IsSearching.Set(true)
	defer s.IsSearching.Set(false)

	results, err := s.mods.SearchMods(ctx, query, platform)
	if err != nil {
		logger.Log.Errorw("Failed to search mods",
			zap.String("query", query),
			zap.String("platform", string(platform)),
			zap.Error(err),
		)
		s.notifier.Error("Failed to search for mod", err.Error())
		s.Results.Set([]types.ModSearchResult{})
		return
	}
	s.Results.Set(results)
}

func (s *SearchStore) ClearResults() {
	s.Results.Set([]types.ModSearchResult{})
}

// OnChange calls fn after any field of the store changes.
func (s *SearchStore) OnChange(fn func()) func() {
	return unsubscribeAll(
		watch(s.Results, fn),
		watch(s.IsSearching, fn),
		watch(s.Query, fn),
		watch(s.Platform, fn),
	)
}
