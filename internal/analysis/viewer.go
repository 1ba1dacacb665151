package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/duskwallet/duskwallet/internal/api"
	"github.com/duskwallet/duskwallet/internal/logging"
	"github.com/duskwallet/duskwallet/internal/model"
)

// Backend is the part of the API the analysis view uses.
type Backend interface {
	GenerateAnalysis(ctx context.Context) (api.Generated, error)
	LastAnalysis(ctx context.Context) (model.Analysis, error)
	AnalysisStatus(ctx context.Context) (model.AnalysisStatus, error)
}

// View is what the analysis screen shows.
type View struct {
	Analysis  model.Analysis
	UpdatedAt time.Time
	FromCache bool
	// Message is an informational note from the backend, e.g. why no
	// analysis could be generated.
	Message string
}

// Empty reports whether there is no analysis to show.
func (v View) Empty() bool {
	return v.Analysis.Empty()
}

// Viewer mediates between the analysis screen, the cache and the API.
type Viewer struct {
	backend Backend
	cache   *Cache
	log     *logrus.Entry
}

// NewViewer returns a viewer.
func NewViewer(backend Backend, cache *Cache, logger *logrus.Logger) *Viewer {
	return &Viewer{
		backend: backend,
		cache:   cache,
		log:     logging.Component(logger, "analysis"),
	}
}

func fromEntry(e Entry) View {
	return View{
		Analysis:  model.Analysis{Payload: e.Payload, CreatedAt: e.Timestamp},
		UpdatedAt: e.Timestamp,
		FromCache: true,
	}
}

// Load returns the cached analysis for user without touching the network.
// On a miss it fetches the last stored analysis and caches it. No stored
// analysis yields an empty view and no error.
func (v *Viewer) Load(ctx context.Context, user model.User) (View, error) {
	key := user.CacheKey()
	if e, ok := v.cache.Read(key); ok {
		v.log.WithField("user", key).Debug("analysis served from cache")
		return fromEntry(e), nil
	}
	return v.fetchLast(ctx, key)
}

func (v *Viewer) fetchLast(ctx context.Context, key string) (View, error) {
	a, err := v.backend.LastAnalysis(ctx)
	if errors.Is(err, api.ErrNotFound) {
		return View{}, nil
	}
	if err != nil {
		return View{}, err
	}
	if a.Empty() {
		return View{}, nil
	}

	view := View{Analysis: a, UpdatedAt: a.CreatedAt}
	e, err := v.cache.WriteAt(key, a.Payload, a.CreatedAt)
	if err != nil {
		v.log.WithError(err).Warn("caching last analysis")
		if view.UpdatedAt.IsZero() {
			view.UpdatedAt = time.Now()
		}
		return view, nil
	}
	view.UpdatedAt = e.Timestamp
	return view, nil
}

// Refresh always asks the backend for a new analysis and overwrites the
// cache on success. When the weekly quota is used up it returns the
// *api.LimitError together with the last stored analysis, if any.
func (v *Viewer) Refresh(ctx context.Context, user model.User) (View, error) {
	key := user.CacheKey()
	g, err := v.backend.GenerateAnalysis(ctx)
	if err != nil {
		var limit *api.LimitError
		if !errors.As(err, &limit) {
			return View{}, err
		}
		v.log.WithField("days_until_reset", limit.DaysUntilReset).Info("analysis limit reached")
		view, lastErr := v.fetchLast(ctx, key)
		if lastErr != nil {
			v.log.WithError(lastErr).Warn("loading last analysis after limit")
			if e, ok := v.cache.Read(key); ok {
				view = fromEntry(e)
			}
		}
		return view, err
	}

	if g.Analysis.Empty() {
		view := View{Message: g.Message}
		if e, ok := v.cache.Read(key); ok {
			view = fromEntry(e)
			view.Message = g.Message
		}
		return view, nil
	}

	e, werr := v.cache.Write(key, g.Analysis.Payload)
	if werr != nil {
		v.log.WithError(werr).Warn("caching new analysis")
		e.Timestamp = time.Now()
	}
	return View{
		Analysis:  model.Analysis{Payload: g.Analysis.Payload, CreatedAt: e.Timestamp},
		UpdatedAt: e.Timestamp,
		Message:   g.Message,
	}, nil
}

// Status returns the quota state, or nil when it could not be loaded.
func (v *Viewer) Status(ctx context.Context) *model.AnalysisStatus {
	st, err := v.backend.AnalysisStatus(ctx)
	if err != nil {
		v.log.WithError(err).Warn("loading analysis status")
		return nil
	}
	return &st
}

// CanRefresh reports whether a refresh should be offered. An unknown
// status allows it; the backend enforces the quota.
func CanRefresh(st *model.AnalysisStatus) bool {
	return st == nil || st.CanGenerate()
}
