package cli

import (
	"context"
	"fmt"

	"github.com/SravanthiSinha/SmartClip/config"
	"github.com/SravanthiSinha/SmartClip/internal/aiclient"
	"github.com/SravanthiSinha/SmartClip/internal/captions"
	"github.com/SravanthiSinha/SmartClip/internal/clips"
	"github.com/SravanthiSinha/SmartClip/internal/dedupe"
	"github.com/SravanthiSinha/SmartClip/internal/lifecycle"
	"github.com/SravanthiSinha/SmartClip/internal/moments"
	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/internal/store"
	"github.com/SravanthiSinha/SmartClip/internal/store/gormstore"
	"github.com/SravanthiSinha/SmartClip/internal/store/memstore"
	"github.com/SravanthiSinha/SmartClip/internal/store/supabase"
)

// openStore connects the configured backend. The returned close func is
// always non-nil.
func (rt *runtime) openStore() (store.Store, func() error, error) {
	noop := func() error { return nil }
	s := rt.cfg.Store
	switch s.Driver {
	case config.StorePostgres:
		st, err := gormstore.Open(s.DatabaseURL, rt.log)
		if err != nil {
			return nil, noop, err
		}
		return st, st.Close, nil
	case config.StoreSupabase:
		client, err := config.NewSupabaseClient(s.SupabaseURL, s.SupabaseServiceKey)
		if err != nil {
			return nil, noop, err
		}
		return supabase.New(client, rt.log), noop, nil
	case config.StoreMemory:
		rt.log.Warn("Using in-memory store; data is lost on exit")
		return memstore.New(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", s.Driver)
	}
}

// openDeduper uses Redis when configured and reachable, otherwise a
// process-local set.
func (rt *runtime) openDeduper(ctx context.Context) (dedupe.Deduper, func() error) {
	r := rt.cfg.Redis
	if r.Addr == "" {
		return dedupe.NewMemory(r.DedupeTTL), func() error { return nil }
	}
	d, err := dedupe.NewRedis(ctx, dedupe.RedisConfig{Addr: r.Addr, Password: r.Password, TTL: r.DedupeTTL}, rt.log)
	if err != nil {
		rt.log.WithError(err).Warn("Redis unavailable, deduplicating webhooks in memory")
		return dedupe.NewMemory(r.DedupeTTL), func() error { return nil }
	}
	return d, d.Close
}

type services struct {
	videos *lifecycle.Service
	clips  *clips.Service
}

// newServices builds the remote clients and the services over st. ded may
// be nil for commands that never receive webhooks.
func (rt *runtime) newServices(st store.Store, ded dedupe.Deduper) *services {
	c := rt.cfg
	platform := mux.New(mux.Options{
		TokenID:     c.Mux.TokenID,
		TokenSecret: c.Mux.TokenSecret,
		BaseURL:     c.Mux.BaseURL,
		StreamURL:   c.Mux.StreamURL,
		CORSOrigin:  c.Mux.CORSOrigin,
		Logger:      rt.log,
	})
	llm := aiclient.NewAIClient(aiclient.Options{
		APIKey:  c.OpenAI.APIKey,
		Model:   c.OpenAI.Model,
		BaseURL: c.OpenAI.BaseURL,
		Logger:  rt.log,
	})
	extractor := moments.NewExtractor(llm, moments.Config{
		MinDuration: c.Moments.MinClipDuration,
		MaxDuration: c.Moments.MaxClipDuration,
		MaxMoments:  c.Moments.MaxMoments,
	}, rt.log)

	return &services{
		videos: lifecycle.NewService(lifecycle.Options{
			Store:    st,
			Platform: platform,
			Moments:  extractor,
			Dedupe:   ded,
			Logger:   rt.log,
		}),
		clips: clips.NewService(st, platform, captions.NewGenerator(llm, rt.log), rt.log),
	}
}
