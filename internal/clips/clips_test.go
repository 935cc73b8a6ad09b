package clips

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/apperr"
	"github.com/SravanthiSinha/SmartClip/internal/captions"
	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/internal/store/memstore"
	"github.com/SravanthiSinha/SmartClip/models"
)

type fakePlatform struct {
	clipAsset  mux.Asset
	asset      mux.Asset
	createErr  error
	created    [][3]any
	deleted    []string
	assetCalls int
}

func (f *fakePlatform) CreateClip(_ context.Context, assetID string, start, end float64) (*mux.Asset, error) {
	f.created = append(f.created, [3]any{assetID, start, end})
	if f.createErr != nil {
		return nil, f.createErr
	}
	a := f.clipAsset
	return &a, nil
}

func (f *fakePlatform) GetAsset(_ context.Context, id string) (*mux.Asset, error) {
	f.assetCalls++
	a := f.asset
	a.ID = id
	return &a, nil
}

func (f *fakePlatform) DeleteAsset(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePlatform) PlaybackURL(pb string) string {
	return "https://stream.mux.com/" + pb + ".m3u8"
}

type fakeCaptioner struct{ fail bool }

func (f fakeCaptioner) Generate(_ context.Context, title, description string) captions.Caption {
	if f.fail {
		return captions.Fallback(title, description)
	}
	return captions.Caption{Text: "Watch this", Hashtags: []string{"funny", "clip"}}
}

func setup(t *testing.T, withAsset bool) (*Service, *memstore.Store, *fakePlatform, models.Moment) {
	t.Helper()
	ctx := context.Background()
	st := memstore.New()
	v := &models.Video{ID: uuid.New(), Status: models.VideoReady}
	if withAsset {
		a := "src-asset"
		v.AssetID = &a
	}
	if err := st.CreateVideo(ctx, v); err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	m := models.Moment{ID: uuid.New(), VideoID: v.ID, StartTime: 12.5, EndTime: 30, Title: "Big reveal", Description: "The twist"}
	if err := st.CreateMoments(ctx, []models.Moment{m}); err != nil {
		t.Fatalf("CreateMoments: %v", err)
	}
	p := &fakePlatform{
		clipAsset: mux.Asset{ID: "clip-asset", Status: mux.AssetPreparing, PlaybackIDs: []mux.PlaybackID{{ID: "clip-pb"}}},
		asset:     mux.Asset{Status: mux.AssetPreparing},
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(st, p, fakeCaptioner{}, log), st, p, m
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, st, p, m := setup(t, true)

	c, err := svc.Create(ctx, m.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(p.created) != 1 || p.created[0] != [3]any{"src-asset", 12.5, 30.0} {
		t.Fatalf("platform calls = %v", p.created)
	}
	if c.Status != models.ClipProcessing || c.AssetID != "clip-asset" || c.PlaybackID == nil || *c.PlaybackID != "clip-pb" {
		t.Fatalf("clip = %+v", c)
	}
	if c.Caption != "Watch this" || len(c.Hashtags) != 2 || c.DownloadURL != nil {
		t.Fatalf("clip = %+v", c)
	}
	stored, err := st.GetClip(ctx, c.ID)
	if err != nil || stored.MomentID != m.ID {
		t.Fatalf("stored = %+v, %v", stored, err)
	}
}

func TestCreateCaptionFallback(t *testing.T) {
	svc, _, _, m := setup(t, true)
	svc.captioner = fakeCaptioner{fail: true}
	c, err := svc.Create(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Caption != "Big reveal. The twist" {
		t.Errorf("caption = %q", c.Caption)
	}
	if len(c.Hashtags) != 3 || c.Hashtags[0] != "video" {
		t.Errorf("hashtags = %v", c.Hashtags)
	}
}

func TestCreateErrors(t *testing.T) {
	ctx := context.Background()

	svc, _, p, _ := setup(t, true)
	if _, err := svc.Create(ctx, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing moment err = %v", err)
	}
	if len(p.created) != 0 {
		t.Errorf("platform called for missing moment")
	}

	svc, _, p, m := setup(t, false)
	if _, err := svc.Create(ctx, m.ID); !errors.Is(err, apperr.ErrPrecondition) {
		t.Errorf("no asset err = %v", err)
	}
	if len(p.created) != 0 {
		t.Errorf("platform called without asset")
	}

	svc, _, p, m = setup(t, true)
	p.createErr = apperr.Remote("mux", "create clip", errors.New("422"))
	if _, err := svc.Create(ctx, m.ID); !apperr.IsRemote(err) {
		t.Errorf("remote err = %v", err)
	}
	if len(p.deleted) != 0 {
		t.Errorf("deleted %v after failed create", p.deleted)
	}
}

func TestCreateDeletesAssetWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	svc, _, p, m := setup(t, true)
	if _, err := svc.Create(ctx, m.ID); err != nil {
		t.Fatalf("first: %v", err)
	}
	// same clip asset id again violates uniqueness
	if _, err := svc.Create(ctx, m.ID); err == nil {
		t.Fatalf("expected store error")
	}
	if len(p.deleted) != 1 || p.deleted[0] != "clip-asset" {
		t.Fatalf("deleted = %v", p.deleted)
	}
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc, _, p, m := setup(t, true)
	c, err := svc.Create(ctx, m.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Refresh(ctx, c.ID)
	if err != nil || got.Status != models.ClipProcessing || got.DownloadURL != nil {
		t.Fatalf("preparing refresh = %+v, %v", got, err)
	}

	p.asset.Status = mux.AssetReady
	got, err = svc.Refresh(ctx, c.ID)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got.Status != models.ClipReady || got.DownloadURL == nil || *got.DownloadURL != "https://stream.mux.com/clip-pb.m3u8" {
		t.Fatalf("ready refresh = %+v", got)
	}

	// a stale preparing report never moves a ready clip back
	p.asset.Status = mux.AssetPreparing
	got, err = svc.Refresh(ctx, c.ID)
	if err != nil || got.Status != models.ClipReady || got.DownloadURL == nil {
		t.Fatalf("stale refresh = %+v, %v", got, err)
	}
	if p.assetCalls != 3 {
		t.Errorf("asset calls = %d", p.assetCalls)
	}
}

func TestRefreshBackfillsPlayback(t *testing.T) {
	ctx := context.Background()
	svc, _, p, m := setup(t, true)
	p.clipAsset.PlaybackIDs = nil
	c, err := svc.Create(ctx, m.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.PlaybackID != nil {
		t.Fatalf("playback id set early")
	}
	p.asset = mux.Asset{Status: mux.AssetReady, PlaybackIDs: []mux.PlaybackID{{ID: "late-pb"}}}
	got, err := svc.Refresh(ctx, c.ID)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got.PlaybackID == nil || *got.PlaybackID != "late-pb" || got.DownloadURL == nil || *got.DownloadURL != "https://stream.mux.com/late-pb.m3u8" {
		t.Fatalf("clip = %+v", got)
	}
}

func TestRefreshErrored(t *testing.T) {
	ctx := context.Background()
	svc, _, p, m := setup(t, true)
	c, _ := svc.Create(ctx, m.ID)
	p.asset.Status = mux.AssetErrored
	got, err := svc.Refresh(ctx, c.ID)
	if err != nil || got.Status != models.ClipError || got.DownloadURL != nil {
		t.Fatalf("clip = %+v, %v", got, err)
	}
}

func TestRefreshMissing(t *testing.T) {
	svc, _, _, _ := setup(t, true)
	if _, err := svc.Refresh(context.Background(), uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
