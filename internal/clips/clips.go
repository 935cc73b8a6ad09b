// Package clips cuts a stored moment into a hosted clip with a social caption
// and tracks the clip until the platform reports it playable.
package clips

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/apperr"
	"github.com/SravanthiSinha/SmartClip/internal/captions"
	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/internal/store"
	"github.com/SravanthiSinha/SmartClip/models"
)

// Platform is the subset of the hosting platform client clips use.
type Platform interface {
	CreateClip(ctx context.Context, assetID string, start, end float64) (*mux.Asset, error)
	GetAsset(ctx context.Context, assetID string) (*mux.Asset, error)
	DeleteAsset(ctx context.Context, assetID string) error
	PlaybackURL(playbackID string) string
}

type Captioner interface {
	Generate(ctx context.Context, title, description string) captions.Caption
}

type Service struct {
	store     store.Store
	platform  Platform
	captioner Captioner
	log       *logrus.Logger
}

func NewService(st store.Store, platform Platform, captioner Captioner, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: st, platform: platform, captioner: captioner, log: log}
}

// Create cuts the moment's time range out of its video's asset.
func (s *Service) Create(ctx context.Context, momentID uuid.UUID) (*models.Clip, error) {
	m, err := s.store.GetMoment(ctx, momentID)
	if err != nil {
		return nil, notFound(err, "moment")
	}
	v, err := s.store.GetVideo(ctx, m.VideoID)
	if err != nil {
		return nil, notFound(err, "video")
	}
	if !v.HasAsset() {
		return nil, apperr.Precondition("Video has no asset yet")
	}

	caption := s.captioner.Generate(ctx, m.Title, m.Description)

	a, err := s.platform.CreateClip(ctx, *v.AssetID, m.StartTime, m.EndTime)
	if err != nil {
		return nil, err
	}

	c := &models.Clip{
		ID:       uuid.New(),
		MomentID: m.ID,
		AssetID:  a.ID,
		Status:   models.ClipProcessing,
		Caption:  caption.Text,
		Hashtags: caption.Hashtags,
	}
	if pb := a.PlaybackID(); pb != "" {
		c.PlaybackID = &pb
	}
	if err := s.store.CreateClip(ctx, c); err != nil {
		if derr := s.platform.DeleteAsset(ctx, a.ID); derr != nil {
			s.log.WithError(derr).WithField("asset_id", a.ID).Warn("Failed to delete orphaned clip asset")
		}
		return nil, fmt.Errorf("store clip: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"clip_id":   c.ID,
		"moment_id": m.ID,
		"asset_id":  a.ID,
		"fallback":  caption.Fallback,
	}).Info("Created clip")
	return c, nil
}

// Get returns the stored clip.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Clip, error) {
	c, err := s.store.GetClip(ctx, id)
	if err != nil {
		return nil, notFound(err, "clip")
	}
	return c, nil
}

// Refresh queries the clip asset once and stores its status. A ready clip
// never goes back to processing. The download URL is set once ready.
func (s *Service) Refresh(ctx context.Context, id uuid.UUID) (*models.Clip, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a, err := s.platform.GetAsset(ctx, c.AssetID)
	if err != nil {
		return nil, err
	}

	changed := false
	if next, ok := MapStatus(a.Status); ok && next != c.Status {
		if !(c.Status == models.ClipReady && next == models.ClipProcessing) {
			c.Status = next
			changed = true
		}
	}
	if c.PlaybackID == nil {
		if pb := a.PlaybackID(); pb != "" {
			c.PlaybackID = &pb
			changed = true
		}
	}
	if c.Status == models.ClipReady && c.DownloadURL == nil && c.PlaybackID != nil {
		u := s.platform.PlaybackURL(*c.PlaybackID)
		c.DownloadURL = &u
		changed = true
	}
	if !changed {
		return c, nil
	}
	if err := s.store.UpdateClip(ctx, c); err != nil {
		return nil, fmt.Errorf("update clip: %w", err)
	}
	s.log.WithFields(logrus.Fields{"clip_id": c.ID, "status": c.Status}).Info("Clip refreshed")
	return c, nil
}

// MapStatus maps a clip asset status to a clip status.
func MapStatus(remote string) (models.ClipStatus, bool) {
	switch remote {
	case mux.AssetPreparing:
		return models.ClipProcessing, true
	case mux.AssetReady:
		return models.ClipReady, true
	case mux.AssetErrored:
		return models.ClipError, true
	}
	return "", false
}

func notFound(err error, entity string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}
