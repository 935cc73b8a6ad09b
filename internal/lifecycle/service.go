package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/apperr"
	"github.com/SravanthiSinha/SmartClip/internal/dedupe"
	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/internal/store"
	"github.com/SravanthiSinha/SmartClip/models"
)

// maxWriteAttempts bounds the re-read and recompute loop on a lost status race.
const maxWriteAttempts = 3

// Platform is the subset of the hosting platform client the lifecycle uses.
type Platform interface {
	CreateDirectUpload(ctx context.Context) (*mux.Upload, error)
	GetUpload(ctx context.Context, uploadID string) (*mux.Upload, error)
	GetAsset(ctx context.Context, assetID string) (*mux.Asset, error)
	GenerateSubtitles(ctx context.Context, assetID, audioTrackID string) error
	FetchTranscript(ctx context.Context, a *mux.Asset) (string, error)
}

// MomentSource extracts and refines moments.
type MomentSource interface {
	Extract(ctx context.Context, transcript string, duration *float64) ([]models.Moment, error)
	Refine(ctx context.Context, m models.Moment, feedback string, duration *float64) (models.Moment, bool)
}

// ListableStatuses are the statuses returned by ListVideos.
var ListableStatuses = []models.VideoStatus{
	models.VideoProcessing,
	models.VideoTranscribing,
	models.VideoAnalyzing,
	models.VideoReady,
}

// PendingStatuses are the statuses a remote poll can still change.
var PendingStatuses = []models.VideoStatus{
	models.VideoWaitingForUpload,
	models.VideoProcessing,
}

type Service struct {
	store    store.Store
	platform Platform
	moments  MomentSource
	dedupe   dedupe.Deduper
	log      *logrus.Logger
	now      func() time.Time
}

type Options struct {
	Store    store.Store
	Platform Platform
	Moments  MomentSource
	// Dedupe drops repeated webhook deliveries. Nil disables it.
	Dedupe dedupe.Deduper
	Logger *logrus.Logger
}

func NewService(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		store:    opts.Store,
		platform: opts.Platform,
		moments:  opts.Moments,
		dedupe:   opts.Dedupe,
		log:      log,
		now:      time.Now,
	}
}

// UploadSession is a freshly issued direct upload and the video tracking it.
type UploadSession struct {
	Video     *models.Video
	UploadURL string
	UploadID  string
}

// CreateUpload issues a direct upload and records a video waiting for it.
func (s *Service) CreateUpload(ctx context.Context) (*UploadSession, error) {
	up, err := s.platform.CreateDirectUpload(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	uploadID := up.ID
	v := &models.Video{
		ID:        uuid.New(),
		UploadID:  &uploadID,
		Status:    models.VideoWaitingForUpload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateVideo(ctx, v); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	s.log.WithFields(logrus.Fields{"video_id": v.ID, "upload_id": up.ID}).Info("Created direct upload")
	return &UploadSession{Video: v, UploadURL: up.URL, UploadID: up.ID}, nil
}

// GetVideo returns the stored video without contacting the platform.
func (s *Service) GetVideo(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	v, err := s.store.GetVideo(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "video")
	}
	return v, nil
}

// ListVideos returns videos past the upload stage, newest first.
func (s *Service) ListVideos(ctx context.Context) ([]models.Video, error) {
	return s.store.ListVideos(ctx, ListableStatuses)
}

// ListPending returns videos whose status a remote poll may still change.
func (s *Service) ListPending(ctx context.Context) ([]models.Video, error) {
	return s.store.ListVideos(ctx, PendingStatuses)
}

// ListTranscribing returns videos waiting for a transcript.
func (s *Service) ListTranscribing(ctx context.Context) ([]models.Video, error) {
	return s.store.ListVideos(ctx, []models.VideoStatus{models.VideoTranscribing})
}

// ListMoments returns a video's moments in storage order.
func (s *Service) ListMoments(ctx context.Context, videoID uuid.UUID) ([]models.Moment, error) {
	if _, err := s.GetVideo(ctx, videoID); err != nil {
		return nil, err
	}
	return s.store.ListMoments(ctx, videoID)
}

// RefineMoment asks for an adjusted moment and stores it when it passes
// validation. changed is false when the original was kept.
func (s *Service) RefineMoment(ctx context.Context, momentID uuid.UUID, feedback string) (models.Moment, bool, error) {
	m, err := s.store.GetMoment(ctx, momentID)
	if err != nil {
		return models.Moment{}, false, wrapNotFound(err, "moment")
	}
	v, err := s.GetVideo(ctx, m.VideoID)
	if err != nil {
		return models.Moment{}, false, err
	}
	refined, changed := s.moments.Refine(ctx, *m, feedback, v.Duration)
	if !changed {
		return *m, false, nil
	}
	if err := s.store.UpdateMoment(ctx, &refined); err != nil {
		return *m, false, fmt.Errorf("update moment: %w", err)
	}
	s.log.WithField("moment_id", m.ID).Info("Refined moment")
	return refined, true, nil
}

// Transcript returns the stored transcript, or fetches it from the platform
// when none has been stored yet. An empty string means not ready.
func (s *Service) Transcript(ctx context.Context, id uuid.UUID) (string, error) {
	v, err := s.GetVideo(ctx, id)
	if err != nil {
		return "", err
	}
	if v.Transcript != nil && *v.Transcript != "" {
		return *v.Transcript, nil
	}
	if !v.HasAsset() {
		return "", apperr.Precondition("Video has no asset yet")
	}
	a, err := s.platform.GetAsset(ctx, *v.AssetID)
	if err != nil {
		return "", err
	}
	return s.platform.FetchTranscript(ctx, a)
}

// planFunc derives a patch from the freshly read row. An empty patch means
// nothing to write.
type planFunc func(v *models.Video) store.VideoPatch

// update re-reads the row, plans a patch against it and writes it guarded on
// the status it read. A lost race is retried from the read.
func (s *Service) update(ctx context.Context, id uuid.UUID, plan planFunc) (*models.Video, error) {
	for attempt := 1; ; attempt++ {
		v, err := s.store.GetVideo(ctx, id)
		if err != nil {
			return nil, wrapNotFound(err, "video")
		}
		patch := plan(v)
		if patch.Empty() {
			return v, nil
		}
		read := v.Status
		patch.ExpectStatus = &read
		updated, err := s.store.UpdateVideo(ctx, id, patch)
		if err == nil {
			if patch.Status != nil && *patch.Status != read {
				s.log.WithFields(logrus.Fields{
					"video_id": id,
					"from":     read,
					"to":       *patch.Status,
				}).Info("Video status changed")
			}
			return updated, nil
		}
		if !errors.Is(err, store.ErrConflict) || attempt >= maxWriteAttempts {
			return nil, fmt.Errorf("update video %s: %w", id, err)
		}
		s.log.WithField("video_id", id).Debugf("Video changed concurrently, retrying (attempt %d)", attempt)
	}
}

// transition moves the video on sig and lets extra add fields to the same write.
func (s *Service) transition(ctx context.Context, id uuid.UUID, sig Signal, extra func(v *models.Video, p *store.VideoPatch)) (*models.Video, error) {
	return s.update(ctx, id, func(v *models.Video) store.VideoPatch {
		var p store.VideoPatch
		if next := NextStatus(v.Status, sig); next != v.Status {
			p.Status = &next
		}
		if extra != nil {
			extra(v, &p)
		}
		return p
	})
}

// assignAsset records assetID on a video that has none and applies
// AssetCreated. A video that already has an asset is left untouched.
func (s *Service) assignAsset(ctx context.Context, id uuid.UUID, assetID string) (*models.Video, error) {
	return s.update(ctx, id, func(v *models.Video) store.VideoPatch {
		if v.HasAsset() {
			if *v.AssetID != assetID {
				s.log.WithFields(logrus.Fields{
					"video_id": v.ID,
					"current":  *v.AssetID,
					"incoming": assetID,
				}).Warn("Ignoring second asset id for video")
			}
			return store.VideoPatch{}
		}
		p := store.VideoPatch{RequireNoAsset: true, AssetID: &assetID}
		if next := NextStatus(v.Status, signal(SignalAssetCreated)); next != v.Status {
			p.Status = &next
		}
		return p
	})
}

func wrapNotFound(err error, entity string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}
