package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/apperr"
	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/internal/store"
	"github.com/SravanthiSinha/SmartClip/models"
)

// HandleWebhook applies a platform event. Events for unknown uploads or assets
// and unhandled event types succeed without effect. A delivery id is
// remembered only once its event was applied; concurrent duplicates are
// safe because every write is guarded.
func (s *Service) HandleWebhook(ctx context.Context, ev mux.Event) error {
	log := s.log.WithFields(logrus.Fields{"event_id": ev.ID, "event_type": ev.Type})

	var apply func(context.Context, *logrus.Entry, mux.EventData) error
	switch ev.Type {
	case mux.EventUploadAssetCreated:
		apply = s.onAssetCreated
	case mux.EventAssetReady:
		apply = s.onAssetReady
	case mux.EventAssetTrackReady:
		apply = onTrackReady
	default:
		log.Debug("Ignoring webhook event")
		return nil
	}

	data, err := ev.ParseData()
	if err != nil {
		return apperr.Precondition(fmt.Sprintf("Invalid webhook payload: %v", err))
	}

	dedupe := s.dedupe != nil && ev.ID != ""
	if dedupe {
		seen, err := s.dedupe.Seen(ctx, ev.ID)
		switch {
		case err != nil:
			log.WithError(err).Warn("Webhook dedupe unavailable, processing anyway")
		case seen:
			log.Info("Skipping repeated webhook delivery")
			return nil
		}
	}

	if err := apply(ctx, log, data); err != nil {
		return err
	}
	if dedupe {
		if err := s.dedupe.Remember(ctx, ev.ID); err != nil {
			log.WithError(err).Warn("Failed to remember webhook delivery")
		}
	}
	return nil
}

func onTrackReady(_ context.Context, log *logrus.Entry, data mux.EventData) error {
	log.WithFields(logrus.Fields{"asset_id": data.AssetID, "track_type": data.Type}).Info("Track ready")
	return nil
}

func (s *Service) onAssetCreated(ctx context.Context, log *logrus.Entry, data mux.EventData) error {
	uploadID := data.ID
	if uploadID == "" {
		uploadID = data.UploadID
	}
	if uploadID == "" || data.AssetID == "" {
		log.Warn("Asset created event without upload or asset id")
		return nil
	}
	v, err := s.store.GetVideoByUploadID(ctx, uploadID)
	if errors.Is(err, store.ErrNotFound) {
		log.WithField("upload_id", uploadID).Info("No video for upload, ignoring")
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.assignAsset(ctx, v.ID, data.AssetID)
	return err
}

func (s *Service) onAssetReady(ctx context.Context, log *logrus.Entry, data mux.EventData) error {
	v, err := s.store.GetVideoByAssetID(ctx, data.ID)
	if errors.Is(err, store.ErrNotFound) {
		log.WithField("asset_id", data.ID).Info("No video for asset, ignoring")
		return nil
	}
	if err != nil {
		return err
	}

	asset := &mux.Asset{ID: data.ID, Status: data.Status, Duration: data.Duration, PlaybackIDs: data.PlaybackIDs}
	if asset.KnownDuration() == nil || asset.PlaybackID() == "" {
		if asset, err = s.platform.GetAsset(ctx, data.ID); err != nil {
			return err
		}
	}

	_, err = s.transition(ctx, v.ID, signal(SignalAssetReady), func(_ *models.Video, p *store.VideoPatch) {
		p.Duration = asset.KnownDuration()
		if pb := asset.PlaybackID(); pb != "" {
			p.PlaybackID = &pb
		}
	})
	return err
}
