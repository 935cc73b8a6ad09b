package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SravanthiSinha/SmartClip/internal/mux"
	"github.com/SravanthiSinha/SmartClip/internal/store"
	"github.com/SravanthiSinha/SmartClip/models"
)

const assetErroredMessage = "Asset processing failed on the hosting platform"

// Refresh polls the platform for a video and applies what it reports. Without
// an asset the upload session is queried; with one the asset is.
func (s *Service) Refresh(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	v, err := s.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.HasAsset() {
		return s.refreshUpload(ctx, v)
	}
	return s.refreshAsset(ctx, v)
}

func (s *Service) refreshUpload(ctx context.Context, v *models.Video) (*models.Video, error) {
	if v.UploadID == nil || *v.UploadID == "" {
		return v, nil
	}
	up, err := s.platform.GetUpload(ctx, *v.UploadID)
	if err != nil {
		return nil, err
	}
	log := s.log.WithFields(logrus.Fields{"video_id": v.ID, "upload_id": up.ID, "upload_status": up.Status})

	switch {
	case up.Status == mux.UploadAssetCreated && up.AssetID != "":
		log.Info("Upload produced an asset")
		return s.assignAsset(ctx, v.ID, up.AssetID)
	case up.Failed():
		log.Warn("Upload did not complete")
		msg := fmt.Sprintf("Upload %s: The video upload did not complete successfully", up.Status)
		return s.transition(ctx, v.ID, signal(SignalUploadFailed), func(_ *models.Video, p *store.VideoPatch) {
			if p.Status != nil {
				p.ErrorMessage = &msg
			}
		})
	default:
		return s.transition(ctx, v.ID, signal(SignalUploadWaiting), nil)
	}
}

func (s *Service) refreshAsset(ctx context.Context, v *models.Video) (*models.Video, error) {
	a, err := s.platform.GetAsset(ctx, *v.AssetID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, v.ID, Remote(a.Status), func(cur *models.Video, p *store.VideoPatch) {
		if p.Status != nil && *p.Status == models.VideoError {
			msg := assetErroredMessage
			p.ErrorMessage = &msg
		}
		if cur.Duration == nil {
			p.Duration = a.KnownDuration()
		}
		if cur.PlaybackID == nil {
			if pb := a.PlaybackID(); pb != "" {
				p.PlaybackID = &pb
			}
		}
	})
}
