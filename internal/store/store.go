// Package store defines persistence for videos, moments and clips. Backends
// live in the supabase, gormstore and memstore subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/SravanthiSinha/SmartClip/internal/apperr"
	"github.com/SravanthiSinha/SmartClip/models"
)

var (
	// ErrNotFound is apperr.ErrNotFound so handlers map it to 404 directly.
	ErrNotFound = apperr.ErrNotFound
	// ErrConflict means a guarded update found the row in an unexpected state.
	ErrConflict = errors.New("row changed concurrently")
)

// Store is implemented by every backend.
type Store interface {
	CreateVideo(ctx context.Context, v *models.Video) error
	GetVideo(ctx context.Context, id uuid.UUID) (*models.Video, error)
	GetVideoByUploadID(ctx context.Context, uploadID string) (*models.Video, error)
	GetVideoByAssetID(ctx context.Context, assetID string) (*models.Video, error)
	// ListVideos returns videos in any of statuses, newest first.
	ListVideos(ctx context.Context, statuses []models.VideoStatus) ([]models.Video, error)
	// UpdateVideo applies patch and returns the stored row. A patch whose guard
	// does not hold returns ErrConflict and changes nothing.
	UpdateVideo(ctx context.Context, id uuid.UUID, patch VideoPatch) (*models.Video, error)

	CreateMoments(ctx context.Context, ms []models.Moment) error
	// ListMoments returns the moments of a video in storage order.
	ListMoments(ctx context.Context, videoID uuid.UUID) ([]models.Moment, error)
	GetMoment(ctx context.Context, id uuid.UUID) (*models.Moment, error)
	UpdateMoment(ctx context.Context, m *models.Moment) error

	CreateClip(ctx context.Context, c *models.Clip) error
	GetClip(ctx context.Context, id uuid.UUID) (*models.Clip, error)
	UpdateClip(ctx context.Context, c *models.Clip) error

	// DeleteAll removes every video and, by cascade, its moments and clips.
	DeleteAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// VideoPatch is a partial update of a Video. Nil fields are left alone.
type VideoPatch struct {
	// ExpectStatus guards the write: it only applies while the stored status equals it.
	ExpectStatus *models.VideoStatus
	// RequireNoAsset guards the write: it only applies while asset_id is unset.
	RequireNoAsset bool

	Status       *models.VideoStatus
	AssetID      *string
	PlaybackID   *string
	Duration     *float64
	ErrorMessage *string
	ClearError   bool
	Transcript   *string
}

// Guarded reports whether the patch carries a precondition.
func (p VideoPatch) Guarded() bool {
	return p.ExpectStatus != nil || p.RequireNoAsset
}

// Empty reports whether the patch changes nothing.
func (p VideoPatch) Empty() bool {
	return p.Status == nil && p.AssetID == nil && p.PlaybackID == nil && p.Duration == nil &&
		p.ErrorMessage == nil && !p.ClearError && p.Transcript == nil
}

// Holds reports whether v satisfies the patch guards.
func (p VideoPatch) Holds(v *models.Video) bool {
	if p.ExpectStatus != nil && v.Status != *p.ExpectStatus {
		return false
	}
	if p.RequireNoAsset && v.HasAsset() {
		return false
	}
	return true
}

// Apply writes the patch onto v.
func (p VideoPatch) Apply(v *models.Video, now time.Time) {
	if p.Status != nil {
		v.Status = *p.Status
	}
	if p.AssetID != nil {
		v.AssetID = strPtr(*p.AssetID)
	}
	if p.PlaybackID != nil {
		v.PlaybackID = strPtr(*p.PlaybackID)
	}
	if p.Duration != nil {
		d := *p.Duration
		v.Duration = &d
	}
	if p.ClearError {
		v.ErrorMessage = nil
	}
	if p.ErrorMessage != nil {
		v.ErrorMessage = strPtr(*p.ErrorMessage)
	}
	if p.Transcript != nil {
		v.Transcript = strPtr(*p.Transcript)
	}
	v.UpdatedAt = now
}

// Columns renders the patch as a column map for SQL backends.
func (p VideoPatch) Columns(now time.Time) map[string]any {
	cols := map[string]any{"updated_at": now}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.AssetID != nil {
		cols["asset_id"] = *p.AssetID
	}
	if p.PlaybackID != nil {
		cols["playback_id"] = *p.PlaybackID
	}
	if p.Duration != nil {
		cols["duration"] = *p.Duration
	}
	if p.ClearError {
		cols["error_message"] = nil
	}
	if p.ErrorMessage != nil {
		cols["error_message"] = *p.ErrorMessage
	}
	if p.Transcript != nil {
		cols["transcript"] = *p.Transcript
	}
	return cols
}

func strPtr(s string) *string { return &s }
