// Package memstore is an in-process Store used for local development and tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SravanthiSinha/SmartClip/internal/store"
	"github.com/SravanthiSinha/SmartClip/models"
)

// Store keeps rows in maps guarded by a single mutex. Returned values are copies.
type Store struct {
	mu      sync.Mutex
	now     func() time.Time
	videos  map[uuid.UUID]*models.Video
	moments map[uuid.UUID]*models.Moment
	clips   map[uuid.UUID]*models.Clip
	// insertion order of moments, which is their storage order
	momentOrder []uuid.UUID
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		now:     time.Now,
		videos:  make(map[uuid.UUID]*models.Video),
		moments: make(map[uuid.UUID]*models.Moment),
		clips:   make(map[uuid.UUID]*models.Clip),
	}
}

// SetClock replaces the time source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateVideo(_ context.Context, v *models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now()
	}
	v.UpdatedAt = v.CreatedAt
	for _, other := range s.videos {
		if v.UploadID != nil && other.UploadID != nil && *v.UploadID == *other.UploadID {
			return store.ErrConflict
		}
	}
	s.videos[v.ID] = copyVideo(v)
	return nil
}

func (s *Store) GetVideo(_ context.Context, id uuid.UUID) (*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyVideo(v), nil
}

func (s *Store) GetVideoByUploadID(_ context.Context, uploadID string) (*models.Video, error) {
	return s.findVideo(func(v *models.Video) bool { return v.UploadID != nil && *v.UploadID == uploadID })
}

func (s *Store) GetVideoByAssetID(_ context.Context, assetID string) (*models.Video, error) {
	return s.findVideo(func(v *models.Video) bool { return v.AssetID != nil && *v.AssetID == assetID })
}

func (s *Store) findVideo(match func(*models.Video) bool) (*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.videos {
		if match(v) {
			return copyVideo(v), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListVideos(_ context.Context, statuses []models.VideoStatus) ([]models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[models.VideoStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}
	out := make([]models.Video, 0, len(s.videos))
	for _, v := range s.videos {
		if len(want) == 0 || want[v.Status] {
			out = append(out, *copyVideo(v))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateVideo(_ context.Context, id uuid.UUID, patch store.VideoPatch) (*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !patch.Holds(v) {
		return nil, store.ErrConflict
	}
	if patch.AssetID != nil {
		for otherID, other := range s.videos {
			if otherID != id && other.AssetID != nil && *other.AssetID == *patch.AssetID {
				return nil, store.ErrConflict
			}
		}
	}
	patch.Apply(v, s.now())
	return copyVideo(v), nil
}

func (s *Store) CreateMoments(_ context.Context, ms []models.Moment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range ms {
		if _, ok := s.videos[ms[i].VideoID]; !ok {
			return store.ErrNotFound
		}
	}
	now := s.now()
	for i := range ms {
		if ms[i].ID == uuid.Nil {
			ms[i].ID = uuid.New()
		}
		if ms[i].CreatedAt.IsZero() {
			ms[i].CreatedAt = now
		}
		m := ms[i]
		m.Clips = nil
		s.moments[m.ID] = &m
		s.momentOrder = append(s.momentOrder, m.ID)
	}
	return nil
}

func (s *Store) ListMoments(_ context.Context, videoID uuid.UUID) ([]models.Moment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Moment{}
	for _, id := range s.momentOrder {
		if m, ok := s.moments[id]; ok && m.VideoID == videoID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *Store) GetMoment(_ context.Context, id uuid.UUID) (*models.Moment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.moments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) UpdateMoment(_ context.Context, m *models.Moment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.moments[m.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *m
	cp.Clips = nil
	s.moments[m.ID] = &cp
	return nil
}

func (s *Store) CreateClip(_ context.Context, c *models.Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.moments[c.MomentID]; !ok {
		return store.ErrNotFound
	}
	for _, other := range s.clips {
		if other.AssetID == c.AssetID {
			return store.ErrConflict
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.clips[c.ID] = copyClip(c)
	return nil
}

func (s *Store) GetClip(_ context.Context, id uuid.UUID) (*models.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyClip(c), nil
}

func (s *Store) UpdateClip(_ context.Context, c *models.Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clips[c.ID]; !ok {
		return store.ErrNotFound
	}
	c.UpdatedAt = s.now()
	s.clips[c.ID] = copyClip(c)
	return nil
}

func (s *Store) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.videos))
	s.videos = make(map[uuid.UUID]*models.Video)
	s.moments = make(map[uuid.UUID]*models.Moment)
	s.clips = make(map[uuid.UUID]*models.Clip)
	s.momentOrder = nil
	return n, nil
}

// DeleteVideo removes one video with its moments and clips.
func (s *Store) DeleteVideo(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.videos, id)
	kept := s.momentOrder[:0]
	for _, mid := range s.momentOrder {
		m := s.moments[mid]
		if m.VideoID != id {
			kept = append(kept, mid)
			continue
		}
		delete(s.moments, mid)
		for cid, c := range s.clips {
			if c.MomentID == mid {
				delete(s.clips, cid)
			}
		}
	}
	s.momentOrder = kept
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func copyVideo(v *models.Video) *models.Video {
	cp := *v
	cp.Moments = nil
	cp.UploadID = cloneStr(v.UploadID)
	cp.AssetID = cloneStr(v.AssetID)
	cp.PlaybackID = cloneStr(v.PlaybackID)
	cp.ErrorMessage = cloneStr(v.ErrorMessage)
	cp.Transcript = cloneStr(v.Transcript)
	if v.Duration != nil {
		d := *v.Duration
		cp.Duration = &d
	}
	return &cp
}

func copyClip(c *models.Clip) *models.Clip {
	cp := *c
	cp.PlaybackID = cloneStr(c.PlaybackID)
	cp.DownloadURL = cloneStr(c.DownloadURL)
	cp.Hashtags = append([]string(nil), c.Hashtags...)
	return &cp
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
