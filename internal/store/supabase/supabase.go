// Package supabase stores rows through the Supabase PostgREST API.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/SravanthiSinha/SmartClip/internal/store"
	"github.com/SravanthiSinha/SmartClip/models"
)

const (
	videosTable  = "videos"
	momentsTable = "moments"
	clipsTable   = "clips"
)

// Store implements store.Store on a Supabase project. The schema is in
// migrations/001_init.sql.
type Store struct {
	client *supa.Client
	log    *logrus.Logger
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

func New(client *supa.Client, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{client: client, log: logger, now: time.Now}
}

func (s *Store) from(table string) *postgrest.QueryBuilder {
	return s.client.From(table)
}

func (s *Store) CreateVideo(_ context.Context, v *models.Video) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	now := s.now()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now

	var results []models.Video
	_, err := s.from(videosTable).Insert(v, false, "", "representation", "").ExecuteTo(&results)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no record returned after insert, video id: %s", v.ID)
	}
	s.log.WithField("video_id", v.ID).Debug("Video row created")
	return nil
}

func (s *Store) GetVideo(_ context.Context, id uuid.UUID) (*models.Video, error) {
	return s.oneVideo("id", id.String())
}

func (s *Store) GetVideoByUploadID(_ context.Context, uploadID string) (*models.Video, error) {
	return s.oneVideo("upload_id", uploadID)
}

func (s *Store) GetVideoByAssetID(_ context.Context, assetID string) (*models.Video, error) {
	return s.oneVideo("asset_id", assetID)
}

func (s *Store) oneVideo(column, value string) (*models.Video, error) {
	var rows []models.Video
	_, err := s.from(videosTable).Select("*", "", false).Eq(column, value).ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("select video by %s: %w", column, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return &rows[0], nil
}

func (s *Store) ListVideos(_ context.Context, statuses []models.VideoStatus) ([]models.Video, error) {
	q := s.from(videosTable).Select("*", "", false)
	if len(statuses) > 0 {
		vals := make([]string, len(statuses))
		for i, st := range statuses {
			vals[i] = string(st)
		}
		q = q.In("status", vals)
	}
	var rows []models.Video
	_, err := q.Order("created_at", &postgrest.OrderOpts{Ascending: false}).ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	if rows == nil {
		rows = []models.Video{}
	}
	return rows, nil
}

func (s *Store) UpdateVideo(ctx context.Context, id uuid.UUID, patch store.VideoPatch) (*models.Video, error) {
	q := s.from(videosTable).Update(patch.Columns(s.now()), "representation", "").Eq("id", id.String())
	if patch.ExpectStatus != nil {
		q = q.Eq("status", string(*patch.ExpectStatus))
	}
	if patch.RequireNoAsset {
		q = q.Is("asset_id", "null")
	}
	var rows []models.Video
	if _, err := q.ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("update video %s: %w", id, err)
	}
	if len(rows) > 0 {
		return &rows[0], nil
	}
	// Nothing matched: either the row is gone or a guard failed.
	if _, err := s.GetVideo(ctx, id); err != nil {
		return nil, err
	}
	return nil, store.ErrConflict
}

func (s *Store) CreateMoments(_ context.Context, ms []models.Moment) error {
	if len(ms) == 0 {
		return nil
	}
	now := s.now()
	for i := range ms {
		if ms[i].ID == uuid.Nil {
			ms[i].ID = uuid.New()
		}
		if ms[i].CreatedAt.IsZero() {
			ms[i].CreatedAt = now
		}
	}
	if _, _, err := s.from(momentsTable).Insert(ms, false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("insert moments: %w", err)
	}
	return nil
}

func (s *Store) ListMoments(_ context.Context, videoID uuid.UUID) ([]models.Moment, error) {
	var rows []models.Moment
	_, err := s.from(momentsTable).Select("*", "", false).
		Eq("video_id", videoID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("list moments: %w", err)
	}
	if rows == nil {
		rows = []models.Moment{}
	}
	return rows, nil
}

func (s *Store) GetMoment(_ context.Context, id uuid.UUID) (*models.Moment, error) {
	var rows []models.Moment
	if _, err := s.from(momentsTable).Select("*", "", false).Eq("id", id.String()).ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("select moment: %w", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return &rows[0], nil
}

func (s *Store) UpdateMoment(_ context.Context, m *models.Moment) error {
	updateData := map[string]any{
		"start_time":  m.StartTime,
		"end_time":    m.EndTime,
		"title":       m.Title,
		"description": m.Description,
		"reason":      m.Reason,
		"score":       m.Score,
	}
	var rows []models.Moment
	if _, err := s.from(momentsTable).Update(updateData, "representation", "").Eq("id", m.ID.String()).ExecuteTo(&rows); err != nil {
		return fmt.Errorf("update moment %s: %w", m.ID, err)
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateClip(_ context.Context, c *models.Clip) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Hashtags == nil {
		c.Hashtags = []string{}
	}
	var results []models.Clip
	if _, err := s.from(clipsTable).Insert(c, false, "", "representation", "").ExecuteTo(&results); err != nil {
		return fmt.Errorf("insert clip: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no record returned after insert, clip id: %s", c.ID)
	}
	return nil
}

func (s *Store) GetClip(_ context.Context, id uuid.UUID) (*models.Clip, error) {
	bodyBytes, _, err := s.from(clipsTable).Select("*", "", false).Eq("id", id.String()).Execute()
	if err != nil {
		return nil, fmt.Errorf("select clip: %w", err)
	}
	var rows []models.Clip
	if err := json.Unmarshal(bodyBytes, &rows); err != nil {
		return nil, fmt.Errorf("decode clip: %w", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return &rows[0], nil
}

func (s *Store) UpdateClip(_ context.Context, c *models.Clip) error {
	c.UpdatedAt = s.now()
	updateData := map[string]any{
		"status":       string(c.Status),
		"playback_id":  c.PlaybackID,
		"download_url": c.DownloadURL,
		"updated_at":   c.UpdatedAt,
	}
	var rows []models.Clip
	if _, err := s.from(clipsTable).Update(updateData, "representation", "").Eq("id", c.ID.String()).ExecuteTo(&rows); err != nil {
		return fmt.Errorf("update clip %s: %w", c.ID, err)
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAll relies on ON DELETE CASCADE for moments and clips.
func (s *Store) DeleteAll(_ context.Context) (int64, error) {
	_, count, err := s.from(videosTable).Delete("minimal", "exact").Neq("id", uuid.Nil.String()).Execute()
	if err != nil {
		return 0, fmt.Errorf("delete videos: %w", err)
	}
	return count, nil
}

func (s *Store) Ping(_ context.Context) error {
	if _, _, err := s.from(videosTable).Select("id", "", false).Limit(1, "").Execute(); err != nil {
		return fmt.Errorf("supabase ping: %w", err)
	}
	return nil
}
