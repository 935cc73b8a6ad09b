// Package gormstore stores rows in Postgres through GORM.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SravanthiSinha/SmartClip/internal/store"
	"github.com/SravanthiSinha/SmartClip/models"
)

// Store implements store.Store on a *gorm.DB.
type Store struct {
	db  *gorm.DB
	log *logrus.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to dsn and migrates the schema.
func Open(dsn string, log *logrus.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := New(db, log)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	s.log.Info("Database connection established")
	return s, nil
}

func New(db *gorm.DB, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{db: db, log: log}
}

// Migrate creates or updates the videos, moments and clips tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&models.Video{}, &models.Moment{}, &models.Clip{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}

func (s *Store) CreateVideo(ctx context.Context, v *models.Video) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (s *Store) GetVideo(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	return s.firstVideo(ctx, "id = ?", id)
}

func (s *Store) GetVideoByUploadID(ctx context.Context, uploadID string) (*models.Video, error) {
	return s.firstVideo(ctx, "upload_id = ?", uploadID)
}

func (s *Store) GetVideoByAssetID(ctx context.Context, assetID string) (*models.Video, error) {
	return s.firstVideo(ctx, "asset_id = ?", assetID)
}

func (s *Store) firstVideo(ctx context.Context, query string, arg any) (*models.Video, error) {
	var v models.Video
	err := s.db.WithContext(ctx).Where(query, arg).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select video: %w", err)
	}
	return &v, nil
}

func (s *Store) ListVideos(ctx context.Context, statuses []models.VideoStatus) ([]models.Video, error) {
	q := s.db.WithContext(ctx).Model(&models.Video{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	videos := []models.Video{}
	if err := q.Order("created_at DESC").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

func (s *Store) UpdateVideo(ctx context.Context, id uuid.UUID, patch store.VideoPatch) (*models.Video, error) {
	q := s.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id)
	if patch.ExpectStatus != nil {
		q = q.Where("status = ?", *patch.ExpectStatus)
	}
	if patch.RequireNoAsset {
		q = q.Where("asset_id IS NULL")
	}
	res := q.Updates(patch.Columns(time.Now()))
	if res.Error != nil {
		return nil, fmt.Errorf("update video %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetVideo(ctx, id); err != nil {
			return nil, err
		}
		return nil, store.ErrConflict
	}
	return s.GetVideo(ctx, id)
}

func (s *Store) CreateMoments(ctx context.Context, ms []models.Moment) error {
	if len(ms) == 0 {
		return nil
	}
	for i := range ms {
		if ms[i].ID == uuid.Nil {
			ms[i].ID = uuid.New()
		}
	}
	if err := s.db.WithContext(ctx).Omit("Clips").Create(&ms).Error; err != nil {
		return fmt.Errorf("insert moments: %w", err)
	}
	return nil
}

func (s *Store) ListMoments(ctx context.Context, videoID uuid.UUID) ([]models.Moment, error) {
	moments := []models.Moment{}
	err := s.db.WithContext(ctx).Where("video_id = ?", videoID).Order("created_at ASC").Find(&moments).Error
	if err != nil {
		return nil, fmt.Errorf("list moments: %w", err)
	}
	return moments, nil
}

func (s *Store) GetMoment(ctx context.Context, id uuid.UUID) (*models.Moment, error) {
	var m models.Moment
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select moment: %w", err)
	}
	return &m, nil
}

func (s *Store) UpdateMoment(ctx context.Context, m *models.Moment) error {
	res := s.db.WithContext(ctx).Model(&models.Moment{}).Where("id = ?", m.ID).Updates(map[string]any{
		"start_time":  m.StartTime,
		"end_time":    m.EndTime,
		"title":       m.Title,
		"description": m.Description,
		"reason":      m.Reason,
		"score":       m.Score,
	})
	if res.Error != nil {
		return fmt.Errorf("update moment %s: %w", m.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateClip(ctx context.Context, c *models.Clip) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("insert clip: %w", err)
	}
	return nil
}

func (s *Store) GetClip(ctx context.Context, id uuid.UUID) (*models.Clip, error) {
	var c models.Clip
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select clip: %w", err)
	}
	return &c, nil
}

func (s *Store) UpdateClip(ctx context.Context, c *models.Clip) error {
	res := s.db.WithContext(ctx).Model(&models.Clip{}).Where("id = ?", c.ID).Updates(map[string]any{
		"status":       c.Status,
		"playback_id":  c.PlaybackID,
		"download_url": c.DownloadURL,
	})
	if res.Error != nil {
		return fmt.Errorf("update clip %s: %w", c.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAll relies on the OnDelete:CASCADE constraints for moments and clips.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Video{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete videos: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
