package models

import (
	"time"

	"github.com/google/uuid"
)

// Clip is a remote clip asset cut from a Moment.
type Clip struct {
	ID          uuid.UUID  `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	MomentID    uuid.UUID  `json:"moment_id" gorm:"column:moment_id;type:uuid;not null;index"`
	AssetID     string     `json:"asset_id" gorm:"column:asset_id;type:varchar(255);not null;uniqueIndex"`
	PlaybackID  *string    `json:"playback_id,omitempty" gorm:"column:playback_id;type:varchar(255)"`
	DownloadURL *string    `json:"download_url,omitempty" gorm:"column:download_url;type:text"`
	Status      ClipStatus `json:"status" gorm:"column:status;type:varchar(32);not null"`
	Caption     string     `json:"caption" gorm:"column:caption;type:text"`
	Hashtags    []string   `json:"hashtags" gorm:"column:hashtags;serializer:json;type:jsonb"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Clip) TableName() string { return "clips" }
