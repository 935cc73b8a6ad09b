package models

import (
	"time"

	"github.com/google/uuid"
)

// Video is one uploaded source video and its processing state.
type Video struct {
	ID           uuid.UUID   `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	UploadID     *string     `json:"upload_id,omitempty" gorm:"column:upload_id;type:varchar(255);uniqueIndex"`
	AssetID      *string     `json:"asset_id,omitempty" gorm:"column:asset_id;type:varchar(255);uniqueIndex"`
	PlaybackID   *string     `json:"playback_id,omitempty" gorm:"column:playback_id;type:varchar(255)"`
	Duration     *float64    `json:"duration,omitempty" gorm:"column:duration;type:double precision"`
	Status       VideoStatus `json:"status" gorm:"column:status;type:varchar(32);not null;index"`
	ErrorMessage *string     `json:"error_message,omitempty" gorm:"column:error_message;type:text"`
	Transcript   *string     `json:"transcript,omitempty" gorm:"column:transcript;type:text"`
	CreatedAt    time.Time   `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	Moments      []Moment    `json:"-" gorm:"foreignKey:VideoID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Video) TableName() string { return "videos" }

// HasAsset reports whether the hosting platform has created an asset for the video.
func (v *Video) HasAsset() bool {
	return v.AssetID != nil && *v.AssetID != ""
}
