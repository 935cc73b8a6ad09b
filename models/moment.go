package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMomentScore is used when the model omits a confidence score.
const DefaultMomentScore = 0.8

// Moment is a candidate clip-worthy segment of a Video.
type Moment struct {
	ID          uuid.UUID `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	VideoID     uuid.UUID `json:"video_id" gorm:"column:video_id;type:uuid;not null;index"`
	StartTime   float64   `json:"start_time" gorm:"column:start_time;type:double precision;not null"`
	EndTime     float64   `json:"end_time" gorm:"column:end_time;type:double precision;not null"`
	Title       string    `json:"title" gorm:"column:title;type:varchar(255);not null"`
	Description string    `json:"description" gorm:"column:description;type:text"`
	Reason      string    `json:"reason" gorm:"column:reason;type:text"`
	Score       float64   `json:"score" gorm:"column:score;type:double precision;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	Clips       []Clip    `json:"-" gorm:"foreignKey:MomentID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Moment) TableName() string { return "moments" }

// Duration is the length of the moment in seconds.
func (m Moment) Duration() float64 {
	return m.EndTime - m.StartTime
}

// EngagementPotential buckets the confidence score for display.
func (m Moment) EngagementPotential() string {
	switch {
	case m.Score >= 0.8:
		return "high"
	case m.Score >= 0.6:
		return "medium"
	default:
		return "low"
	}
}
