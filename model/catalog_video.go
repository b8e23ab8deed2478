package model

import (
	"strings"
	"time"
)

// CatalogVideo catalog_videos 表中的一行，目录加载的数据库来源
type CatalogVideo struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	VideoID   string    `gorm:"column:video_id;type:varchar(128);uniqueIndex;not null" json:"videoId"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Tags      string    `gorm:"type:varchar(1024);not null;default:''" json:"tags"` // 逗号分隔，如 "#cat,#animal"
	Position  int       `gorm:"not null;default:0;index" json:"position"`           // 加载顺序
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (CatalogVideo) TableName() string {
	return "catalog_videos"
}

// NewCatalogVideo 由加载记录构造数据库行
func NewCatalogVideo(r Record, position int) *CatalogVideo {
	return &CatalogVideo{
		VideoID:  r.ID,
		Title:    r.Title,
		Tags:     strings.Join(r.Tags, ","),
		Position: position,
	}
}
