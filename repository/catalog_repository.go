package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"VidPlayer/core/catalog"
	"VidPlayer/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository 目录数据访问接口
type CatalogRepository interface {
	// List 按 position 顺序返回全部目录行
	List(ctx context.Context) ([]*model.CatalogVideo, error)
	// GetByVideoID 未找到时返回 nil, nil
	GetByVideoID(ctx context.Context, videoID string) (*model.CatalogVideo, error)
	// Upsert 按 video_id 插入或更新
	Upsert(ctx context.Context, v *model.CatalogVideo) error
	Count(ctx context.Context) (int64, error)
}

// ========== GORM (MySQL) ==========

// gormCatalogRepository GORM 实现
type gormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository 创建 GORM 目录仓库
func NewGormCatalogRepository(db *gorm.DB) CatalogRepository {
	return &gormCatalogRepository{db: db}
}

func (r *gormCatalogRepository) List(ctx context.Context) ([]*model.CatalogVideo, error) {
	var rows []*model.CatalogVideo
	err := r.db.WithContext(ctx).Order("position ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *gormCatalogRepository) GetByVideoID(ctx context.Context, videoID string) (*model.CatalogVideo, error) {
	var v model.CatalogVideo
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&v).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *gormCatalogRepository) Upsert(ctx context.Context, v *model.CatalogVideo) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "tags", "position", "updated_at"}),
	}).Create(v).Error
}

func (r *gormCatalogRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CatalogVideo{}).Count(&n).Error
	return n, err
}

// ========== database/sql (SQLite) ==========

// sqlCatalogRepository database/sql 实现，用于 SQLite
type sqlCatalogRepository struct {
	db *sql.DB
}

// NewSQLCatalogRepository 创建基于 database/sql 的目录仓库
func NewSQLCatalogRepository(db *sql.DB) CatalogRepository {
	return &sqlCatalogRepository{db: db}
}

const catalogColumns = "id, video_id, title, tags, position, created_at, updated_at"

func scanCatalogVideo(row interface{ Scan(...interface{}) error }) (*model.CatalogVideo, error) {
	var v model.CatalogVideo
	if err := row.Scan(&v.ID, &v.VideoID, &v.Title, &v.Tags, &v.Position, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *sqlCatalogRepository) List(ctx context.Context) ([]*model.CatalogVideo, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+catalogColumns+" FROM catalog_videos ORDER BY position ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.CatalogVideo
	for rows.Next() {
		v, err := scanCatalogVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *sqlCatalogRepository) GetByVideoID(ctx context.Context, videoID string) (*model.CatalogVideo, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+catalogColumns+" FROM catalog_videos WHERE video_id = ?", videoID)
	v, err := scanCatalogVideo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *sqlCatalogRepository) Upsert(ctx context.Context, v *model.CatalogVideo) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO catalog_videos (video_id, title, tags, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			title = excluded.title,
			tags = excluded.tags,
			position = excluded.position,
			updated_at = excluded.updated_at`,
		v.VideoID, v.Title, v.Tags, v.Position, now, now)
	return err
}

func (r *sqlCatalogRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog_videos").Scan(&n)
	return n, err
}

// ========== catalog.Source ==========

// CatalogSource 将目录仓库适配为 catalog.Source
type CatalogSource struct {
	repo CatalogRepository
	name string
}

// NewCatalogSource name 用于错误信息，如 "mysql:vidplayer"
func NewCatalogSource(repo CatalogRepository, name string) *CatalogSource {
	return &CatalogSource{repo: repo, name: name}
}

// Name implements catalog.Source.
func (s *CatalogSource) Name() string {
	return s.name
}

// Load implements catalog.Source.
func (s *CatalogSource) Load(ctx context.Context) ([]model.Record, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog videos: %w", err)
	}
	records := make([]model.Record, len(rows))
	for i, row := range rows {
		records[i] = model.Record{
			Title: row.Title,
			ID:    row.VideoID,
			Tags:  catalog.SplitTags(row.Tags),
		}
	}
	return records, nil
}

// Import 将记录按顺序写入仓库，已存在的 video_id 会被覆盖
func Import(ctx context.Context, repo CatalogRepository, records []model.Record) error {
	for i, r := range records {
		if err := repo.Upsert(ctx, model.NewCatalogVideo(r, i)); err != nil {
			return fmt.Errorf("upsert %s: %w", r.ID, err)
		}
	}
	return nil
}
