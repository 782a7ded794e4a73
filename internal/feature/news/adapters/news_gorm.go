// Package adapters はnewsフィーチャーの永続化層を実装します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"news_backend/internal/feature/news/adapters/scrape"
	"news_backend/internal/feature/news/domain/entity"
	"news_backend/internal/feature/news/usecase"
)

type newsGorm struct {
	db *gorm.DB
}

// newsGormがNewsRepositoryとDedupCheckerを実装していることをコンパイル時に検証します。
var (
	_ usecase.NewsRepository = (*newsGorm)(nil)
	_ scrape.DedupChecker    = (*newsGorm)(nil)
)

// NewNewsRepository はgorm実装のNewsRepositoryを生成します。
func NewNewsRepository(db *gorm.DB) *newsGorm {
	return &newsGorm{db: db}
}

// NewsModel はnewsテーブルの永続化モデルです。
// URLのユニークインデックスが重複排除の根拠です（同時書き込みでもストアの制約で保証される）。
type NewsModel struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:512;not null"`
	Content     string    `gorm:"size:2000"`
	Source      string    `gorm:"size:128;not null"`
	URL         string    `gorm:"size:768;not null;uniqueIndex"`
	PublishedAt time.Time `gorm:"not null"`
	CollectedAt time.Time `gorm:"not null;index"`
}

func (NewsModel) TableName() string {
	return "news"
}

func toNewsModel(e entity.News) NewsModel {
	return NewsModel{
		ID:          e.ID,
		Title:       e.Title,
		Content:     e.Content,
		Source:      e.Source,
		URL:         e.URL,
		PublishedAt: e.PublishedAt,
		CollectedAt: e.CollectedAt,
	}
}

func toNewsEntity(m NewsModel) entity.News {
	return entity.News{
		ID:          m.ID,
		Title:       m.Title,
		Content:     m.Content,
		Source:      m.Source,
		URL:         m.URL,
		PublishedAt: m.PublishedAt,
		CollectedAt: m.CollectedAt,
	}
}

// Create は新しいニュース記事を永続化し、採番されたIDをエンティティに書き戻します。
func (r *newsGorm) Create(ctx context.Context, news *entity.News) error {
	if news == nil {
		return errors.New("news is nil")
	}
	m := toNewsModel(*news)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	news.ID = m.ID
	return nil
}

// ExistsByURL は同一URLの記事が既に存在するかを返します。
func (r *newsGorm) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&NewsModel{}).
		Where("url = ?", url).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll は全ニュース記事を収集時刻の降順で返します。
func (r *newsGorm) FindAll(ctx context.Context) ([]entity.News, error) {
	var rows []NewsModel
	if err := r.db.WithContext(ctx).
		Order("collected_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toNewsEntities(rows), nil
}

// FindRecent は収集時刻の降順で最大limit件のニュース記事を返します。
func (r *newsGorm) FindRecent(ctx context.Context, limit int) ([]entity.News, error) {
	var rows []NewsModel
	if err := r.db.WithContext(ctx).
		Order("collected_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toNewsEntities(rows), nil
}

// FindByID は指定IDのニュース記事を返します。存在しない場合はErrNewsNotFoundを返します。
func (r *newsGorm) FindByID(ctx context.Context, id uint) (*entity.News, error) {
	var m NewsModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrNewsNotFound
		}
		return nil, err
	}
	e := toNewsEntity(m)
	return &e, nil
}

// SearchByTitle はタイトルの部分一致（大文字小文字を無視）でニュース記事を検索します。
func (r *newsGorm) SearchByTitle(ctx context.Context, query string) ([]entity.News, error) {
	var rows []NewsModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("collected_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toNewsEntities(rows), nil
}

func toNewsEntities(rows []NewsModel) []entity.News {
	out := make([]entity.News, 0, len(rows))
	for _, m := range rows {
		out = append(out, toNewsEntity(m))
	}
	return out
}
