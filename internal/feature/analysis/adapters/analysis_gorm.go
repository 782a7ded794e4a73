// Package adapters はanalysisフィーチャーの永続化層を実装します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"news_backend/internal/feature/analysis/domain/entity"
	"news_backend/internal/feature/analysis/usecase"
	newsadapters "news_backend/internal/feature/news/adapters"
	newsentity "news_backend/internal/feature/news/domain/entity"
)

type analysisGorm struct {
	db *gorm.DB
}

// analysisGormがAnalysisRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.AnalysisRepository = (*analysisGorm)(nil)

// NewAnalysisRepository はgorm実装のAnalysisRepositoryを生成します。
func NewAnalysisRepository(db *gorm.DB) *analysisGorm {
	return &analysisGorm{db: db}
}

// NewsAnalysisModel はnews_analysesテーブルの永続化モデルです。
type NewsAnalysisModel struct {
	ID              uint                    `gorm:"primaryKey"`
	NewsID          uint                    `gorm:"not null;index"`
	News            *newsadapters.NewsModel `gorm:"foreignKey:NewsID"`
	AnalysisContent string                  `gorm:"type:text"`
	AnalyzedAt      time.Time               `gorm:"not null;index"`
	IndustryImpacts []IndustryImpactModel   `gorm:"foreignKey:AnalysisID;constraint:OnDelete:CASCADE"`
}

func (NewsAnalysisModel) TableName() string {
	return "news_analyses"
}

// IndustryImpactModel はindustry_impactsテーブルの永続化モデルです。
type IndustryImpactModel struct {
	ID             uint                 `gorm:"primaryKey"`
	AnalysisID     uint                 `gorm:"not null;index"`
	IndustryName   string               `gorm:"size:256;not null"`
	ImpactType     string               `gorm:"size:16;not null"`
	ImpactScore    int                  `gorm:"not null"`
	CompanyImpacts []CompanyImpactModel `gorm:"foreignKey:IndustryImpactID;constraint:OnDelete:CASCADE"`
}

func (IndustryImpactModel) TableName() string {
	return "industry_impacts"
}

// CompanyImpactModel はcompany_impactsテーブルの永続化モデルです。
type CompanyImpactModel struct {
	ID               uint   `gorm:"primaryKey"`
	IndustryImpactID uint   `gorm:"not null;index"`
	CompanyName      string `gorm:"size:256;not null"`
	StockSymbol      string `gorm:"size:32"`
	ImpactType       string `gorm:"size:16;not null"`
	ImpactScore      int    `gorm:"not null"`
}

func (CompanyImpactModel) TableName() string {
	return "company_impacts"
}

// SaveGraph は分析グラフ全体（分析、業界影響、企業影響）を1つのトランザクションで永続化し、
// 採番されたIDをエンティティに書き戻します。途中で失敗した場合は全体がロールバックされます。
func (r *analysisGorm) SaveGraph(ctx context.Context, analysis *entity.NewsAnalysis) error {
	if analysis == nil {
		return errors.New("analysis is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		root := NewsAnalysisModel{
			NewsID:          analysis.NewsID,
			AnalysisContent: analysis.AnalysisContent,
			AnalyzedAt:      analysis.AnalyzedAt,
		}
		if err := tx.Create(&root).Error; err != nil {
			return err
		}
		analysis.ID = root.ID

		for i := range analysis.IndustryImpacts {
			industry := &analysis.IndustryImpacts[i]
			im := IndustryImpactModel{
				AnalysisID:   root.ID,
				IndustryName: industry.IndustryName,
				ImpactType:   string(industry.ImpactType),
				ImpactScore:  industry.ImpactScore,
			}
			if err := tx.Create(&im).Error; err != nil {
				return err
			}
			industry.ID = im.ID
			industry.AnalysisID = root.ID

			for j := range industry.CompanyImpacts {
				company := &industry.CompanyImpacts[j]
				cm := CompanyImpactModel{
					IndustryImpactID: im.ID,
					CompanyName:      company.CompanyName,
					StockSymbol:      company.StockSymbol,
					ImpactType:       string(company.ImpactType),
					ImpactScore:      company.ImpactScore,
				}
				if err := tx.Create(&cm).Error; err != nil {
					return err
				}
				company.ID = cm.ID
				company.IndustryImpactID = im.ID
			}
		}
		return nil
	})
}

// FindAll は全分析を子グラフ込みで分析時刻の降順で返します。
func (r *analysisGorm) FindAll(ctx context.Context) ([]entity.NewsAnalysis, error) {
	var rows []NewsAnalysisModel
	if err := r.withGraph(ctx).
		Order("analyzed_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAnalysisEntities(rows), nil
}

// FindRecent は分析時刻の降順で最大limit件の分析を返します。
func (r *analysisGorm) FindRecent(ctx context.Context, limit int) ([]entity.NewsAnalysis, error) {
	var rows []NewsAnalysisModel
	if err := r.withGraph(ctx).
		Order("analyzed_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAnalysisEntities(rows), nil
}

// FindByID は指定IDの分析を返します。存在しない場合はErrAnalysisNotFoundを返します。
func (r *analysisGorm) FindByID(ctx context.Context, id uint) (*entity.NewsAnalysis, error) {
	var m NewsAnalysisModel
	if err := r.withGraph(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAnalysisNotFound
		}
		return nil, err
	}
	e := toAnalysisEntity(m)
	return &e, nil
}

// FindByAnalyzedAtAfter は指定時刻より後に作成された分析を分析時刻の降順で返します。
func (r *analysisGorm) FindByAnalyzedAtAfter(ctx context.Context, after time.Time) ([]entity.NewsAnalysis, error) {
	var rows []NewsAnalysisModel
	if err := r.withGraph(ctx).
		Where("analyzed_at > ?", after).
		Order("analyzed_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAnalysisEntities(rows), nil
}

func (r *analysisGorm) withGraph(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("News").
		Preload("IndustryImpacts.CompanyImpacts")
}

func toAnalysisEntity(m NewsAnalysisModel) entity.NewsAnalysis {
	e := entity.NewsAnalysis{
		ID:              m.ID,
		NewsID:          m.NewsID,
		AnalysisContent: m.AnalysisContent,
		AnalyzedAt:      m.AnalyzedAt,
	}
	if m.News != nil {
		news := toNewsEntity(*m.News)
		e.News = &news
	}
	for _, im := range m.IndustryImpacts {
		industry := entity.IndustryImpact{
			ID:           im.ID,
			AnalysisID:   im.AnalysisID,
			IndustryName: im.IndustryName,
			ImpactType:   entity.ImpactType(im.ImpactType),
			ImpactScore:  im.ImpactScore,
		}
		for _, cm := range im.CompanyImpacts {
			industry.CompanyImpacts = append(industry.CompanyImpacts, entity.CompanyImpact{
				ID:               cm.ID,
				IndustryImpactID: cm.IndustryImpactID,
				CompanyName:      cm.CompanyName,
				StockSymbol:      cm.StockSymbol,
				ImpactType:       entity.ImpactType(cm.ImpactType),
				ImpactScore:      cm.ImpactScore,
			})
		}
		e.IndustryImpacts = append(e.IndustryImpacts, industry)
	}
	return e
}

func toNewsEntity(m newsadapters.NewsModel) newsentity.News {
	return newsentity.News{
		ID:          m.ID,
		Title:       m.Title,
		Content:     m.Content,
		Source:      m.Source,
		URL:         m.URL,
		PublishedAt: m.PublishedAt,
		CollectedAt: m.CollectedAt,
	}
}

func toAnalysisEntities(rows []NewsAnalysisModel) []entity.NewsAnalysis {
	out := make([]entity.NewsAnalysis, 0, len(rows))
	for _, m := range rows {
		out = append(out, toAnalysisEntity(m))
	}
	return out
}
