// Package adapters はrecommendationフィーチャーの永続化層を実装します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"news_backend/internal/feature/recommendation/domain/entity"
	"news_backend/internal/feature/recommendation/usecase"
)

type recommendationGorm struct {
	db *gorm.DB
}

// recommendationGormがRecommendationRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.RecommendationRepository = (*recommendationGorm)(nil)

// NewRecommendationRepository はgorm実装のRecommendationRepositoryを生成します。
func NewRecommendationRepository(db *gorm.DB) *recommendationGorm {
	return &recommendationGorm{db: db}
}

// DailyInvestmentRecommendationModel はdaily_investment_recommendationsテーブルの永続化モデルです。
// Dateのユニークインデックスが「1日1件」の不変条件をストアの制約として保証します。
type DailyInvestmentRecommendationModel struct {
	ID                     uint                         `gorm:"primaryKey"`
	Date                   string                       `gorm:"size:10;not null;uniqueIndex"`
	Summary                string                       `gorm:"type:text"`
	OverallSentiment       string                       `gorm:"size:16;not null"`
	RecommendedInvestments []RecommendedInvestmentModel `gorm:"foreignKey:RecommendationID;constraint:OnDelete:CASCADE"`
}

func (DailyInvestmentRecommendationModel) TableName() string {
	return "daily_investment_recommendations"
}

// RecommendedInvestmentModel はrecommended_investmentsテーブルの永続化モデルです。
type RecommendedInvestmentModel struct {
	ID                 uint   `gorm:"primaryKey"`
	RecommendationID   uint   `gorm:"not null;index"`
	IndustryName       string `gorm:"size:256"`
	CompanyName        string `gorm:"size:256;not null"`
	StockSymbol        string `gorm:"size:32"`
	RecommendationType string `gorm:"size:8;not null"`
	ConfidenceScore    int    `gorm:"not null"`
	Rationale          string `gorm:"type:text"`
}

func (RecommendedInvestmentModel) TableName() string {
	return "recommended_investments"
}

// SaveGraph は推奨グラフ全体（推奨、個別投資）を1つのトランザクションで永続化し、
// 採番されたIDをエンティティに書き戻します。途中で失敗した場合は全体がロールバックされます。
func (r *recommendationGorm) SaveGraph(ctx context.Context, rec *entity.DailyInvestmentRecommendation) error {
	if rec == nil {
		return errors.New("recommendation is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		root := DailyInvestmentRecommendationModel{
			Date:             rec.Date,
			Summary:          rec.Summary,
			OverallSentiment: string(rec.OverallSentiment),
		}
		if err := tx.Create(&root).Error; err != nil {
			return err
		}
		rec.ID = root.ID

		for i := range rec.RecommendedInvestments {
			inv := &rec.RecommendedInvestments[i]
			m := RecommendedInvestmentModel{
				RecommendationID:   root.ID,
				IndustryName:       inv.IndustryName,
				CompanyName:        inv.CompanyName,
				StockSymbol:        inv.StockSymbol,
				RecommendationType: string(inv.RecommendationType),
				ConfidenceScore:    inv.ConfidenceScore,
				Rationale:          inv.Rationale,
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			inv.ID = m.ID
			inv.RecommendationID = root.ID
		}
		return nil
	})
}

// FindByDate は指定日の推奨を返します。存在しない場合は(nil, nil)を返します。
func (r *recommendationGorm) FindByDate(ctx context.Context, date string) (*entity.DailyInvestmentRecommendation, error) {
	var m DailyInvestmentRecommendationModel
	if err := r.db.WithContext(ctx).
		Preload("RecommendedInvestments").
		Where("date = ?", date).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	e := toRecommendationEntity(m)
	return &e, nil
}

// FindLatest は最新日付の推奨を返します。存在しない場合はErrRecommendationNotFoundを返します。
func (r *recommendationGorm) FindLatest(ctx context.Context) (*entity.DailyInvestmentRecommendation, error) {
	var m DailyInvestmentRecommendationModel
	if err := r.db.WithContext(ctx).
		Preload("RecommendedInvestments").
		Order("date DESC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRecommendationNotFound
		}
		return nil, err
	}
	e := toRecommendationEntity(m)
	return &e, nil
}

// FindAll は全推奨を日付の降順で返します。
func (r *recommendationGorm) FindAll(ctx context.Context) ([]entity.DailyInvestmentRecommendation, error) {
	var rows []DailyInvestmentRecommendationModel
	if err := r.db.WithContext(ctx).
		Preload("RecommendedInvestments").
		Order("date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.DailyInvestmentRecommendation, 0, len(rows))
	for _, m := range rows {
		out = append(out, toRecommendationEntity(m))
	}
	return out, nil
}

func toRecommendationEntity(m DailyInvestmentRecommendationModel) entity.DailyInvestmentRecommendation {
	e := entity.DailyInvestmentRecommendation{
		ID:               m.ID,
		Date:             m.Date,
		Summary:          m.Summary,
		OverallSentiment: entity.Sentiment(m.OverallSentiment),
	}
	for _, inv := range m.RecommendedInvestments {
		e.RecommendedInvestments = append(e.RecommendedInvestments, entity.RecommendedInvestment{
			ID:                 inv.ID,
			RecommendationID:   inv.RecommendationID,
			IndustryName:       inv.IndustryName,
			CompanyName:        inv.CompanyName,
			StockSymbol:        inv.StockSymbol,
			RecommendationType: entity.RecommendationType(inv.RecommendationType),
			ConfidenceScore:    inv.ConfidenceScore,
			Rationale:          inv.Rationale,
		})
	}
	return e
}
