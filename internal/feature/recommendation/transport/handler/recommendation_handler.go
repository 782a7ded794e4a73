// Package handler はrecommendationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"news_backend/internal/api"
	"news_backend/internal/feature/recommendation/domain/entity"
	"news_backend/internal/feature/recommendation/usecase"
)

// RecommendationUsecase は日次推奨操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type RecommendationUsecase interface {
	GenerateDaily(ctx context.Context) (*entity.DailyInvestmentRecommendation, error)
	LatestRecommendation(ctx context.Context) (*entity.DailyInvestmentRecommendation, error)
	RecommendationByDate(ctx context.Context, date string) (*entity.DailyInvestmentRecommendation, error)
	ListRecommendations(ctx context.Context) ([]entity.DailyInvestmentRecommendation, error)
}

// RecommendationHandler は日次推奨のHTTPリクエストを処理します。
type RecommendationHandler struct {
	uc RecommendationUsecase
}

// NewRecommendationHandler は指定されたusecaseでRecommendationHandlerの新しいインスタンスを生成します。
func NewRecommendationHandler(uc RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

// Generate は日次推奨の生成を手動でトリガーします。
// 同日の推奨が既に存在する場合は既存の推奨をそのまま返します。
//
// エンドポイント例:
// POST /recommendations/generate
func (h *RecommendationHandler) Generate(c *gin.Context) {
	rec, err := h.uc.GenerateDaily(c.Request.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrNoRecentAnalyses) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "no recent analyses available"})
			return
		}
		// 推論失敗の詳細はログにのみ残し、クライアントには汎用エラーを返す
		slog.Error("recommendation generation failed", "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to generate recommendation"})
		return
	}
	c.JSON(http.StatusOK, toRecommendationResponse(*rec))
}

// Latest は最新日付の推奨をJSONで返します。
//
// エンドポイント例:
// GET /recommendations/latest
func (h *RecommendationHandler) Latest(c *gin.Context) {
	rec, err := h.uc.LatestRecommendation(c.Request.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrRecommendationNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no recommendation available"})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to load recommendation"})
		return
	}
	c.JSON(http.StatusOK, toRecommendationResponse(*rec))
}

// ByDate は指定日の推奨をJSONで返します。
//
// エンドポイント例:
// GET /recommendations/2026-09-01
func (h *RecommendationHandler) ByDate(c *gin.Context) {
	rec, err := h.uc.RecommendationByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		if errors.Is(err, usecase.ErrRecommendationNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no recommendation for date"})
			return
		}
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid date"})
		return
	}
	c.JSON(http.StatusOK, toRecommendationResponse(*rec))
}

// List は全推奨を日付の降順でJSONで返します。
//
// エンドポイント例:
// GET /recommendations
func (h *RecommendationHandler) List(c *gin.Context) {
	recs, err := h.uc.ListRecommendations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to load recommendations"})
		return
	}
	out := make([]api.RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecommendationResponse(rec))
	}
	c.JSON(http.StatusOK, out)
}

func toRecommendationResponse(rec entity.DailyInvestmentRecommendation) api.RecommendationResponse {
	out := api.RecommendationResponse{
		ID:                     rec.ID,
		Date:                   rec.Date,
		Summary:                rec.Summary,
		OverallSentiment:       string(rec.OverallSentiment),
		RecommendedInvestments: make([]api.RecommendedInvestmentResponse, 0, len(rec.RecommendedInvestments)),
	}
	for _, inv := range rec.RecommendedInvestments {
		out.RecommendedInvestments = append(out.RecommendedInvestments, api.RecommendedInvestmentResponse{
			ID:                 inv.ID,
			IndustryName:       inv.IndustryName,
			CompanyName:        inv.CompanyName,
			StockSymbol:        inv.StockSymbol,
			RecommendationType: string(inv.RecommendationType),
			ConfidenceScore:    inv.ConfidenceScore,
			Rationale:          inv.Rationale,
		})
	}
	return out
}
