// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"news_backend/internal/api"
	"news_backend/internal/feature/analysis/domain/entity"
	"news_backend/internal/feature/analysis/usecase"
)

// AnalysisUsecase は分析操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalysisUsecase interface {
	ListAnalyses(ctx context.Context) ([]entity.NewsAnalysis, error)
	RecentAnalyses(ctx context.Context) ([]entity.NewsAnalysis, error)
	GetAnalysis(ctx context.Context, id uint) (*entity.NewsAnalysis, error)
}

// AnalysisHandler は分析のHTTPリクエストを処理します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler は指定されたusecaseでAnalysisHandlerの新しいインスタンスを生成します。
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// List は全分析を分析時刻の降順でJSONで返します。
//
// エンドポイント例:
// GET /analysis
func (h *AnalysisHandler) List(c *gin.Context) {
	analyses, err := h.uc.ListAnalyses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to load analyses"})
		return
	}
	c.JSON(http.StatusOK, toAnalysisResponses(analyses))
}

// Recent は最近の分析をJSONで返します。
//
// エンドポイント例:
// GET /analysis/recent
func (h *AnalysisHandler) Recent(c *gin.Context) {
	analyses, err := h.uc.RecentAnalyses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to load analyses"})
		return
	}
	c.JSON(http.StatusOK, toAnalysisResponses(analyses))
}

// Get は指定IDの分析を子グラフ込みでJSONで返します。
//
// エンドポイント例:
// GET /analysis/:id
func (h *AnalysisHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return
	}
	analysis, err := h.uc.GetAnalysis(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, usecase.ErrAnalysisNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "analysis not found"})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to load analysis"})
		return
	}
	c.JSON(http.StatusOK, toAnalysisResponse(*analysis))
}

func toAnalysisResponse(a entity.NewsAnalysis) api.AnalysisResponse {
	out := api.AnalysisResponse{
		ID:              a.ID,
		NewsID:          a.NewsID,
		AnalysisContent: a.AnalysisContent,
		AnalyzedAt:      a.AnalyzedAt,
		IndustryImpacts: make([]api.IndustryImpactResponse, 0, len(a.IndustryImpacts)),
	}
	if a.News != nil {
		out.News = &api.NewsResponse{
			ID:          a.News.ID,
			Title:       a.News.Title,
			Content:     a.News.Content,
			Source:      a.News.Source,
			URL:         a.News.URL,
			PublishedAt: a.News.PublishedAt,
			CollectedAt: a.News.CollectedAt,
		}
	}
	for _, ind := range a.IndustryImpacts {
		impacts := make([]api.CompanyImpactResponse, 0, len(ind.CompanyImpacts))
		for _, comp := range ind.CompanyImpacts {
			impacts = append(impacts, api.CompanyImpactResponse{
				ID:          comp.ID,
				CompanyName: comp.CompanyName,
				StockSymbol: comp.StockSymbol,
				ImpactType:  string(comp.ImpactType),
				ImpactScore: comp.ImpactScore,
			})
		}
		out.IndustryImpacts = append(out.IndustryImpacts, api.IndustryImpactResponse{
			ID:             ind.ID,
			IndustryName:   ind.IndustryName,
			ImpactType:     string(ind.ImpactType),
			ImpactScore:    ind.ImpactScore,
			CompanyImpacts: impacts,
		})
	}
	return out
}

func toAnalysisResponses(analyses []entity.NewsAnalysis) []api.AnalysisResponse {
	out := make([]api.AnalysisResponse, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, toAnalysisResponse(a))
	}
	return out
}
