// Package handler はnewsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"news_backend/internal/api"
	"news_backend/internal/feature/news/domain/entity"
	"news_backend/internal/feature/news/usecase"
)

// NewsUsecase はニュース操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type NewsUsecase interface {
	CollectAndAnalyze(ctx context.Context) []entity.News
	ListNews(ctx context.Context) ([]entity.News, error)
	RecentNews(ctx context.Context) ([]entity.News, error)
	GetNews(ctx context.Context, id uint) (*entity.News, error)
	SearchNews(ctx context.Context, query string) ([]entity.News, error)
}

// NewsHandler はニュースのHTTPリクエストを処理します。
type NewsHandler struct {
	uc NewsUsecase
}

// NewNewsHandler は指定されたusecaseでNewsHandlerの新しいインスタンスを生成します。
func NewNewsHandler(uc NewsUsecase) *NewsHandler {
	return &NewsHandler{uc: uc}
}

// Collect はニュース収集を手動でトリガーします。
//
// エンドポイント例:
// POST /news/collect
func (h *NewsHandler) Collect(c *gin.Context) {
	collected := h.uc.CollectAndAnalyze(c.Request.Context())
	slog.Info("manual collection triggered", "collected", len(collected), "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.CollectResponse{
		Collected: len(collected),
		News:      toNewsResponses(collected),
	})
}

// List は全ニュース記事を収集時刻の降順でJSONで返します。
//
// エンドポイント例:
// GET /news
func (h *NewsHandler) List(c *gin.Context) {
	news, err := h.uc.ListNews(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to load news"})
		return
	}
	c.JSON(http.StatusOK, toNewsResponses(news))
}

// Recent は最近のニュース記事をJSONで返します。
//
// エンドポイント例:
// GET /news/recent
func (h *NewsHandler) Recent(c *gin.Context) {
	news, err := h.uc.RecentNews(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to load news"})
		return
	}
	c.JSON(http.StatusOK, toNewsResponses(news))
}

// Get は指定IDのニュース記事をJSONで返します。
//
// エンドポイント例:
// GET /news/:id
func (h *NewsHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return
	}
	news, err := h.uc.GetNews(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, usecase.ErrNewsNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "news not found"})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to load news"})
		return
	}
	c.JSON(http.StatusOK, toNewsResponse(*news))
}

// Search はタイトルの部分一致でニュース記事を検索します。
//
// エンドポイント例:
// GET /news/search?q=tariff
func (h *NewsHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "query parameter q is required"})
		return
	}
	news, err := h.uc.SearchNews(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to search news"})
		return
	}
	c.JSON(http.StatusOK, toNewsResponses(news))
}

func toNewsResponse(n entity.News) api.NewsResponse {
	return api.NewsResponse{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		Source:      n.Source,
		URL:         n.URL,
		PublishedAt: n.PublishedAt,
		CollectedAt: n.CollectedAt,
	}
}

func toNewsResponses(news []entity.News) []api.NewsResponse {
	out := make([]api.NewsResponse, 0, len(news))
	for _, n := range news {
		out = append(out, toNewsResponse(n))
	}
	return out
}
