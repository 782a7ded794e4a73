package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_backend/internal/api"
	"news_backend/internal/feature/recommendation/domain/entity"
	"news_backend/internal/feature/recommendation/usecase"
)

// mockRecommendationUsecase はRecommendationUsecaseインターフェースのモック実装です。
type mockRecommendationUsecase struct {
	GenerateDailyFunc        func(ctx context.Context) (*entity.DailyInvestmentRecommendation, error)
	LatestRecommendationFunc func(ctx context.Context) (*entity.DailyInvestmentRecommendation, error)
	RecommendationByDateFunc func(ctx context.Context, date string) (*entity.DailyInvestmentRecommendation, error)
	ListRecommendationsFunc  func(ctx context.Context) ([]entity.DailyInvestmentRecommendation, error)
}

func (m *mockRecommendationUsecase) GenerateDaily(ctx context.Context) (*entity.DailyInvestmentRecommendation, error) {
	if m.GenerateDailyFunc != nil {
		return m.GenerateDailyFunc(ctx)
	}
	return nil, errors.New("GenerateDailyFunc is not implemented")
}

func (m *mockRecommendationUsecase) LatestRecommendation(ctx context.Context) (*entity.DailyInvestmentRecommendation, error) {
	if m.LatestRecommendationFunc != nil {
		return m.LatestRecommendationFunc(ctx)
	}
	return nil, errors.New("LatestRecommendationFunc is not implemented")
}

func (m *mockRecommendationUsecase) RecommendationByDate(ctx context.Context, date string) (*entity.DailyInvestmentRecommendation, error) {
	if m.RecommendationByDateFunc != nil {
		return m.RecommendationByDateFunc(ctx, date)
	}
	return nil, errors.New("RecommendationByDateFunc is not implemented")
}

func (m *mockRecommendationUsecase) ListRecommendations(ctx context.Context) ([]entity.DailyInvestmentRecommendation, error) {
	if m.ListRecommendationsFunc != nil {
		return m.ListRecommendationsFunc(ctx)
	}
	return nil, errors.New("ListRecommendationsFunc is not implemented")
}

// newTestRouter は推奨ハンドラ用のテストルータを構築します。
func newTestRouter(uc *mockRecommendationUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRecommendationHandler(uc)
	r := gin.New()
	r.GET("/recommendations", h.List)
	r.GET("/recommendations/latest", h.Latest)
	r.GET("/recommendations/:date", h.ByDate)
	r.POST("/recommendations/generate", h.Generate)
	return r
}

var sampleRec = entity.DailyInvestmentRecommendation{
	ID:               1,
	Date:             "2026-08-31",
	Summary:          "energy looks strong",
	OverallSentiment: entity.SentimentBullish,
	RecommendedInvestments: []entity.RecommendedInvestment{
		{
			ID:                 1,
			IndustryName:       "Energy",
			CompanyName:        "Acme Oil",
			StockSymbol:        "ACME",
			RecommendationType: entity.RecommendationBuy,
			ConfidenceScore:    8,
			Rationale:          "direct beneficiary",
		},
	},
}

func TestRecommendationHandler_Generate(t *testing.T) {
	tests := []struct {
		name           string
		generateFunc   func(ctx context.Context) (*entity.DailyInvestmentRecommendation, error)
		expectedStatus int
	}{
		{
			name: "success",
			generateFunc: func(ctx context.Context) (*entity.DailyInvestmentRecommendation, error) {
				rec := sampleRec
				return &rec, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "no recent analyses",
			generateFunc: func(ctx context.Context) (*entity.DailyInvestmentRecommendation, error) {
				return nil, usecase.ErrNoRecentAnalyses
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "inference failure hidden behind generic error",
			generateFunc: func(ctx context.Context) (*entity.DailyInvestmentRecommendation, error) {
				return nil, errors.New("inference http 500")
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockRecommendationUsecase{GenerateDailyFunc: tt.generateFunc})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/recommendations/generate", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var body api.RecommendationResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, sampleRec.Date, body.Date)
				assert.Equal(t, "BULLISH", body.OverallSentiment)
				require.Len(t, body.RecommendedInvestments, 1)
				assert.Equal(t, "BUY", body.RecommendedInvestments[0].RecommendationType)
			}
		})
	}
}

func TestRecommendationHandler_Latest(t *testing.T) {
	router := newTestRouter(&mockRecommendationUsecase{
		LatestRecommendationFunc: func(ctx context.Context) (*entity.DailyInvestmentRecommendation, error) {
			return nil, usecase.ErrRecommendationNotFound
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/recommendations/latest", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecommendationHandler_ByDate(t *testing.T) {
	uc := &mockRecommendationUsecase{
		RecommendationByDateFunc: func(ctx context.Context, date string) (*entity.DailyInvestmentRecommendation, error) {
			if date == "2026-08-31" {
				rec := sampleRec
				return &rec, nil
			}
			return nil, usecase.ErrRecommendationNotFound
		},
	}
	router := newTestRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/recommendations/2026-08-31", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/recommendations/2026-01-01", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
