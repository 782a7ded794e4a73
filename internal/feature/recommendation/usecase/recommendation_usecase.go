// Package usecase は日次投資推奨のビジネスロジックを実装します。
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	analysisentity "news_backend/internal/feature/analysis/domain/entity"
	"news_backend/internal/feature/recommendation/domain/entity"
	"news_backend/internal/platform/externalapi/gemini"
	"news_backend/internal/shared/ratelimiter"
)

const (
	// DateLayout は推奨レポートのカレンダー日付の形式です。
	DateLayout = "2006-01-02"
	// AnalysisWindow は推奨の入力として採用する分析の有効期間です。
	AnalysisWindow = 24 * time.Hour
)

// TextGenerator は生成テキストサービスへの1回の推論呼び出しを抽象化します。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnalysisReader は推奨生成の入力となる分析の読み取りを抽象化します。
type AnalysisReader interface {
	FindByAnalyzedAtAfter(ctx context.Context, after time.Time) ([]analysisentity.NewsAnalysis, error)
}

// RecommendationRepository は日次推奨の永続化層を抽象化します。
type RecommendationRepository interface {
	// SaveGraph は推奨グラフ全体を1つのトランザクションで永続化します。
	SaveGraph(ctx context.Context, rec *entity.DailyInvestmentRecommendation) error
	// FindByDate は指定日の推奨を返します。存在しない場合は(nil, nil)を返します。
	FindByDate(ctx context.Context, date string) (*entity.DailyInvestmentRecommendation, error)
	// FindLatest は最新日付の推奨を返します。存在しない場合はErrRecommendationNotFoundを返します。
	FindLatest(ctx context.Context) (*entity.DailyInvestmentRecommendation, error)
	// FindAll は全推奨を日付の降順で返します。
	FindAll(ctx context.Context) ([]entity.DailyInvestmentRecommendation, error)
}

// RecommendationUsecase は直近の分析群から日次投資推奨を合成するユースケースです。
type RecommendationUsecase struct {
	generator       TextGenerator
	analyses        AnalysisReader
	recommendations RecommendationRepository
	limiter         ratelimiter.RateLimiterInterface
	now             func() time.Time
}

// NewRecommendationUsecase はRecommendationUsecaseの新しいインスタンスを生成します。
func NewRecommendationUsecase(generator TextGenerator, analyses AnalysisReader, recommendations RecommendationRepository, limiter ratelimiter.RateLimiterInterface) *RecommendationUsecase {
	return &RecommendationUsecase{
		generator:       generator,
		analyses:        analyses,
		recommendations: recommendations,
		limiter:         limiter,
		now:             time.Now,
	}
}

// recommendationResponse は推論レスポンスとして要求するJSON形状です。
type recommendationResponse struct {
	Summary                string `json:"summary"`
	OverallSentiment       string `json:"overallSentiment"`
	RecommendedInvestments []struct {
		IndustryName       string `json:"industryName"`
		CompanyName        string `json:"companyName"`
		StockSymbol        string `json:"stockSymbol"`
		RecommendationType string `json:"recommendationType"`
		ConfidenceScore    int    `json:"confidenceScore"`
		Rationale          string `json:"rationale"`
	} `json:"recommendedInvestments"`
}

// GenerateDaily は今日の日次投資推奨を生成して永続化します。
// 同日の推奨が既に存在する場合は生成せず既存の推奨を返します（日付ごとに最大1件）。
// 直近24時間に分析が1件もない場合はErrNoRecentAnalysesを返します。
func (u *RecommendationUsecase) GenerateDaily(ctx context.Context) (*entity.DailyInvestmentRecommendation, error) {
	today := u.now().Format(DateLayout)

	existing, err := u.recommendations.FindByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slog.Info("recommendation already exists", "date", today)
		return existing, nil
	}

	analyses, err := u.analyses.FindByAnalyzedAtAfter(ctx, u.now().Add(-AnalysisWindow))
	if err != nil {
		return nil, err
	}
	if len(analyses) == 0 {
		return nil, ErrNoRecentAnalyses
	}

	if u.limiter != nil {
		u.limiter.WaitIfNeeded()
	}

	payload, err := u.generator.Generate(ctx, buildRecommendationPrompt(analyses))
	if err != nil {
		return nil, err
	}

	rec, err := parseRecommendationPayload(today, payload)
	if err != nil {
		return nil, err
	}

	if err := u.recommendations.SaveGraph(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist recommendation: %w", err)
	}

	slog.Info("daily recommendation stored", "date", today, "investments", len(rec.RecommendedInvestments))
	return rec, nil
}

// parseRecommendationPayload は推論ペイロードを厳格にパースし、推奨グラフを組み立てます。
func parseRecommendationPayload(date, payload string) (*entity.DailyInvestmentRecommendation, error) {
	raw, err := gemini.ExtractJSON(payload)
	if err != nil {
		return nil, err
	}

	var resp recommendationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("malformed recommendation payload: %w", err)
	}

	sentiment, err := entity.ParseSentiment(resp.OverallSentiment)
	if err != nil {
		return nil, err
	}

	rec := &entity.DailyInvestmentRecommendation{
		Date:             date,
		Summary:          resp.Summary,
		OverallSentiment: sentiment,
	}
	for _, r := range resp.RecommendedInvestments {
		recType, err := entity.ParseRecommendationType(r.RecommendationType)
		if err != nil {
			return nil, fmt.Errorf("company %q: %w", r.CompanyName, err)
		}
		rec.RecommendedInvestments = append(rec.RecommendedInvestments, entity.RecommendedInvestment{
			IndustryName:       r.IndustryName,
			CompanyName:        r.CompanyName,
			StockSymbol:        r.StockSymbol,
			RecommendationType: recType,
			ConfidenceScore:    r.ConfidenceScore,
			Rationale:          r.Rationale,
		})
	}
	return rec, nil
}

// buildRecommendationPrompt は直近の分析群を直列化して推奨プロンプトを組み立てます。
func buildRecommendationPrompt(analyses []analysisentity.NewsAnalysis) string {
	var b strings.Builder
	b.WriteString("Based on the following news analyses from the last 24 hours, ")
	b.WriteString("generate a daily investment recommendation:\n\n")

	for i, a := range analyses {
		b.WriteString("--- Analysis ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(" ---\n")
		if a.News != nil {
			b.WriteString("News: ")
			b.WriteString(a.News.Title)
			b.WriteString("\n")
		}
		b.WriteString("Analysis: ")
		b.WriteString(a.AnalysisContent)
		b.WriteString("\n")
		for _, ind := range a.IndustryImpacts {
			b.WriteString("Industry: ")
			b.WriteString(ind.IndustryName)
			b.WriteString(" (")
			b.WriteString(string(ind.ImpactType))
			b.WriteString(", score ")
			b.WriteString(strconv.Itoa(ind.ImpactScore))
			b.WriteString(")\n")
			for _, comp := range ind.CompanyImpacts {
				b.WriteString("  Company: ")
				b.WriteString(comp.CompanyName)
				if comp.StockSymbol != "" {
					b.WriteString(" [")
					b.WriteString(comp.StockSymbol)
					b.WriteString("]")
				}
				b.WriteString(" (")
				b.WriteString(string(comp.ImpactType))
				b.WriteString(", score ")
				b.WriteString(strconv.Itoa(comp.ImpactScore))
				b.WriteString(")\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Please provide:\n")
	b.WriteString("1. A summary of today's market outlook based on the analyses\n")
	b.WriteString("2. The overall market sentiment (BULLISH, BEARISH, or NEUTRAL)\n")
	b.WriteString("3. A list of recommended investments with a BUY, SELL, or HOLD action, ")
	b.WriteString("a confidence score from 1-10, and a rationale for each\n\n")
	b.WriteString("Respond with a JSON object in the following format:\n")
	b.WriteString(`{
  "summary": "Your market summary",
  "overallSentiment": "BULLISH/BEARISH/NEUTRAL",
  "recommendedInvestments": [
    {
      "industryName": "Industry name",
      "companyName": "Company name",
      "stockSymbol": "Stock symbol if available",
      "recommendationType": "BUY/SELL/HOLD",
      "confidenceScore": 1-10,
      "rationale": "Why this investment is recommended"
    }
  ]
}`)
	return b.String()
}

// LatestRecommendation は最新日付の推奨を返します。
func (u *RecommendationUsecase) LatestRecommendation(ctx context.Context) (*entity.DailyInvestmentRecommendation, error) {
	return u.recommendations.FindLatest(ctx)
}

// RecommendationByDate は指定日の推奨を返します。存在しない場合はErrRecommendationNotFoundを返します。
func (u *RecommendationUsecase) RecommendationByDate(ctx context.Context, date string) (*entity.DailyInvestmentRecommendation, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	rec, err := u.recommendations.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecommendationNotFound
	}
	return rec, nil
}

// ListRecommendations は全推奨を返します。
func (u *RecommendationUsecase) ListRecommendations(ctx context.Context) ([]entity.DailyInvestmentRecommendation, error) {
	return u.recommendations.FindAll(ctx)
}
