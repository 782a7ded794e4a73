// Package usecase はニュース分析のビジネスロジックを実装します。
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"news_backend/internal/feature/analysis/domain/entity"
	newsentity "news_backend/internal/feature/news/domain/entity"
	"news_backend/internal/platform/externalapi/gemini"
	"news_backend/internal/shared/ratelimiter"
)

const (
	// DefaultRecentLimit は最近の分析取得のデフォルト件数です。
	DefaultRecentLimit = 20
)

// TextGenerator は生成テキストサービスへの1回の推論呼び出しを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TextGenerator interface {
	// Generate はプロンプトを送信し、生のテキストペイロードを返します。
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnalysisRepository は分析グラフの永続化層を抽象化します。
type AnalysisRepository interface {
	// SaveGraph は分析グラフ全体を1つのトランザクションで永続化します。
	// 途中で失敗した場合、グラフの一部だけが残ることはありません。
	SaveGraph(ctx context.Context, analysis *entity.NewsAnalysis) error
	// FindAll は全分析を分析時刻の降順で返します。
	FindAll(ctx context.Context) ([]entity.NewsAnalysis, error)
	// FindRecent は分析時刻の降順で最大limit件を返します。
	FindRecent(ctx context.Context, limit int) ([]entity.NewsAnalysis, error)
	// FindByID は指定IDの分析を子グラフ込みで返します。
	FindByID(ctx context.Context, id uint) (*entity.NewsAnalysis, error)
	// FindByAnalyzedAtAfter は指定時刻より後に作成された分析を返します。
	FindByAnalyzedAtAfter(ctx context.Context, after time.Time) ([]entity.NewsAnalysis, error)
}

// AnalysisUsecase はニュース記事から影響グラフを合成するユースケースです。
type AnalysisUsecase struct {
	generator TextGenerator
	analyses  AnalysisRepository
	limiter   ratelimiter.RateLimiterInterface
}

// NewAnalysisUsecase はAnalysisUsecaseの新しいインスタンスを生成します。
func NewAnalysisUsecase(generator TextGenerator, analyses AnalysisRepository, limiter ratelimiter.RateLimiterInterface) *AnalysisUsecase {
	return &AnalysisUsecase{generator: generator, analyses: analyses, limiter: limiter}
}

// analysisResponse は推論レスポンスとして要求するJSON形状です。
type analysisResponse struct {
	Analysis   string `json:"analysis"`
	Industries []struct {
		Name        string `json:"name"`
		ImpactType  string `json:"impactType"`
		ImpactScore int    `json:"impactScore"`
		Companies   []struct {
			Name        string `json:"name"`
			StockSymbol string `json:"stockSymbol"`
			ImpactType  string `json:"impactType"`
			ImpactScore int    `json:"impactScore"`
		} `json:"companies"`
	} `json:"industries"`
}

// AnalyzeNews は1件のニュース記事から影響グラフを生成し、永続化して返します。
// 推論失敗・パース失敗時はエラーを返し、グラフの一部も永続化されません。
func (u *AnalysisUsecase) AnalyzeNews(ctx context.Context, news newsentity.News) (*entity.NewsAnalysis, error) {
	slog.Info("analyzing news", "title", news.Title, "url", news.URL)

	if u.limiter != nil {
		u.limiter.WaitIfNeeded()
	}

	payload, err := u.generator.Generate(ctx, buildAnalysisPrompt(news))
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysisPayload(news, payload)
	if err != nil {
		return nil, err
	}

	if err := u.analyses.SaveGraph(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to persist analysis graph: %w", err)
	}

	slog.Info("analysis stored", "news_id", news.ID, "industries", len(analysis.IndustryImpacts))
	return analysis, nil
}

// Analyze はAnalyzeNewsの結果を破棄するラッパーで、収集オーケストレータから使用されます。
func (u *AnalysisUsecase) Analyze(ctx context.Context, news newsentity.News) error {
	_, err := u.AnalyzeNews(ctx, news)
	return err
}

// parseAnalysisPayload は推論ペイロードを厳格にパースし、影響グラフを組み立てます。
// 未知のenumリテラルは分析全体を失敗させます。
func parseAnalysisPayload(news newsentity.News, payload string) (*entity.NewsAnalysis, error) {
	raw, err := gemini.ExtractJSON(payload)
	if err != nil {
		return nil, err
	}

	var resp analysisResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("malformed analysis payload: %w", err)
	}

	analysis := &entity.NewsAnalysis{
		NewsID:          news.ID,
		News:            &news,
		AnalysisContent: resp.Analysis,
		AnalyzedAt:      time.Now(),
	}

	for _, ind := range resp.Industries {
		impactType, err := entity.ParseImpactType(ind.ImpactType)
		if err != nil {
			return nil, fmt.Errorf("industry %q: %w", ind.Name, err)
		}
		industry := entity.IndustryImpact{
			IndustryName: ind.Name,
			ImpactType:   impactType,
			ImpactScore:  ind.ImpactScore,
		}
		for _, comp := range ind.Companies {
			compType, err := entity.ParseImpactType(comp.ImpactType)
			if err != nil {
				return nil, fmt.Errorf("company %q: %w", comp.Name, err)
			}
			industry.CompanyImpacts = append(industry.CompanyImpacts, entity.CompanyImpact{
				CompanyName: comp.Name,
				StockSymbol: comp.StockSymbol,
				ImpactType:  compType,
				ImpactScore: comp.ImpactScore,
			})
		}
		analysis.IndustryImpacts = append(analysis.IndustryImpacts, industry)
	}

	return analysis, nil
}

// buildAnalysisPrompt は分析プロンプトを組み立てます。
// レスポンスのJSON形状を明示的に指定し、厳格パースの前提を作ります。
func buildAnalysisPrompt(news newsentity.News) string {
	return "Analyze the following financial news article and provide a structured JSON response:\n\n" +
		"Title: " + news.Title + "\n\n" +
		"Content: " + news.Content + "\n\n" +
		"Please identify:\n" +
		"1. Which industries are affected by this news\n" +
		"2. For each industry, determine if the impact is positive, negative, or neutral\n" +
		"3. Assign an impact score from 1-10 for each industry (10 being highest impact)\n" +
		"4. List specific companies in each industry that would be affected\n" +
		"5. For each company, determine if the impact is positive, negative, or neutral\n" +
		"6. Assign an impact score from 1-10 for each company\n\n" +
		"Respond with a JSON object in the following format:\n" +
		"{\n" +
		"  \"analysis\": \"Your overall analysis of the news article\",\n" +
		"  \"industries\": [\n" +
		"    {\n" +
		"      \"name\": \"Industry name\",\n" +
		"      \"impactType\": \"POSITIVE/NEGATIVE/NEUTRAL\",\n" +
		"      \"impactScore\": 1-10,\n" +
		"      \"companies\": [\n" +
		"        {\n" +
		"          \"name\": \"Company name\",\n" +
		"          \"stockSymbol\": \"Stock symbol if available\",\n" +
		"          \"impactType\": \"POSITIVE/NEGATIVE/NEUTRAL\",\n" +
		"          \"impactScore\": 1-10\n" +
		"        }\n" +
		"      ]\n" +
		"    }\n" +
		"  ]\n" +
		"}"
}

// ListAnalyses は全分析を返します。
func (u *AnalysisUsecase) ListAnalyses(ctx context.Context) ([]entity.NewsAnalysis, error) {
	return u.analyses.FindAll(ctx)
}

// RecentAnalyses は最近の分析を返します。
func (u *AnalysisUsecase) RecentAnalyses(ctx context.Context) ([]entity.NewsAnalysis, error) {
	return u.analyses.FindRecent(ctx, DefaultRecentLimit)
}

// GetAnalysis は指定IDの分析を返します。
func (u *AnalysisUsecase) GetAnalysis(ctx context.Context, id uint) (*entity.NewsAnalysis, error) {
	return u.analyses.FindByID(ctx, id)
}
