package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	analysisadapters "news_backend/internal/feature/analysis/adapters"
	analysisusecase "news_backend/internal/feature/analysis/usecase"
	newsadapters "news_backend/internal/feature/news/adapters"
	"news_backend/internal/feature/news/adapters/scrape"
	newsusecase "news_backend/internal/feature/news/usecase"
	"news_backend/internal/platform/db"
	"news_backend/internal/platform/externalapi/gemini"
	platformhttp "news_backend/internal/platform/http"
	"news_backend/internal/shared/ratelimiter"
)

// ニュース収集と分析を1回だけ実行するワンショットCLIです。
// サーバを起動せずにパイプラインを手動実行したい場合に使います。
func main() {
	_ = godotenv.Load()

	gormDB := db.OpenDB()
	newsRepo := newsadapters.NewNewsRepository(gormDB)
	analysisRepo := analysisadapters.NewAnalysisRepository(gormDB)

	geminiCfg := gemini.LoadConfig()
	generator := gemini.NewClient(geminiCfg, platformhttp.NewHTTPClient(geminiCfg.Timeout))
	limiter := ratelimiter.NewRateLimiter(15, time.Minute)

	analysisUC := analysisusecase.NewAnalysisUsecase(generator, analysisRepo, limiter)
	fetcher := scrape.NewFetcher(platformhttp.NewHTTPClient(30 * time.Second))
	collectUC := newsusecase.NewCollectUsecase(
		scrape.NewSourceScraper(fetcher, newsRepo), newsRepo, analysisUC, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	collected := collectUC.CollectAndAnalyze(ctx)
	log.Printf("collect ok: %d articles", len(collected))
}
