package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"news_backend/internal/app/router"
	"news_backend/internal/app/scheduler"
	analysisadapters "news_backend/internal/feature/analysis/adapters"
	analysishandler "news_backend/internal/feature/analysis/transport/handler"
	analysisusecase "news_backend/internal/feature/analysis/usecase"
	authhandler "news_backend/internal/feature/auth/transport/handler"
	authusecase "news_backend/internal/feature/auth/usecase"
	newsadapters "news_backend/internal/feature/news/adapters"
	"news_backend/internal/feature/news/adapters/scrape"
	newshandler "news_backend/internal/feature/news/transport/handler"
	newsusecase "news_backend/internal/feature/news/usecase"
	recommendationadapters "news_backend/internal/feature/recommendation/adapters"
	recommendationhandler "news_backend/internal/feature/recommendation/transport/handler"
	recommendationusecase "news_backend/internal/feature/recommendation/usecase"
	"news_backend/internal/platform/cache"
	"news_backend/internal/platform/db"
	"news_backend/internal/platform/externalapi/gemini"
	platformhttp "news_backend/internal/platform/http"
	jwtmw "news_backend/internal/platform/jwt"
	platformredis "news_backend/internal/platform/redis"
	"news_backend/internal/shared/ratelimiter"
)

func main() {
	// .envがあれば読み込む（本番では環境変数を直接設定する）
	_ = godotenv.Load()

	// db
	gormDB := db.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// 生成テキストクライアント
	geminiCfg := gemini.LoadConfig()
	var generator analysisusecase.TextGenerator
	if geminiCfg.UseSDK {
		sdk, err := gemini.NewSDKClient(context.Background())
		if err != nil {
			log.Fatal("failed to init gemini sdk client:", err)
		}
		generator = sdk
	} else {
		generator = gemini.NewClient(geminiCfg, platformhttp.NewHTTPClient(geminiCfg.Timeout))
	}

	// Repository
	newsRepo := newsadapters.NewNewsRepository(gormDB)
	analysisRepo := analysisadapters.NewAnalysisRepository(gormDB)
	recommendationRepo := recommendationadapters.NewRecommendationRepository(gormDB)

	// Redisキャッシュでラップ（日次推奨は午後5時の生成直後に切れるTTL）
	ttl := cache.TimeUntilNextReportRefresh()
	cachedRecommendationRepo := cache.NewCachingRecommendationRepository(rdb, ttl, recommendationRepo, "recommendations")

	// スクレイパー
	fetcher := scrape.NewFetcher(platformhttp.NewHTTPClient(30 * time.Second))
	sourceScraper := scrape.NewSourceScraper(fetcher, newsRepo)

	// 生成API呼び出しの流量制限（分析と推奨で共有）
	limiter := ratelimiter.NewRateLimiter(15, time.Minute)

	// Usecase
	analysisUC := analysisusecase.NewAnalysisUsecase(generator, analysisRepo, limiter)
	collectUC := newsusecase.NewCollectUsecase(sourceScraper, newsRepo, analysisUC, sourcesFromEnv())
	recommendationUC := recommendationusecase.NewRecommendationUsecase(generator, analysisRepo, cachedRecommendationRepo, limiter)
	authUC := authusecase.NewAuthUsecase(authusecase.LoadAdminCredentials(),
		jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 24*time.Hour))

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	newsH := newshandler.NewNewsHandler(collectUC)
	analysisH := analysishandler.NewAnalysisHandler(analysisUC)
	recommendationH := recommendationhandler.NewRecommendationHandler(recommendationUC)

	// スケジューラ起動（毎時収集、毎日17時に推奨生成）
	sched := scheduler.New(collectUC, recommendationUC)
	if err := sched.Start(); err != nil {
		log.Fatal("failed to start scheduler:", err)
	}
	defer sched.Stop()

	// ルータ生成
	r := router.NewRouter(authH, newsH, analysisH, recommendationH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}

// sourcesFromEnv はNEWS_SOURCES（カンマ区切り）からソース一覧を読み込みます。
// 未設定の場合は空を返し、usecase側のデフォルトに委ねます。
func sourcesFromEnv() []string {
	raw := os.Getenv("NEWS_SOURCES")
	if raw == "" {
		return nil
	}
	var sources []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}
	return sources
}
