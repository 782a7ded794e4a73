package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	analysishandler "news_backend/internal/feature/analysis/transport/handler"
	authhandler "news_backend/internal/feature/auth/transport/handler"
	newshandler "news_backend/internal/feature/news/transport/handler"
	recommendationhandler "news_backend/internal/feature/recommendation/transport/handler"
	"news_backend/internal/platform/http/handler"
	jwtmw "news_backend/internal/platform/jwt"
)

func NewRouter(authHandler *authhandler.AuthHandler, news *newshandler.NewsHandler,
	analysis *analysishandler.AnalysisHandler, recommendation *recommendationhandler.RecommendationHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// ログイン（JWT 発行）
	r.POST("/login", authHandler.Login)

	// 読み取りエンドポイントは公開
	r.GET("/news", news.List)
	r.GET("/news/recent", news.Recent)
	r.GET("/news/search", news.Search)
	r.GET("/news/:id", news.Get)

	r.GET("/analysis", analysis.List)
	r.GET("/analysis/recent", analysis.Recent)
	r.GET("/analysis/:id", analysis.Get)

	r.GET("/recommendations", recommendation.List)
	r.GET("/recommendations/latest", recommendation.Latest)
	r.GET("/recommendations/:date", recommendation.ByDate)

	// 認証必須のルート
	// 収集・生成のトリガーはJWTで保護する
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.POST("/news/collect", news.Collect)
		auth.POST("/recommendations/generate", recommendation.Generate)
	}

	return r
}
