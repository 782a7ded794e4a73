package db

import (
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	analysisadapters "news_backend/internal/feature/analysis/adapters"
	newsadapters "news_backend/internal/feature/news/adapters"
	recommendationadapters "news_backend/internal/feature/recommendation/adapters"
)

// OpenDB はデータベース接続を開きます。
// DATABASE_URLが設定されていればPostgreSQLに接続し、未設定の場合は
// ローカル開発用にSQLiteファイル（DB_PATH、デフォルトnews.db）を使用します。
func OpenDB() *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		deadline := time.Now().Add(60 * time.Second)
		for {
			db, err = gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
			if err == nil {
				break
			}
			if time.Now().After(deadline) {
				log.Fatalf("DB connect failed after 60s: %v", err)
			}
			log.Printf("DB connect failed, retrying...: %v", err)
			time.Sleep(3 * time.Second)
		}
	} else {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "news.db"
		}
		db, err = gorm.Open(gsqlite.Open(path), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open sqlite database: %v", err)
		}
	}

	if os.Getenv("RUN_MIGRATIONS") != "false" {
		// マイグレーション（ニュース、分析グラフ、日次推奨）
		if err := db.AutoMigrate(
			&newsadapters.NewsModel{},
			&analysisadapters.NewsAnalysisModel{},
			&analysisadapters.IndustryImpactModel{},
			&analysisadapters.CompanyImpactModel{},
			&recommendationadapters.DailyInvestmentRecommendationModel{},
			&recommendationadapters.RecommendedInvestmentModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
