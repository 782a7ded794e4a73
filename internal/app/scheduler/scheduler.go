// Package scheduler はニュース収集と日次推奨生成の定期実行を管理します。
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	newsentity "news_backend/internal/feature/news/domain/entity"
	recommendationentity "news_backend/internal/feature/recommendation/domain/entity"
	recommendationusecase "news_backend/internal/feature/recommendation/usecase"
)

const (
	// collectSchedule は毎時0分にニュース収集を実行します。
	collectSchedule = "0 * * * *"
	// recommendSchedule は毎日午後5時に日次推奨を生成します。
	recommendSchedule = "0 17 * * *"

	collectTimeout   = 10 * time.Minute
	recommendTimeout = 5 * time.Minute
)

// Collector はニュース収集パイプラインのトリガーを抽象化します。
type Collector interface {
	CollectAndAnalyze(ctx context.Context) []newsentity.News
}

// Recommender は日次推奨生成のトリガーを抽象化します。
type Recommender interface {
	GenerateDaily(ctx context.Context) (*recommendationentity.DailyInvestmentRecommendation, error)
}

// Scheduler はcronベースで収集と推奨生成を定期実行します。
// ジョブ内のエラーはログに記録するのみで、スケジューラ自体は停止しません。
type Scheduler struct {
	cron        *cron.Cron
	collector   Collector
	recommender Recommender
}

// New はSchedulerの新しいインスタンスを生成します。
func New(collector Collector, recommender Recommender) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		collector:   collector,
		recommender: recommender,
	}
}

// Start はジョブを登録し、cronループを開始します。
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(collectSchedule, s.runCollect); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(recommendSchedule, s.runRecommend); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("scheduler started", "collect", collectSchedule, "recommend", recommendSchedule)
	return nil
}

// Stop は実行中のジョブの完了を待ってcronループを停止します。
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) runCollect() {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	slog.Info("scheduled news collection started")
	collected := s.collector.CollectAndAnalyze(ctx)
	slog.Info("scheduled news collection finished", "collected", len(collected))
}

func (s *Scheduler) runRecommend() {
	ctx, cancel := context.WithTimeout(context.Background(), recommendTimeout)
	defer cancel()

	slog.Info("scheduled recommendation generation started")
	rec, err := s.recommender.GenerateDaily(ctx)
	if err != nil {
		if errors.Is(err, recommendationusecase.ErrNoRecentAnalyses) {
			slog.Info("no recent analyses, skipping recommendation")
			return
		}
		slog.Error("scheduled recommendation generation failed", "error", err)
		return
	}
	slog.Info("scheduled recommendation generation finished", "date", rec.Date)
}
