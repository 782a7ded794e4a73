// Package usecase はニュース収集のビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"sync"

	"news_backend/internal/feature/news/domain/entity"
)

const (
	// DefaultRecentLimit は最近のニュース取得のデフォルト件数です。
	DefaultRecentLimit = 20
)

// DefaultSources は収集対象の金融ニュースソースのデフォルト一覧です。
var DefaultSources = []string{
	"https://finance.yahoo.com",
	"https://www.cnbc.com/finance/",
	"https://www.bloomberg.com/markets",
	"https://www.reuters.com/business/",
	"https://www.ft.com",
}

// NewsRepository はニュース記事の永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type NewsRepository interface {
	// Create は新しいニュース記事を永続化します。URL重複時はエラーを返します。
	Create(ctx context.Context, news *entity.News) error
	// FindAll は全記事を収集時刻の降順で返します。
	FindAll(ctx context.Context) ([]entity.News, error)
	// FindRecent は収集時刻の降順で最大limit件を返します。
	FindRecent(ctx context.Context, limit int) ([]entity.News, error)
	// FindByID は指定IDの記事を返します。存在しない場合はErrNewsNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.News, error)
	// SearchByTitle はタイトル部分一致で記事を検索します。
	SearchByTitle(ctx context.Context, query string) ([]entity.News, error)
}

// SourceScraper は1ソース分の記事抽出を抽象化します。
type SourceScraper interface {
	// Scrape はソースURLから新規記事を抽出します。一覧ページの取得失敗はエラーを返します。
	Scrape(ctx context.Context, sourceURL string) ([]entity.News, error)
}

// Analyzer は収集直後の記事分析を抽象化します。
type Analyzer interface {
	// Analyze は1記事の影響グラフを生成・永続化します。
	Analyze(ctx context.Context, news entity.News) error
}

// CollectUsecase はニュース収集オーケストレータです。
// 設定された全ソースを並行に走査し、ソース単位・記事単位の失敗を隔離します。
type CollectUsecase struct {
	scraper  SourceScraper
	news     NewsRepository
	analyzer Analyzer
	sources  []string
}

// NewCollectUsecase はCollectUsecaseの新しいインスタンスを生成します。
// sourcesが空の場合はDefaultSourcesを使用します。
func NewCollectUsecase(scraper SourceScraper, news NewsRepository, analyzer Analyzer, sources []string) *CollectUsecase {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	return &CollectUsecase{scraper: scraper, news: news, analyzer: analyzer, sources: sources}
}

// Collect は全ソースからニュースを収集し、新規に永続化した記事を返します。
// ソースは互いに独立しているため並行に処理し、1ソースの失敗が他ソースに影響しないようにします。
// 結果は「独立に失敗しうるソース群のベストエフォート」であり、空集合もありえます。
func (u *CollectUsecase) Collect(ctx context.Context) []entity.News {
	var (
		mu        sync.Mutex
		collected []entity.News
		wg        sync.WaitGroup
	)

	for _, source := range u.sources {
		wg.Add(1)
		go func(sourceURL string) {
			defer wg.Done()

			items, err := u.scraper.Scrape(ctx, sourceURL)
			if err != nil {
				slog.Warn("source skipped", "source", sourceURL, "error", err)
				return
			}

			for i := range items {
				// 挿入はストアのトランザクション保証に委ねる（URLユニーク制約が並行書き込みの競合を防ぐ）
				if err := u.news.Create(ctx, &items[i]); err != nil {
					slog.Warn("failed to persist news, skipping", "url", items[i].URL, "error", err)
					continue
				}
				mu.Lock()
				collected = append(collected, items[i])
				mu.Unlock()
			}
		}(source)
	}
	wg.Wait()

	slog.Info("news collection completed", "collected", len(collected), "sources", len(u.sources))
	return collected
}

// CollectAndAnalyze は収集を実行し、新規記事ごとに分析をトリガーします。
// スケジュール実行のエントリポイントです。分析の失敗はその記事のみスキップします。
func (u *CollectUsecase) CollectAndAnalyze(ctx context.Context) []entity.News {
	collected := u.Collect(ctx)

	for _, news := range collected {
		if err := u.analyzer.Analyze(ctx, news); err != nil {
			slog.Warn("analysis failed, skipping article", "url", news.URL, "error", err)
		}
	}
	return collected
}

// ListNews は全ニュース記事を返します。
func (u *CollectUsecase) ListNews(ctx context.Context) ([]entity.News, error) {
	return u.news.FindAll(ctx)
}

// RecentNews は最近のニュース記事を返します。
func (u *CollectUsecase) RecentNews(ctx context.Context) ([]entity.News, error) {
	return u.news.FindRecent(ctx, DefaultRecentLimit)
}

// GetNews は指定IDのニュース記事を返します。
func (u *CollectUsecase) GetNews(ctx context.Context, id uint) (*entity.News, error) {
	return u.news.FindByID(ctx, id)
}

// SearchNews はタイトル部分一致でニュース記事を検索します。
func (u *CollectUsecase) SearchNews(ctx context.Context, query string) ([]entity.News, error) {
	return u.news.SearchByTitle(ctx, query)
}
