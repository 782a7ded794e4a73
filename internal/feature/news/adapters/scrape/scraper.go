package scrape

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"news_backend/internal/feature/news/domain/entity"
)

const (
	// MaxArticlesPerSource は1ソースあたりの収集上限です。
	MaxArticlesPerSource = 5
	// MaxContentLength は保存する本文の最大文字数です。超過分は切り詰めて省略記号を付与します。
	MaxContentLength = 1990
	// ellipsis は切り詰め時に付与する省略マーカーです。
	ellipsis = "..."
)

// DedupChecker は既知記事の重複チェックを抽象化します。
// Goの慣例に従い、インターフェースは利用者（scrape）側で定義します。
type DedupChecker interface {
	// ExistsByURL は同一URLの記事が既にストアに存在するかを返します。
	ExistsByURL(ctx context.Context, url string) (bool, error)
}

// candidate は重複チェック・本文取得前の(タイトル, URL)ペアです。
type candidate struct {
	title string
	url   string
}

// SourceScraper は1ソースの一覧ページから記事候補を抽出し、
// 重複を除外した上で各記事の本文を取得します。
type SourceScraper struct {
	fetcher *Fetcher
	dedup   DedupChecker
}

// NewSourceScraper はSourceScraperの新しいインスタンスを生成します。
func NewSourceScraper(fetcher *Fetcher, dedup DedupChecker) *SourceScraper {
	return &SourceScraper{fetcher: fetcher, dedup: dedup}
}

// Scrape はソースURLの一覧ページを取得し、新規記事をNewsエンティティとして返します。
// 一覧ページの取得失敗はエラーとして返し、ソース単位で呼び出し元がスキップします。
// 記事単体の取得・抽出失敗はログに記録してその記事のみスキップします。
func (s *SourceScraper) Scrape(ctx context.Context, sourceURL string) ([]entity.News, error) {
	doc, err := s.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	rule := RuleFor(sourceURL)
	sourceName := SourceName(sourceURL)
	candidates := extractCandidates(doc, rule, sourceURL)

	collected := make([]entity.News, 0, MaxArticlesPerSource)
	for _, cand := range candidates {
		if len(collected) >= MaxArticlesPerSource {
			break
		}

		// 記事本文の取得は高コストなので、先に重複チェックを行う
		exists, err := s.dedup.ExistsByURL(ctx, cand.url)
		if err != nil {
			slog.Warn("dedup check failed, skipping article", "url", cand.url, "error", err)
			continue
		}
		if exists {
			continue
		}

		articleDoc, err := s.fetcher.Fetch(ctx, cand.url)
		if err != nil {
			slog.Warn("article fetch failed, skipping", "url", cand.url, "error", err)
			continue
		}

		now := time.Now()
		collected = append(collected, entity.News{
			Title:       cand.title,
			Content:     extractBody(articleDoc, rule),
			Source:      sourceName,
			URL:         cand.url,
			PublishedAt: now, // 一覧ページに発行日時がないため収集時刻を使用
			CollectedAt: now,
		})
	}

	return collected, nil
}

// extractCandidates は一覧ページから記事候補を抽出します。
// タイトルをトリムし、相対URLを絶対URLに解決し、空のエントリと同一ページ内の重複を除外します。
func extractCandidates(doc *goquery.Document, rule Rule, sourceURL string) []candidate {
	base, err := url.Parse(sourceURL)
	if err != nil {
		base = nil
	}

	var candidates []candidate
	seen := make(map[string]struct{})

	doc.Find(rule.Listing).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		href, _ := sel.Attr("href")
		if title == "" || href == "" {
			return
		}

		absURL := href
		if base != nil {
			if u, err := base.Parse(href); err == nil {
				absURL = u.String()
			}
		}
		if _, ok := seen[absURL]; ok {
			return
		}
		seen[absURL] = struct{}{}

		candidates = append(candidates, candidate{title: title, url: absURL})
	})

	return candidates
}

// extractBody は記事ページから本文段落を抽出し、連結して上限まで切り詰めます。
// セレクタが一致しない場合は空文字列を返します（マークアップの変化はクラッシュさせない）。
func extractBody(doc *goquery.Document, rule Rule) string {
	var paragraphs []string
	doc.Find(rule.Body).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	content := strings.Join(paragraphs, " ")
	if utf8.RuneCountInString(content) > MaxContentLength {
		content = string([]rune(content)[:MaxContentLength]) + ellipsis
	}
	return content
}
