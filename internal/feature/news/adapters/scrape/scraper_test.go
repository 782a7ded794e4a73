package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

// mockDedupChecker はテスト用のDedupCheckerモック実装です。
type mockDedupChecker struct {
	existsFn func(ctx context.Context, url string) (bool, error)
}

func (m *mockDedupChecker) ExistsByURL(ctx context.Context, url string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, url)
	}
	return false, nil
}

// newSourceServer は一覧ページと記事ページを配信するテストサーバを構築します。
// 一覧はフォールバックルール（article h2 a / article p）に一致するマークアップを使います。
func newSourceServer(t *testing.T, listingHTML string, articles map[string]string) (*httptest.Server, *[]string) {
	t.Helper()

	var (
		mu      sync.Mutex
		fetched []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fetched = append(fetched, r.URL.Path)
		mu.Unlock()

		if r.URL.Path == "/" {
			w.Write([]byte(listingHTML))
			return
		}
		body, ok := articles[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("<html><body><article><p>" + body + "</p></article></body></html>"))
	}))
	t.Cleanup(server.Close)
	return server, &fetched
}

// TestSourceScraper_Scrape_CapsArticlesPerSource は1ソースあたりの収集上限を検証します。
func TestSourceScraper_Scrape_CapsArticlesPerSource(t *testing.T) {
	t.Parallel()

	var listing strings.Builder
	listing.WriteString("<html><body>")
	articles := make(map[string]string)
	for i := 0; i < MaxArticlesPerSource+2; i++ {
		path := fmt.Sprintf("/article-%d", i)
		listing.WriteString(fmt.Sprintf(`<article><h2><a href="%s">Headline %d</a></h2></article>`, path, i))
		articles[path] = fmt.Sprintf("Body %d", i)
	}
	listing.WriteString("</body></html>")

	server, _ := newSourceServer(t, listing.String(), articles)
	scraper := NewSourceScraper(NewFetcher(server.Client()), &mockDedupChecker{})

	collected, err := scraper.Scrape(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(collected) != MaxArticlesPerSource {
		t.Fatalf("collected %d articles, want %d", len(collected), MaxArticlesPerSource)
	}
	if collected[0].Title != "Headline 0" {
		t.Errorf("first title = %q, want %q", collected[0].Title, "Headline 0")
	}
	if collected[0].URL != server.URL+"/article-0" {
		t.Errorf("first URL = %q, want %q", collected[0].URL, server.URL+"/article-0")
	}
	if collected[0].CollectedAt.IsZero() || !collected[0].PublishedAt.Equal(collected[0].CollectedAt) {
		t.Error("PublishedAt should equal CollectedAt for scraped articles")
	}
}

// TestSourceScraper_Scrape_TruncatesLongContent は本文が上限で切り詰められ、
// 省略マーカーが付与されることを検証します。
func TestSourceScraper_Scrape_TruncatesLongContent(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("あ", MaxContentLength+500)
	listing := `<html><body><article><h2><a href="/long">Long article</a></h2></article></body></html>`
	server, _ := newSourceServer(t, listing, map[string]string{"/long": long})
	scraper := NewSourceScraper(NewFetcher(server.Client()), &mockDedupChecker{})

	collected, err := scraper.Scrape(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(collected) != 1 {
		t.Fatalf("collected %d articles, want 1", len(collected))
	}

	content := collected[0].Content
	if !strings.HasSuffix(content, "...") {
		t.Error("truncated content should end with ellipsis marker")
	}
	if got := utf8.RuneCountInString(content); got != MaxContentLength+3 {
		t.Errorf("truncated content length = %d runes, want %d", got, MaxContentLength+3)
	}
}

// TestSourceScraper_Scrape_ShortContentUntouched は上限以下の本文が変更されないことを検証します。
func TestSourceScraper_Scrape_ShortContentUntouched(t *testing.T) {
	t.Parallel()

	listing := `<html><body><article><h2><a href="/short">Short article</a></h2></article></body></html>`
	server, _ := newSourceServer(t, listing, map[string]string{"/short": "Just a short body."})
	scraper := NewSourceScraper(NewFetcher(server.Client()), &mockDedupChecker{})

	collected, err := scraper.Scrape(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(collected) != 1 {
		t.Fatalf("collected %d articles, want 1", len(collected))
	}
	if collected[0].Content != "Just a short body." {
		t.Errorf("content = %q, want unmodified body", collected[0].Content)
	}
}

// TestSourceScraper_Scrape_SkipsKnownURLs は既知URLの記事が本文取得前にスキップされることを検証します。
func TestSourceScraper_Scrape_SkipsKnownURLs(t *testing.T) {
	t.Parallel()

	listing := `<html><body>
		<article><h2><a href="/known">Known article</a></h2></article>
		<article><h2><a href="/fresh">Fresh article</a></h2></article>
	</body></html>`
	server, fetched := newSourceServer(t, listing, map[string]string{
		"/known": "already stored",
		"/fresh": "new content",
	})
	dedup := &mockDedupChecker{
		existsFn: func(ctx context.Context, url string) (bool, error) {
			return strings.HasSuffix(url, "/known"), nil
		},
	}
	scraper := NewSourceScraper(NewFetcher(server.Client()), dedup)

	collected, err := scraper.Scrape(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(collected) != 1 {
		t.Fatalf("collected %d articles, want 1", len(collected))
	}
	if collected[0].Title != "Fresh article" {
		t.Errorf("collected title = %q, want %q", collected[0].Title, "Fresh article")
	}
	// 既知記事の本文ページは取得されないこと
	for _, path := range *fetched {
		if path == "/known" {
			t.Error("known article body was fetched despite dedup hit")
		}
	}
}

// TestSourceScraper_Scrape_DedupErrorSkipsArticle は重複チェック失敗がその記事のみをスキップすることを検証します。
func TestSourceScraper_Scrape_DedupErrorSkipsArticle(t *testing.T) {
	t.Parallel()

	listing := `<html><body>
		<article><h2><a href="/broken">Broken dedup</a></h2></article>
		<article><h2><a href="/ok">OK article</a></h2></article>
	</body></html>`
	server, _ := newSourceServer(t, listing, map[string]string{
		"/broken": "unused",
		"/ok":     "fine",
	})
	dedup := &mockDedupChecker{
		existsFn: func(ctx context.Context, url string) (bool, error) {
			if strings.HasSuffix(url, "/broken") {
				return false, errors.New("db down")
			}
			return false, nil
		},
	}
	scraper := NewSourceScraper(NewFetcher(server.Client()), dedup)

	collected, err := scraper.Scrape(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(collected) != 1 || collected[0].Title != "OK article" {
		t.Fatalf("expected only OK article, got %+v", collected)
	}
}

// TestSourceScraper_Scrape_SkipsEmptyAndDuplicateEntries は空のタイトル・リンクと
// ページ内の重複URLが候補から除外されることを検証します。
func TestSourceScraper_Scrape_SkipsEmptyAndDuplicateEntries(t *testing.T) {
	t.Parallel()

	listing := `<html><body>
		<article><h2><a href="/valid">  Valid article  </a></h2></article>
		<article><h2><a href="/valid">Valid article again</a></h2></article>
		<article><h2><a href="/empty-title">   </a></h2></article>
		<article><h2><a>Missing href</a></h2></article>
	</body></html>`
	server, _ := newSourceServer(t, listing, map[string]string{"/valid": "body"})
	scraper := NewSourceScraper(NewFetcher(server.Client()), &mockDedupChecker{})

	collected, err := scraper.Scrape(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(collected) != 1 {
		t.Fatalf("collected %d articles, want 1", len(collected))
	}
	if collected[0].Title != "Valid article" {
		t.Errorf("title = %q, want trimmed %q", collected[0].Title, "Valid article")
	}
}

// TestSourceScraper_Scrape_ListingFailure は一覧ページの取得失敗がエラーとして返ることを検証します。
func TestSourceScraper_Scrape_ListingFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	scraper := NewSourceScraper(NewFetcher(server.Client()), &mockDedupChecker{})
	_, err := scraper.Scrape(context.Background(), server.URL+"/")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError for listing failure, got %T (%v)", err, err)
	}
}

// TestSourceScraper_Scrape_ArticleFetchFailureSkips は記事本文の取得失敗が
// その記事のみをスキップすることを検証します。
func TestSourceScraper_Scrape_ArticleFetchFailureSkips(t *testing.T) {
	t.Parallel()

	listing := `<html><body>
		<article><h2><a href="/gone">Gone article</a></h2></article>
		<article><h2><a href="/here">Here article</a></h2></article>
	</body></html>`
	// /gone は articles に登録しないため404になる
	server, _ := newSourceServer(t, listing, map[string]string{"/here": "content"})
	scraper := NewSourceScraper(NewFetcher(server.Client()), &mockDedupChecker{})

	collected, err := scraper.Scrape(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(collected) != 1 || collected[0].Title != "Here article" {
		t.Fatalf("expected only Here article, got %+v", collected)
	}
}
