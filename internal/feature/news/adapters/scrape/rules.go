// Package scrape は金融ニュースサイトからの記事抽出を実装します。
package scrape

import (
	"net/url"
	"strings"
)

// Rule は1ソース分のCSSセレクタルールを定義します。
// Listingは一覧ページから(タイトル, URL)ペアを、Bodyは記事ページから本文段落を抽出します。
type Rule struct {
	Listing string
	Body    string
}

// genericRule は未知のホストに適用されるフォールバックルールです。
var genericRule = Rule{
	Listing: "article h2 a, article h3 a",
	Body:    "article p",
}

// rules はホスト名の部分文字列をキーとするソース別ルールテーブルです。
var rules = map[string]Rule{
	"yahoo": {
		Listing: "h3 a",
		Body:    "div.caas-body p",
	},
	"cnbc": {
		Listing: "a.Card-title",
		Body:    "div.ArticleBody-articleBody p",
	},
	"bloomberg": {
		Listing: "article h3 a",
		Body:    "div.body-content p",
	},
	"reuters": {
		Listing: "a.text-story__title__link",
		Body:    "div.article-body__content p",
	},
	"ft.com": {
		Listing: "a.js-teaser-heading-link",
		Body:    "div.article__content p",
	},
}

// RuleFor はソースURLに対応する抽出ルールを返します。
// 既知のホストに一致しない場合はフォールバックルールを返します。純粋な参照で、エラー状態はありません。
func RuleFor(sourceURL string) Rule {
	for key, rule := range rules {
		if strings.Contains(sourceURL, key) {
			return rule
		}
	}
	return genericRule
}

// SourceName はソースURLからホスト名ベースのソース識別子を導出します（例: "finance.yahoo.com"）。
func SourceName(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return sourceURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}
