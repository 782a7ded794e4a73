// Package entity はnewsフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// News は収集されたニュース記事を表します。
// URLが重複排除のユニークキーです。Collection以降は不変です。
type News struct {
	ID          uint
	Title       string
	Content     string
	Source      string
	URL         string
	PublishedAt time.Time
	CollectedAt time.Time
}
