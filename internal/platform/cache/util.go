package cache

import (
	"time"
)

// TimeUntilNextReportRefresh は次の午後5時5分（日本時間）までの期間を返します。
// 日次推奨は午後5時に生成されるため、その直後にキャッシュが切れるようにします。
func TimeUntilNextReportRefresh() time.Duration {
	loc, _ := time.LoadLocation("Asia/Tokyo")
	now := time.Now().In(loc)

	// 次の午後5時5分を計算
	next := time.Date(now.Year(), now.Month(), now.Day(), 17, 5, 0, 0, loc)

	// 今日の午後5時5分が既に過ぎている場合は翌日を使用
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}
