// Package entity はrecommendationフィーチャーのドメインエンティティを定義します。
package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSentiment は市場センチメントのリテラルが既知の値と一致しない場合に返されます。
	ErrUnknownSentiment = errors.New("unknown sentiment")
	// ErrUnknownRecommendationType は推奨種別のリテラルが既知の値と一致しない場合に返されます。
	ErrUnknownRecommendationType = errors.New("unknown recommendation type")
)

// Sentiment は市場全体のセンチメントを表します。
type Sentiment string

const (
	SentimentBullish Sentiment = "BULLISH"
	SentimentBearish Sentiment = "BEARISH"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// ParseSentiment は文字列をSentimentに厳格に変換します。
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(s) {
	case SentimentBullish, SentimentBearish, SentimentNeutral:
		return Sentiment(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSentiment, s)
	}
}

// RecommendationType は投資アクションの種別を表します。
type RecommendationType string

const (
	RecommendationBuy  RecommendationType = "BUY"
	RecommendationSell RecommendationType = "SELL"
	RecommendationHold RecommendationType = "HOLD"
)

// ParseRecommendationType は文字列をRecommendationTypeに厳格に変換します。
func ParseRecommendationType(s string) (RecommendationType, error) {
	switch RecommendationType(s) {
	case RecommendationBuy, RecommendationSell, RecommendationHold:
		return RecommendationType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRecommendationType, s)
	}
}

// DailyInvestmentRecommendation は1日分の投資推奨レポートのルートです。
// Dateは"2006-01-02"形式のカレンダー日付で、日付ごとに最大1件です。
// RecommendedInvestmentの子コレクションをカスケード所有します。
type DailyInvestmentRecommendation struct {
	ID                     uint
	Date                   string
	Summary                string
	OverallSentiment       Sentiment
	RecommendedInvestments []RecommendedInvestment
}

// RecommendedInvestment は個別の推奨投資です。
// ConfidenceScoreは1〜10想定ですが厳格には検証しません（生成側の揺れを許容）。
type RecommendedInvestment struct {
	ID                 uint
	RecommendationID   uint
	IndustryName       string
	CompanyName        string
	StockSymbol        string
	RecommendationType RecommendationType
	ConfidenceScore    int
	Rationale          string
}
