// Package entity はanalysisフィーチャーのドメインエンティティを定義します。
package entity

import (
	"errors"
	"fmt"
	"time"

	newsentity "news_backend/internal/feature/news/domain/entity"
)

// ErrUnknownImpactType は影響種別のリテラルが既知の値と一致しない場合に返されます。
// 厳格パース方針: 未知のリテラルはデフォルト値に落とさず、解析全体を失敗させます。
var ErrUnknownImpactType = errors.New("unknown impact type")

// ImpactType はニュースが業界・企業に与える影響の方向を表します。
type ImpactType string

const (
	ImpactPositive ImpactType = "POSITIVE"
	ImpactNegative ImpactType = "NEGATIVE"
	ImpactNeutral  ImpactType = "NEUTRAL"
)

// ParseImpactType は文字列をImpactTypeに厳格に変換します。
// POSITIVE/NEGATIVE/NEUTRAL以外はErrUnknownImpactTypeを返します。
func ParseImpactType(s string) (ImpactType, error) {
	switch ImpactType(s) {
	case ImpactPositive, ImpactNegative, ImpactNeutral:
		return ImpactType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownImpactType, s)
	}
}

// NewsAnalysis は1件のニュースに対するAI分析結果のルートです。
// IndustryImpactの子コレクションをカスケード所有します。作成後は不変です。
type NewsAnalysis struct {
	ID              uint
	NewsID          uint
	News            *newsentity.News
	AnalysisContent string
	AnalyzedAt      time.Time
	IndustryImpacts []IndustryImpact
}

// IndustryImpact は1業界への影響評価です。CompanyImpactの子をカスケード所有します。
type IndustryImpact struct {
	ID             uint
	AnalysisID     uint
	IndustryName   string
	ImpactType     ImpactType
	ImpactScore    int
	CompanyImpacts []CompanyImpact
}

// CompanyImpact は1企業への影響評価です。StockSymbolは任意項目です。
type CompanyImpact struct {
	ID               uint
	IndustryImpactID uint
	CompanyName      string
	StockSymbol      string
	ImpactType       ImpactType
	ImpactScore      int
}
