// Package api はHTTP境界のリクエスト/レスポンスDTOを定義します。
// ドメインエンティティを直接公開せず、JSON表現をここで固定します。
package api

import "time"

// ErrorResponse はエラー応答の共通フォーマットです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は単純な成功メッセージ応答です。
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse はログイン成功時のJWTトークン応答です。
type TokenResponse struct {
	Token string `json:"token"`
}

// LoginRequest はログインリクエストのボディです。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// NewsResponse はニュース記事1件のJSON表現です。
type NewsResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	CollectedAt time.Time `json:"collectedAt"`
}

// CollectResponse はニュース収集トリガーの応答です。
type CollectResponse struct {
	Collected int            `json:"collected"`
	News      []NewsResponse `json:"news"`
}

// CompanyImpactResponse は企業影響1件のJSON表現です。
type CompanyImpactResponse struct {
	ID          uint   `json:"id"`
	CompanyName string `json:"companyName"`
	StockSymbol string `json:"stockSymbol,omitempty"`
	ImpactType  string `json:"impactType"`
	ImpactScore int    `json:"impactScore"`
}

// IndustryImpactResponse は業界影響1件のJSON表現です。
type IndustryImpactResponse struct {
	ID             uint                    `json:"id"`
	IndustryName   string                  `json:"industryName"`
	ImpactType     string                  `json:"impactType"`
	ImpactScore    int                     `json:"impactScore"`
	CompanyImpacts []CompanyImpactResponse `json:"companyImpacts"`
}

// AnalysisResponse はニュース分析1件のJSON表現です。
type AnalysisResponse struct {
	ID              uint                     `json:"id"`
	NewsID          uint                     `json:"newsId"`
	News            *NewsResponse            `json:"news,omitempty"`
	AnalysisContent string                   `json:"analysisContent"`
	AnalyzedAt      time.Time                `json:"analyzedAt"`
	IndustryImpacts []IndustryImpactResponse `json:"industryImpacts"`
}

// RecommendedInvestmentResponse は個別推奨投資1件のJSON表現です。
type RecommendedInvestmentResponse struct {
	ID                 uint   `json:"id"`
	IndustryName       string `json:"industryName"`
	CompanyName        string `json:"companyName"`
	StockSymbol        string `json:"stockSymbol,omitempty"`
	RecommendationType string `json:"recommendationType"`
	ConfidenceScore    int    `json:"confidenceScore"`
	Rationale          string `json:"rationale"`
}

// RecommendationResponse は日次投資推奨1件のJSON表現です。
type RecommendationResponse struct {
	ID                     uint                            `json:"id"`
	Date                   string                          `json:"date"`
	Summary                string                          `json:"summary"`
	OverallSentiment       string                          `json:"overallSentiment"`
	RecommendedInvestments []RecommendedInvestmentResponse `json:"recommendedInvestments"`
}
