package usecase

import "errors"

var (
	// ErrRecommendationNotFound は指定された推奨が存在しない場合に返されます。
	ErrRecommendationNotFound = errors.New("recommendation not found")
	// ErrNoRecentAnalyses は直近24時間に分析が1件もなく、推奨を生成できない場合に返されます。
	ErrNoRecentAnalyses = errors.New("no recent analyses to generate recommendation from")
)
