package usecase

import "errors"

// ErrAnalysisNotFound は指定された分析が存在しない場合に返されます。
var ErrAnalysisNotFound = errors.New("analysis not found")
