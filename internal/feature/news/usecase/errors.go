package usecase

import "errors"

// ErrNewsNotFound は指定されたニュース記事が存在しない場合に返されます。
var ErrNewsNotFound = errors.New("news not found")
