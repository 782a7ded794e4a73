package usecase

import "errors"

// ErrInvalidCredentials はメールアドレスまたはパスワードが一致しない場合に返されます。
// 列挙攻撃を防止するため、どちらが誤っているかは区別しません。
var ErrInvalidCredentials = errors.New("invalid email or password")
