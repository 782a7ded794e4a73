package gemini

import (
	"errors"
	"strings"
)

// ErrNoJSONObject はペイロードからJSONオブジェクトを特定できない場合に返されます。
var ErrNoJSONObject = errors.New("no JSON object in payload")

// ExtractJSON は生成テキストペイロードからJSONオブジェクト部分を切り出します。
// モデルはしばしば```jsonフェンスや前置きでJSONを包むため、
// 最初の'{'から最後の'}'までを取り出します。見つからない場合はErrNoJSONObjectを返します。
func ExtractJSON(payload string) (string, error) {
	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSONObject
	}
	return payload[start : end+1], nil
}
