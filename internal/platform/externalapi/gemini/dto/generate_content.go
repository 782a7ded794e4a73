// Package dto はGemini REST APIのリクエスト/レスポンスDTOを定義します。
package dto

// GenerateContentRequest はgenerateContentのリクエストエンベロープです。
// プロンプト全体を保持する1つのテキストパートを含む単一のコンテンツブロックを送信します。
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// Content は1つのコンテンツブロックです。
type Content struct {
	Parts []Part `json:"parts"`
}

// Part は1つのテキストパートです。
type Part struct {
	Text string `json:"text"`
}

// GenerateContentResponse はgenerateContentのレスポンスエンベロープです。
// ペイロードはcandidates[0].content.parts[0].textから取り出します。
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate は1つの生成候補です。
type Candidate struct {
	Content *Content `json:"content"`
}
