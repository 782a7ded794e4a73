package gemini

import (
	"errors"
	"testing"
)

// TestExtractJSON はフェンスや前置きで包まれたペイロードからのJSON切り出しを検証します。
func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		payload  string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare JSON object",
			payload:  `{"analysis":"ok"}`,
			expected: `{"analysis":"ok"}`,
		},
		{
			name:     "fenced JSON",
			payload:  "```json\n{\"analysis\":\"ok\"}\n```",
			expected: `{"analysis":"ok"}`,
		},
		{
			name:     "preamble and trailing text",
			payload:  "Here is the result:\n{\"a\":1}\nHope this helps!",
			expected: `{"a":1}`,
		},
		{
			name:     "nested braces kept intact",
			payload:  "x {\"a\":{\"b\":2}} y",
			expected: `{"a":{"b":2}}`,
		},
		{
			name:    "no object at all",
			payload: "I could not analyze this article.",
			wantErr: true,
		},
		{
			name:    "only closing brace",
			payload: "} nothing",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExtractJSON(tc.payload)
			if tc.wantErr {
				if !errors.Is(err, ErrNoJSONObject) {
					t.Fatalf("expected ErrNoJSONObject, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON returned error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("ExtractJSON = %q, want %q", got, tc.expected)
			}
		})
	}
}
