package newsagent

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object",
			raw:  `{"is_relevant": "YES"}`,
			want: `{"is_relevant": "YES"}`,
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"is_relevant\": \"NO\"}\n```",
			want: `{"is_relevant": "NO"}`,
		},
		{
			name: "fenced without language tag",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "prose around the fence",
			raw:  "Here you go:\n```json\n{\"a\": 1}\n```\nLet me know if you need more.",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding whitespace",
			raw:  "  \n {\"a\": 1} \n ",
			want: `{"a": 1}`,
		},
		{
			name: "lone opening fence",
			raw:  "```json\n{\"a\": 1}",
			want: `{"a": 1}`,
		},
		{
			name: "lone closing fence",
			raw:  "{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.raw); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeVerdict(t *testing.T) {
	v, ok := decodeVerdict("```json\n{\"is_relevant\": \"yes\", \"affected_instruments\": [\"CLA Comdty\"]}\n```")
	if !ok {
		t.Fatal("expected decodable verdict")
	}
	if v.IsRelevant != "yes" || len(v.AffectedInstruments) != 1 {
		t.Fatalf("unexpected verdict %+v", v)
	}

	if _, ok := decodeVerdict("I would say this is relevant."); ok {
		t.Fatal("prose must not decode")
	}
	if _, ok := decodeVerdict(""); ok {
		t.Fatal("empty response must not decode")
	}
	if _, ok := decodeVerdict("```json\n{\"is_relevant\": \"YES\""); ok {
		t.Fatal("truncated JSON must not decode")
	}
}
