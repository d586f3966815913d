package stations

import (
	"strings"
	"testing"
)

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
		check   func(t *testing.T, relevant bool, score int, bucket string)
	}{
		{
			name: "clean json",
			raw:  `{"relevant": true, "bristol_score": 3, "size_bucket": "small", "indicators": {"blood": false}, "warnings": [], "notes": "n"}`,
			check: func(t *testing.T, relevant bool, score int, bucket string) {
				if !relevant || score != 3 || bucket != "small" {
					t.Errorf("got relevant=%v score=%d bucket=%q", relevant, score, bucket)
				}
			},
		},
		{
			name: "json wrapped in prose and fences",
			raw: "Sure! Here is my analysis:\n```json\n" +
				`{"relevant": true, "bristol_score": 6, "size_bucket": "large", "indicators": {}, "warnings": ["watery"], "notes": ""}` +
				"\n```\nLet me know if you need anything else.",
			check: func(t *testing.T, relevant bool, score int, bucket string) {
				if score != 6 || bucket != "large" {
					t.Errorf("got score=%d bucket=%q", score, bucket)
				}
			},
		},
		{
			name: "irrelevant short form",
			raw:  `{"relevant": false}`,
			check: func(t *testing.T, relevant bool, score int, bucket string) {
				if relevant {
					t.Error("expected relevant=false")
				}
			},
		},
		{
			name: "irrelevant ignores stray fields",
			raw:  `{"relevant": false, "bristol_score": 99}`,
			check: func(t *testing.T, relevant bool, score int, bucket string) {
				if relevant || score != 0 {
					t.Errorf("stray fields survived: relevant=%v score=%d", relevant, score)
				}
			},
		},
		{
			name:    "score out of range",
			raw:     `{"relevant": true, "bristol_score": 8, "size_bucket": "normal"}`,
			wantErr: "out of range",
		},
		{
			name:    "unknown bucket",
			raw:     `{"relevant": true, "bristol_score": 4, "size_bucket": "gigantic"}`,
			wantErr: "unknown size bucket",
		},
		{
			name:    "no json at all",
			raw:     "I'm sorry, I can't help with that.",
			wantErr: "no JSON object",
		},
		{
			name:    "unterminated object",
			raw:     `{"relevant": true, "bristol_score": 4`,
			wantErr: "no JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAnalysis(tt.raw)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseAnalysis() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAnalysis() error = %v", err)
			}
			tt.check(t, a.Relevant, a.BristolScore, a.SizeBucket)
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "nested objects",
			in:   `prefix {"a": {"b": 1}} suffix`,
			want: `{"a": {"b": 1}}`,
		},
		{
			name: "braces inside strings",
			in:   `{"notes": "shaped like a } brace"}`,
			want: `{"notes": "shaped like a } brace"}`,
		},
		{
			name: "escaped quote inside string",
			in:   `{"notes": "he said \"}\" loudly"}`,
			want: `{"notes": "he said \"}\" loudly"}`,
		},
		{
			name: "first of two objects",
			in:   `{"a": 1} {"b": 2}`,
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := firstJSONObject(tt.in)
			if err != nil {
				t.Fatalf("firstJSONObject() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("firstJSONObject() = %q, want %q", got, tt.want)
			}
		})
	}
}
