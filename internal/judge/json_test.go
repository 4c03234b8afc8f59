// Copyright 2026 MIRI Project. All rights reserved.

package judge

import "testing"

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain JSON untouched", `{"a": 1}`, `{"a": 1}`},
		{"surrounding whitespace trimmed", "  {\"a\": 1}\n", `{"a": 1}`},
		{"json fence stripped", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence stripped", "```\n[1, 2]\n```", `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanJSON(tt.in); got != tt.want {
				t.Errorf("CleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Status string `json:"status"`
	}

	t.Run("plain object", func(t *testing.T) {
		got, err := Decode[payload](`{"status": "PASS"}`)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Status != "PASS" {
			t.Errorf("status = %q", got.Status)
		}
	})

	t.Run("fenced object", func(t *testing.T) {
		got, err := Decode[payload]("```json\n{\"status\": \"FAIL\"}\n```")
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Status != "FAIL" {
			t.Errorf("status = %q", got.Status)
		}
	})

	t.Run("object buried in prose", func(t *testing.T) {
		got, err := Decode[payload](`Here is my analysis: {"status": "PASS"}. Let me know.`)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Status != "PASS" {
			t.Errorf("status = %q", got.Status)
		}
	})

	t.Run("array buried in prose", func(t *testing.T) {
		got, err := Decode[[]string]("The keywords are:\n[\"야간근로\", \"연소근로자\"]\nThanks.")
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if len(got) != 2 || got[0] != "야간근로" {
			t.Errorf("keywords = %v", got)
		}
	})

	t.Run("empty object placeholder", func(t *testing.T) {
		got, err := Decode[payload](EmptyResponse)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Status != "" {
			t.Errorf("status = %q, want zero value", got.Status)
		}
	})

	t.Run("no JSON at all", func(t *testing.T) {
		if _, err := Decode[payload]("I cannot answer that."); err == nil {
			t.Fatal("expected error for prose without JSON")
		}
	})
}
