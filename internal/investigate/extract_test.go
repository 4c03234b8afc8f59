// Copyright 2026 MIRI Project. All rights reserved.

package investigate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Mun09/miri-back/internal/judge"
	"github.com/Mun09/miri-back/internal/lawdoc"
	"github.com/Mun09/miri-back/pkg/types"
)

const testReviewJSON = `{
	"law_name": "근로기준법",
	"key_clause": "제56조",
	"status": "금지",
	"summary": "연장근로에 대한 가산수당 지급 의무가 있다."
}`

func longKoreanText(runes int) string {
	const base = "가나다라마바사아자차"
	var b strings.Builder
	for b.Len() < runes*3 {
		b.WriteString(base)
	}
	return string([]rune(b.String())[:runes])
}

func TestChunkText(t *testing.T) {
	t.Run("empty yields nil", func(t *testing.T) {
		if got := chunkText("", 100, 10); got != nil {
			t.Errorf("chunks = %v, want nil", got)
		}
	})

	t.Run("short text is one chunk", func(t *testing.T) {
		got := chunkText("짧은 본문", 100, 10)
		if len(got) != 1 || got[0] != "짧은 본문" {
			t.Errorf("chunks = %v", got)
		}
	})

	t.Run("windows cover and overlap", func(t *testing.T) {
		text := longKoreanText(10000)
		size, overlap := 4000, 300
		chunks := chunkText(text, size, overlap)

		if len(chunks) != 3 {
			t.Fatalf("got %d chunks, want 3", len(chunks))
		}

		first := []rune(chunks[0])
		second := []rune(chunks[1])
		if len(first) != size {
			t.Errorf("first chunk is %d runes, want %d", len(first), size)
		}
		// The head of each window repeats the tail of the previous one.
		if string(second[:overlap]) != string(first[size-overlap:]) {
			t.Error("adjacent windows do not overlap")
		}

		// Stepping the windows back together must reproduce the text.
		step := size - overlap
		var rebuilt []rune
		for i, c := range chunks {
			r := []rune(c)
			if i == len(chunks)-1 {
				rebuilt = append(rebuilt, r...)
			} else {
				rebuilt = append(rebuilt, r[:step]...)
			}
		}
		if string(rebuilt) != text {
			t.Error("windows do not cover the full text")
		}
	})

	t.Run("degenerate overlap still advances", func(t *testing.T) {
		chunks := chunkText(longKoreanText(30), 10, 10)
		if len(chunks) != 3 {
			t.Errorf("got %d chunks, want 3", len(chunks))
		}
	})
}

func TestParseReview(t *testing.T) {
	tests := []struct {
		name   string
		res    string
		wantOK bool
		want   types.ReviewStatus
	}{
		{"korean status alias", testReviewJSON, true, types.StatusProhibited},
		{"english status", `{"law_name": "근로기준법", "status": "Conditional"}`, true, types.StatusConditional},
		{"neutral dropped", `{"law_name": "근로기준법", "status": "Neutral"}`, false, ""},
		{"korean neutral dropped", `{"law_name": "근로기준법", "status": "중립"}`, false, ""},
		{"unknown status becomes ambiguous", `{"law_name": "근로기준법", "status": "???"}`, true, types.StatusAmbiguous},
		{"missing law name dropped", `{"status": "Prohibited"}`, false, ""},
		{"placeholder dropped", judge.EmptyResponse, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, ok := parseReview(tt.res, "http://example.com/doc")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if review.Status != tt.want {
				t.Errorf("status = %q, want %q", review.Status, tt.want)
			}
			if review.URL != "http://example.com/doc" {
				t.Errorf("URL = %q", review.URL)
			}
		})
	}
}

func TestAnalyzeDocumentCaching(t *testing.T) {
	stub := &stubJudge{fn: func(system, user string) string {
		return testReviewJSON
	}}
	inv := newTestInvestigator(stub, types.InvestigatorConfig{})
	action := testAction()

	doc := rawDocument{
		category: categoryAIResult,
		title:    "근로기준법 제56조(연장·야간 및 휴일 근로)",
		text:     longKoreanText(200),
		url:      "http://example.com/v1",
	}

	first := inv.analyzeDocument(context.Background(), doc, action)
	if len(first) != 1 || first[0].URL != "http://example.com/v1" {
		t.Fatalf("first analysis = %+v", first)
	}
	calls := len(stub.calls)

	// Same document through a different URL: served from cache with the
	// URL re-pointed, no new judgment calls.
	doc.url = "http://example.com/v2"
	second := inv.analyzeDocument(context.Background(), doc, action)
	if len(second) != 1 || second[0].URL != "http://example.com/v2" {
		t.Fatalf("second analysis = %+v", second)
	}
	if len(stub.calls) != calls {
		t.Errorf("cache hit made %d extra judgment calls", len(stub.calls)-calls)
	}
}

func TestAnalyzeDocumentCachesEmptyResult(t *testing.T) {
	stub := &stubJudge{}
	inv := newTestInvestigator(stub, types.InvestigatorConfig{})
	action := testAction()

	doc := rawDocument{
		category: categoryAIResult,
		title:    "근로기준법 제1조(목적)",
		text:     longKoreanText(200),
		url:      "http://example.com/doc",
	}

	if got := inv.analyzeDocument(context.Background(), doc, action); len(got) != 0 {
		t.Fatalf("got %d reviews, want 0", len(got))
	}
	calls := len(stub.calls)

	// The negative result is memoized too.
	inv.analyzeDocument(context.Background(), doc, action)
	if len(stub.calls) != calls {
		t.Errorf("empty result was re-analyzed")
	}
}

func TestExtractEvidenceSkipsThinDocuments(t *testing.T) {
	stub := &stubJudge{}
	inv := newTestInvestigator(stub, types.InvestigatorConfig{})

	docs := []rawDocument{
		{category: categoryAIResult, title: "짧은 문서", text: "본문 없음", url: "u"},
	}
	if got := inv.extractEvidence(context.Background(), docs, testAction()); len(got) != 0 {
		t.Errorf("got %d reviews, want 0", len(got))
	}
	if len(stub.calls) != 0 {
		t.Errorf("thin document reached the judgment service")
	}
}

func indexScanArticles(n int) []lawdoc.Article {
	articles := make([]lawdoc.Article, n)
	for i := range articles {
		articles[i] = lawdoc.Article{
			ID:      fmt.Sprintf("제%d조", i+1),
			Content: longKoreanText(100),
		}
	}
	return articles
}

func TestIndexScan(t *testing.T) {
	doc := rawDocument{
		category: string(types.SourceLaw),
		title:    "근로기준법",
		url:      "http://example.com/law",
	}
	action := testAction()

	t.Run("selected articles analyzed individually", func(t *testing.T) {
		stub := &stubJudge{fn: func(system, user string) string {
			if strings.Contains(system, markerIndexScan) {
				return `[1, 3]`
			}
			return testReviewJSON
		}}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{})

		reviews, done := inv.indexScan(context.Background(), indexScanArticles(7), doc, action)
		if !done {
			t.Fatal("scan with a valid selection must be final")
		}
		if len(reviews) != 2 {
			t.Errorf("got %d reviews, want 2", len(reviews))
		}
		// One scan call plus one analysis call per selected article.
		if len(stub.calls) != 3 {
			t.Errorf("judgment service saw %d calls, want 3", len(stub.calls))
		}
	})

	t.Run("empty selection is a final negative", func(t *testing.T) {
		stub := &stubJudge{fn: func(system, user string) string {
			return `[]`
		}}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{})

		reviews, done := inv.indexScan(context.Background(), indexScanArticles(7), doc, action)
		if !done {
			t.Fatal("empty selection must not fall through to full-text analysis")
		}
		if len(reviews) != 0 {
			t.Errorf("got %d reviews, want 0", len(reviews))
		}
		if len(stub.calls) != 1 {
			t.Errorf("judgment service saw %d calls, want 1", len(stub.calls))
		}
	})

	t.Run("incoherent selection falls through", func(t *testing.T) {
		stub := &stubJudge{fn: func(system, user string) string {
			return "none of these seem relevant"
		}}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{})

		if _, done := inv.indexScan(context.Background(), indexScanArticles(7), doc, action); done {
			t.Fatal("unparsable selection must fall through to full-text analysis")
		}
	})

	t.Run("out of range indices ignored and capped", func(t *testing.T) {
		stub := &stubJudge{fn: func(system, user string) string {
			if strings.Contains(system, markerIndexScan) {
				return `[-1, 0, 1, 2, 3, 4, 5, 99]`
			}
			return testReviewJSON
		}}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{MaxIndexArticles: 2})

		reviews, done := inv.indexScan(context.Background(), indexScanArticles(7), doc, action)
		if !done || len(reviews) != 2 {
			t.Errorf("done=%v reviews=%d, want final scan with 2 reviews", done, len(reviews))
		}
	})
}

func TestAnalyzeTextChunked(t *testing.T) {
	stub := &stubJudge{fn: func(system, user string) string {
		return testReviewJSON
	}}
	inv := newTestInvestigator(stub, types.InvestigatorConfig{
		DirectAnalysisLimit: 10,
		ChunkSize:           20,
		ChunkOverlap:        5,
	})

	doc := rawDocument{category: string(types.SourceLaw), title: "근로기준법", url: "u"}
	reviews := inv.analyzeText(context.Background(), longKoreanText(50), doc, testAction())

	// 50 runes at step 15: windows starting at 0, 15, 30, 45.
	if len(stub.calls) != 4 {
		t.Errorf("judgment service saw %d calls, want 4", len(stub.calls))
	}
	if len(reviews) != 4 {
		t.Errorf("got %d reviews, want one per chunk", len(reviews))
	}
}

func TestRawDocumentID(t *testing.T) {
	tests := []struct {
		name string
		doc  rawDocument
		want string
	}{
		{
			name: "article hit uses title and url",
			doc:  rawDocument{category: categoryAIResult, title: "근로기준법 제56조", url: "http://x"},
			want: "AI_근로기준법 제56조_http://x",
		},
		{
			name: "document uses payload identifier",
			doc: rawDocument{
				category: string(types.SourceLaw),
				raw:      lawdoc.Node{"법령": lawdoc.Node{"기본정보": lawdoc.Node{"법령ID": "001872"}}},
			},
			want: "001872",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.id(); got != tt.want {
				t.Errorf("id = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("fallback hash is stable", func(t *testing.T) {
		d := rawDocument{category: string(types.SourceLaw), title: "제목", url: "http://x"}
		if d.id() != d.id() || len(d.id()) != 12 {
			t.Errorf("fallback id = %q, want stable 12-char hash", d.id())
		}
	})
}
