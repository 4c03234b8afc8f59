// Copyright 2026 MIRI Project. All rights reserved.

package lawdoc

import (
	"regexp"
	"strings"
)

// Article is one uniform node of a structured document: a statute article,
// an attached table, or a labeled precedent section.
type Article struct {
	// ID is the human label, e.g. "제15조" or "[별표] 과태료의 부과기준".
	ID string

	// Content is the flattened body text with nested paragraph and item
	// text indented as a rendering convention.
	Content string
}

const (
	keyLaw    = "법령"
	keyAdmRul = "행정규칙"
	keyPrec   = "판례"
)

var (
	statuteArticleID = regexp.MustCompile(`제\d+조(?:의\d+)?`)
	numberedClauseID = regexp.MustCompile(`^(\d+\.|[가-힣]\.)\s*(.*)`)
)

// minArticleBody is the cleaned-content length below which an article is
// treated as a heading-only shell and skipped.
const minArticleBody = 5

// ParseStructure builds a uniform Article list from a fetched document's
// raw payload, dispatching on which of the three top-level document keys
// is present. An empty result means the document has no body content.
func ParseStructure(doc Node) []Article {
	switch {
	case hasKey(doc, keyLaw):
		return parseStatute(doc.Child(keyLaw))
	case hasKey(doc, keyAdmRul):
		return parseAdmRul(doc.Child(keyAdmRul))
	case hasKey(doc, keyPrec):
		return parsePrecedent(doc.Child(keyPrec))
	default:
		return nil
	}
}

func hasKey(n Node, key string) bool {
	_, ok := n[key]
	return ok
}

func parseStatute(root Node) []Article {
	var articles []Article

	for _, v := range root.Child("조문").List("조문단위") {
		jo := AsNode(v)
		// Heading-only pseudo-articles carry the full text marker.
		if jo.Str("조문여부") == "전문" {
			continue
		}
		joText := CleanText(jo.Str("조문내용"))
		if len([]rune(joText)) < minArticleBody {
			continue
		}

		id := statuteArticleID.FindString(joText)
		if id == "" {
			id = truncateRunes(joText, 10)
		}
		articles = append(articles, Article{
			ID:      id,
			Content: strings.Join(flattenUnit(jo, joText), "\n"),
		})
	}

	return append(articles, parseAttachedTables(root)...)
}

func parseAdmRul(root Node) []Article {
	var articles []Article

	for _, v := range root.Child("조문").List("조문단위") {
		jo := AsNode(v)
		joText := CleanText(jo.Str("조문내용"))
		if joText == "" {
			continue
		}
		articles = append(articles, Article{
			ID:      admRulClauseID(joText),
			Content: strings.Join(flattenUnit(jo, joText), "\n"),
		})
	}

	// Rules without an article hierarchy carry a flat body field.
	if len(articles) == 0 {
		if body := CleanText(root.Str("본문")); body != "" {
			articles = append(articles, Article{ID: "본문", Content: body})
		}
	}

	return append(articles, parseAttachedTables(root)...)
}

// admRulClauseID labels an administrative-rule clause: a statute-style
// article number with its parenthesized title when present, a numbered
// item prefix otherwise, and a truncated body as the last resort.
func admRulClauseID(joText string) string {
	if id := statuteArticleID.FindString(joText); id != "" {
		rest := strings.TrimPrefix(joText, id)
		if strings.HasPrefix(rest, "(") {
			if close := strings.Index(rest, ")"); close > 0 {
				return id + " " + rest[1:close]
			}
		}
		return id
	}
	if m := numberedClauseID.FindStringSubmatch(joText); m != nil {
		return m[1] + " " + truncateRunes(m[2], 10) + "..."
	}
	if id := strings.TrimSpace(truncateRunes(joText, 20)); id != "" {
		return id
	}
	return "조문"
}

// precedentBodyLimit bounds the full-text fallback when a precedent has no
// holding summary.
const precedentBodyLimit = 3000

func parsePrecedent(root Node) []Article {
	var articles []Article

	if issue := CleanText(root.Str("판시사항")); issue != "" {
		articles = append(articles, Article{ID: "판시사항", Content: issue})
	}
	if summary := CleanText(root.Str("판결요지")); summary != "" {
		articles = append(articles, Article{ID: "판결요지", Content: summary})
	} else if content := CleanText(root.Str("판례내용")); content != "" {
		articles = append(articles, Article{
			ID:      "판례내용",
			Content: truncateRunes(content, precedentBodyLimit) + "...(생략)",
		})
	}

	return articles
}

// parseAttachedTables extracts 별표 entries, which arrive either as a list
// directly under the root or as 별표단위 children of a wrapper element.
// A table without inline content substitutes a note about its form file.
func parseAttachedTables(root Node) []Article {
	var units []any
	if list, ok := root["별표"].([]any); ok {
		units = list
	} else {
		units = root.Child("별표").List("별표단위")
	}

	var articles []Article
	for _, v := range units {
		b := AsNode(v)
		title := CleanText(b.Str("별표제목"))
		if title == "" {
			title = "별표"
		}
		content := CleanText(b.Str("별표내용"))
		if content == "" {
			link := b.Str("별표서식파일링크")
			if link == "" {
				link = b.Str("별표서식PDF파일링크")
			}
			if link != "" {
				content = "[서식 파일 존재] " + link
			}
		}
		if content == "" {
			content = "내용 없음"
		}
		articles = append(articles, Article{ID: "[별표] " + title, Content: content})
	}
	return articles
}

// flattenUnit renders one article unit with its nested paragraphs (항),
// items (호), and sub-items (목) indented beneath the article text.
func flattenUnit(jo Node, joText string) []string {
	parts := []string{joText}
	for _, hv := range jo.List("항") {
		hang := AsNode(hv)
		if h := CleanText(hang.Str("항내용")); h != "" {
			parts = append(parts, "  "+h)
		}
		for _, ov := range hang.List("호") {
			ho := AsNode(ov)
			if o := CleanText(ho.Str("호내용")); o != "" {
				parts = append(parts, "    "+o)
			}
			for _, mv := range ho.List("목") {
				if m := CleanText(AsNode(mv).Str("목내용")); m != "" {
					parts = append(parts, "      "+m)
				}
			}
		}
	}
	return parts
}

// DocumentText flattens a fetched document into analyzable text.
func DocumentText(doc Node) string {
	switch {
	case hasKey(doc, keyLaw):
		root := doc.Child(keyLaw)
		title := root.Child("기본정보").Str("법령명_한글")
		return joinSections("== "+title+" ==\n", root)
	case hasKey(doc, keyAdmRul):
		root := doc.Child(keyAdmRul)
		title := root.Child("기본정보").Str("행정규칙명")
		if len(root.Child("조문").List("조문단위")) == 0 {
			return "== " + title + " ==\n\n" + CleanText(root.Str("본문"))
		}
		return joinSections("== "+title+" ==\n", root)
	case hasKey(doc, keyPrec):
		root := doc.Child(keyPrec)
		return "[판시사항]\n" + CleanText(root.Str("판시사항")) +
			"\n\n[판결요지]\n" + CleanText(root.Str("판결요지")) +
			"\n\n[판례내용]\n" + CleanText(root.Str("판례내용"))
	default:
		return ""
	}
}

func joinSections(header string, root Node) string {
	parts := []string{header}
	for _, v := range root.Child("조문").List("조문단위") {
		jo := AsNode(v)
		joText := CleanText(jo.Str("조문내용"))
		parts = append(parts, strings.Join(flattenUnit(jo, joText), "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// UniqueID resolves the document-type-specific stable identifier, or ""
// when the payload carries none.
func UniqueID(doc Node) string {
	switch {
	case hasKey(doc, keyLaw):
		return doc.Child(keyLaw).Child("기본정보").Str("법령ID")
	case hasKey(doc, keyAdmRul):
		return doc.Child(keyAdmRul).Child("기본정보").Str("행정규칙일련번호")
	case hasKey(doc, keyPrec):
		return doc.Child(keyPrec).Str("판례정보일련번호")
	default:
		return ""
	}
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
