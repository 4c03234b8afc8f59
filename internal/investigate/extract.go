// Copyright 2026 MIRI Project. All rights reserved.

package investigate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mun09/miri-back/internal/judge"
	"github.com/Mun09/miri-back/internal/lawdoc"
	"github.com/Mun09/miri-back/pkg/types"
)

// minDocumentText is the length below which a fetched document is too thin
// to analyze.
const minDocumentText = 50

// extractEvidence analyzes every collected document concurrently and
// flattens the per-document reviews in input order.
func (inv *Investigator) extractEvidence(ctx context.Context, docs []rawDocument, action types.Action) []types.DocumentReview {
	results := make([][]types.DocumentReview, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range docs {
		if utf8.RuneCountInString(d.text) < minDocumentText {
			continue
		}
		g.Go(func() error {
			results[i] = inv.analyzeDocument(gctx, d, action)
			return nil
		})
	}
	g.Wait()

	var reviews []types.DocumentReview
	for _, r := range results {
		reviews = append(reviews, r...)
	}
	return reviews
}

// id resolves the document's stable cache identity.
func (d rawDocument) id() string {
	if d.category == categoryAIResult {
		return "AI_" + d.title + "_" + d.url
	}
	if id := lawdoc.UniqueID(d.raw); id != "" {
		return id
	}
	return docHash(d.title, d.url)
}

// analyzeDocument extracts reviews for one document, choosing a strategy
// in this order: cache hit, precedent shortcut, table-of-contents index
// scan, direct analysis, chunked analysis. Results (including the explicit
// empty result) are memoized before returning; on a hit the cached reviews
// are re-pointed at the current fetch's URL.
func (inv *Investigator) analyzeDocument(ctx context.Context, doc rawDocument, action types.Action) []types.DocumentReview {
	docID := doc.id()
	if cached, ok := inv.cache.Get(action.Action, docID); ok {
		for i := range cached {
			cached[i].URL = doc.url
		}
		return cached
	}

	reviews := inv.analyzeUncached(ctx, doc, action)
	if ctx.Err() != nil {
		// Do not memoize a run cut short by cancellation.
		return reviews
	}
	inv.cache.Put(action.Action, docID, reviews)
	return reviews
}

func (inv *Investigator) analyzeUncached(ctx context.Context, doc rawDocument, action types.Action) []types.DocumentReview {
	// Article-level hits are already clause-sized: one focused call.
	if doc.category == categoryAIResult {
		lawName, keyClause, _ := strings.Cut(doc.title, " ")
		if keyClause == "" {
			keyClause = "조항"
		}
		prompt := fmt.Sprintf(articleAnalysisPrompt,
			doc.title, keyClause, doc.text, action.Context(), lawName, keyClause)
		res, err := inv.judge.Judge(ctx, prompt, "Analyze this article.", 512)
		if err != nil {
			return nil
		}
		if review, ok := parseReview(res, doc.url); ok {
			return []types.DocumentReview{review}
		}
		return nil
	}

	articles := lawdoc.ParseStructure(doc.raw)

	// Precedent shortcut: analyze only the issue statement and holding
	// summary, never the raw full body, to keep cost bounded and avoid
	// procedural boilerplate.
	if doc.category == string(types.SourcePrec) && len(articles) > 0 {
		var sections []string
		for _, a := range articles {
			sections = append(sections, "["+a.ID+"]\n"+a.Content)
		}
		return inv.analyzeText(ctx, strings.Join(sections, "\n\n"), doc, action)
	}

	// Statutes and rules with many articles: scan the table of contents
	// first instead of reading everything.
	if len(articles) > inv.cfg.IndexScanThreshold {
		if reviews, done := inv.indexScan(ctx, articles, doc, action); done {
			return reviews
		}
	}

	return inv.analyzeText(ctx, doc.text, doc, action)
}

// indexScan sends only the article labels to the judgment service and
// analyzes the selected articles individually. An empty selection is an
// explicit negative result: the document is treated as irrelevant rather
// than falling back to a full-text scan. Only a scan the service failed to
// answer coherently falls through (done=false).
func (inv *Investigator) indexScan(ctx context.Context, articles []lawdoc.Article, doc rawDocument, action types.Action) ([]types.DocumentReview, bool) {
	var toc strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&toc, "%d. %s\n", i, a.ID)
	}

	prompt := fmt.Sprintf(indexScanPrompt, doc.title, toc.String(), action.Context(), inv.cfg.MaxIndexArticles)
	res, err := inv.judge.Judge(ctx, prompt, "Analyze the specific business action against the table of contents.", 256)
	if err != nil {
		return nil, false
	}

	indices, err := judge.Decode[[]int](res)
	if err != nil {
		inv.log.Debug("index scan: unparsable selection, falling back", zap.String("doc", doc.title))
		return nil, false
	}

	var targets []lawdoc.Article
	for _, i := range indices {
		if i >= 0 && i < len(articles) {
			targets = append(targets, articles[i])
		}
		if len(targets) == inv.cfg.MaxIndexArticles {
			break
		}
	}
	if len(targets) == 0 {
		inv.log.Debug("index scan: no relevant articles", zap.String("doc", doc.title))
		return nil, true
	}

	var reviews []types.DocumentReview
	for _, art := range targets {
		prompt := fmt.Sprintf(articleAnalysisPrompt,
			doc.category+" - "+doc.title, art.ID, art.Content, action.Context(), doc.title, art.ID)
		res, err := inv.judge.Judge(ctx, prompt, "Analyze this article.", 512)
		if err != nil {
			continue
		}
		if review, ok := parseReview(res, doc.url); ok {
			reviews = append(reviews, review)
		}
	}
	return reviews, true
}

// analyzeText runs one extraction call for short text and sliding-window
// chunked calls for long text. Windows overlap so a clause split across a
// boundary is still seen whole by one of the chunks.
func (inv *Investigator) analyzeText(ctx context.Context, text string, doc rawDocument, action types.Action) []types.DocumentReview {
	target := doc.category + " - " + doc.title

	if utf8.RuneCountInString(text) < inv.cfg.DirectAnalysisLimit {
		prompt := fmt.Sprintf(fullTextAnalysisPrompt, target, text, action.Context(), doc.title)
		res, err := inv.judge.Judge(ctx, prompt, "Analyze this text for legal risks.", 512)
		if err != nil {
			return nil
		}
		if review, ok := parseReview(res, doc.url); ok {
			return []types.DocumentReview{review}
		}
		return nil
	}

	chunks := chunkText(text, inv.cfg.ChunkSize, inv.cfg.ChunkOverlap)
	inv.log.Debug("chunked analysis", zap.String("doc", doc.title), zap.Int("chunks", len(chunks)))

	results := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		prompt := fmt.Sprintf(chunkAnalysisPrompt,
			target, i+1, len(chunks), chunk, action.Context(), doc.title)
		g.Go(func() error {
			res, err := inv.judge.Judge(gctx, prompt, "Analyze this chunk for legal relevance.", 512)
			if err == nil {
				results[i] = res
			}
			return nil
		})
	}
	g.Wait()

	var reviews []types.DocumentReview
	for _, res := range results {
		if res == "" {
			continue
		}
		if review, ok := parseReview(res, doc.url); ok {
			reviews = append(reviews, review)
		}
	}
	return reviews
}

// chunkText splits text into rune-based windows of the given size, each
// overlapping the previous by overlap runes, covering every index with no
// gap.
func chunkText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 || size <= 0 {
		return nil
	}
	step := size - overlap
	if step <= 0 {
		step = size
	}

	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

type reviewPayload struct {
	LawName   string `json:"law_name"`
	KeyClause string `json:"key_clause"`
	Status    string `json:"status"`
	Summary   string `json:"summary"`
}

// parseReview converts one judgment response into a review. Malformed
// responses and neutral findings are dropped, not propagated: ok=false
// means "nothing extracted here".
func parseReview(res, url string) (types.DocumentReview, bool) {
	payload, err := judge.Decode[reviewPayload](res)
	if err != nil || payload.LawName == "" {
		return types.DocumentReview{}, false
	}
	status := types.ParseStatus(payload.Status)
	if status == types.StatusNeutral {
		return types.DocumentReview{}, false
	}
	return types.DocumentReview{
		LawName:   payload.LawName,
		KeyClause: payload.KeyClause,
		Status:    status,
		Summary:   payload.Summary,
		URL:       url,
	}, true
}
