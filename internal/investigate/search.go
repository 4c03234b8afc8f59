// Copyright 2026 MIRI Project. All rights reserved.

package investigate

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mun09/miri-back/internal/lawapi"
	"github.com/Mun09/miri-back/internal/lawdoc"
	"github.com/Mun09/miri-back/pkg/types"
)

// rawDocument is one fetched document awaiting extraction.
type rawDocument struct {
	category string // a types.Source value, or categoryAIResult
	title    string
	text     string
	url      string
	raw      lawdoc.Node
}

// categoryAIResult marks article-level hits from the intelligent search,
// which are already clause-sized and skip structure parsing.
const categoryAIResult = "ai_result"

// perQueryDisplay is the hit cap requested per list query before
// cross-query deduplication.
const perQueryDisplay = 30

// searchPhase gathers raw documents for one action: article-level hits
// from the intelligent search, full statutes and rules selected from list
// search, and precedents filtered by the statutes the first phase found.
// Each fan-out batch is order-preserving; failed tasks contribute empty
// results. The total is capped at MaxAnalysisDocs.
func (inv *Investigator) searchPhase(ctx context.Context, action types.Action, strategy types.SearchStrategy, keywords, precKeywords []string) []rawDocument {
	keywords = append(append([]string{}, keywords...), strategy.FocusKeywords...)
	precKW := append(append([]string{}, precKeywords...), strategy.FocusKeywords...)

	var docs []rawDocument
	var foundTitles []string

	// Phase 1: intelligent article search over statutes and rules.
	if strategy.Targets(types.SourceLaw) || strategy.Targets(types.SourceAdmRul) {
		queries := keywords
		if len(queries) == 0 {
			queries = inv.generateAIQueries(ctx, action)
		}
		if len(queries) == 0 {
			queries = []string{action.Action}
		}

		var scopes []int
		if strategy.Targets(types.SourceLaw) {
			scopes = append(scopes, lawapi.ScopeLawArticles)
		}
		if strategy.Targets(types.SourceAdmRul) {
			scopes = append(scopes, lawapi.ScopeAdmRulArticles)
		}

		type aiTask struct {
			query string
			scope int
		}
		var tasks []aiTask
		for _, q := range queries {
			for _, s := range scopes {
				tasks = append(tasks, aiTask{query: q, scope: s})
			}
		}

		results := make([][]lawapi.ArticleHit, len(tasks))
		g, gctx := errgroup.WithContext(ctx)
		for i, t := range tasks {
			g.Go(func() error {
				results[i] = inv.law.AISearch(gctx, t.query, t.scope)
				return nil
			})
		}
		g.Wait()

		for _, hits := range results {
			for _, h := range hits {
				docs = append(docs, rawDocument{
					category: categoryAIResult,
					title:    h.Title(),
					text:     h.Content,
					url:      h.Link,
					raw:      h.Raw,
				})
				foundTitles = append(foundTitles, h.LawName)
			}
		}
		inv.log.Debug("search: article hits", zap.Int("count", len(docs)))
	}

	// Phase 2: whole statutes and rules from list search, narrowed by the
	// selector before their bodies are fetched.
	for _, src := range []types.Source{types.SourceLaw, types.SourceAdmRul} {
		if !strategy.Targets(src) || len(precKW) == 0 {
			continue
		}
		candidates := inv.retrieveCandidates(ctx, precKW, src)
		selected := inv.selectCandidates(ctx, candidates, action.Action)
		docs = append(docs, inv.fetchCandidates(ctx, selected)...)
	}

	// Phase 3: precedents, searched both filtered by the statutes found
	// above and globally by keyword.
	if strategy.Targets(types.SourcePrec) && len(precKW) > 0 {
		docs = append(docs, inv.searchPrecedents(ctx, action, precKW, foundTitles)...)
	}

	if len(docs) > inv.cfg.MaxAnalysisDocs {
		inv.log.Info("search: capping documents",
			zap.Int("collected", len(docs)), zap.Int("cap", inv.cfg.MaxAnalysisDocs))
		docs = docs[:inv.cfg.MaxAnalysisDocs]
	}
	return docs
}

// retrieveCandidates issues one concurrent list query per keyword and
// deduplicates the hits by display name across keywords, order preserved.
func (inv *Investigator) retrieveCandidates(ctx context.Context, keywords []string, src types.Source) []Candidate {
	results := make([][]lawdoc.Node, len(keywords))
	g, gctx := errgroup.WithContext(ctx)
	for i, kw := range keywords {
		g.Go(func() error {
			results[i] = inv.law.SearchList(gctx, src, kw, lawapi.SearchOptions{Display: perQueryDisplay})
			return nil
		})
	}
	g.Wait()

	seen := make(map[string]bool)
	var candidates []Candidate
	for _, items := range results {
		for _, item := range items {
			name := lawapi.DisplayName(item, src)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			candidates = append(candidates, Candidate{Name: name, Source: src, Item: item})
		}
	}
	return candidates
}

// fetchCandidates retrieves the bodies of the selected candidates
// concurrently, preserving input order and dropping empty fetches.
func (inv *Investigator) fetchCandidates(ctx context.Context, selected []Candidate) []rawDocument {
	fetched := make([]rawDocument, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range selected {
		g.Go(func() error {
			text, url, raw := inv.law.FetchDocument(gctx, c.Item, c.Source)
			fetched[i] = rawDocument{
				category: string(c.Source),
				title:    c.Name,
				text:     text,
				url:      url,
				raw:      raw,
			}
			return nil
		})
	}
	g.Wait()

	var docs []rawDocument
	for _, d := range fetched {
		if d.text != "" {
			docs = append(docs, d)
		}
	}
	return docs
}

// maxStatuteFilters bounds how many found statute titles seed the
// statute-filtered precedent queries.
const maxStatuteFilters = 2

func (inv *Investigator) searchPrecedents(ctx context.Context, action types.Action, precKW, foundTitles []string) []rawDocument {
	statutes := dedupeStrings(foundTitles)
	if len(statutes) > maxStatuteFilters {
		statutes = statutes[:maxStatuteFilters]
	}

	type precTask struct {
		keyword string
		statute string
	}
	var tasks []precTask
	for _, title := range statutes {
		for _, kw := range precKW {
			tasks = append(tasks, precTask{keyword: kw, statute: title})
		}
	}
	for _, kw := range precKW {
		tasks = append(tasks, precTask{keyword: kw})
	}

	results := make([][]lawdoc.Node, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		g.Go(func() error {
			results[i] = inv.law.SearchList(gctx, types.SourcePrec, t.keyword, lawapi.SearchOptions{
				Display: perQueryDisplay,
				Statute: t.statute,
			})
			return nil
		})
	}
	g.Wait()

	seen := make(map[string]bool)
	var candidates []Candidate
	for _, items := range results {
		for _, item := range items {
			id := item.Str("판례일련번호")
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			candidates = append(candidates, Candidate{
				Name:   "[판례] " + lawapi.DisplayName(item, types.SourcePrec),
				Source: types.SourcePrec,
				Item:   item,
			})
		}
	}

	selected := inv.selectCandidates(ctx, candidates, action.Action)
	inv.log.Debug("search: fetching precedents", zap.Int("count", len(selected)))
	return inv.fetchCandidates(ctx, selected)
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
