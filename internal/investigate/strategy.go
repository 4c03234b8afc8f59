// Copyright 2026 MIRI Project. All rights reserved.

package investigate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Mun09/miri-back/internal/judge"
	"github.com/Mun09/miri-back/pkg/types"
)

type strategyPayload struct {
	Rationale     string   `json:"rationale"`
	Databases     []string `json:"databases"`
	FocusKeywords []string `json:"focus_keywords"`
}

// planSearch asks the judgment service which databases to query and which
// supplementary keywords to add. A failed or unparsable response falls
// back to the default all-source strategy: the pipeline never blocks here.
func (inv *Investigator) planSearch(ctx context.Context, action types.Action) types.SearchStrategy {
	res, err := inv.judge.Judge(ctx, "", fmt.Sprintf(strategyPrompt, action.Action), 512)
	if err != nil {
		return types.DefaultStrategy("strategy planning unavailable")
	}

	payload, err := judge.Decode[strategyPayload](res)
	if err != nil {
		inv.log.Warn("strategy: unparsable response, using default", zap.Error(err))
		return types.DefaultStrategy("strategy planning failed")
	}

	var dbs []types.Source
	for _, db := range payload.Databases {
		switch src := types.Source(strings.ToLower(strings.TrimSpace(db))); src {
		case types.SourceLaw, types.SourceAdmRul, types.SourcePrec:
			dbs = append(dbs, src)
		}
	}
	if len(dbs) == 0 {
		return types.DefaultStrategy("strategy planning returned no databases")
	}

	return types.SearchStrategy{
		Rationale:     payload.Rationale,
		Databases:     dbs,
		FocusKeywords: cleanKeywords(payload.FocusKeywords),
	}
}

// generateAIQueries produces the key phrases for the intelligent article
// search. Falls back to the raw action text so the search phase always has
// at least one query.
func (inv *Investigator) generateAIQueries(ctx context.Context, action types.Action) []string {
	res, err := inv.judge.Judge(ctx, "", fmt.Sprintf(aiQueryPrompt, action.Action), 256)
	if err != nil {
		return []string{action.Action}
	}
	queries, err := judge.Decode[[]string](res)
	if err != nil || len(queries) == 0 {
		return []string{action.Action}
	}
	if len(queries) > 3 {
		queries = queries[:3]
	}
	return queries
}

// generatePrecKeywords extracts the specific legal terms used for
// precedent and statute list search.
func (inv *Investigator) generatePrecKeywords(ctx context.Context, action types.Action) []string {
	res, err := inv.judge.Judge(ctx, fmt.Sprintf(precKeywordPrompt, action.Action), "", 256)
	if err != nil {
		return nil
	}
	keywords, err := judge.Decode[[]string](res)
	if err != nil {
		return nil
	}
	return cleanKeywords(keywords)
}

var (
	parenthetical = regexp.MustCompile(`\(.*?\)`)
	articleSuffix = regexp.MustCompile(`\s*제\d*O*조.*`)
	latinLetters  = regexp.MustCompile(`[a-zA-Z]`)
)

const maxKeywords = 5

// cleanKeywords strips parenthetical asides, trailing article references,
// and Latin noise the model tends to emit, dropping anything shorter than
// two characters. Capped at five keywords.
func cleanKeywords(keywords []string) []string {
	var cleaned []string
	for _, k := range keywords {
		k = parenthetical.ReplaceAllString(k, "")
		k = articleSuffix.ReplaceAllString(k, "")
		k = latinLetters.ReplaceAllString(k, "")
		k = strings.TrimSpace(k)
		if len([]rune(k)) >= 2 {
			cleaned = append(cleaned, k)
		}
		if len(cleaned) == maxKeywords {
			break
		}
	}
	return cleaned
}
