// Copyright 2026 MIRI Project. All rights reserved.

package investigate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Mun09/miri-back/internal/judge"
	"github.com/Mun09/miri-back/internal/lawdoc"
	"github.com/Mun09/miri-back/pkg/types"
)

// Candidate is one search hit's metadata, pre-fetch, used only to decide
// relevance.
type Candidate struct {
	Name   string
	Source types.Source
	Item   lawdoc.Node
}

// selectCandidates asks the judgment service which candidates are relevant
// to the action, presenting their names as a numbered list. Returned names
// map back to candidates by exact-or-containment match in both directions,
// tolerating minor truncation by the model. The result is always a subset
// of the input; when nothing matches or the service fails, the leading
// candidates are kept rather than returning silence.
func (inv *Investigator) selectCandidates(ctx context.Context, candidates []Candidate, actionText string) []Candidate {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > inv.cfg.MaxCandidates {
		inv.log.Debug("selector: truncating candidates",
			zap.Int("from", len(candidates)), zap.Int("to", inv.cfg.MaxCandidates))
		candidates = candidates[:inv.cfg.MaxCandidates]
	}

	var list strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&list, "%d. %s\n", i+1, c.Name)
	}
	userPrompt := fmt.Sprintf(
		"Candidate Count: %d\n\n[User Action/Scenario]\n%s\n\n[List of Candidates]\n%s",
		len(candidates), actionText, list.String())

	res, err := inv.judge.Judge(ctx, selectorSystemPrompt, userPrompt, 1024)
	if err != nil {
		return firstN(candidates, inv.cfg.FallbackCandidates)
	}

	names, err := judge.Decode[[]string](res)
	if err != nil {
		inv.log.Warn("selector: unparsable response, keeping leading candidates", zap.Error(err))
		return firstN(candidates, inv.cfg.FallbackCandidates)
	}

	picked := make([]bool, len(candidates))
	var selected []Candidate
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		for i, c := range candidates {
			if picked[i] {
				continue
			}
			if strings.Contains(c.Name, name) || strings.Contains(name, c.Name) {
				picked[i] = true
				selected = append(selected, c)
				break
			}
		}
	}

	if len(selected) == 0 {
		inv.log.Debug("selector: no name matched, keeping leading candidates")
		return firstN(candidates, inv.cfg.FallbackCandidates)
	}
	return selected
}

func firstN(candidates []Candidate, n int) []Candidate {
	if len(candidates) > n {
		return candidates[:n]
	}
	return candidates
}
