// Copyright 2026 MIRI Project. All rights reserved.

package investigate

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mun09/miri-back/internal/judge"
)

const (
	critiquePass = "PASS"
	critiqueFail = "FAIL"
)

// critiqueResult is the sufficiency verdict on the accumulated evidence.
type critiqueResult struct {
	Status      string   `json:"status"`
	Reason      string   `json:"reason"`
	NewKeywords []string `json:"new_keywords"`
}

// Failed reports whether the critic asked for another search pass.
func (c critiqueResult) Failed() bool { return c.Status == critiqueFail }

// critique asks the judgment service whether the evidence collected so far
// suffices for a legal interpretation, under deliberately relaxed
// criteria: only the complete absence of related law is a hard failure.
// Any service failure counts as PASS so the loop can never spin on a
// broken critic.
func (inv *Investigator) critique(ctx context.Context, actionText string, evidence []string) critiqueResult {
	summary := "None"
	if len(evidence) > 0 {
		summary = strings.Join(evidence, "\n")
	}

	res, err := inv.judge.Judge(ctx, fmt.Sprintf(criticPrompt, actionText, summary), "", 512)
	if err != nil {
		return critiqueResult{Status: critiquePass}
	}

	parsed, err := judge.Decode[critiqueResult](res)
	if err != nil {
		return critiqueResult{Status: critiquePass}
	}

	// Canonicalize: older critic phrasings answered RETRY instead of FAIL.
	switch strings.ToUpper(strings.TrimSpace(parsed.Status)) {
	case critiqueFail, "RETRY":
		parsed.Status = critiqueFail
	default:
		parsed.Status = critiquePass
	}
	return parsed
}
