// Copyright 2026 MIRI Project. All rights reserved.

package investigate

import (
	"context"
	"strings"
	"testing"

	"github.com/Mun09/miri-back/pkg/types"
)

func namedCandidates(names ...string) []Candidate {
	out := make([]Candidate, len(names))
	for i, n := range names {
		out[i] = Candidate{Name: n, Source: types.SourceLaw}
	}
	return out
}

func candidateNames(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Name
	}
	return out
}

func TestSelectCandidates(t *testing.T) {
	candidates := namedCandidates(
		"근로기준법",
		"산업안전보건법",
		"최저임금법",
		"[판례] 부당해고구제재심판정취소",
	)

	t.Run("exact subset", func(t *testing.T) {
		stub := &stubJudge{fn: func(system, user string) string {
			return `["근로기준법", "최저임금법"]`
		}}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{})

		selected := inv.selectCandidates(context.Background(), candidates, "야간근로")
		got := candidateNames(selected)
		if len(got) != 2 || got[0] != "근로기준법" || got[1] != "최저임금법" {
			t.Errorf("selected = %v", got)
		}
	})

	t.Run("truncated name matches by containment", func(t *testing.T) {
		stub := &stubJudge{fn: func(system, user string) string {
			return `["[판례] 부당해고"]`
		}}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{})

		selected := inv.selectCandidates(context.Background(), candidates, "해고")
		got := candidateNames(selected)
		if len(got) != 1 || got[0] != "[판례] 부당해고구제재심판정취소" {
			t.Errorf("selected = %v", got)
		}
	})

	t.Run("duplicate names select once", func(t *testing.T) {
		stub := &stubJudge{fn: func(system, user string) string {
			return `["근로기준법", "근로기준법"]`
		}}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{})

		selected := inv.selectCandidates(context.Background(), candidates, "야간근로")
		if len(selected) != 1 {
			t.Errorf("selected %d candidates, want 1", len(selected))
		}
	})

	t.Run("no match keeps leading candidates", func(t *testing.T) {
		stub := &stubJudge{fn: func(system, user string) string {
			return `["존재하지 않는 법률"]`
		}}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{FallbackCandidates: 2})

		selected := inv.selectCandidates(context.Background(), candidates, "야간근로")
		got := candidateNames(selected)
		if len(got) != 2 || got[0] != "근로기준법" || got[1] != "산업안전보건법" {
			t.Errorf("fallback selected = %v", got)
		}
	})

	t.Run("unparsable response keeps leading candidates", func(t *testing.T) {
		stub := &stubJudge{fn: func(system, user string) string {
			return "I could not decide."
		}}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{FallbackCandidates: 3})

		selected := inv.selectCandidates(context.Background(), candidates, "야간근로")
		if len(selected) != 3 {
			t.Errorf("fallback selected %d, want 3", len(selected))
		}
	})

	t.Run("empty input yields nil without a call", func(t *testing.T) {
		stub := &stubJudge{}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{})

		if got := inv.selectCandidates(context.Background(), nil, "야간근로"); got != nil {
			t.Errorf("selected = %v, want nil", got)
		}
		if got := stub.count(markerSelector); got != 0 {
			t.Errorf("selector consulted %d times for empty input", got)
		}
	})

	t.Run("presents only the truncated list", func(t *testing.T) {
		var sawUser string
		stub := &stubJudge{fn: func(system, user string) string {
			sawUser = user
			return `[]`
		}}
		inv := newTestInvestigator(stub, types.InvestigatorConfig{MaxCandidates: 2, FallbackCandidates: 1})

		selected := inv.selectCandidates(context.Background(), candidates, "야간근로")
		if strings.Contains(sawUser, "최저임금법") {
			t.Errorf("candidate past the cap reached the prompt:\n%s", sawUser)
		}
		// Empty selection degrades to the leading candidate.
		if len(selected) != 1 || selected[0].Name != "근로기준법" {
			t.Errorf("selected = %v", candidateNames(selected))
		}
	})
}
