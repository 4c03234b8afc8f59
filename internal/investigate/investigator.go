// Copyright 2026 MIRI Project. All rights reserved.

// Package investigate turns one structured action description into a
// ranked, deduplicated set of legal document excerpts. It plans which
// databases to search, retrieves and selects candidate documents, extracts
// clause-level findings through the judgment service, and critiques its
// own evidence with a single bounded retry.
package investigate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mun09/miri-back/internal/judge"
	"github.com/Mun09/miri-back/internal/lawapi"
	"github.com/Mun09/miri-back/pkg/types"
)

// Investigator coordinates one evidence-gathering pipeline. The analysis
// cache is scoped to the instance and persists across Execute calls; all
// other state is per call.
type Investigator struct {
	law   *lawapi.Client
	judge judge.Service
	cache Cache
	cfg   types.InvestigatorConfig
	log   *zap.Logger
}

// New builds an Investigator. A nil cache gets a fresh in-memory cache and
// a nil logger disables logging.
func New(law *lawapi.Client, svc judge.Service, cache Cache, cfg types.InvestigatorConfig, log *zap.Logger) *Investigator {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Investigator{
		law:   law,
		judge: svc,
		cache: cache,
		cfg:   cfg.Defaults(),
		log:   log,
	}
}

// Execute gathers evidence for every action in the scenario and returns
// the aggregated evidence set alongside the surviving reviews. Zero
// evidence is a valid outcome, not an error; the only returned error is
// context cancellation.
func (inv *Investigator) Execute(ctx context.Context, scenario types.Scenario) (types.LegalEvidence, []types.DocumentReview, error) {
	inv.log.Info("investigator: analyzing scenario", zap.String("name", scenario.Name))

	var all []types.DocumentReview
	for _, action := range scenario.Actions {
		if err := ctx.Err(); err != nil {
			return types.LegalEvidence{}, nil, err
		}
		all = append(all, inv.processAction(ctx, action)...)
	}

	evidence, unique := aggregate(all, inv.cfg.MaxEvidence)
	inv.log.Info("investigator: evidence collected", zap.Int("reviews", len(unique)))
	return evidence, unique, nil
}

// maxSearchPasses bounds the critique/retry loop: one initial pass plus at
// most one retry, regardless of what the critic answers.
const maxSearchPasses = 2

// processAction runs the retrieval → extraction → critique sequence for
// one action. A FAIL verdict with fresh keywords triggers the single
// retry; any other outcome ends the loop with whatever has accumulated.
func (inv *Investigator) processAction(ctx context.Context, action types.Action) []types.DocumentReview {
	inv.log.Info("investigator: action", zap.String("action", action.Action))

	precKeywords := inv.generatePrecKeywords(ctx, action)
	strategy := inv.planSearch(ctx, action)
	inv.log.Debug("investigator: strategy",
		zap.String("rationale", strategy.Rationale),
		zap.Any("databases", strategy.Databases),
		zap.Any("focus_keywords", strategy.FocusKeywords))

	seen := make(map[string]bool)
	var evidence []types.DocumentReview
	var retryKeywords []string

	for pass := 0; pass < maxSearchPasses; pass++ {
		docs := inv.searchPhase(ctx, action, strategy, retryKeywords, precKeywords)
		for _, r := range inv.extractEvidence(ctx, docs, action) {
			if key := r.DedupKey(); !seen[key] {
				seen[key] = true
				evidence = append(evidence, r)
			}
		}

		summaries := make([]string, 0, len(evidence))
		for _, r := range evidence {
			summaries = append(summaries,
				fmt.Sprintf("[%s] %s %s: %s", r.Status, r.LawName, r.KeyClause, r.Summary))
		}

		verdict := inv.critique(ctx, action.Action, summaries)
		inv.log.Info("investigator: critique",
			zap.String("status", verdict.Status), zap.String("reason", verdict.Reason))

		if !verdict.Failed() || len(verdict.NewKeywords) == 0 {
			break
		}
		retryKeywords = verdict.NewKeywords
	}

	inv.log.Info("investigator: action done",
		zap.String("action", action.Action), zap.Int("reviews", len(evidence)))
	return evidence
}
