// Copyright 2026 MIRI Project. All rights reserved.

package investigate

import (
	"strings"

	"github.com/Mun09/miri-back/pkg/types"
)

// aggregate deduplicates reviews across all actions by (law, clause),
// keeping the first occurrence, truncates to the hard cap, and renders the
// display lines plus the unique reference URLs for the verdict step.
func aggregate(reviews []types.DocumentReview, maxTotal int) (types.LegalEvidence, []types.DocumentReview) {
	seen := make(map[string]bool)
	var unique []types.DocumentReview
	for _, r := range reviews {
		if key := r.DedupKey(); !seen[key] {
			seen[key] = true
			unique = append(unique, r)
		}
	}

	if maxTotal > 0 && len(unique) > maxTotal {
		unique = unique[:maxTotal]
	}

	lines := make([]string, 0, len(unique))
	seenURL := make(map[string]bool)
	var refs []string
	for _, r := range unique {
		lines = append(lines, r.Line())
		if url := strings.TrimSpace(r.URL); url != "" && !seenURL[url] {
			seenURL[url] = true
			refs = append(refs, url)
		}
	}

	return types.LegalEvidence{RelevantLaws: lines, References: refs}, unique
}
