package lawdoc

import (
	"regexp"
	"strings"
)

var (
	markupTags      = regexp.MustCompile(`<[^>]+>`)
	revisionAngle   = regexp.MustCompile(`<(개정|신설|전문개정|타법개정|일부개정|폐지)\s+[\d.,\s]+>`)
	revisionBracket = regexp.MustCompile(`\[(전문개정|개정|신설|타법개정|일부개정|폐지)\s+[\d.,\s]+\]`)
	chapterHeading  = regexp.MustCompile(`제\d+장\s+[가-힣\s]+`)
	sectionHeading  = regexp.MustCompile(`제\d+절\s+[가-힣\s]+`)
	multiSpace      = regexp.MustCompile(`\s+`)
)

// CleanText strips markup tags, revision-history annotations in both
// bracket styles, chapter/section heading prose, and collapses whitespace.
// Pure text normalization with no state.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(markupTags.ReplaceAllString(raw, ""))
	s = revisionAngle.ReplaceAllString(s, "")
	s = revisionBracket.ReplaceAllString(s, "")
	s = chapterHeading.ReplaceAllString(s, "")
	s = sectionHeading.ReplaceAllString(s, "")
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}
