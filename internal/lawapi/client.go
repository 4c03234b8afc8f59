// Copyright 2026 MIRI Project. All rights reserved.

// Package lawapi is the client for the national law service DRF OpenAPI.
// It owns the outbound concurrency limit and a per-run response cache, and
// it fails soft: a failed or malformed response is logged and degraded to
// an empty result so callers always receive a well-typed value.
package lawapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/Mun09/miri-back/internal/lawdoc"
	"github.com/Mun09/miri-back/pkg/types"
)

const (
	defaultBaseURL    = "http://www.law.go.kr"
	defaultConcurrent = 5
	defaultDisplay    = 10
	// currentLawOnly restricts list queries to laws currently in force.
	currentLawOnly = "3"
)

// Client queries the national law service. The zero value is not usable;
// construct with New.
type Client struct {
	cfg   types.LawSearchConfig
	httpc *http.Client
	sem   *semaphore.Weighted
	log   *zap.Logger

	mu    sync.Mutex
	cache map[string]lawdoc.Node
}

// New builds a Client from config, applying defaults for unset fields.
// A nil logger disables logging.
func New(cfg types.LawSearchConfig, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultConcurrent
	}
	if cfg.DisplayPerQuery <= 0 {
		cfg.DisplayPerQuery = defaultDisplay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.Timeout},
		sem:   semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		log:   log,
		cache: make(map[string]lawdoc.Node),
	}
}

// Mock reports whether the client has no API credential and therefore
// returns empty results without touching the network.
func (c *Client) Mock() bool { return c.cfg.APIID == "" }

// fetch performs one GET against the service, parsing the XML response.
// Responses are cached by resolved URL for the client's lifetime; a cache
// hit never performs a network call. Any failure returns an empty Node.
func (c *Client) fetch(ctx context.Context, reqURL string) lawdoc.Node {
	c.mu.Lock()
	if cached, ok := c.cache[reqURL]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return lawdoc.Node{}
	}
	defer c.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.log.Warn("law api: building request", zap.Error(err))
		return lawdoc.Node{}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn("law api: request failed", zap.String("url", reqURL), zap.Error(err))
		return lawdoc.Node{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("law api: unexpected status",
			zap.Int("status", resp.StatusCode), zap.String("url", reqURL))
		return lawdoc.Node{}
	}

	doc, err := lawdoc.DecodeXML(resp.Body)
	if err != nil {
		c.log.Warn("law api: parsing response", zap.String("url", reqURL), zap.Error(err))
		return lawdoc.Node{}
	}

	c.mu.Lock()
	c.cache[reqURL] = doc
	c.mu.Unlock()
	return doc
}

// SearchOptions refine a list query.
type SearchOptions struct {
	// Display overrides the configured per-query hit count.
	Display int

	// Statute restricts precedent results to those citing the named
	// statute (the JO filter).
	Statute string
}

// searchRoots maps each database to the root element of its list response.
var searchRoots = map[types.Source]string{
	types.SourceLaw:    "LawSearch",
	types.SourceAdmRul: "AdmRulSearch",
	types.SourcePrec:   "PrecSearch",
}

// SearchList queries one database for candidate documents matching the
// query. Results are raw metadata items; fetch their bodies with
// FetchDocument.
func (c *Client) SearchList(ctx context.Context, target types.Source, query string, opts SearchOptions) []lawdoc.Node {
	if c.Mock() {
		return nil
	}

	display := opts.Display
	if display <= 0 {
		display = c.cfg.DisplayPerQuery
	}

	params := url.Values{
		"OC":      {c.cfg.APIID},
		"target":  {string(target)},
		"type":    {"XML"},
		"query":   {query},
		"display": {strconv.Itoa(display)},
		"nw":      {currentLawOnly},
	}
	if opts.Statute != "" {
		params.Set("JO", opts.Statute)
	}

	c.log.Debug("law api: list search",
		zap.String("target", string(target)), zap.String("query", query))

	data := c.fetch(ctx, c.cfg.BaseURL+"/DRF/lawSearch.do?"+params.Encode())

	root, ok := searchRoots[target]
	if !ok {
		root = "LawSearch"
	}

	var items []lawdoc.Node
	for _, v := range data.Child(root).List(string(target)) {
		if item := lawdoc.AsNode(v); len(item) > 0 {
			items = append(items, item)
		}
	}
	return items
}

// ArticleHit is one article-level result of the intelligent search: a
// single statute or rule clause with its cleaned content.
type ArticleHit struct {
	LawName      string
	ArticleTitle string
	Content      string
	Link         string
	Raw          lawdoc.Node
}

// Title renders the hit's display title for selection and analysis.
func (h ArticleHit) Title() string {
	return h.LawName + " " + h.ArticleTitle
}

// Intelligent search scopes.
const (
	ScopeLawArticles    = 0
	ScopeAdmRulArticles = 2
)

// AISearch runs the intelligent article-level search, which answers a
// natural-language key phrase with individual clauses rather than whole
// documents.
func (c *Client) AISearch(ctx context.Context, query string, scope int) []ArticleHit {
	if c.Mock() {
		return nil
	}

	params := url.Values{
		"OC":      {c.cfg.APIID},
		"target":  {"aiSearch"},
		"type":    {"XML"},
		"search":  {strconv.Itoa(scope)},
		"query":   {query},
		"display": {"20"},
		"page":    {"1"},
	}

	data := c.fetch(ctx, c.cfg.BaseURL+"/DRF/lawSearch.do?"+params.Encode())
	root := data.Child("aiSearch")

	var candidates []any
	candidates = append(candidates, root.List("법령조문")...)
	candidates = append(candidates, root.List("행정규칙조문")...)

	var hits []ArticleHit
	for _, v := range candidates {
		item := lawdoc.AsNode(v)

		name := item.Str("법령명")
		if name == "" {
			name = item.Str("행정규칙명")
		}

		artNum := item.Str("조문번호")
		if artNum == "" {
			artNum = "?"
		}

		hits = append(hits, ArticleHit{
			LawName:      name,
			ArticleTitle: fmt.Sprintf("제%s조(%s)", artNum, item.Str("조문제목")),
			Content:      lawdoc.CleanText(item.Str("조문내용")),
			Link:         c.cfg.BaseURL + "/LSW/lsInfoP.do?lsiSeq=" + item.Str("법령일련번호"),
			Raw:          item,
		})
	}

	c.log.Debug("law api: intelligent search",
		zap.String("query", query), zap.Int("scope", scope), zap.Int("hits", len(hits)))
	return hits
}

// serviceIDField maps each database to the identifier field its list items
// carry for body fetches.
var serviceIDField = map[types.Source]string{
	types.SourceLaw:    "법령ID",
	types.SourceAdmRul: "행정규칙일련번호",
	types.SourcePrec:   "판례일련번호",
}

// detailLinkField maps each database to the human view link field of its
// list items.
var detailLinkField = map[types.Source]string{
	types.SourceLaw:    "법령상세링크",
	types.SourceAdmRul: "행정규칙상세링크",
	types.SourcePrec:   "판례상세링크",
}

// FetchDocument retrieves the full body of a list item and returns its
// flattened text, a human view URL, and the raw structured payload. A
// failed fetch yields empty text and an empty payload.
func (c *Client) FetchDocument(ctx context.Context, item lawdoc.Node, target types.Source) (text, viewURL string, raw lawdoc.Node) {
	id := item.Str(serviceIDField[target])
	if id == "" || c.Mock() {
		return "", "", lawdoc.Node{}
	}

	params := url.Values{
		"OC":     {c.cfg.APIID},
		"target": {string(target)},
		"type":   {"XML"},
		"ID":     {id},
	}

	raw = c.fetch(ctx, c.cfg.BaseURL+"/DRF/lawService.do?"+params.Encode())

	viewURL = item.Str(detailLinkField[target])
	if viewURL != "" {
		viewURL = c.cfg.BaseURL + viewURL
	} else {
		viewURL = c.cfg.BaseURL + "/DRF/lawService.do?target=" + string(target) + "&ID=" + id + "&type=HTML"
	}

	return lawdoc.DocumentText(raw), viewURL, raw
}

// DetailLink returns a list item's human view link per database, or ""
// when the item carries none.
func DetailLink(item lawdoc.Node, target types.Source) string {
	return item.Str(detailLinkField[target])
}

// DisplayName returns a list item's human title per database.
func DisplayName(item lawdoc.Node, target types.Source) string {
	switch target {
	case types.SourceAdmRul:
		return item.Str("행정규칙명")
	case types.SourcePrec:
		if name := item.Str("사건명"); name != "" {
			return name
		}
		return item.Str("판례내용")
	default:
		return item.Str("법령명한글")
	}
}
