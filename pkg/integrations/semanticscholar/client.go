package semanticscholar

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/citegraph/pkg/cache"
	"github.com/matzehuels/citegraph/pkg/crawl"
	"github.com/matzehuels/citegraph/pkg/integrations"
)

const (
	// EngineName labels vertices crawled from Semantic Scholar.
	EngineName = "Semantic Scholar"

	// ProviderKey registers the provider in a [crawl.Registry].
	ProviderKey = "semantic_scholar"

	// PaperFields is the projection used for search and paper detail.
	PaperFields = "paperId,title,year,authors,externalIds,venue,url,abstract,citationCount,citations,references"

	// DefaultAuthorPapers is the default page size for [Client.AuthorPapers].
	DefaultAuthorPapers = 50

	defaultBaseURL = "https://api.semanticscholar.org/graph/v1"
)

// neighborFields projects the citing or cited papers of a paper.
func neighborFields(dir crawl.Direction) string {
	prefix := string(dir) + "."
	parts := []string{"paperId", "title", "year", "citationCount", "authors"}
	for i, p := range parts {
		parts[i] = prefix + p
	}
	return strings.Join(parts, ",")
}

// Client provides access to the Semantic Scholar Graph API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client with the given cache backend. apiKey may be
// empty.
func NewClient(backend cache.Cache, cacheTTL time.Duration, apiKey string) *Client {
	headers := map[string]string{"Accept": "application/json"}
	if apiKey != "" {
		headers["x-api-key"] = apiKey
	}
	return &Client{
		Client:  integrations.NewClient(backend, "s2", cacheTTL, headers),
		baseURL: defaultBaseURL,
	}
}

// SetBaseURL points the client at a Graph API mirror or proxy. An empty
// root restores the public endpoint.
func (c *Client) SetBaseURL(root string) {
	if root == "" {
		root = defaultBaseURL
	}
	c.baseURL = strings.TrimRight(root, "/")
}

// SearchPaper returns the best match for a title or DOI, or nil when the
// search has no results.
func (c *Client) SearchPaper(ctx context.Context, query string, refresh bool) (*Paper, error) {
	q := url.Values{"query": {query}, "limit": {"1"}, "fields": {PaperFields}}
	var resp searchResponse
	if err := c.Get(ctx, c.baseURL+"/paper/search?"+q.Encode(), refresh, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}

// Paper fetches one paper by id with the full field projection.
func (c *Client) Paper(ctx context.Context, id string, refresh bool) (*Paper, error) {
	return c.paper(ctx, id, PaperFields, refresh)
}

func (c *Client) paper(ctx context.Context, id, fields string, refresh bool) (*Paper, error) {
	u := fmt.Sprintf("%s/paper/%s?%s", c.baseURL, integrations.PathEscape(id), url.Values{"fields": {fields}}.Encode())
	var p Paper
	if err := c.Get(ctx, u, refresh, &p); err != nil {
		return nil, fmt.Errorf("paper %s: %w", id, err)
	}
	return &p, nil
}

// Citations returns up to limit papers citing id. Entries without a title
// are dropped after the limit is applied.
func (c *Client) Citations(ctx context.Context, id string, limit int, refresh bool) ([]Paper, error) {
	return c.neighbors(ctx, id, crawl.Citations, limit, refresh)
}

// References returns up to limit papers cited by id. Entries without a
// title are dropped after the limit is applied.
func (c *Client) References(ctx context.Context, id string, limit int, refresh bool) ([]Paper, error) {
	return c.neighbors(ctx, id, crawl.References, limit, refresh)
}

func (c *Client) neighbors(ctx context.Context, id string, dir crawl.Direction, limit int, refresh bool) ([]Paper, error) {
	if id == "" {
		return nil, nil
	}
	p, err := c.paper(ctx, id, neighborFields(dir), refresh)
	if err != nil {
		return nil, err
	}
	list := p.Citations
	if dir == crawl.References {
		list = p.References
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]Paper, 0, len(list))
	for _, n := range list {
		if n.Title != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

// SearchAuthor returns the best author match for name, or nil.
func (c *Client) SearchAuthor(ctx context.Context, name string, refresh bool) (*Author, error) {
	q := url.Values{"query": {name}, "limit": {"1"}}
	var resp authorSearchResponse
	if err := c.Get(ctx, c.baseURL+"/author/search?"+q.Encode(), refresh, &resp); err != nil {
		return nil, fmt.Errorf("author search %q: %w", name, err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}

// AuthorPapers lists up to limit papers of an author ([DefaultAuthorPapers]
// when limit is not positive).
func (c *Client) AuthorPapers(ctx context.Context, authorID string, limit int, refresh bool) ([]Paper, error) {
	if limit <= 0 {
		limit = DefaultAuthorPapers
	}
	q := url.Values{"fields": {PaperFields}, "limit": {strconv.Itoa(limit)}}
	u := fmt.Sprintf("%s/author/%s/papers?%s", c.baseURL, integrations.PathEscape(authorID), q.Encode())
	var resp authorPapersResponse
	if err := c.Get(ctx, u, refresh, &resp); err != nil {
		return nil, fmt.Errorf("author papers %s: %w", authorID, err)
	}
	return resp.Data, nil
}
