package semanticscholar

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/citegraph/pkg/crawl"
	"github.com/matzehuels/citegraph/pkg/integrations"
)

// Provider adapts a [Client] to [crawl.Provider].
type Provider struct {
	client  *Client
	refresh bool
}

// NewProvider wraps c. When refresh is true every lookup bypasses the
// response cache.
func NewProvider(c *Client, refresh bool) *Provider {
	return &Provider{client: c, refresh: refresh}
}

// Client returns the wrapped client.
func (p *Provider) Client() *Client { return p.client }

func (p *Provider) Name() string { return EngineName }

func (p *Provider) Search(ctx context.Context, query string) (*crawl.Work, error) {
	paper, err := p.client.SearchPaper(ctx, query, p.refresh)
	if err != nil {
		return nil, classify(ctx, err)
	}
	if paper == nil {
		return nil, nil
	}
	return &crawl.Work{ID: paper.PaperID, Info: paper.Info()}, nil
}

func (p *Provider) Neighbors(ctx context.Context, id string, dir crawl.Direction, limit int) ([]crawl.Work, error) {
	papers, err := p.client.neighbors(ctx, id, dir, limit, p.refresh)
	if err != nil {
		return nil, classify(ctx, err)
	}
	out := make([]crawl.Work, len(papers))
	for i, n := range papers {
		out[i] = crawl.Work{ID: n.PaperID, Info: n.Info()}
	}
	return out, nil
}

// classify maps client errors onto the crawler's contract: 404 is no
// match, cancellation passes through, anything else is ErrNoResult.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return fmt.Errorf("%w: %w", crawl.ErrNoResult, err)
}

var _ crawl.Provider = (*Provider)(nil)
