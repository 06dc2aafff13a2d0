package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/citegraph/pkg/crawl"
	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
	"github.com/matzehuels/citegraph/pkg/httputil"
	cgio "github.com/matzehuels/citegraph/pkg/io"
	"github.com/matzehuels/citegraph/pkg/integrations/semanticscholar"
	"github.com/matzehuels/citegraph/pkg/tasks"
)

// KindAuthor is the author search kind. It is accepted by the request
// schema but has no crawl path.
const KindAuthor = "autor"

// SearchRequest starts a crawl.
type SearchRequest struct {
	Title       string `json:"titulo" validate:"required,min=3,max=500"`
	Provider    string `json:"motor,omitempty"`
	Kind        string `json:"tipo,omitempty"` // citas (default), referencias, autor
	Depth       int    `json:"niveles" validate:"gte=0,lte=5"`
	MaxChildren int    `json:"max_hijos,omitempty" validate:"gte=0,lte=100"`
	APIKey      string `json:"api_key,omitempty"`
	Merge       *bool  `json:"merge,omitempty"` // default true
}

// SearchStarted acknowledges a background search.
type SearchStarted struct {
	TaskID   string `json:"task_id"`
	Message  string `json:"mensaje"`
	Title    string `json:"titulo"`
	Provider string `json:"motor"`
	Depth    int    `json:"niveles"`
}

func (s *Service) taskRequest(req SearchRequest, maxDepth int) (tasks.Request, error) {
	if err := cgerrors.ValidateStruct(req); err != nil {
		return tasks.Request{}, err
	}
	if req.Depth > maxDepth {
		return tasks.Request{}, cgerrors.New(cgerrors.ErrCodeInvalidInput,
			"depth %d exceeds %d; use the background search for deeper crawls", req.Depth, maxDepth)
	}
	kind := req.Kind
	if kind == "" {
		kind = "citas"
	}
	if kind == KindAuthor || kind == "author" {
		return tasks.Request{}, cgerrors.New(cgerrors.ErrCodeUnsupported, "search kind not supported: %s", kind)
	}
	dir, err := crawl.ParseDirection(kind)
	if err != nil {
		return tasks.Request{}, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "invalid search kind")
	}
	p, err := s.provider(req.Provider, req.APIKey)
	if err != nil {
		return tasks.Request{}, err
	}
	children := req.MaxChildren
	if children == 0 {
		children = s.opts.MaxChildren
	}
	return tasks.Request{
		Query:       strings.TrimSpace(req.Title),
		Provider:    p,
		Direction:   dir,
		Depth:       req.Depth,
		MaxChildren: min(children, crawl.DefaultMaxChildren),
		Merge:       req.Merge == nil || *req.Merge,
	}, nil
}

// StartSearch runs a crawl in the background and returns its task id.
func (s *Service) StartSearch(ctx context.Context, req SearchRequest) (*SearchStarted, error) {
	tr, err := s.taskRequest(req, s.opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	t, err := s.manager.Start(ctx, tr)
	if err != nil {
		return nil, err
	}
	key := req.Provider
	if key == "" {
		key = semanticscholar.ProviderKey
	}
	kind := "citas"
	if tr.Direction == crawl.References {
		kind = "referencias"
	}
	return &SearchStarted{
		TaskID:   t.ID,
		Message:  fmt.Sprintf("búsqueda de %s iniciada", kind),
		Title:    tr.Query,
		Provider: key,
		Depth:    req.Depth,
	}, nil
}

// SearchSync runs a shallow crawl inline and returns the resulting current
// graph. Depths above 2 are rejected.
func (s *Service) SearchSync(ctx context.Context, req SearchRequest) (cgio.VisDocument, error) {
	tr, err := s.taskRequest(req, DefaultSyncMaxDepth)
	if err != nil {
		return cgio.VisDocument{}, err
	}
	out, err := s.manager.Run(ctx, tr)
	if err != nil {
		return cgio.VisDocument{}, cgerrors.Wrap(cgerrors.ErrCodeInternal, err, "search %q failed", tr.Query)
	}
	return cgio.ToVisJS(out.Integration.Graph), nil
}

// Progress returns a task's progress snapshot.
func (s *Service) Progress(id string) (tasks.Snapshot, error) {
	t, err := s.task(id)
	if err != nil {
		return tasks.Snapshot{}, err
	}
	return t.Snapshot(), nil
}

// Cancel cancels an in-progress task.
func (s *Service) Cancel(id string) error {
	err := s.manager.Cancel(id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tasks.ErrNotFound):
		return cgerrors.Wrap(cgerrors.ErrCodeNotFound, err, "task not found")
	case errors.Is(err, tasks.ErrNotCancellable):
		return cgerrors.Wrap(cgerrors.ErrCodeConflict, err, "task cannot be cancelled")
	}
	return err
}

// Result returns a finished task's graph. A task still running is
// IN_PROGRESS; a failed task is INTERNAL with its message; a cancelled
// task returns its partial graph, or CONFLICT when it has none.
func (s *Service) Result(id string) (cgio.VisDocument, error) {
	t, err := s.task(id)
	if err != nil {
		return cgio.VisDocument{}, err
	}
	g := t.Graph()
	switch t.Status() {
	case tasks.StatusPending, tasks.StatusInProgress:
		return cgio.VisDocument{}, cgerrors.New(cgerrors.ErrCodeInProgress, "search still in progress")
	case tasks.StatusError:
		msg := t.Err()
		if msg == "" {
			msg = "search failed"
		}
		return cgio.VisDocument{}, cgerrors.New(cgerrors.ErrCodeInternal, "%s", msg)
	case tasks.StatusCancelled:
		if g == nil || g.VertexCount() == 0 {
			return cgio.VisDocument{}, cgerrors.New(cgerrors.ErrCodeConflict, "search cancelled without results")
		}
	}
	if g == nil {
		return cgio.VisDocument{}, cgerrors.New(cgerrors.ErrCodeNotFound, "no results available")
	}
	return cgio.ToVisJS(g), nil
}

func (s *Service) task(id string) (*tasks.Task, error) {
	t, err := s.manager.Get(id)
	if err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeNotFound, err, "task not found")
	}
	return t, nil
}

// Paper looks up one paper by title or DOI.
func (s *Service) Paper(ctx context.Context, query, provider, apiKey string) (cgio.InfoDoc, error) {
	if err := cgerrors.ValidateQuery(query); err != nil {
		return cgio.InfoDoc{}, err
	}
	p, err := s.provider(provider, apiKey)
	if err != nil {
		return cgio.InfoDoc{}, err
	}
	w, err := p.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return cgio.InfoDoc{}, upstreamError(err, "paper lookup")
	}
	if w == nil {
		return cgio.InfoDoc{}, cgerrors.New(cgerrors.ErrCodeNotFound, "paper not found")
	}
	return cgio.NewInfoDoc(w.Info), nil
}

// AuthorPapers is the result of [Service.AuthorPapers].
type AuthorPapers struct {
	AuthorID string         `json:"author_id"`
	Name     string         `json:"nombre"`
	Papers   []cgio.InfoDoc `json:"articulos"`
}

// AuthorPapers resolves an author by name on Semantic Scholar and lists
// up to limit of their papers (50 by default, at most 500).
func (s *Service) AuthorPapers(ctx context.Context, name string, limit int, apiKey string) (*AuthorPapers, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return nil, cgerrors.New(cgerrors.ErrCodeInvalidInput, "author name must be at least 2 characters")
	}
	if limit < 0 || limit > 500 {
		return nil, cgerrors.New(cgerrors.ErrCodeInvalidInput, "limit must be between 1 and 500")
	}
	if apiKey == "" {
		apiKey = s.opts.APIKey
	}
	c := s.scholar(apiKey)
	a, err := c.SearchAuthor(ctx, name, s.opts.Refresh)
	if err != nil {
		return nil, upstreamError(err, "author lookup")
	}
	if a == nil {
		return nil, cgerrors.New(cgerrors.ErrCodeNotFound, "author not found")
	}
	papers, err := c.AuthorPapers(ctx, a.AuthorID, limit, s.opts.Refresh)
	if err != nil {
		return nil, upstreamError(err, "author papers lookup")
	}
	out := &AuthorPapers{AuthorID: a.AuthorID, Name: a.Name, Papers: make([]cgio.InfoDoc, len(papers))}
	for i, p := range papers {
		out.Papers[i] = cgio.NewInfoDoc(p.Info())
	}
	return out, nil
}

// upstreamError classifies a provider failure that outlasted the retry
// policy.
func upstreamError(err error, what string) error {
	var re *httputil.RetryableError
	if errors.As(err, &re) && re.Throttled {
		return cgerrors.Wrap(cgerrors.ErrCodeRateLimited, err, "%s: provider is throttling requests, try again later", what)
	}
	return cgerrors.Wrap(cgerrors.ErrCodeNetwork, err, "%s failed", what)
}
