package semanticscholar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/citegraph/pkg/crawl"
	"github.com/matzehuels/citegraph/pkg/graph"
	"github.com/matzehuels/citegraph/pkg/httputil"
)

var fastPolicy = httputil.Policy{Attempts: 2, Delay: time.Millisecond, Factor: 1}

func testClient(t *testing.T, h http.HandlerFunc, apiKey string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(nil, time.Hour, apiKey)
	c.SetBaseURL(srv.URL + "/")
	c.SetHTTPClient(srv.Client())
	c.SetPolicy(fastPolicy)
	return c
}

const rootPaper = `{
	"paperId": "p1",
	"title": "Attention Is All You Need",
	"year": 2017,
	"authors": [{"authorId": "a1", "name": "Vaswani"}, "Shazeer"],
	"externalIds": {"DOI": "10.1/att"},
	"venue": "",
	"url": "https://example.org/p1",
	"citationCount": 42,
	"citations": [{"paperId": "c1", "title": "Citing"}],
	"references": [{"title": "No id"}]
}`

func TestSearchPaper(t *testing.T) {
	var gotKey, gotQuery, gotAccept string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/paper/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotKey = r.Header.Get("x-api-key")
		gotAccept = r.Header.Get("Accept")
		gotQuery = r.URL.Query().Get("query")
		if r.URL.Query().Get("limit") != "1" || r.URL.Query().Get("fields") != PaperFields {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"total": 1, "data": [` + rootPaper + `]}`))
	}, "secret")

	p, err := c.SearchPaper(context.Background(), "attention", false)
	if err != nil {
		t.Fatalf("SearchPaper() error: %v", err)
	}
	if p == nil || p.PaperID != "p1" {
		t.Fatalf("SearchPaper() = %+v", p)
	}
	if gotKey != "secret" || gotAccept != "application/json" || gotQuery != "attention" {
		t.Errorf("headers/query: key=%q accept=%q query=%q", gotKey, gotAccept, gotQuery)
	}
	if len(p.Authors) != 2 || p.Authors[1].Name != "Shazeer" {
		t.Errorf("authors = %+v", p.Authors)
	}
}

func TestSearchPaperNoKeyHeader(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["X-Api-Key"]; ok {
			t.Error("x-api-key sent without a key")
		}
		w.Write([]byte(`{"total": 0, "data": []}`))
	}, "")

	p, err := c.SearchPaper(context.Background(), "nothing", false)
	if err != nil || p != nil {
		t.Errorf("SearchPaper() = %v, %v; want nil, nil", p, err)
	}
}

func TestPaperInfo(t *testing.T) {
	var p Paper
	if err := json.Unmarshal([]byte(rootPaper), &p); err != nil {
		t.Fatal(err)
	}
	info := p.Info()

	if info.Title != "Attention Is All You Need" || info.Year != 2017 || info.DOI != "10.1/att" {
		t.Errorf("info = %+v", info)
	}
	if info.Venue != graph.Placeholder || info.Abstract != graph.Placeholder {
		t.Errorf("venue/abstract should be placeholders: %q %q", info.Venue, info.Abstract)
	}
	if info.CitationCount != 42 || info.PaperID != "p1" || info.Category != graph.CategoryArticle {
		t.Errorf("info = %+v", info)
	}
	if len(info.Citations) != 1 || info.Citations[0] != "c1" {
		t.Errorf("citations = %v", info.Citations)
	}
	if len(info.References) != 1 || info.References[0] != "No id" {
		t.Errorf("references should fall back to title: %v", info.References)
	}
}

func TestPaperInfoUntitled(t *testing.T) {
	info := Paper{PaperID: "x"}.Info()
	if info.Title != graph.Untitled {
		t.Errorf("Title = %q, want %q", info.Title, graph.Untitled)
	}
	if info.Citations != nil || info.References != nil {
		t.Error("empty neighbor lists should stay nil")
	}
}

func TestNeighborsLimitThenFilter(t *testing.T) {
	var gotFields string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFields = r.URL.Query().Get("fields")
		w.Write([]byte(`{"paperId": "p1", "citations": [
			{"paperId": "c1", "title": "One"},
			{"paperId": "c2", "title": ""},
			{"paperId": "c3", "title": "Three"},
			{"paperId": "c4", "title": "Four"}
		]}`))
	}, "")

	got, err := c.Citations(context.Background(), "p1", 3, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].PaperID != "c1" || got[1].PaperID != "c3" {
		t.Errorf("Citations() = %+v", got)
	}
	if !strings.HasPrefix(gotFields, "citations.paperId,citations.title") {
		t.Errorf("fields = %q", gotFields)
	}
}

func TestReferences(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Query().Get("fields"), "references.authors") {
			t.Errorf("fields = %q", r.URL.Query().Get("fields"))
		}
		w.Write([]byte(`{"paperId": "p1", "references": [{"paperId": "r1", "title": "Ref"}]}`))
	}, "")

	got, err := c.References(context.Background(), "p1", 10, false)
	if err != nil || len(got) != 1 || got[0].Title != "Ref" {
		t.Errorf("References() = %+v, %v", got, err)
	}
}

func TestNeighborsEmptyID(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, "")
	got, err := c.Citations(context.Background(), "", 10, false)
	if err != nil || got != nil {
		t.Errorf("Citations(\"\") = %v, %v", got, err)
	}
}

func TestAuthorEndpoints(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/author/search":
			w.Write([]byte(`{"data": [{"authorId": "a1", "name": "Ada"}]}`))
		case "/author/a1/papers":
			if r.URL.Query().Get("limit") != "50" {
				t.Errorf("limit = %s", r.URL.Query().Get("limit"))
			}
			w.Write([]byte(`{"data": [{"paperId": "p1", "title": "T"}]}`))
		default:
			http.NotFound(w, r)
		}
	}, "")

	a, err := c.SearchAuthor(context.Background(), "Ada", false)
	if err != nil || a == nil || a.AuthorID != "a1" {
		t.Fatalf("SearchAuthor() = %+v, %v", a, err)
	}
	papers, err := c.AuthorPapers(context.Background(), a.AuthorID, 0, false)
	if err != nil || len(papers) != 1 {
		t.Errorf("AuthorPapers() = %+v, %v", papers, err)
	}
}

func TestProviderSearch(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 1, "data": [` + rootPaper + `]}`))
	}, "")
	p := NewProvider(c, false)

	if p.Name() != EngineName {
		t.Errorf("Name() = %q", p.Name())
	}
	w, err := p.Search(context.Background(), "attention")
	if err != nil || w == nil {
		t.Fatalf("Search() = %v, %v", w, err)
	}
	if w.ID != "p1" || w.Info.Title != "Attention Is All You Need" {
		t.Errorf("work = %+v", w)
	}
}

func TestProviderNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}, "")
	p := NewProvider(c, false)

	works, err := p.Neighbors(context.Background(), "missing", crawl.Citations, 5)
	if err != nil || len(works) != 0 {
		t.Errorf("Neighbors() on 404 = %v, %v; want empty, nil", works, err)
	}
}

func TestProviderNoResultAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0.001")
		w.WriteHeader(http.StatusBadGateway)
	}, "")
	p := NewProvider(c, false)

	_, err := p.Neighbors(context.Background(), "p1", crawl.References, 5)
	if !errors.Is(err, crawl.ErrNoResult) {
		t.Errorf("err = %v, want ErrNoResult", err)
	}
	if calls.Load() != int32(fastPolicy.Attempts) {
		t.Errorf("calls = %d, want %d", calls.Load(), fastPolicy.Attempts)
	}
}

func TestProviderCancelled(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, "")
	p := NewProvider(c, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Search(ctx, "x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSetBaseURL(t *testing.T) {
	c := NewClient(nil, time.Hour, "")
	c.SetBaseURL("http://mirror.local/graph/v1/")
	if c.baseURL != "http://mirror.local/graph/v1" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	c.SetBaseURL("")
	if c.baseURL != defaultBaseURL {
		t.Errorf("empty root should restore %q, got %q", defaultBaseURL, c.baseURL)
	}
}
