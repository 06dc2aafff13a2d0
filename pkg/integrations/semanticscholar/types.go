package semanticscholar

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/citegraph/pkg/graph"
)

// Paper is a paper record as returned by the Graph API. Neighbor lists
// carry the same shape with fewer fields populated.
type Paper struct {
	PaperID       string         `json:"paperId"`
	Title         string         `json:"title"`
	Year          int            `json:"year"`
	Authors       []Author       `json:"authors"`
	ExternalIDs   map[string]any `json:"externalIds"`
	Venue         string         `json:"venue"`
	URL           string         `json:"url"`
	Abstract      string         `json:"abstract"`
	CitationCount int            `json:"citationCount"`
	Citations     []Paper        `json:"citations"`
	References    []Paper        `json:"references"`
}

// Author is an author record. The API returns objects; plain strings are
// accepted as a bare name.
type Author struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

// UnmarshalJSON accepts {"authorId":..,"name":..} or "Name".
func (a *Author) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*a = Author{Name: name}
		return nil
	}
	type plain Author
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = Author(p)
	return nil
}

type searchResponse struct {
	Total int     `json:"total"`
	Data  []Paper `json:"data"`
}

type authorSearchResponse struct {
	Data []Author `json:"data"`
}

type authorPapersResponse struct {
	Data []Paper `json:"data"`
}

// DOI returns externalIds.DOI, or "" when absent.
func (p Paper) DOI() string {
	s, _ := p.ExternalIDs["DOI"].(string)
	return s
}

// Info maps the paper onto the graph's article payload. Missing titles
// become "Sin título"; missing venue and abstract become "No disponible".
// Citation and reference lists are reduced to provider ids, or titles when
// an id is missing.
func (p Paper) Info() graph.ArticleInfo {
	info := graph.NewArticleInfo()
	if t := strings.TrimSpace(p.Title); t != "" {
		info.Title = p.Title
	} else {
		info.Title = graph.Untitled
	}
	if p.Venue != "" {
		info.Venue = p.Venue
	}
	if p.Abstract != "" {
		info.Abstract = p.Abstract
	}
	info.Year = p.Year
	info.URL = p.URL
	info.DOI = p.DOI()
	info.CitationCount = p.CitationCount
	info.PaperID = p.PaperID
	for _, a := range p.Authors {
		if a.Name != "" {
			info.Authors = append(info.Authors, a.Name)
		}
	}
	info.Citations = refIDs(p.Citations)
	info.References = refIDs(p.References)
	return info
}

func refIDs(ps []Paper) []string {
	if len(ps) == 0 {
		return nil
	}
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		if p.PaperID != "" {
			out = append(out, p.PaperID)
		} else {
			out = append(out, p.Title)
		}
	}
	return out
}
