// Package pubmed fetches article records from the NCBI E-utilities API:
// an esearch call resolves a search term to PMIDs, an efetch call
// resolves PMIDs to full records.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/strata-bio/pubgraph/internal/domain"
)

const (
	// DefaultBaseURL is the public E-utilities endpoint.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	defaultTimeout = 30 * time.Second
	toolName       = "pubgraph"
)

// Config controls the E-utilities client. Email identifies the caller to
// NCBI per their usage policy; APIKey raises the rate limit.
type Config struct {
	BaseURL string
	Email   string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	apiKey     string
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		email:      cfg.Email,
		apiKey:     cfg.APIKey,
	}
}

// Search fetches up to maxResults article records matching the term.
func (c *Client) Search(ctx context.Context, term string, maxResults int) ([]*domain.Article, error) {
	ids, err := c.searchIDs(ctx, term, maxResults)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.Article{}, nil
	}
	return c.fetchArticles(ctx, ids)
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (c *Client) searchIDs(ctx context.Context, term string, maxResults int) ([]string, error) {
	params := c.baseParams()
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmax", fmt.Sprintf("%d", maxResults))
	params.Set("retmode", "json")

	body, err := c.get(ctx, "/esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("esearch: %w", err)
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("esearch: decode response: %w", err)
	}
	return resp.ESearchResult.IDList, nil
}

type efetchResponse struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Texts []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			AuthorList struct {
				Authors []pubmedAuthor `xml:"Author"`
			} `xml:"AuthorList"`
			Journal struct {
				Issue struct {
					PubDate pubmedDate `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

type pubmedAuthor struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	Initials       string `xml:"Initials"`
	CollectiveName string `xml:"CollectiveName"`
}

type pubmedDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

func (c *Client) fetchArticles(ctx context.Context, ids []string) ([]*domain.Article, error) {
	params := c.baseParams()
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "/efetch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("efetch: %w", err)
	}

	var resp efetchResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("efetch: decode response: %w", err)
	}

	articles := make([]*domain.Article, 0, len(resp.Articles))
	for _, raw := range resp.Articles {
		pmid := strings.TrimSpace(raw.Citation.PMID)
		if pmid == "" {
			// Records without an identifier cannot be stored or indexed.
			continue
		}

		article := &domain.Article{
			ID:          pmid,
			Title:       strings.TrimSpace(raw.Citation.Article.Title),
			Abstract:    joinAbstract(raw.Citation.Article.Abstract.Texts),
			Authors:     formatAuthors(raw.Citation.Article.AuthorList.Authors),
			PublishedOn: parsePubDate(raw.Citation.Article.Journal.Issue.PubDate),
			Source:      "pubmed",
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("tool", toolName)
	if c.email != "" {
		params.Set("email", c.email)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// joinAbstract concatenates labeled abstract sections (Background,
// Methods, ...) into one text.
func joinAbstract(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// formatAuthors renders author names in Medline citation form
// ("Smith JA"), falling back to the collective name for group authors.
func formatAuthors(authors []pubmedAuthor) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		last := strings.TrimSpace(a.LastName)
		switch {
		case last != "" && strings.TrimSpace(a.Initials) != "":
			names = append(names, last+" "+strings.TrimSpace(a.Initials))
		case last != "" && strings.TrimSpace(a.ForeName) != "":
			names = append(names, last+" "+strings.TrimSpace(a.ForeName))
		case last != "":
			names = append(names, last)
		case strings.TrimSpace(a.CollectiveName) != "":
			names = append(names, strings.TrimSpace(a.CollectiveName))
		}
	}
	return names
}

// parsePubDate handles the three structured PubDate shapes PubMed emits:
// year+month+day, year+month, and bare year. Month may be a name or a
// number. Unparseable dates yield nil rather than a zero date.
func parsePubDate(d pubmedDate) *time.Time {
	year := strings.TrimSpace(d.Year)
	if year == "" {
		// MedlineDate covers ranges like "1998 Dec-1999 Jan"; keep the
		// leading year.
		if m := strings.TrimSpace(d.MedlineDate); len(m) >= 4 {
			year = m[:4]
		} else {
			return nil
		}
	}
	month := strings.TrimSpace(d.Month)
	day := strings.TrimSpace(d.Day)

	layouts := []struct {
		layout string
		value  string
	}{
		{"2006 Jan 2", year + " " + month + " " + day},
		{"2006 1 2", year + " " + month + " " + day},
		{"2006 Jan", year + " " + month},
		{"2006 1", year + " " + month},
		{"2006", year},
	}

	for _, l := range layouts {
		if t, err := time.Parse(l.layout, l.value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
