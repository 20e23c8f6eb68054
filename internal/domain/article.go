package domain

import (
	"strings"
	"time"
)

// Article is a bibliographic record ingested from an external source.
// The ID is the source's stable identifier (a PMID for PubMed) and is the
// upsert key: re-ingesting an article overwrites it in place.
type Article struct {
	ID string
	// Title of the publication.
	Title string
	// Authors in citation order. Order matters for display but not for
	// ranking or graph derivation.
	Authors []string
	// Abstract is the full abstract text; may be empty for records the
	// source returns without one.
	Abstract string
	// PublishedOn is nil when the source date could not be parsed.
	PublishedOn *time.Time
	// Source names the bibliographic backend, e.g. "pubmed".
	Source string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the invariants required before an article may be stored.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return NewDomainError(ErrCodeValidation, "article id must not be empty")
	}
	return nil
}

// HasAbstract reports whether the article carries indexable text.
// Articles without one are still stored so they appear in counts and in
// the co-authorship graph; they just produce no chunks.
func (a *Article) HasAbstract() bool {
	return strings.TrimSpace(a.Abstract) != ""
}
