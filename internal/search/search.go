// Package search queries public torrent indexes and merges their results.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atomicstack/transmission-tui/internal/logging/events"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"
)

const (
	// MinTermLength is the shortest accepted search term, in characters.
	MinTermLength = 3
	// DefaultLimit caps the hits taken from each provider.
	DefaultLimit = 20
)

var (
	ErrEmptyTerm    = errors.New("Empty search term!")
	ErrTermTooShort = errors.New("Search term too short!")
	ErrNoDetail     = errors.New("Sorry, torrent info is only provided from the PirateBay source!")
)

// Source names the index a candidate came from.
type Source int

const (
	SourceUnknown Source = iota
	SourcePirateBay
	SourceTorrentsCSV
)

func (s Source) String() string {
	switch s {
	case SourcePirateBay:
		return "PirateBay"
	case SourceTorrentsCSV:
		return "torrents-csv"
	default:
		return "unknown"
	}
}

// File is one entry of a candidate's file list.
type File struct {
	Name string
	Size int64
}

// Candidate is one search hit.
type Candidate struct {
	ID       string
	Name     string
	InfoHash string
	Seeders  int64
	Leechers int64
	Size     int64
	Added    time.Time
	Source   Source

	// Filled in by Detail.
	Description string
	Files       []File
	Detailed    bool
}

// Magnet builds a magnet link for the candidate.
func (c Candidate) Magnet() string {
	if c.InfoHash == "" {
		return ""
	}
	link := "magnet:?xt=urn:btih:" + c.InfoHash
	if c.Name != "" {
		link += "&dn=" + url.QueryEscape(c.Name)
	}
	return link
}

// ProviderError names the index that failed.
type ProviderError struct {
	Source Source
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Provider is one searchable index.
type Provider interface {
	Source() Source
	Search(ctx context.Context, term string) ([]Candidate, error)
}

// Detailer is implemented by providers that can describe a single hit.
type Detailer interface {
	Detail(ctx context.Context, c Candidate) (Candidate, error)
}

// ValidateTerm rejects terms no provider would accept.
func ValidateTerm(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return ErrEmptyTerm
	}
	if utf8.RuneCountInString(term) < MinTermLength {
		return ErrTermTooShort
	}
	return nil
}

// Searcher fans a query out to every provider.
type Searcher struct {
	providers []Provider
	timeout   time.Duration
}

// New builds a searcher. A zero timeout means no limit beyond ctx.
func New(timeout time.Duration, providers ...Provider) *Searcher {
	return &Searcher{providers: providers, timeout: timeout}
}

// Search queries all providers in parallel. Hits are merged, de-duplicated
// by info hash and ordered by seeders. Failing providers are reported as a
// joined error next to whatever the others returned.
func (s *Searcher) Search(ctx context.Context, term string) ([]Candidate, error) {
	term = strings.TrimSpace(term)
	if err := ValidateTerm(term); err != nil {
		events.Search.Query(term, 0, err)
		return nil, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	results := make([][]Candidate, len(s.providers))
	errs := make([]error, len(s.providers))
	var g errgroup.Group
	for i, p := range s.providers {
		i, p := i, p
		g.Go(func() error {
			start := time.Now()
			hits, err := p.Search(ctx, term)
			events.Search.Provider(p.Source().String(), len(hits), time.Since(start), err)
			if err != nil {
				errs[i] = &ProviderError{Source: p.Source(), Err: err}
				return errs[i]
			}
			results[i] = hits
			return nil
		})
	}
	// Wait reports only the first failure; the group has no context so the
	// other providers still finish, and every failure is joined below.
	var err error
	if g.Wait() != nil {
		err = errors.Join(errs...)
	}

	merged := rank(term, merge(results...))
	events.Search.Query(term, len(merged), err)
	return merged, err
}

// Detail fills in the description and file list when the hit's provider
// supports it.
func (s *Searcher) Detail(ctx context.Context, c Candidate) (Candidate, error) {
	if c.Detailed {
		return c, nil
	}
	for _, p := range s.providers {
		if p.Source() != c.Source {
			continue
		}
		if d, ok := p.(Detailer); ok {
			if s.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, s.timeout)
				defer cancel()
			}
			return d.Detail(ctx, c)
		}
	}
	return c, ErrNoDetail
}

func merge(lists ...[]Candidate) []Candidate {
	seen := make(map[string]bool)
	var out []Candidate
	for _, list := range lists {
		for _, c := range list {
			key := strings.ToLower(c.InfoHash)
			if key != "" {
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			out = append(out, c)
		}
	}
	return out
}

// rank orders by seeders, breaking ties by how closely the name matches term.
func rank(term string, cands []Candidate) []Candidate {
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Name
	}
	distance := make([]int, len(cands))
	for i := range distance {
		distance[i] = math.MaxInt32
	}
	for _, r := range fuzzy.RankFindNormalizedFold(term, names) {
		distance[r.OriginalIndex] = r.Distance
	}
	idx := make([]int, len(cands))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ca, cb := cands[idx[a]], cands[idx[b]]
		if ca.Seeders != cb.Seeders {
			return ca.Seeders > cb.Seeders
		}
		return distance[idx[a]] < distance[idx[b]]
	})
	out := make([]Candidate, len(cands))
	for i, j := range idx {
		out[i] = cands[j]
	}
	return out
}
