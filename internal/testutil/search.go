package testutil

import (
	"context"
	"sync"

	"github.com/atomicstack/transmission-tui/internal/search"
)

// Provider is a canned search.Provider that also implements search.Detailer.
type Provider struct {
	Src     search.Source
	Hits    []search.Candidate
	Err     error
	Details map[string]search.Candidate

	mu    sync.Mutex
	terms []string
}

func (p *Provider) Source() search.Source { return p.Src }

func (p *Provider) Search(ctx context.Context, term string) ([]search.Candidate, error) {
	p.mu.Lock()
	p.terms = append(p.terms, term)
	p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	out := make([]search.Candidate, len(p.Hits))
	for i, h := range p.Hits {
		if h.Source == search.SourceUnknown {
			h.Source = p.Src
		}
		out[i] = h
	}
	return out, nil
}

func (p *Provider) Detail(ctx context.Context, c search.Candidate) (search.Candidate, error) {
	if d, ok := p.Details[c.ID]; ok {
		d.Detailed = true
		return d, nil
	}
	c.Detailed = true
	return c, nil
}

// Terms returns the search terms received so far.
func (p *Provider) Terms() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.terms...)
}
