package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// DefaultApibayURL is the PirateBay JSON API.
const DefaultApibayURL = "https://apibay.org"

// apibay answers an empty search with this single placeholder hit.
const apibayNoResultsID = "0"

// Apibay searches The Pirate Bay through apibay.org.
type Apibay struct {
	base   string
	client *http.Client
	limit  int
}

// NewApibay builds the provider. Empty base and nil client use defaults.
func NewApibay(base string, client *http.Client) *Apibay {
	if base == "" {
		base = DefaultApibayURL
	}
	if client == nil {
		client = DefaultClient
	}
	return &Apibay{base: strings.TrimRight(base, "/"), client: client, limit: DefaultLimit}
}

func (a *Apibay) Source() Source { return SourcePirateBay }

type apibayHit struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	InfoHash string  `json:"info_hash"`
	Seeders  flexInt `json:"seeders"`
	Leechers flexInt `json:"leechers"`
	Size     flexInt `json:"size"`
	Added    flexInt `json:"added"`
	NumFiles flexInt `json:"num_files"`
}

type apibayDetail struct {
	InfoHash string `json:"info_hash"`
	Descr    string `json:"descr"`
}

type apibayFiles struct {
	Name []string  `json:"name"`
	Size []flexInt `json:"size"`
}

// Search implements Provider.
func (a *Apibay) Search(ctx context.Context, term string) ([]Candidate, error) {
	var hits []apibayHit
	endpoint := a.base + "/q.php?q=" + url.QueryEscape(term)
	if err := getJSON(ctx, a.client, endpoint, &hits); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(hits))
	for _, h := range hits {
		if h.ID == apibayNoResultsID || h.ID == "" {
			continue
		}
		out = append(out, h.candidate())
		if len(out) == a.limit {
			break
		}
	}
	return out, nil
}

// Detail implements Detailer using t.php and f.php.
func (a *Apibay) Detail(ctx context.Context, c Candidate) (Candidate, error) {
	id := url.QueryEscape(c.ID)
	var d apibayDetail
	if err := getJSON(ctx, a.client, a.base+"/t.php?id="+id, &d); err != nil {
		return c, err
	}
	var files []apibayFiles
	if err := getJSON(ctx, a.client, a.base+"/f.php?id="+id, &files); err != nil {
		return c, err
	}
	c.Description = strings.TrimSpace(strings.ReplaceAll(d.Descr, "\r\n", "\n"))
	if c.InfoHash == "" {
		c.InfoHash = d.InfoHash
	}
	c.Files = nil
	for _, f := range files {
		for i, name := range f.Name {
			var size int64
			if i < len(f.Size) {
				size = int64(f.Size[i])
			}
			c.Files = append(c.Files, File{Name: name, Size: size})
		}
	}
	c.Detailed = true
	return c, nil
}

func (h apibayHit) candidate() Candidate {
	return Candidate{
		ID:       h.ID,
		Name:     h.Name,
		InfoHash: h.InfoHash,
		Seeders:  int64(h.Seeders),
		Leechers: int64(h.Leechers),
		Size:     int64(h.Size),
		Added:    unixTime(int64(h.Added)),
		Source:   SourcePirateBay,
	}
}

