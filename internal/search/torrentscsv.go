package search

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultTorrentsCSVURL is the torrents-csv service.
const DefaultTorrentsCSVURL = "https://torrents-csv.com"

// TorrentsCSV searches the torrents-csv index.
type TorrentsCSV struct {
	base   string
	client *http.Client
	limit  int
}

// NewTorrentsCSV builds the provider. Empty base and nil client use defaults.
func NewTorrentsCSV(base string, client *http.Client) *TorrentsCSV {
	if base == "" {
		base = DefaultTorrentsCSVURL
	}
	if client == nil {
		client = DefaultClient
	}
	return &TorrentsCSV{base: strings.TrimRight(base, "/"), client: client, limit: DefaultLimit}
}

func (t *TorrentsCSV) Source() Source { return SourceTorrentsCSV }

type csvReply struct {
	Torrents []struct {
		ID          flexInt `json:"id"`
		RowID       flexInt `json:"rowid"`
		InfoHash    string  `json:"infohash"`
		Name        string  `json:"name"`
		SizeBytes   flexInt `json:"size_bytes"`
		CreatedUnix flexInt `json:"created_unix"`
		Seeders     flexInt `json:"seeders"`
		Leechers    flexInt `json:"leechers"`
		Completed   flexInt `json:"completed"`
	} `json:"torrents"`
}

// Search implements Provider. The service enforces the same minimum term
// length as ValidateTerm.
func (t *TorrentsCSV) Search(ctx context.Context, term string) ([]Candidate, error) {
	if err := ValidateTerm(term); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("size", strconv.Itoa(t.limit))
	q.Set("q", term)
	var reply csvReply
	if err := getJSON(ctx, t.client, t.base+"/service/search?"+q.Encode(), &reply); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(reply.Torrents))
	for _, r := range reply.Torrents {
		id := r.ID
		if id == 0 {
			id = r.RowID
		}
		out = append(out, Candidate{
			ID:       strconv.FormatInt(int64(id), 10),
			Name:     r.Name,
			InfoHash: r.InfoHash,
			Seeders:  int64(r.Seeders),
			Leechers: int64(r.Leechers),
			Size:     int64(r.SizeBytes),
			Added:    unixTime(int64(r.CreatedUnix)),
			Source:   SourceTorrentsCSV,
		})
		if len(out) == t.limit {
			break
		}
	}
	return out, nil
}
