// internal/source/uniprot.go
package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"seqfetch-core/fasta"
	"seqfetch/internal/httpcall"
)

const (
	uniprotSearchURL = "https://rest.uniprot.org/uniprotkb/search"
	uniprotFetchURL  = "https://rest.uniprot.org/uniprotkb"
)

// UniProt searches UniProtKB by Pfam cross-reference and fetches one FASTA
// record per accession. Pagination advances through the opaque cursor token
// UniProt returns in the Link response header.
type UniProt struct {
	client    *httpcall.Client
	SearchURL string
	FetchURL  string
	PageSize  int
}

// NewUniProt builds the UniProt adapter.
func NewUniProt(cfg Config) Source {
	return &UniProt{
		client:    cfg.Client,
		SearchURL: uniprotSearchURL,
		FetchURL:  uniprotFetchURL,
		PageSize:  500,
	}
}

func (s *UniProt) Name() string { return "uniprot" }

func (s *UniProt) SearchAccessions(ctx context.Context, q Query) ([]string, error) {
	query := fmt.Sprintf("xref:pfam-%s", q.Domain)
	if q.OrganismID > 0 {
		query += fmt.Sprintf(" AND organism_id:%d", q.OrganismID)
	}

	var (
		accs   []string
		cursor string
	)
	for {
		v := url.Values{}
		v.Set("query", query)
		v.Set("format", "list")
		v.Set("size", strconv.Itoa(s.PageSize))
		if cursor != "" {
			v.Set("cursor", cursor)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.SearchURL+"?"+v.Encode(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("uniprot search: %w", err)
		}
		for _, line := range strings.Split(string(resp.Body), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				accs = append(accs, line)
			}
		}
		if q.MaxResults > 0 && len(accs) >= q.MaxResults {
			accs = accs[:q.MaxResults]
			break
		}
		cursor = nextCursor(resp.Header)
		if cursor == "" {
			break
		}
	}
	if len(accs) == 0 {
		return nil, &NoHitsError{Source: s.Name(), Stage: "search", Domain: q.Domain, OrganismID: q.OrganismID}
	}
	return accs, nil
}

func (s *UniProt) FetchFASTA(ctx context.Context, accession string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.FetchURL+"/"+accession+".fasta", nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("uniprot fetch %s: %w", accession, err)
	}
	clean, err := fasta.Clean(string(resp.Body))
	if err != nil {
		return "", fmt.Errorf("uniprot fetch %s: %w", accession, err)
	}
	return clean, nil
}

// nextCursor extracts the next-page cursor from a UniProt Link header of the
// form `<https://…&cursor=TOKEN&size=500>; rel="next"`.
func nextCursor(h http.Header) string {
	for _, link := range h.Values("Link") {
		for _, part := range strings.Split(link, ",") {
			if !strings.Contains(part, `rel="next"`) {
				continue
			}
			start := strings.IndexByte(part, '<')
			end := strings.IndexByte(part, '>')
			if start < 0 || end <= start {
				continue
			}
			u, err := url.Parse(part[start+1 : end])
			if err != nil {
				continue
			}
			if c := u.Query().Get("cursor"); c != "" {
				return c
			}
		}
	}
	return ""
}
