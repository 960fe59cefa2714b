// internal/source/ncbi.go
package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"seqfetch-core/fasta"
	"seqfetch/internal/httpcall"
)

const eutilsBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// NCBI resolves a conserved-domain code through the E-utilities three-stage
// pipeline: esearch on the CDD database yields domain UIDs, elink maps those
// (in bounded batches) to protein UIDs, and efetch returns FASTA per protein.
// The tool/email/api_key etiquette parameters ride on every request.
type NCBI struct {
	client    *httpcall.Client
	BaseURL   string
	Tool      string
	Email     string
	APIKey    string
	PageSize  int // esearch retmax per page
	LinkBatch int // UIDs per elink call; NCBI rejects oversized requests
}

// NewNCBI builds the E-utilities adapter. The rate-limit predicate is widened
// to catch the throttling indicator E-utilities can return inside a
// success-shaped JSON body.
func NewNCBI(cfg Config) Source {
	client := cfg.Client
	if client != nil {
		c := *client
		c.RateLimited = ncbiRateLimited
		client = &c
	}
	return &NCBI{
		client:    client,
		BaseURL:   eutilsBaseURL,
		Tool:      cfg.Tool,
		Email:     cfg.Email,
		APIKey:    cfg.APIKey,
		PageSize:  500,
		LinkBatch: 500,
	}
}

func ncbiRateLimited(status int, body []byte) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status == http.StatusOK &&
		strings.Contains(gjson.GetBytes(body, "error").String(), "rate limit")
}

func (s *NCBI) Name() string { return "ncbi" }

func (s *NCBI) SearchAccessions(ctx context.Context, q Query) ([]string, error) {
	domainUIDs, err := s.searchDomain(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(domainUIDs) == 0 {
		return nil, &NoHitsError{Source: s.Name(), Stage: "search", Domain: q.Domain, OrganismID: q.OrganismID}
	}
	proteinUIDs, err := s.linkProteins(ctx, domainUIDs, q.MaxResults)
	if err != nil {
		return nil, err
	}
	if len(proteinUIDs) == 0 {
		return nil, &NoHitsError{Source: s.Name(), Stage: "link", Domain: q.Domain, OrganismID: q.OrganismID}
	}
	return proteinUIDs, nil
}

// searchDomain pages esearch with retstart offsets until the reported count is
// reached.
func (s *NCBI) searchDomain(ctx context.Context, q Query) ([]string, error) {
	term := q.Domain
	if q.OrganismID > 0 {
		term += fmt.Sprintf(" AND txid%d[Organism:exp]", q.OrganismID)
	}

	var uids []string
	for {
		v := s.etiquette()
		v.Set("db", "cdd")
		v.Set("term", term)
		v.Set("retmode", "json")
		v.Set("retmax", strconv.Itoa(s.PageSize))
		v.Set("retstart", strconv.Itoa(len(uids)))

		body, err := s.get(ctx, "esearch.fcgi", v)
		if err != nil {
			return nil, fmt.Errorf("ncbi esearch: %w", err)
		}
		page := gjson.GetBytes(body, "esearchresult.idlist").Array()
		for _, id := range page {
			uids = append(uids, id.String())
		}
		count := int(gjson.GetBytes(body, "esearchresult.count").Int())
		if len(page) == 0 || len(uids) >= count {
			break
		}
	}
	return uids, nil
}

// linkProteins maps CDD UIDs to protein UIDs via elink, batching requests and
// stopping early once max accessions have been collected (0 = unbounded).
func (s *NCBI) linkProteins(ctx context.Context, domainUIDs []string, max int) ([]string, error) {
	seen := make(map[string]struct{})
	var proteins []string
	for start := 0; start < len(domainUIDs); start += s.LinkBatch {
		end := start + s.LinkBatch
		if end > len(domainUIDs) {
			end = len(domainUIDs)
		}
		v := s.etiquette()
		v.Set("dbfrom", "cdd")
		v.Set("db", "protein")
		v.Set("retmode", "json")
		for _, id := range domainUIDs[start:end] {
			v.Add("id", id)
		}
		body, err := s.get(ctx, "elink.fcgi", v)
		if err != nil {
			return nil, fmt.Errorf("ncbi elink: %w", err)
		}
		links := gjson.GetBytes(body, "linksets.0.linksetdbs.0.links").Array()
		for _, id := range links {
			uid := id.String()
			if _, dup := seen[uid]; dup {
				continue
			}
			seen[uid] = struct{}{}
			proteins = append(proteins, uid)
			if max > 0 && len(proteins) >= max {
				return proteins, nil
			}
		}
	}
	return proteins, nil
}

func (s *NCBI) FetchFASTA(ctx context.Context, accession string) (string, error) {
	v := s.etiquette()
	v.Set("db", "protein")
	v.Set("id", accession)
	v.Set("rettype", "fasta")
	v.Set("retmode", "text")
	body, err := s.get(ctx, "efetch.fcgi", v)
	if err != nil {
		return "", fmt.Errorf("ncbi fetch %s: %w", accession, err)
	}
	clean, err := fasta.Clean(string(body))
	if err != nil {
		return "", fmt.Errorf("ncbi fetch %s: %w", accession, err)
	}
	return clean, nil
}

func (s *NCBI) get(ctx context.Context, endpoint string, v url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/"+endpoint+"?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// etiquette returns the identity parameters NCBI uses to grant higher request
// rates. Absence changes pacing tolerance only, never results.
func (s *NCBI) etiquette() url.Values {
	v := url.Values{}
	if s.Tool != "" {
		v.Set("tool", s.Tool)
	}
	if s.Email != "" {
		v.Set("email", s.Email)
	}
	if s.APIKey != "" {
		v.Set("api_key", s.APIKey)
	}
	return v
}
