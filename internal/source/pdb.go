// internal/source/pdb.go
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"seqfetch-core/accession"
	"seqfetch-core/fasta"
	"seqfetch/internal/httpcall"
)

const (
	pdbSearchURL = "https://search.rcsb.org/rcsbsearch/v2/query"
	pdbFetchURL  = "https://www.rcsb.org/fasta/entry"
)

// PDB queries the RCSB search API with a structured annotation-identifier
// query. Hits come back as polymer-entity identifiers ("1ABC_1") which are
// collapsed to unique entry identifiers; one FASTA blob is fetched per entry
// and may contain several chain records.
type PDB struct {
	client    *httpcall.Client
	SearchURL string
	FetchURL  string
	PageSize  int
}

// NewPDB builds the RCSB adapter.
func NewPDB(cfg Config) Source {
	return &PDB{
		client:    cfg.Client,
		SearchURL: pdbSearchURL,
		FetchURL:  pdbFetchURL,
		PageSize:  100,
	}
}

func (s *PDB) Name() string { return "pdb" }

type rcsbQuery struct {
	Query          rcsbNode    `json:"query"`
	ReturnType     string      `json:"return_type"`
	RequestOptions rcsbOptions `json:"request_options"`
}

type rcsbNode struct {
	Type            string      `json:"type"`
	Service         string      `json:"service,omitempty"`
	LogicalOperator string      `json:"logical_operator,omitempty"`
	Nodes           []rcsbNode  `json:"nodes,omitempty"`
	Parameters      *rcsbParams `json:"parameters,omitempty"`
}

type rcsbParams struct {
	Attribute string `json:"attribute"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
}

type rcsbOptions struct {
	Paginate rcsbPage `json:"paginate"`
}

type rcsbPage struct {
	Start int `json:"start"`
	Rows  int `json:"rows"`
}

func annotationNode(domain string) rcsbNode {
	return rcsbNode{
		Type:    "terminal",
		Service: "text",
		Parameters: &rcsbParams{
			Attribute: "rcsb_polymer_entity_annotation.annotation_id",
			Operator:  "exact_match",
			Value:     domain,
		},
	}
}

func taxonomyNode(organismID int) rcsbNode {
	return rcsbNode{
		Type:    "terminal",
		Service: "text",
		Parameters: &rcsbParams{
			Attribute: "rcsb_entity_source_organism.taxonomy_lineage.id",
			Operator:  "exact_match",
			Value:     fmt.Sprintf("%d", organismID),
		},
	}
}

func (s *PDB) SearchAccessions(ctx context.Context, q Query) ([]string, error) {
	node := annotationNode(q.Domain)
	if q.OrganismID > 0 {
		node = rcsbNode{
			Type:            "group",
			LogicalOperator: "and",
			Nodes:           []rcsbNode{annotationNode(q.Domain), taxonomyNode(q.OrganismID)},
		}
	}

	var (
		entities []string
		entries  []string
	)
	for {
		payload, err := json.Marshal(rcsbQuery{
			Query:          node,
			ReturnType:     "polymer_entity",
			RequestOptions: rcsbOptions{Paginate: rcsbPage{Start: len(entities), Rows: s.PageSize}},
		})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.SearchURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.client.Do(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("pdb search: %w", err)
		}

		page := gjson.GetBytes(resp.Body, "result_set.#.identifier").Array()
		for _, id := range page {
			entities = append(entities, id.String())
		}
		entries = accession.CollapseEntities(entities)
		if q.MaxResults > 0 && len(entries) >= q.MaxResults {
			entries = entries[:q.MaxResults]
			break
		}
		total := int(gjson.GetBytes(resp.Body, "total_count").Int())
		if len(page) == 0 || len(entities) >= total {
			break
		}
	}
	if len(entries) == 0 {
		return nil, &NoHitsError{Source: s.Name(), Stage: "search", Domain: q.Domain, OrganismID: q.OrganismID}
	}
	return entries, nil
}

func (s *PDB) FetchFASTA(ctx context.Context, entry string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.FetchURL+"/"+entry, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("pdb fetch %s: %w", entry, err)
	}
	clean, err := fasta.Clean(string(resp.Body))
	if err != nil {
		return "", fmt.Errorf("pdb fetch %s: %w", entry, err)
	}
	return clean, nil
}
