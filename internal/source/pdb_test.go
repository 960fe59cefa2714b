package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"seqfetch/internal/httpcall"
)

func newPDBFake(t *testing.T, entities []string) (*PDB, *[]rcsbQuery) {
	t.Helper()
	var queries []rcsbQuery
	mux := http.NewServeMux()
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var q rcsbQuery
		if err := json.Unmarshal(raw, &q); err != nil {
			t.Errorf("bad query body: %v", err)
		}
		queries = append(queries, q)

		start := q.RequestOptions.Paginate.Start
		end := start + q.RequestOptions.Paginate.Rows
		if end > len(entities) {
			end = len(entities)
		}
		if start >= len(entities) {
			fmt.Fprintf(w, `{"result_set":[],"total_count":%d}`, len(entities))
			return
		}
		var ids []string
		for _, e := range entities[start:end] {
			ids = append(ids, `{"identifier":"`+e+`"}`)
		}
		fmt.Fprintf(w, `{"result_set":[%s],"total_count":%d}`, strings.Join(ids, ","), len(entities))
	})
	mux.HandleFunc("/fasta/", func(w http.ResponseWriter, r *http.Request) {
		entry := strings.TrimPrefix(r.URL.Path, "/fasta/")
		fmt.Fprintf(w, ">%s_1|Chain A\nAC-DE\n>%s_2|Chain B\nFGHI\n", entry, entry)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := NewPDB(Config{Client: httpcall.New(3, zerolog.Nop())}).(*PDB)
	s.SearchURL = srv.URL + "/query"
	s.FetchURL = srv.URL + "/fasta"
	return s, &queries
}

func TestPDBSearchCollapsesEntities(t *testing.T) {
	s, queries := newPDBFake(t, []string{"1ABC_1", "1ABC_2", "2XYZ_1"})
	got, err := s.SearchAccessions(context.Background(), Query{Domain: "PF00017"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	want := []string{"1ABC", "2XYZ"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("entries: got %v want %v", got, want)
	}

	q := (*queries)[0]
	if q.ReturnType != "polymer_entity" {
		t.Fatalf("return_type %q", q.ReturnType)
	}
	if q.Query.Parameters == nil ||
		q.Query.Parameters.Attribute != "rcsb_polymer_entity_annotation.annotation_id" ||
		q.Query.Parameters.Value != "PF00017" {
		t.Fatalf("unexpected terminal node: %+v", q.Query)
	}
}

func TestPDBSearchOrganismGroup(t *testing.T) {
	s, queries := newPDBFake(t, []string{"4HHB_1"})
	if _, err := s.SearchAccessions(context.Background(), Query{Domain: "PF00017", OrganismID: 9606}); err != nil {
		t.Fatalf("search: %v", err)
	}
	q := (*queries)[0].Query
	if q.Type != "group" || q.LogicalOperator != "and" || len(q.Nodes) != 2 {
		t.Fatalf("expected AND group, got %+v", q)
	}
	if q.Nodes[1].Parameters.Attribute != "rcsb_entity_source_organism.taxonomy_lineage.id" ||
		q.Nodes[1].Parameters.Value != "9606" {
		t.Fatalf("taxonomy node: %+v", q.Nodes[1].Parameters)
	}
}

func TestPDBSearchPaginates(t *testing.T) {
	s, queries := newPDBFake(t, []string{"1AAA_1", "1BBB_1", "1CCC_1", "1DDD_1", "1EEE_1"})
	s.PageSize = 2
	got, err := s.SearchAccessions(context.Background(), Query{Domain: "PF00017"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("entries %v", got)
	}
	if len(*queries) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(*queries))
	}
}

func TestPDBSearchNoHits(t *testing.T) {
	s, _ := newPDBFake(t, nil)
	_, err := s.SearchAccessions(context.Background(), Query{Domain: "PF00000"})
	var nh *NoHitsError
	if !errors.As(err, &nh) {
		t.Fatalf("expected NoHitsError, got %v", err)
	}
	if nh.Source != "pdb" || nh.Stage != "search" {
		t.Fatalf("bad context: %+v", nh)
	}
}

func TestPDBFetchEntryBlob(t *testing.T) {
	s, _ := newPDBFake(t, []string{"1ABC_1"})
	got, err := s.FetchFASTA(context.Background(), "1ABC")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := ">1ABC_1|Chain A\nACDE\n>1ABC_2|Chain B\nFGHI\n"
	if got != want {
		t.Fatalf("blob: got %q want %q", got, want)
	}
}
