package writers

import (
	"os"
	"path/filepath"
	"testing"

	"seqfetch/internal/pipeline"
)

func TestWriteFileConcatenates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fasta")
	seqs := []pipeline.Sequence{
		{Accession: "P1", FASTA: ">P1\nACGT\n"},
		{Accession: "P2", FASTA: ">P2\nTTTT\n"},
	}
	if err := WriteFile(path, seqs); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != ">P1\nACGT\n>P2\nTTTT\n" {
		t.Fatalf("sink content %q", got)
	}
}

func TestWriteFileRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fasta")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := WriteFile(path, nil); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	got, _ := os.ReadFile(path)
	if string(got) != "old" {
		t.Fatal("existing sink was clobbered")
	}
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x")
	if Exists(path) {
		t.Fatal("missing file reported as existing")
	}
	_ = os.WriteFile(path, nil, 0o644)
	if !Exists(path) {
		t.Fatal("existing file not detected")
	}
}
