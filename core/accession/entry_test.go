package accession

import (
	"reflect"
	"testing"
)

func TestCollapseEntities(t *testing.T) {
	got := CollapseEntities([]string{"1ABC_1", "1ABC_2", "2XYZ_1"})
	want := []string{"1ABC", "2XYZ"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("collapse: got %v want %v", got, want)
	}
}

func TestCollapseKeepsFirstSeenOrder(t *testing.T) {
	got := CollapseEntities([]string{"9XYZ_3", "1ABC_1", "9XYZ_1", "1ABC_4"})
	want := []string{"9XYZ", "1ABC"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order lost: got %v want %v", got, want)
	}
}

func TestEntryIDWithoutSuffix(t *testing.T) {
	if id := EntryID("4HHB"); id != "4HHB" {
		t.Fatalf("got %q", id)
	}
}
