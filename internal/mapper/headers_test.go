package mapper

import (
	"reflect"
	"testing"
)

func TestNormalizeHeaders_Dedup(t *testing.T) {
	got := NormalizeHeaders([]string{"DATE", "VILLA", "DATE", "COMMENTS", "DATE"})
	want := []string{"DATE", "VILLA", "DATE_1", "COMMENTS", "DATE_2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeHeaders_EmptyNames(t *testing.T) {
	got := NormalizeHeaders([]string{"DATE", "", "", ""})
	want := []string{"DATE", "", "_1", "_2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeHeaders_Deterministic(t *testing.T) {
	in := []string{"A", "B", "A", "A", "B"}
	first := NormalizeHeaders(in)
	second := NormalizeHeaders(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization is not deterministic: %v vs %v", first, second)
	}
}
