package db

import (
	"reflect"
	"testing"
)

func TestTagListRoundTrip(t *testing.T) {
	t.Parallel()

	value, err := TagList{"AI", "Cloud"}.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}
	if value != `["AI","Cloud"]` {
		t.Fatalf("unexpected jsonb value: %v", value)
	}

	var scanned TagList
	if err := scanned.Scan([]byte(`["AI","Cloud"]`)); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !reflect.DeepEqual(scanned, TagList{"AI", "Cloud"}) {
		t.Fatalf("unexpected scanned tags: %v", scanned)
	}
}

func TestTagListNilAndEmpty(t *testing.T) {
	t.Parallel()

	value, err := TagList(nil).Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}
	if value != "[]" {
		t.Fatalf("expected empty jsonb array, got %v", value)
	}

	var scanned TagList
	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if scanned != nil {
		t.Fatalf("expected nil tags, got %v", scanned)
	}
}
