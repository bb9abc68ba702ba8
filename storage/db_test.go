package storage

import (
	"bytes"
	"testing"
)

func TestMemDBRoundTrip(t *testing.T) {
	db := NewMemDB()
	if err := db.Put([]byte("key"), []byte("value")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := db.Get([]byte("key"))
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Fatalf("unexpected value %q", got)
	}
	has, err := db.Has([]byte("key"))
	if err != nil || !has {
		t.Fatalf("has: ok=%v err=%v", has, err)
	}
}

func TestMemDBMissingKey(t *testing.T) {
	db := NewMemDB()
	_, ok, err := db.Get([]byte("missing"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected missing key")
	}
}

func TestMemDBCopiesValues(t *testing.T) {
	db := NewMemDB()
	value := []byte("original")
	if err := db.Put([]byte("key"), value); err != nil {
		t.Fatalf("put: %v", err)
	}
	value[0] = 'X'

	got, _, err := db.Get([]byte("key"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("original")) {
		t.Fatalf("stored value aliased caller buffer: %q", got)
	}
	got[0] = 'Y'

	again, _, err := db.Get([]byte("key"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(again, []byte("original")) {
		t.Fatalf("returned value aliased stored buffer: %q", again)
	}
}
