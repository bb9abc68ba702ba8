package state

import (
	"testing"

	"seatrace/storage"
)

type record struct {
	Name  string
	Count uint64
}

func TestKVRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())

	stored := record{Name: "alpha", Count: 7}
	if err := manager.KVPut([]byte("test/record/alpha"), &stored); err != nil {
		t.Fatalf("put: %v", err)
	}

	var loaded record
	ok, err := manager.KVGet([]byte("test/record/alpha"), &loaded)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected record to exist")
	}
	if loaded != stored {
		t.Fatalf("round trip mismatch: %+v != %+v", loaded, stored)
	}

	has, err := manager.KVHas([]byte("test/record/alpha"))
	if err != nil || !has {
		t.Fatalf("has: ok=%v err=%v", has, err)
	}
}

func TestKVGetMissing(t *testing.T) {
	manager := NewManager(storage.NewMemDB())

	var loaded record
	ok, err := manager.KVGet([]byte("test/record/missing"), &loaded)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected missing record")
	}

	has, err := manager.KVHas([]byte("test/record/missing"))
	if err != nil || has {
		t.Fatalf("expected has=false, got ok=%v err=%v", has, err)
	}
}

func TestKVEmptyKey(t *testing.T) {
	manager := NewManager(storage.NewMemDB())

	if err := manager.KVPut(nil, &record{}); err == nil {
		t.Fatalf("expected error for empty key put")
	}
	if _, err := manager.KVGet(nil, &record{}); err == nil {
		t.Fatalf("expected error for empty key get")
	}
	if _, err := manager.KVHas(nil); err == nil {
		t.Fatalf("expected error for empty key has")
	}
	if err := manager.KVAppend(nil, []byte("x")); err == nil {
		t.Fatalf("expected error for empty key append")
	}
	var list [][]byte
	if err := manager.KVGetList(nil, &list); err == nil {
		t.Fatalf("expected error for empty key list")
	}
}

func TestKVAppendList(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	key := []byte("test/list/members")

	var empty [][]byte
	if err := manager.KVGetList(key, &empty); err != nil {
		t.Fatalf("list: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty, non-nil list, got %v", empty)
	}

	for _, member := range []string{"one", "two", "one", "three"} {
		if err := manager.KVAppend(key, []byte(member)); err != nil {
			t.Fatalf("append %q: %v", member, err)
		}
	}

	var list [][]byte
	if err := manager.KVGetList(key, &list); err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"one", "two", "three"}
	if len(list) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(list))
	}
	for i, member := range want {
		if string(list[i]) != member {
			t.Fatalf("entry %d: expected %q, got %q", i, member, list[i])
		}
	}
}
