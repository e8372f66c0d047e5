package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rollseq/rollseq/kv"
)

func stores(t *testing.T) map[string]kv.Store {
	t.Helper()
	b, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return map[string]kv.Store{"memory": kv.NewMemory(), "badger": b}
}

func keys(t *testing.T, s kv.Store, prefix kv.Key) []string {
	t.Helper()
	var ret []string
	for e, err := range s.List(context.Background(), prefix) {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		ret = append(ret, e.Key.String())
	}
	return ret
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			key := kv.Key{"project", "demo"}
			if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
				t.Fatalf("Get of a missing key: err = %v, expected ErrNotFound", err)
			}
			if err := s.Set(ctx, key, []byte("v1")); err != nil {
				t.Fatal(err)
			}
			if err := s.Set(ctx, key, []byte("v2")); err != nil {
				t.Fatal(err)
			}
			v, err := s.Get(ctx, key)
			if err != nil || string(v) != "v2" {
				t.Errorf("Get = %q, %v; expected v2", v, err)
			}
			if err := s.Delete(ctx, key); err != nil {
				t.Fatal(err)
			}
			if err := s.Delete(ctx, key); err != nil {
				t.Errorf("deleting a missing key: %v", err)
			}
			if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
				t.Errorf("key still present after Delete")
			}
		})
	}
}

func TestListPrefix(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.BatchSet(ctx, []kv.Entry{
				{Key: kv.Key{"a", "b", "2"}, Value: []byte("x")},
				{Key: kv.Key{"a", "b", "1"}, Value: []byte("y")},
				{Key: kv.Key{"a", "bc"}, Value: []byte("z")},
				{Key: kv.Key{"b"}, Value: []byte("w")},
			})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]string{"a:b:1", "a:b:2"}, keys(t, s, kv.Key{"a", "b"})); diff != "" {
				t.Errorf("List(a:b) mismatch (-want +got):\n%s", diff)
			}
			if got := keys(t, s, nil); len(got) != 4 {
				t.Errorf("List(nil) returned %d keys, expected 4", len(got))
			}
			if err := s.BatchDelete(ctx, []kv.Key{{"a", "b", "1"}, {"b"}}); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]string{"a:b:2", "a:bc"}, keys(t, s, nil)); diff != "" {
				t.Errorf("after BatchDelete (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListStopsEarly(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"1", "2", "3"} {
				s.Set(ctx, kv.Key{"n", k}, nil)
			}
			n := 0
			for range s.List(ctx, kv.Key{"n"}) {
				n++
				if n == 2 {
					break
				}
			}
			if n != 2 {
				t.Errorf("iterated %d times, expected 2", n)
			}
		})
	}
}

func TestBadgerRequiresDir(t *testing.T) {
	if _, err := kv.NewBadger(kv.BadgerOptions{}); err == nil {
		t.Errorf("NewBadger without a directory succeeded")
	}
}

func TestBadgerOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b, err := kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	b.Set(ctx, kv.Key{"k"}, []byte("persisted"))
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	b, err = kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if v, err := b.Get(ctx, kv.Key{"k"}); err != nil || string(v) != "persisted" {
		t.Errorf("Get after reopen = %q, %v", v, err)
	}
}
