package wstap

import "testing"

func TestConnRegistry(t *testing.T) {
	t.Run("unknown_id_resolves_to_placeholder", func(t *testing.T) {
		r := newConnRegistry()
		if got := r.resolve("missing"); got != UnknownURL {
			t.Fatalf("resolve() = %q; want %q", got, UnknownURL)
		}
	})

	t.Run("record_then_resolve", func(t *testing.T) {
		r := newConnRegistry()
		r.record("1", "wss://example/socket")
		if got := r.resolve("1"); got != "wss://example/socket" {
			t.Fatalf("resolve() = %q; want %q", got, "wss://example/socket")
		}
	})

	t.Run("record_is_an_upsert", func(t *testing.T) {
		r := newConnRegistry()
		r.record("1", "wss://old")
		r.record("1", "wss://new")
		if got := r.resolve("1"); got != "wss://new" {
			t.Fatalf("resolve() = %q; want %q", got, "wss://new")
		}
		if got := r.len(); got != 1 {
			t.Fatalf("len() = %d; want 1", got)
		}
	})

	t.Run("forget_is_idempotent", func(t *testing.T) {
		r := newConnRegistry()
		r.record("1", "wss://example")
		r.forget("1")
		r.forget("1")
		r.forget("never-recorded")
		if got := r.resolve("1"); got != UnknownURL {
			t.Fatalf("resolve() after forget = %q; want %q", got, UnknownURL)
		}
	})

	t.Run("snapshot_is_a_copy", func(t *testing.T) {
		r := newConnRegistry()
		r.record("1", "wss://a")
		snap := r.snapshot()
		snap["1"] = "mutated"
		if got := r.resolve("1"); got != "wss://a" {
			t.Fatalf("resolve() = %q after mutating snapshot; want %q", got, "wss://a")
		}
	})
}
