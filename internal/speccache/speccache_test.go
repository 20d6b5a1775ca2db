package speccache

import (
	"testing"

	"fluxcore/internal/notation"
	"fluxcore/internal/xerrors"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCheckSpecCachesSuccesses(t *testing.T) {
	c := openTestCache(t)

	kind, dim, err := c.CheckSpec("Glu[1-5]#M0,1,2")
	if err != nil {
		t.Fatalf("CheckSpec: %v", err)
	}
	if kind != notation.KindMS || dim != 3 {
		t.Fatalf("CheckSpec = (%s, %d), want (MS, 3)", kind, dim)
	}

	kind, dim, err = c.CheckSpec("Glu[1-5]#M0,1,2")
	if err != nil {
		t.Fatalf("repeat CheckSpec: %v", err)
	}
	if kind != notation.KindMS || dim != 3 {
		t.Fatalf("repeat CheckSpec = (%s, %d), want (MS, 3)", kind, dim)
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = (%d hits, %d misses), want (1, 1)", hits, misses)
	}
}

func TestCheckSpecDoesNotCacheFailures(t *testing.T) {
	c := openTestCache(t)

	for i := 0; i < 2; i++ {
		_, _, err := c.CheckSpec("Glu[1-5]#M0,7")
		se, ok := err.(*xerrors.SpecError)
		if !ok || se.Code != xerrors.CodeNotEnoughPositions {
			t.Fatalf("attempt %d: expected not-enough-positions SpecError, got %v", i, err)
		}
	}
	hits, misses := c.Stats()
	if hits != 0 || misses != 2 {
		t.Errorf("stats = (%d hits, %d misses), want (0, 2)", hits, misses)
	}
}

func TestCheckSpecDistinguishesKinds(t *testing.T) {
	c := openTestCache(t)
	tests := []struct {
		spec string
		kind notation.Kind
	}{
		{"Glu[1-5:2-4]#M(3,2),(5,3)", notation.KindMSMS},
		{"Ser#P1,3,5", notation.KindNMR1H},
		{"Glu#1x01", notation.KindGeneric},
	}
	for _, tt := range tests {
		kind, _, err := c.CheckSpec(tt.spec)
		if err != nil {
			t.Fatalf("CheckSpec(%q): %v", tt.spec, err)
		}
		if kind != tt.kind {
			t.Errorf("CheckSpec(%q) kind = %s, want %s", tt.spec, kind, tt.kind)
		}
	}
}
