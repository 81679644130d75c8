package random

import "testing"

func TestNewSeed(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 32; i++ {
		seed, err := NewSeed()
		if err != nil {
			t.Fatalf("new seed: %v", err)
		}
		seen[seed] = true
	}

	// 32 crypto/rand draws colliding into a single value would indicate a
	// broken entropy source rather than bad luck.
	if len(seen) < 2 {
		t.Fatalf("expected varied seeds, got %d distinct", len(seen))
	}
}
