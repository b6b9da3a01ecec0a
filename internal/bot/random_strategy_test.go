package bot

import (
	"testing"

	"github.com/coupengine/coup/pkg/coup"
)

func TestRandomStrategy_AlwaysReturnsALegalAction(t *testing.T) {
	SeedBotRng(7)
	defer ResetBotRng()

	legal := []string{"income", "foreign_aid", "tax"}
	r := RandomStrategy{}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		got := r.Decide(coup.State{}, 0, legal)
		found := false
		for _, a := range legal {
			if a == got {
				found = true
			}
		}
		if !found {
			t.Fatalf("Decide returned %q, not in legal set %v", got, legal)
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected multiple distinct actions across 50 draws, got %v", seen)
	}
}
