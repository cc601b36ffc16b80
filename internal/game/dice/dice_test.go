package dice_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/fdumontet/ringside/internal/game/dice"
)

// fixedSrc is a deterministic Source for testing. It returns f.val for every
// Intn call with no bounds clamping.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

func TestCryptoSource_Range(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 1000).Draw(t, "n")
		v := src.Intn(n)
		if v < 0 || v >= n {
			t.Fatalf("Intn(%d) = %d, out of range", n, v)
		}
	})
}

func TestCryptoSource_PanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for Intn(0)")
		}
	}()
	dice.NewCryptoSource().Intn(0)
}

func TestChance_Boundaries(t *testing.T) {
	if dice.Chance(fixedSrc{val: 0}, 0) {
		t.Error("0 percent should never pass")
	}
	if !dice.Chance(fixedSrc{val: 99}, 100) {
		t.Error("100 percent should always pass")
	}
	// 30 percent passes on draws 0..29 and fails from 30.
	if !dice.Chance(fixedSrc{val: 29}, 30) {
		t.Error("draw 29 should pass a 30 percent check")
	}
	if dice.Chance(fixedSrc{val: 30}, 30) {
		t.Error("draw 30 should fail a 30 percent check")
	}
}

func TestPick_UsesBound(t *testing.T) {
	if got := dice.Pick(fixedSrc{val: 2}, 5); got != 2 {
		t.Fatalf("Pick = %d, want 2", got)
	}
}
