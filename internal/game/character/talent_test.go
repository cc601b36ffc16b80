package character_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/fdumontet/ringside/internal/game/character"
)

func TestTalent_RingOrder(t *testing.T) {
	wins := []struct{ a, b character.Talent }{
		{character.GodEyes, character.SpeedGod},
		{character.SpeedGod, character.Peerless},
		{character.Peerless, character.Fortress},
		{character.Fortress, character.Overpowered},
		{character.Overpowered, character.GodEyes},
	}
	for _, w := range wins {
		if got := w.a.Advantage(w.b); got != 1.1 {
			t.Errorf("%v vs %v = %v, want 1.1", w.a, w.b, got)
		}
		if got := w.b.Advantage(w.a); got != 0.9 {
			t.Errorf("%v vs %v = %v, want 0.9", w.b, w.a, got)
		}
	}
}

func TestTalent_MirrorIsNeutral(t *testing.T) {
	for _, tal := range character.Talents {
		if got := tal.Advantage(tal); got != 1.0 {
			t.Errorf("%v mirror = %v, want 1.0", tal, got)
		}
	}
}

// TestTalent_AdvantageAntisymmetric: the two sides of any matchup always
// multiply out consistently (1.1 pairs with 0.9, 1.0 with 1.0).
func TestTalent_AdvantageAntisymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SampledFrom(character.Talents).Draw(t, "a")
		b := rapid.SampledFrom(character.Talents).Draw(t, "b")
		fa, fb := a.Advantage(b), b.Advantage(a)
		switch fa {
		case 1.1:
			if fb != 0.9 {
				t.Fatalf("%v/%v: %v paired with %v", a, b, fa, fb)
			}
		case 0.9:
			if fb != 1.1 {
				t.Fatalf("%v/%v: %v paired with %v", a, b, fa, fb)
			}
		case 1.0:
			if fb != 1.0 {
				t.Fatalf("%v/%v: %v paired with %v", a, b, fa, fb)
			}
		default:
			t.Fatalf("unexpected advantage %v", fa)
		}
	})
}

func TestParseTalent_RoundTrip(t *testing.T) {
	for _, tal := range character.Talents {
		got, err := character.ParseTalent(tal.String())
		if err != nil {
			t.Fatalf("ParseTalent(%q): %v", tal.String(), err)
		}
		if got != tal {
			t.Fatalf("ParseTalent(%q) = %v, want %v", tal.String(), got, tal)
		}
	}
	if _, err := character.ParseTalent("juggernaut"); err == nil {
		t.Fatal("expected error for unknown talent")
	}
}
