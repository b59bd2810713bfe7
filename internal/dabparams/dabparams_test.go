package dabparams

import "testing"

func TestForKnownModes(t *testing.T) {
	for _, m := range []Mode{ModeI, ModeII, ModeIII, ModeIV} {
		p, ok := For(m)
		if !ok {
			t.Fatalf("mode %s: expected known mode", m)
		}
		if p.NbMscBits != p.NbCifs*p.NbCifBits {
			t.Errorf("mode %s: NbMscBits=%d want %d", m, p.NbMscBits, p.NbCifs*p.NbCifBits)
		}
	}
}

func TestForUnknownMode(t *testing.T) {
	if _, ok := For(Mode(99)); ok {
		t.Fatalf("expected unknown mode to report false")
	}
}
