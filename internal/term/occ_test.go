package term

import "testing"

func TestMkOccRoundTrip(t *testing.T) {
	occ := MkOcc(Index(42), true)
	if occ.Index() != 42 {
		t.Fatalf("expected index 42, got %d", occ.Index())
	}
	if !occ.IsNegated() {
		t.Fatalf("expected negated occurrence")
	}
}

func TestSignedOcc(t *testing.T) {
	pos := SignedOcc(7, false)
	neg := SignedOcc(7, true)
	if pos.Index() != neg.Index() {
		t.Fatalf("SignedOcc must preserve the index across polarities")
	}
	if pos.IsNegated() || !neg.IsNegated() {
		t.Fatalf("SignedOcc must set polarity from its bool argument")
	}
}

func TestTrueFalseOccurrencesShareIndex(t *testing.T) {
	if TrueOcc.Index() != TrueIndex {
		t.Fatalf("TrueOcc must resolve to TrueIndex")
	}
	if FalseOcc.Index() != TrueIndex {
		t.Fatalf("FalseOcc must share TrueIndex with opposite polarity")
	}
	if TrueOcc.IsNegated() == FalseOcc.IsNegated() {
		t.Fatalf("TrueOcc and FalseOcc must have opposite polarity")
	}
}
