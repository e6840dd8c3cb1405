package species

import "testing"

func TestDefaultRecordKnownSpecies(t *testing.T) {
	r := DefaultRecord(Argon)
	if r.Sigma <= 0 || r.Epsilon <= 0 || r.Mass <= 0 {
		t.Errorf("expected positive argon parameters, got %+v", r)
	}
}

func TestDefaultRecordUserIsZero(t *testing.T) {
	r := DefaultRecord(User)
	if r != (Record{}) {
		t.Errorf("expected zero record for User species, got %+v", r)
	}
}

func TestStringNames(t *testing.T) {
	cases := map[Kind]string{Helium: "He", Neon: "Ne", Argon: "Ar", Krypton: "Kr", Xenon: "Xe", User: "User"}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("kind %d: expected %s, got %s", k, want, got)
		}
	}
}
