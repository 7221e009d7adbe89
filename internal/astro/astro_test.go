package astro

import "testing"

func TestHouseNumber(t *testing.T) {
	cases := []struct {
		planetSign string
		lagnaSign  string
		want       int
	}{
		{"Aries", "Aries", 1},
		{"Taurus", "Aries", 2},
		{"Aries", "Taurus", 12},
		{"Pisces", "Aries", 12},
		{"Leo", "Scorpio", 10},
		{"Scorpio", "Leo", 4},
		{"Nonsense", "Aries", 0},
		{"Aries", "", 0},
	}
	for _, c := range cases {
		if got := HouseNumber(c.planetSign, c.lagnaSign); got != c.want {
			t.Errorf("HouseNumber(%q, %q) = %d, want %d", c.planetSign, c.lagnaSign, got, c.want)
		}
	}
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 0: ""}
	for n, want := range cases {
		if got := Ordinal(n); got != want {
			t.Errorf("Ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatDegree(t *testing.T) {
	if got := FormatDegree(15.5); got != "15° 30' 0\"" {
		t.Errorf("FormatDegree(15.5) = %q", got)
	}
	if got := FormatDegree(0); got != "0° 0' 0\"" {
		t.Errorf("FormatDegree(0) = %q", got)
	}
}

func TestNormalizeBodyName(t *testing.T) {
	if NormalizeBodyName("Raagu") != "Rahu" || NormalizeBodyName("Kethu") != "Ketu" {
		t.Fatal("expected legacy spellings to normalize")
	}
	if NormalizeBodyName("Sun") != "Sun" {
		t.Fatal("expected canonical names to pass through")
	}
}
