package search

import "testing"

func TestTypoTable_Apply(t *testing.T) {
	table := DefaultTypoTable()

	cases := []struct {
		in   string
		want string
	}{
		{"shose", "shoes"},
		{"red shose", "red shoes"},
		{"tshirt", "t-shirt"},
		{"tee shirt", "t-shirt"},
		{"jens", "jeans"},
		{"blue jens small", "blue jeans small"},
		{"jeans", "jeans"},         // already correct
		{"shoselace", "shoselace"}, // no mid-token replacement
		{"xjens", "xjens"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := table.Apply(tc.in); got != tc.want {
			t.Errorf("Apply(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTypoTable_OrderMatters(t *testing.T) {
	table := TypoTable{
		{"aa", "bb"},
		{"bb", "cc"},
	}
	// The second entry sees the output of the first.
	if got := table.Apply("aa"); got != "cc" {
		t.Errorf("Apply(%q) = %q, want %q", "aa", got, "cc")
	}
}

func TestSynonymTable_ExpandIsNoOp(t *testing.T) {
	table := DefaultSynonymTable()
	for _, q := range []string{"shirt", "pants", "red shoes", ""} {
		if got := table.ExpandSynonyms(q); got != q {
			t.Errorf("ExpandSynonyms(%q) = %q, want input unchanged", q, got)
		}
	}
}

func TestLevenshteinThreshold(t *testing.T) {
	cases := []struct {
		a, b      string
		threshold int
		want      int
	}{
		{"shoes", "shoes", 2, 0},
		{"shose", "shoes", 2, 2},
		{"jens", "jeans", 2, 1},
		{"hat", "hats", 2, 1},
		{"lamp", "shoes", 2, 3}, // over threshold reports threshold+1
		{"", "ab", 2, 2},
		{"ab", "", 2, 2},
		{"abcdef", "a", 2, 3}, // length gap alone exceeds threshold
	}

	for _, tc := range cases {
		got := levenshteinThreshold(tc.a, tc.b, tc.threshold)
		if got != tc.want {
			t.Errorf("levenshteinThreshold(%q, %q, %d) = %d, want %d",
				tc.a, tc.b, tc.threshold, got, tc.want)
		}
	}
}
