package textutil

import "testing"

func TestScriptRatio(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"empty", "", 0},
		{"spaces only", "   \n\t", 0},
		{"all han", "財務報告", 1},
		{"half han", "財務ab", 0.5},
		{"no han", "hello", 0},
		{"spaces ignored", "財 務", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScriptRatio(tc.in); got != tc.want {
				t.Fatalf("ScriptRatio(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripBracketed(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"【速報】市場が大幅下落", "市場が大幅下落"},
		{"prefix 【a】middle【b】 suffix", "prefix middle suffix"},
		{"no brackets", "no brackets"},
		{"【unterminated", "【unterminated"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripBracketed(tc.in); got != tc.want {
			t.Errorf("StripBracketed(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
