package password

import (
	"errors"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "    "},
		{"ゆうしゃ", "ゆうしゃ"},
		{"がぱ", "か゛は゜"},
		{"が", "か゛  "},
		{"か\u3099", "か゛  "},
		{"　あーす", " あ-す"},
		{"０１", "01  "},
		{"あ―", "あ-  "},
		{"しどー", "しと゛-"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeName(tc.in)
			if err != nil {
				t.Fatalf("NormalizeName(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeNameRejects(t *testing.T) {
	for _, in := range []string{"     ", "あああが", "A", "漢字", "ゆうしゃさま"} {
		t.Run(in, func(t *testing.T) {
			if _, err := NormalizeName(in); !errors.Is(err, ErrFieldOutOfRange) {
				t.Fatalf("NormalizeName(%q) error = %v, want ErrFieldOutOfRange", in, err)
			}
		})
	}
}

func TestNormalizePassword(t *testing.T) {
	// decomposed voiced marks compose back into alphabet symbols
	decomposed := "さ\u3099ほ\u3099ちずどぢぎきつたうずせれえむるのぢえ"
	got, err := NormalizePassword(decomposed)
	if err != nil {
		t.Fatalf("NormalizePassword: %v", err)
	}
	if got != heroPassword {
		t.Fatalf("NormalizePassword = %s, want %s", got, heroPassword)
	}

	if _, err := NormalizePassword("????????????????????"); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("wildcards in a password: error = %v, want ErrUnknownSymbol", err)
	}
}

func TestNormalizePattern(t *testing.T) {
	got, err := NormalizePattern("？? ちずどぢぎきつたうずせれえむるのぢえ")
	if err != nil {
		t.Fatalf("NormalizePattern: %v", err)
	}
	if want := "??ちずどぢぎきつたうずせれえむるのぢえ"; got != want {
		t.Fatalf("NormalizePattern = %s, want %s", got, want)
	}

	cases := []struct {
		name string
		in   string
		kind error
	}{
		{"short", "???", ErrInvalidLength},
		{"unknown", "*???????????????????", ErrUnknownSymbol},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizePattern(tc.in)
			if !errors.Is(err, ErrInvalidPattern) || !errors.Is(err, tc.kind) {
				t.Fatalf("NormalizePattern(%q) error = %v, want ErrInvalidPattern and %v", tc.in, err, tc.kind)
			}
		})
	}
}
