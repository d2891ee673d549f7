package regex

import (
	"strings"
	"testing"
)

func TestTranslateCharLiteral(t *testing.T) {
	got := Translate(&Node{Kind: Char, Rune: 'a'}).String()
	want := `(str.to_re "a")`
	if !strings.Contains(got, want) {
		t.Errorf("got %q, want it to contain %q", got, want)
	}
	// unanchored, so it should be wrapped in re.all on both sides.
	if !strings.HasPrefix(got, "(re.++ ") {
		t.Errorf("expected an unanchored literal to be wrapped in re.all: %q", got)
	}
}

func TestTranslateAnchoredSkipsWrapping(t *testing.T) {
	n := &Node{Kind: Char, Rune: 'a', Anchored: true}
	got := Translate(n).String()
	want := `(str.to_re "a")`
	if got != want {
		t.Errorf("got %q, want %q (no re.all wrapping for an anchored pattern)", got, want)
	}
}

func TestTranslateDot(t *testing.T) {
	n := &Node{Kind: Dot, Anchored: true}
	got := Translate(n).String()
	if want := `(re.range "` + string(rune(0)) + `" "` + string(rune(255)) + `")`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTranslateStarAndConcat(t *testing.T) {
	n := &Node{
		Kind: Concat,
		Anchored: true,
		Children: []*Node{
			{Kind: Char, Rune: 'a'},
			{Kind: Star, Children: []*Node{{Kind: Char, Rune: 'b'}}},
		},
	}
	got := Translate(n).String()
	want := `(re.++ (str.to_re "a") (re.* (str.to_re "b")))`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClassRangeClampsToByteRange(t *testing.T) {
	got := classRange(Range{Lo: 0, Hi: 1000}).String()
	want := `(re.range "` + string(rune(0)) + `" "` + string(rune(255)) + `")`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// entirely out of range collapses to an empty language.
	if got := classRange(Range{Lo: 300, Hi: 400}).String(); got != "re.none" {
		t.Errorf("got %q, want re.none", got)
	}
}
