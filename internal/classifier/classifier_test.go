package classifier

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsFoodTransaction(t *testing.T) {
	c := New([]string{"rema", "kiwi", "coop", "mcdonalds", "burger king"})

	cases := []struct {
		name        string
		description string
		want        bool
	}{
		{"whole_word", "Rema 1000 Grünerløkka", true},
		{"uppercase", "KIWI MAJORSTUEN", true},
		{"surrounding_whitespace", "   coop extra  ", true},
		{"multi_word_keyword", "Burger King Oslo S", true},
		{"punctuation_boundary", "card purchase:kiwi,oslo", true},
		{"prefix_of_longer_word", "supermcdonalds", false},
		{"digit_suffix", "mcdonalds2", false},
		{"substring_inside_word", "cooperative bank fee", false},
		{"unrelated", "Netflix", false},
		{"empty", "", false},
		{"blank", "   ", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.IsFoodTransaction(tc.description); got != tc.want {
				t.Errorf("IsFoodTransaction(%q) = %v, want %v", tc.description, got, tc.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("normalizes_keywords", func(t *testing.T) {
		c := New([]string{" Rema ", "rema", "", "KIWI"})
		got := c.Keywords()
		if len(got) != 2 || got[0] != "rema" || got[1] != "kiwi" {
			t.Errorf("expected [rema kiwi], got %v", got)
		}
	})

	t.Run("escapes_regex_metacharacters", func(t *testing.T) {
		c := New([]string{"7-eleven", "a.b"})
		if !c.IsFoodTransaction("7-Eleven Storgata") {
			t.Error("expected 7-eleven to match")
		}
		if c.IsFoodTransaction("axb") {
			t.Error("expected dot to be matched literally")
		}
	})

	t.Run("non_ascii_keyword_edges", func(t *testing.T) {
		c := New([]string{"café", "grünerløkka"})
		if c.IsFoodTransaction("Café Oslo") {
			t.Error("expected keyword ending in a non-ASCII letter not to match")
		}
		if !c.IsFoodTransaction("Rema Grünerløkka") {
			t.Error("expected non-ASCII letters inside a keyword to match")
		}
	})

	t.Run("no_keywords_matches_nothing", func(t *testing.T) {
		c := New(nil)
		if c.IsFoodTransaction("rema 1000") {
			t.Error("expected no match without keywords")
		}
	})

	t.Run("nil_classifier", func(t *testing.T) {
		var c *Classifier
		if c.IsFoodTransaction("rema") {
			t.Error("expected nil classifier to match nothing")
		}
	})
}

func TestLoadKeywords(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid_file", func(t *testing.T) {
		path := filepath.Join(dir, "keywords.yaml")
		if err := os.WriteFile(path, []byte("food_keywords:\n  - rema\n  - kiwi\n"), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		c, err := FromFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.IsFoodTransaction("Kiwi 123") {
			t.Error("expected kiwi to match")
		}
		if c.IsFoodTransaction("Coop Mega") {
			t.Error("expected coop not to match a custom list")
		}
	})

	t.Run("empty_list", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		if err := os.WriteFile(path, []byte("food_keywords: []\n"), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if _, err := LoadKeywords(path); err == nil {
			t.Error("expected error for empty keyword list")
		}
	})

	t.Run("missing_file", func(t *testing.T) {
		if _, err := LoadKeywords(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("default_list", func(t *testing.T) {
		c, err := FromFile("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.IsFoodTransaction("REMA 1000") {
			t.Error("expected default list to include rema")
		}
	})
}
