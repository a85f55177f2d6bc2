// Package classifier decides whether a transaction description refers to food
// or grocery spending, using a configurable list of merchant keywords.
package classifier

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFoodKeywords are grocery chains and food merchants matched when no
// keyword file is configured.
var DefaultFoodKeywords = []string{
	"rema", "kiwi", "coop", "meny", "spar", "joker", "bunnpris",
	"extra", "obs", "prix", "mega", "oda", "foodora", "wolt",
	"mcdonalds", "burger king", "narvesen", "7-eleven",
}

// KeywordsFile is the YAML layout of a keyword file.
type KeywordsFile struct {
	FoodKeywords []string `yaml:"food_keywords"`
}

// Classifier matches descriptions against keywords as whole words.
// Matching uses ASCII word boundaries: "rema 1000" matches "rema", while
// "supermcdonalds" and "mcdonalds2" do not match "mcdonalds".
//
// Letters outside ASCII are not word characters, so a keyword that starts or
// ends with one (such as "café") never matches. Non-ASCII letters inside a
// keyword ("grünerløkka") are fine.
type Classifier struct {
	keywords []string
	pattern  *regexp.Regexp
}

// New builds a Classifier. Keywords are trimmed, lowercased and de-duplicated;
// blank entries are ignored. A Classifier without keywords matches nothing.
func New(keywords []string) *Classifier {
	seen := make(map[string]bool, len(keywords))
	normalized := make([]string, 0, len(keywords))
	quoted := make([]string, 0, len(keywords))

	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		normalized = append(normalized, kw)
		quoted = append(quoted, regexp.QuoteMeta(kw))
	}

	c := &Classifier{keywords: normalized}
	if len(quoted) > 0 {
		c.pattern = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return c
}

// IsFoodTransaction reports whether description contains any keyword as a
// whole word. Empty descriptions never match.
func (c *Classifier) IsFoodTransaction(description string) bool {
	if c == nil || c.pattern == nil {
		return false
	}
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return false
	}
	return c.pattern.MatchString(desc)
}

// Keywords returns the normalized keyword list.
func (c *Classifier) Keywords() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keywords))
	copy(out, c.keywords)
	return out
}

// LoadKeywords reads a YAML keyword file.
func LoadKeywords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword file: %w", err)
	}

	var file KeywordsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse keyword file: %w", err)
	}
	if len(file.FoodKeywords) == 0 {
		return nil, fmt.Errorf("keyword file %s defines no food_keywords", path)
	}
	return file.FoodKeywords, nil
}

// FromFile builds a Classifier from path, or from DefaultFoodKeywords when
// path is empty.
func FromFile(path string) (*Classifier, error) {
	if path == "" {
		return New(DefaultFoodKeywords), nil
	}
	keywords, err := LoadKeywords(path)
	if err != nil {
		return nil, err
	}
	return New(keywords), nil
}
