package card

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Blessing is one poem card on the final scene. Read-only.
type Blessing struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Icon  string `yaml:"icon"`
	Poem  string `yaml:"poem"`
	Image string `yaml:"image"`
}

//go:embed blessings.yaml
var blessingsYAML []byte

var loadBlessings = sync.OnceValues(func() ([]Blessing, error) {
	return ParseBlessings(blessingsYAML)
})

// ParseBlessings decodes a YAML list of blessings. Every entry needs an ID and
// a title, and IDs must be unique.
func ParseBlessings(data []byte) ([]Blessing, error) {
	var out []Blessing
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse blessings: %w", err)
	}
	seen := make(map[string]bool, len(out))
	for i, b := range out {
		if b.ID == "" || b.Title == "" {
			return nil, fmt.Errorf("parse blessings: entry %d missing id or title", i)
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("parse blessings: duplicate id %q", b.ID)
		}
		seen[b.ID] = true
	}
	return out, nil
}

// Blessings returns the built-in poems in display order. The embedded content
// is validated by tests, so a parse failure here is a build defect.
func Blessings() []Blessing {
	b, err := loadBlessings()
	if err != nil {
		panic(err)
	}
	return append([]Blessing(nil), b...)
}

// FindBlessing looks a poem up by ID.
func FindBlessing(id string) (Blessing, bool) {
	for _, b := range Blessings() {
		if b.ID == id {
			return b, true
		}
	}
	return Blessing{}, false
}
