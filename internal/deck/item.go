// Package deck holds the ordered item stack behind a swipe host: the
// cursor, the bounded undo ledger and each item's image carousel index.
package deck

// Item is an immutable card payload supplied by the data layer.
type Item struct {
	ID       string            `yaml:"id" json:"id"`
	Title    string            `yaml:"title" json:"title"`
	Subtitle string            `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Images   []string          `yaml:"images,omitempty" json:"images,omitempty"`
	Meta     map[string]string `yaml:"meta,omitempty" json:"meta,omitempty"`
}

// lastImage returns the highest valid carousel index.
func (it Item) lastImage() int {
	return max(0, len(it.Images)-1)
}
