// Package catalog loads the items shown by the deck and feed screens from
// YAML files, or supplies built-in samples when no file is configured.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/npratt/flick/internal/deck"
	"gopkg.in/yaml.v3"
)

// ErrNoItems is returned when a catalog file parses but holds no items.
var ErrNoItems = errors.New("catalog has no items")

// newID mints IDs for items that omit one.
var newID = uuid.NewString

// file is the on-disk layout. A bare top-level list is accepted too.
type file struct {
	Items []deck.Item `yaml:"items"`
}

// Load reads items from a YAML file.
func Load(path string) ([]deck.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	items, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Parse decodes items from YAML. Items without an id get a random UUID;
// duplicate ids are an error since undo and the carousel key on them.
func Parse(data []byte) ([]deck.Item, error) {
	var items []deck.Item
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("-")) {
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse items: %w", err)
		}
	} else {
		var f file
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse items: %w", err)
		}
		items = f.Items
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	seen := make(map[string]int, len(items))
	for i := range items {
		it := &items[i]
		it.ID = strings.TrimSpace(it.ID)
		if it.ID == "" {
			it.ID = newID()
		}
		if j, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("items %d and %d share id %q", j, i, it.ID)
		}
		seen[it.ID] = i
		if it.Title == "" {
			it.Title = it.ID
		}
	}
	return items, nil
}

// Marshal renders items in the layout Parse reads back.
func Marshal(items []deck.Item) ([]byte, error) {
	return yaml.Marshal(file{Items: items})
}
