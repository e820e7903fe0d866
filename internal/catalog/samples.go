package catalog

import "github.com/npratt/flick/internal/deck"

// SampleDeck returns the built-in candidate deck.
func SampleDeck() []deck.Item {
	return []deck.Item{
		{
			ID:       "ada",
			Title:    "Ada, 29",
			Subtitle: "Compiler engineer, 3 km away",
			Images:   []string{"at the lake", "hiking the ridge", "with her cat Turing"},
			Meta:     map[string]string{"likes": "climbing, chess"},
		},
		{
			ID:       "grace",
			Title:    "Grace, 34",
			Subtitle: "Naval officer, 12 km away",
			Images:   []string{"in uniform", "debugging a relay"},
			Meta:     map[string]string{"likes": "nanoseconds"},
		},
		{
			ID:       "linus",
			Title:    "Linus, 31",
			Subtitle: "Kernel hacker, 5 km away",
			Images:   []string{"penguin sanctuary"},
		},
		{
			ID:       "barbara",
			Title:    "Barbara, 27",
			Subtitle: "Distributed systems, 1 km away",
			Images:   []string{"conference talk", "bike commute", "bakery", "sunset"},
			Meta:     map[string]string{"likes": "consensus"},
		},
		{
			ID:       "ken",
			Title:    "Ken, 38",
			Subtitle: "Systems programmer, 20 km away",
		},
	}
}

// SampleFeed returns the built-in feed rows.
func SampleFeed() []deck.Item {
	return []deck.Item{
		{ID: "post-1", Title: "Release notes for v2.4", Subtitle: "12 comments", Meta: map[string]string{"author": "maintainers"}},
		{ID: "post-2", Title: "Why springs beat easing curves", Subtitle: "48 comments", Meta: map[string]string{"author": "motion"}},
		{ID: "post-3", Title: "Undo stacks in practice", Subtitle: "7 comments", Meta: map[string]string{"author": "ux"}},
		{ID: "post-4", Title: "Terminal mouse protocols explained", Subtitle: "31 comments", Meta: map[string]string{"author": "tty"}},
		{ID: "post-5", Title: "Show: a swipe deck in your shell", Subtitle: "90 comments", Meta: map[string]string{"author": "flick"}},
		{ID: "post-6", Title: "Velocity sampling on release", Subtitle: "3 comments", Meta: map[string]string{"author": "input"}},
	}
}

// LoadOr loads items from path, or returns fallback when path is empty.
func LoadOr(path string, fallback func() []deck.Item) ([]deck.Item, error) {
	if path == "" {
		return fallback(), nil
	}
	return Load(path)
}
