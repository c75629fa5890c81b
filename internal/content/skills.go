package content

import "fmt"

// CategoryKey names one skill tab.
type CategoryKey string

// Skills is the tabbed skill matrix: exactly one category is shown at a
// time, looked up by key.
type Skills struct {
	Default    CategoryKey              `yaml:"default"`
	Order      []CategoryKey            `yaml:"order"`
	Categories map[CategoryKey]Category `yaml:"categories"`
	Extras     []string                 `yaml:"extras"`
}

type Category struct {
	Title  string  `yaml:"title"`
	Icon   string  `yaml:"icon"`
	Skills []Skill `yaml:"skills"`
}

type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

// Tab is a category as presented in the selector.
type Tab struct {
	Key    CategoryKey
	Title  string
	Icon   string
	Active bool
}

// Select returns the category for key.
func (s Skills) Select(key CategoryKey) (Category, error) {
	c, ok := s.Categories[key]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
	}
	return c, nil
}

// Tabs lists the categories in display order, marking active.
func (s Skills) Tabs(active CategoryKey) []Tab {
	tabs := make([]Tab, 0, len(s.Order))
	for _, k := range s.Order {
		c := s.Categories[k]
		tabs = append(tabs, Tab{Key: k, Title: c.Title, Icon: c.Icon, Active: k == active})
	}
	return tabs
}

func (s Skills) validate() error {
	if len(s.Categories) == 0 {
		return nil
	}
	if _, ok := s.Categories[s.Default]; !ok {
		return fmt.Errorf("%w: skills.default %q is not a category", ErrInvalid, s.Default)
	}
	if len(s.Order) != len(s.Categories) {
		return fmt.Errorf("%w: skills.order must list every category once", ErrInvalid)
	}
	seen := make(map[CategoryKey]bool, len(s.Order))
	for _, k := range s.Order {
		if _, ok := s.Categories[k]; !ok || seen[k] {
			return fmt.Errorf("%w: skills.order entry %q", ErrInvalid, k)
		}
		seen[k] = true
	}
	for k, c := range s.Categories {
		for _, sk := range c.Skills {
			if sk.Level < 0 || sk.Level > 100 {
				return fmt.Errorf("%w: skill %q in %q has level %d", ErrInvalid, sk.Name, k, sk.Level)
			}
		}
	}
	return nil
}
