package catalog

import (
	"sort"
	"strings"
)

// Option is one selectable answer for a question. Value carries the points
// the option contributes to the total score.
type Option struct {
	Value       int    `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Question is a single scored item of a scale. Options are ordered as
// authored; option values need not be unique or monotonic.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Description string   `json:"description,omitempty"`
	Options     []Option `json:"options"`
}

// Definition is the immutable, hand-authored description of a scale:
// catalog metadata plus the ordered question set. Question order is the
// presentation and step-navigation order.
type Definition struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Acronym        string     `json:"acronym,omitempty"`
	Description    string     `json:"description,omitempty"`
	Category       string     `json:"category,omitempty"`
	Specialty      string     `json:"specialty,omitempty"`
	BodySystem     string     `json:"body_system,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	TimeToComplete string     `json:"time_to_complete,omitempty"`
	Instructions   string     `json:"instructions,omitempty"`
	Version        string     `json:"version,omitempty"`
	Questions      []Question `json:"questions"`
}

// MaxScore returns the highest total a fully independent answer set can reach.
func (d *Definition) MaxScore() int {
	total := 0
	for _, q := range d.Questions {
		best := 0
		for _, o := range q.Options {
			if o.Value > best {
				best = o.Value
			}
		}
		total += best
	}
	return total
}

// Question returns the question with the given id, or nil.
func (d *Definition) Question(id string) *Question {
	for i := range d.Questions {
		if d.Questions[i].ID == id {
			return &d.Questions[i]
		}
	}
	return nil
}

// OptionLabel resolves the label of the option with the given point value for
// a question. The first option matching the value wins.
func (q *Question) OptionLabel(value int) string {
	for _, o := range q.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return ""
}

// Registry is a read-only catalog of scale definitions. It is constructed
// explicitly and passed to the services that need it; there is no package
// level instance.
type Registry struct {
	defs map[string]*Definition
	ids  []string
}

// NewRegistry builds a registry from the given definitions. Later definitions
// with a duplicate id replace earlier ones.
func NewRegistry(defs ...*Definition) *Registry {
	r := &Registry{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if _, ok := r.defs[d.ID]; !ok {
			r.ids = append(r.ids, d.ID)
		}
		r.defs[d.ID] = d
	}
	sort.Strings(r.ids)
	return r
}

// Builtin returns the registry of definitions bundled with the application.
func Builtin() *Registry {
	return NewRegistry(Barthel())
}

// Get returns the definition for id, or nil if the scale is unknown.
func (r *Registry) Get(id string) *Definition {
	return r.defs[id]
}

// List returns all definitions ordered by id.
func (r *Registry) List() []*Definition {
	out := make([]*Definition, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.defs[id])
	}
	return out
}

// ListByCategory returns the definitions in the given category, ordered by id.
func (r *Registry) ListByCategory(category string) []*Definition {
	return r.filter(func(d *Definition) bool {
		return strings.EqualFold(d.Category, category)
	})
}

// ListBySpecialty returns the definitions for the given specialty, ordered by id.
func (r *Registry) ListBySpecialty(specialty string) []*Definition {
	return r.filter(func(d *Definition) bool {
		return strings.EqualFold(d.Specialty, specialty)
	})
}

// Search matches query case-insensitively against name, acronym, id and tags.
// An empty query returns every definition.
func (r *Registry) Search(query string) []*Definition {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.List()
	}
	return r.filter(func(d *Definition) bool {
		if strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.Acronym), q) ||
			strings.Contains(strings.ToLower(d.ID), q) {
			return true
		}
		for _, tag := range d.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

func (r *Registry) filter(keep func(*Definition) bool) []*Definition {
	out := []*Definition{}
	for _, id := range r.ids {
		if d := r.defs[id]; keep(d) {
			out = append(out, d)
		}
	}
	return out
}
