// Package registry catalogs the hub's projects for the landing page.
package registry

import "strings"

// Project describes one entry on the hub.
type Project struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Path        string   `json:"path"`
}

// Registry is a read-only project catalog. Results keep registration order
// so listings are stable across requests.
type Registry struct {
	projects []Project
	bySlug   map[string]int
}

// New builds a registry from the given projects.
func New(projects []Project) *Registry {
	r := &Registry{
		projects: make([]Project, len(projects)),
		bySlug:   make(map[string]int, len(projects)),
	}
	copy(r.projects, projects)
	for i, p := range r.projects {
		r.bySlug[p.Slug] = i
	}
	return r
}

// All returns every project in registration order.
func (r *Registry) All() []Project {
	out := make([]Project, len(r.projects))
	copy(out, r.projects)
	return out
}

// Get retrieves a project by slug.
func (r *Registry) Get(slug string) (Project, bool) {
	i, ok := r.bySlug[slug]
	if !ok {
		return Project{}, false
	}
	return r.projects[i], true
}

// Categories returns the distinct categories in registration order.
func (r *Registry) Categories() []string {
	seen := map[string]bool{}
	out := make([]string, 0, 4)
	for _, p := range r.projects {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Search filters projects by a free-text query and an optional category.
// The query matches name, description, slug and tags, case-insensitively;
// an empty query matches everything.
func (r *Registry) Search(query, category string) []Project {
	q := strings.ToLower(strings.TrimSpace(query))
	cat := strings.ToLower(strings.TrimSpace(category))

	out := make([]Project, 0, len(r.projects))
	for _, p := range r.projects {
		if cat != "" && strings.ToLower(p.Category) != cat {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p Project, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Slug), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Defaults lists the projects this hub ships with.
func Defaults() []Project {
	return []Project{
		{
			Slug:        "2048",
			Name:        "2048",
			Description: "Slide and merge tiles to reach the 2048 tile.",
			Category:    "puzzle",
			Tags:        []string{"grid", "merge", "numbers"},
			Path:        "/games/2048",
		},
		{
			Slug:        "sudoku",
			Name:        "Sudoku",
			Description: "Classic 9x9 number placement with four difficulties.",
			Category:    "puzzle",
			Tags:        []string{"grid", "logic", "numbers"},
			Path:        "/games/sudoku",
		},
		{
			Slug:        "tetris",
			Name:        "Tetris",
			Description: "Stack falling tetrominoes and clear lines.",
			Category:    "arcade",
			Tags:        []string{"blocks", "classic", "reflex"},
			Path:        "/games/tetris",
		},
		{
			Slug:        "lucky-wheel",
			Name:        "Lucky Wheel",
			Description: "Build custom prize wheels and spin them.",
			Category:    "casual",
			Tags:        []string{"random", "party", "picker"},
			Path:        "/games/lucky-wheel",
		},
		{
			Slug:        "calculator",
			Name:        "Calculator",
			Description: "Evaluate arithmetic expressions with exact display.",
			Category:    "tool",
			Tags:        []string{"math", "utility"},
			Path:        "/tools/calculator",
		},
	}
}
