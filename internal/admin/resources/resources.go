package resources

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is one of the admin collections a staff member can browse.
type Kind string

const (
	Jobseekers   Kind = "jobseekers"
	Companies    Kind = "companies"
	Jobs         Kind = "jobs"
	Applications Kind = "applications"
)

// Kinds lists the collections in menu order.
func Kinds() []Kind {
	return []Kind{Jobseekers, Companies, Jobs, Applications}
}

func (k Kind) String() string { return string(k) }

// Title is the heading shown above the collection.
func (k Kind) Title() string {
	switch k {
	case Jobseekers:
		return "Jobseekers"
	case Companies:
		return "Companies"
	case Jobs:
		return "Jobs"
	case Applications:
		return "Applications"
	default:
		return string(k)
	}
}

// Description is the one line summary shown in the home menu.
func (k Kind) Description() string {
	switch k {
	case Jobseekers:
		return "Manage job seekers and their profiles"
	case Companies:
		return "Manage registered companies and employers"
	case Jobs:
		return "Manage job postings and applications"
	case Applications:
		return "Review and manage job applications"
	default:
		return ""
	}
}

var aliases = map[string]Kind{
	"jobseeker":   Jobseekers,
	"js":          Jobseekers,
	"company":     Companies,
	"job":         Jobs,
	"application": Applications,
	"apps":        Applications,
}

// Aliases returns the alternative names ParseKind accepts for k, sorted.
func (k Kind) Aliases() []string {
	var rv []string
	for alias, kind := range aliases {
		if kind == k {
			rv = append(rv, alias)
		}
	}
	slices.Sort(rv)
	return rv
}

// ParseKind accepts a collection name, its singular, or a short alias.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if slices.Contains(Kinds(), Kind(s)) {
		return Kind(s), nil
	}
	if k, ok := aliases[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown resource %q, must be one of %v", s, Kinds())
}

// Column is a table column. Width is a hint in terminal cells.
type Column struct {
	Title string
	Width int
}

// Action is a row mutation bound to a key in the viewer.
type Action struct {
	Key  string
	Name string
	Help string
}

const (
	OpToggleActive = "toggle-active"
	OpSetStatus    = "set-status"
)
