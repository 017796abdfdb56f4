package activity

import (
	"errors"
	"fmt"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
)

var ErrDuplicateDimension = errors.New("duplicate dimension id")

// MissingDimension is an entry whose responsible id has no matching DimensionRow.
type MissingDimension struct {
	EntryID       string
	ResponsibleID string
}

type UnresolvedPolicy int

const (
	// UnresolvedKeep keeps flagged entries; they count in totals only.
	UnresolvedKeep UnresolvedPolicy = iota
	// UnresolvedExclude drops flagged entries.
	UnresolvedExclude
	// UnresolvedLabel replaces the missing display name with a label.
	UnresolvedLabel
)

func ParseUnresolvedPolicy(s string) (UnresolvedPolicy, error) {
	switch s {
	case "", "keep":
		return UnresolvedKeep, nil
	case "exclude":
		return UnresolvedExclude, nil
	case "label":
		return UnresolvedLabel, nil
	default:
		return UnresolvedKeep, fmt.Errorf("unknown unresolved policy %q", s)
	}
}

type Resolver struct {
	names map[string]string
}

func NewResolver(rows []domain.DimensionRow) (*Resolver, error) {
	names := make(map[string]string, len(rows))
	for _, row := range rows {
		if _, exists := names[row.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDimension, row.ID)
		}
		names[row.ID] = row.DisplayName
	}
	return &Resolver{names: names}, nil
}

// Resolve returns a copy of entries with Responsible set from the dimension table.
// Entries without a ResponsibleID already carry their display name and pass through;
// those flagged Unresolved upstream are reported with an empty ResponsibleID.
// Unmatched ids are flagged and reported, never dropped.
func (r *Resolver) Resolve(entries []domain.Entry) ([]domain.Entry, []MissingDimension) {
	resolved := make([]domain.Entry, len(entries))
	var missing []MissingDimension

	for i, e := range entries {
		if e.ResponsibleID != "" {
			name, ok := r.names[e.ResponsibleID]
			if ok {
				e.Responsible = name
				e.Unresolved = false
			} else {
				e.Responsible = ""
				e.Unresolved = true
				missing = append(missing, MissingDimension{EntryID: e.ID, ResponsibleID: e.ResponsibleID})
			}
		} else if e.Unresolved {
			// flagged upstream: the row carries no responsible id at all
			missing = append(missing, MissingDimension{EntryID: e.ID})
		}
		resolved[i] = e
	}

	return resolved, missing
}

// ApplyUnresolvedPolicy decides what happens to entries flagged by Resolve.
func ApplyUnresolvedPolicy(entries []domain.Entry, policy UnresolvedPolicy, label string) []domain.Entry {
	if policy == UnresolvedKeep {
		return entries
	}

	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Unresolved {
			out = append(out, e)
			continue
		}
		if policy == UnresolvedLabel {
			e.Responsible = label
			e.Unresolved = false
			out = append(out, e)
		}
	}
	return out
}
