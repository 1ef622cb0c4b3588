// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storage

import (
	"cmp"
	"slices"

	"github.com/openblock/blockd/utils/errors"
)

const (
	SortKeySize      = "size"
	SortKeyReference = "reference"

	SortDirAsc  = "asc"
	SortDirDesc = "desc"
)

// ManageableVolume describes a volume found on a backend that may be brought under
// management.
type ManageableVolume struct {
	Reference     string            `json:"reference"`
	Size          int               `json:"size"`
	SafeToManage  bool              `json:"safeToManage"`
	ReasonNotSafe string            `json:"reasonNotSafe,omitempty"`
	ExistingID    string            `json:"existingID,omitempty"`
	ExtraInfo     map[string]string `json:"extraInfo,omitempty"`
}

type ManageableSnapshot struct {
	Reference       string            `json:"reference"`
	SourceReference string            `json:"sourceReference"`
	Size            int               `json:"size"`
	SafeToManage    bool              `json:"safeToManage"`
	ReasonNotSafe   string            `json:"reasonNotSafe,omitempty"`
	ExistingID      string            `json:"existingID,omitempty"`
	ExtraInfo       map[string]string `json:"extraInfo,omitempty"`
}

func (m *ManageableVolume) reference() string   { return m.Reference }
func (m *ManageableVolume) size() int           { return m.Size }
func (m *ManageableSnapshot) reference() string { return m.Reference }
func (m *ManageableSnapshot) size() int         { return m.Size }

type manageable interface {
	reference() string
	size() int
}

// ManageableListOptions selects a page of manageable resources. Marker is the reference
// of the last entry of the previous page.
type ManageableListOptions struct {
	Marker   string   `json:"marker,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Offset   int      `json:"offset,omitempty"`
	SortKeys []string `json:"sortKeys,omitempty"`
	SortDirs []string `json:"sortDirs,omitempty"`
}

// PaginateManageable sorts entries by the requested keys, then skips past the marker and
// offset and truncates to limit. A limit of zero means no limit. Sort directions pair up
// with sort keys by position; missing directions default to ascending.
func PaginateManageable[T manageable](entries []T, opts *ManageableListOptions) ([]T, error) {
	if opts == nil {
		opts = &ManageableListOptions{}
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, errors.InvalidInputError("limit and offset must not be negative")
	}
	if len(opts.SortDirs) > len(opts.SortKeys) {
		return nil, errors.InvalidInputError("more sort directions than sort keys")
	}

	keys := opts.SortKeys
	if len(keys) == 0 {
		keys = []string{SortKeyReference}
	}
	desc := make([]bool, len(keys))
	for i, key := range keys {
		if key != SortKeySize && key != SortKeyReference {
			return nil, errors.InvalidInputError("invalid sort key %s", key)
		}
		if i < len(opts.SortDirs) {
			switch opts.SortDirs[i] {
			case SortDirAsc:
			case SortDirDesc:
				desc[i] = true
			default:
				return nil, errors.InvalidInputError("invalid sort direction %s", opts.SortDirs[i])
			}
		}
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b T) int {
		for i, key := range keys {
			var c int
			if key == SortKeySize {
				c = cmp.Compare(a.size(), b.size())
			} else {
				c = cmp.Compare(a.reference(), b.reference())
			}
			if desc[i] {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	start := 0
	if opts.Marker != "" {
		idx := slices.IndexFunc(sorted, func(e T) bool { return e.reference() == opts.Marker })
		if idx < 0 {
			return nil, errors.InvalidInputError("marker %s not found", opts.Marker)
		}
		start = idx + 1
	}
	start += opts.Offset
	if start >= len(sorted) {
		return []T{}, nil
	}
	sorted = sorted[start:]
	if opts.Limit > 0 && opts.Limit < len(sorted) {
		sorted = sorted[:opts.Limit]
	}
	return sorted, nil
}
