package index

import (
	"fmt"
	"strings"

	"github.com/TheBearodactyl/boundbook/internal/errs"
	"github.com/TheBearodactyl/boundbook/internal/hash"
)

// childKey identifies a (parent, name) pair. parent is the declaration
// index of the parent section, or rootParent for a top-level section.
type childKey struct {
	parent uint32
	hash   uint64
}

const rootParent = ^uint32(0)

// ChildIndex accelerates section-path resolution with an xxHash64-keyed
// lookup instead of an O(N) scan per path segment. It is purely an
// acceleration structure: a miss falls back to nothing (sections always
// come from Model.Sections, never from here).
type ChildIndex struct {
	buckets map[childKey][]uint32 // hash bucket -> candidate section indices (collision-safe)
	model   *Model
}

// BuildChildIndex indexes every section in m by (parent, xxhash(name)).
func BuildChildIndex(m *Model) *ChildIndex {
	ci := &ChildIndex{buckets: make(map[childKey][]uint32, len(m.Sections)), model: m}

	for i, s := range m.Sections {
		parent := rootParent
		if s.HasParent {
			parent = s.ParentIdx
		}
		key := childKey{parent: parent, hash: hash.ID(s.Name)}
		ci.buckets[key] = append(ci.buckets[key], uint32(i))
	}

	return ci
}

// find returns the declaration index of the child named name under
// parent, or false if no such child exists.
func (ci *ChildIndex) find(parent uint32, name string) (uint32, bool) {
	key := childKey{parent: parent, hash: hash.ID(name)}
	for _, idx := range ci.buckets[key] {
		if ci.model.Sections[idx].Name == name {
			return idx, true
		}
	}

	return 0, false
}

// Resolve walks a slash- or dot-separated path from the root of the
// section forest and returns the target page of the final segment plus
// the declaration index of the matched section.
func (ci *ChildIndex) Resolve(path string) (page uint32, sectionIdx uint32, err error) {
	sep := "/"
	if !strings.Contains(path, "/") && strings.Contains(path, ".") {
		sep = "."
	}

	segments := strings.Split(path, sep)
	parent := rootParent
	var lastIdx uint32
	found := false

	for _, seg := range segments {
		if seg == "" {
			continue
		}
		idx, ok := ci.find(parent, seg)
		if !ok {
			return 0, 0, fmt.Errorf("%w: no section %q under parent", errs.ErrUnknownParent, seg)
		}
		lastIdx = idx
		parent = idx
		found = true
	}

	if !found {
		return 0, 0, fmt.Errorf("%w: empty section path", errs.ErrUnknownParent)
	}

	return ci.model.Sections[lastIdx].TargetPage, lastIdx, nil
}

// Children returns the declaration indices of every direct child of
// parent (rootParent for top-level sections), in declaration order.
func (ci *ChildIndex) Children(parent uint32) []uint32 {
	var out []uint32
	for i, s := range ci.model.Sections {
		p := rootParent
		if s.HasParent {
			p = s.ParentIdx
		}
		if p == parent {
			out = append(out, uint32(i))
		}
	}

	return out
}
