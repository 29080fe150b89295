// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clade

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// A Universe is the set of terminal names
// shared by a collection of trees.
type Universe struct {
	names []string
	pos   map[string]int
}

// NewUniverse returns a universe
// from a list of terminal names.
func NewUniverse(names []string) (*Universe, error) {
	u := &Universe{
		names: slices.Clone(names),
		pos:   make(map[string]int, len(names)),
	}
	slices.Sort(u.names)
	for i, n := range u.names {
		if n == "" {
			return nil, fmt.Errorf("clade: empty terminal name")
		}
		if i > 0 && u.names[i-1] == n {
			return nil, fmt.Errorf("clade: repeated terminal %q", n)
		}
		u.pos[n] = i
	}
	return u, nil
}

// Len returns the number of terminals in the universe.
func (u *Universe) Len() int {
	return len(u.names)
}

// Names returns the sorted terminal names.
func (u *Universe) Names() []string {
	return slices.Clone(u.names)
}

// Has returns true if the name is in the universe.
func (u *Universe) Has(name string) bool {
	_, ok := u.pos[name]
	return ok
}

// Full returns the set of all terminals.
func (u *Universe) Full() Set {
	b := bitset.New(uint(len(u.names)))
	for i := range u.names {
		b.Set(uint(i))
	}
	return Set{u: u, b: b}
}

// Set returns a set with the given terminals.
func (u *Universe) Set(names ...string) (Set, error) {
	s := u.empty()
	for _, n := range names {
		i, ok := u.pos[n]
		if !ok {
			return Set{}, fmt.Errorf("clade: terminal %q not in universe", n)
		}
		s.b.Set(uint(i))
	}
	return s, nil
}

func (u *Universe) empty() Set {
	return Set{u: u, b: bitset.New(uint(len(u.names)))}
}

// A Set is a set of terminals of a universe,
// for example, the terminals of a clade.
type Set struct {
	u *Universe
	b *bitset.BitSet
}

// Len returns the number of terminals in the set.
func (s Set) Len() int {
	if s.b == nil {
		return 0
	}
	return int(s.b.Count())
}

// Has returns true if the terminal is in the set.
func (s Set) Has(name string) bool {
	i, ok := s.u.pos[name]
	if !ok {
		return false
	}
	return s.b.Test(uint(i))
}

// Names returns the sorted names of the terminals
// in the set.
func (s Set) Names() []string {
	names := make([]string, 0, s.Len())
	for i, ok := s.b.NextSet(0); ok; i, ok = s.b.NextSet(i + 1) {
		names = append(names, s.u.names[i])
	}
	return names
}

// Key returns a string that identifies the set
// in its universe.
func (s Set) Key() string {
	var sb strings.Builder
	for i, ok := s.b.NextSet(0); ok; i, ok = s.b.NextSet(i + 1) {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(i), 10))
	}
	return sb.String()
}

// String returns the set as a list of names
// enclosed in braces.
func (s Set) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

// Equal returns true if both sets have the same terminals.
func (s Set) Equal(o Set) bool {
	return s.b.Equal(o.b)
}

// IsDisjoint returns true if the sets
// do not share any terminal.
func (s Set) IsDisjoint(o Set) bool {
	return s.b.IntersectionCardinality(o.b) == 0
}

// IsSubset returns true if every terminal of s
// is in o.
func (s Set) IsSubset(o Set) bool {
	return o.b.IsSuperSet(s.b)
}

// IsSuperset returns true if every terminal of o
// is in s.
func (s Set) IsSuperset(o Set) bool {
	return s.b.IsSuperSet(o.b)
}

// IsStrictSuperset returns true if s
// is a superset of o,
// and s has more terminals than o.
func (s Set) IsStrictSuperset(o Set) bool {
	return s.Len() > o.Len() && s.IsSuperset(o)
}

// Compatible returns true if two sets can be clades
// of the same tree,
// i.e., they are disjoint,
// or one is a subset of the other.
func (s Set) Compatible(o Set) bool {
	return s.IsDisjoint(o) || s.IsSubset(o) || s.IsSuperset(o)
}

// Complement returns the terminals of the universe
// that are not in s.
func (s Set) Complement() Set {
	return Set{u: s.u, b: s.b.Complement()}
}

// Union returns the terminals in s or o.
func (s Set) Union(o Set) Set {
	return Set{u: s.u, b: s.b.Union(o.b)}
}

// Canonical returns the side of the bipartition
// defined by s
// that is used to identify it:
// the smaller side,
// or in case of ties,
// the side with the lexicographically smaller
// list of names.
func (s Set) Canonical() Set {
	c := s.Complement()
	sl, cl := s.Len(), c.Len()
	if cl < sl {
		return c
	}
	if sl < cl {
		return s
	}
	if c.Compare(s) < 0 {
		return c
	}
	return s
}

// Compare compares the sorted names of two sets
// in lexicographic order.
// It returns -1 if s is before o,
// 1 if s is after o,
// and 0 if both are equal.
func (s Set) Compare(o Set) int {
	i, iok := s.b.NextSet(0)
	j, jok := o.b.NextSet(0)
	for iok && jok {
		if i != j {
			// names are sorted in the universe
			if i < j {
				return -1
			}
			return 1
		}
		i, iok = s.b.NextSet(i + 1)
		j, jok = o.b.NextSet(j + 1)
	}
	switch {
	case iok:
		return 1
	case jok:
		return -1
	}
	return 0
}
