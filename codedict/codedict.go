// Package codedict implements the archive-wide code dictionary: the global
// interning table for (tagger, tag-name) pairs and the label value strings
// each of them has ever produced.
package codedict

import (
	"sort"

	"github.com/nlabel/arriba/errs"
)

// Code is one interned (tagger, tag-name) pair plus its value vocabulary.
// Values are appended in first-occurrence order, so a value's id (its
// index) is permanent: once a document's columns reference id 3, id 3 must
// keep meaning the same string for the archive's lifetime. Duplicates are
// detected through a value-to-id map; a sorted side index of the same
// values is kept alongside without disturbing that append order.
type Code struct {
	Tagger int
	Name   string

	values     []string
	ids        map[string]int
	sortedKeys []string
}

func newCode(tagger int, name string) *Code {
	return &Code{
		Tagger: tagger,
		Name:   name,
		ids:    make(map[string]int),
	}
}

// InternValue returns the stable id for value, appending it to the
// dictionary on first occurrence. Registering the same string twice always
// returns the same id.
func (c *Code) InternValue(value string) int {
	if id, ok := c.ids[value]; ok {
		return id
	}

	i := sort.SearchStrings(c.sortedKeys, value)
	id := len(c.values)
	c.values = append(c.values, value)
	c.ids[value] = id

	c.sortedKeys = append(c.sortedKeys, "")
	copy(c.sortedKeys[i+1:], c.sortedKeys[i:])
	c.sortedKeys[i] = value

	return id
}

// Lookup returns the id already assigned to value, if any.
func (c *Code) Lookup(value string) (int, bool) {
	id, ok := c.ids[value]
	return id, ok
}

// Values returns the value vocabulary in append (id) order: Values()[i] is
// the string for value id i.
func (c *Code) Values() []string {
	return c.values
}

// Value returns the string for a value id.
func (c *Code) Value(id int) string {
	return c.values[id]
}

// Len returns the number of distinct values interned for this code.
func (c *Code) Len() int {
	return len(c.values)
}

type codeKey struct {
	tagger int
	name   string
}

// Dict is the archive's global code table: every (tagger, tag-name) pair
// that has produced at least one tag, in registration order.
type Dict struct {
	codes []*Code
	byKey map[codeKey]int
}

// New returns an empty code dictionary.
func New() *Dict {
	return &Dict{byKey: make(map[codeKey]int)}
}

// Register interns a new (tagger, name) pair and returns its code index.
// It fails with errs.KindDuplicateCode if the pair is already registered;
// use Lookup first if re-registration should be tolerated.
func (d *Dict) Register(tagger int, name string) (int, error) {
	key := codeKey{tagger, name}
	if _, exists := d.byKey[key]; exists {
		return 0, errs.New(errs.KindDuplicateCode, "code already registered for tagger %d, name %q", tagger, name)
	}
	idx := len(d.codes)
	d.codes = append(d.codes, newCode(tagger, name))
	d.byKey[key] = idx
	return idx, nil
}

// Lookup returns the code index for (tagger, name), if registered.
func (d *Dict) Lookup(tagger int, name string) (int, bool) {
	idx, ok := d.byKey[codeKey{tagger, name}]
	return idx, ok
}

// EnsureRegistered returns the existing code index for (tagger, name), or
// registers a new one if it doesn't exist yet. Most writers should use this
// instead of Register, since a tagger naturally emits the same code for
// many documents.
func (d *Dict) EnsureRegistered(tagger int, name string) int {
	if idx, ok := d.Lookup(tagger, name); ok {
		return idx
	}
	idx, err := d.Register(tagger, name)
	if err != nil {
		// Register only fails on a duplicate, which Lookup already ruled out.
		panic(err)
	}
	return idx
}

// Code returns the code at idx.
func (d *Dict) Code(idx int) *Code {
	return d.codes[idx]
}

// Len returns the number of registered codes.
func (d *Dict) Len() int {
	return len(d.codes)
}

// CodesForTagger returns the indices of every code registered under the
// given tagger index, in registration order.
func (d *Dict) CodesForTagger(tagger int) []int {
	var out []int
	for idx, c := range d.codes {
		if c.Tagger == tagger {
			out = append(out, idx)
		}
	}
	return out
}
