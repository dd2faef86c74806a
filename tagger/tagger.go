// Package tagger models the producer side of the archive: a Tagger is a
// stable GUID paired with a structured signature describing the
// environment, library, model and configuration that produced its tags.
package tagger

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Signature is the canonical, structured description of a tagger. Leaves
// are plain strings; branches are nested map[string]interface{} values.
// Two taggers are the
// same tagger-in-spirit iff their signatures canonicalize to identical
// byte strings, independent of their GUIDs.
type Signature map[string]interface{}

// Canonical renders the signature as deterministic YAML: map keys are
// written in sorted order at every nesting level, so two signatures with
// the same content always produce identical bytes regardless of
// construction order. This is what Equal compares; the selector engine
// matches signatures structurally instead (see selector.Match).
func (s Signature) Canonical() ([]byte, error) {
	return yaml.Marshal(canonicalize(s))
}

// Equal reports whether two signatures canonicalize to the same bytes.
func (s Signature) Equal(other Signature) bool {
	a, errA := s.Canonical()
	b, errB := other.Canonical()
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}

// canonicalize walks a Signature (or any value produced by unmarshaling
// one) and returns a value whose map keys yaml.Marshal will emit in sorted
// order. yaml.v3 does not itself sort map[string]interface{} keys, so we
// convert every nested map into a yaml.MapSlice-equivalent ordered form.
func canonicalize(v interface{}) interface{} {
	switch m := v.(type) {
	case Signature:
		return canonicalizeMap(m)
	case map[string]interface{}:
		return canonicalizeMap(m)
	case []interface{}:
		out := make([]interface{}, len(m))
		for i, item := range m {
			out[i] = canonicalize(item)
		}
		return out
	default:
		return v
	}
}

type kv struct {
	Key   string      `yaml:"key"`
	Value interface{} `yaml:"value"`
}

// canonicalizeMap returns a slice of sorted key/value pairs. We can't rely
// on a plain map surviving yaml.Marshal in sorted order across yaml.v3
// versions, so we flatten to an explicit ordered list instead.
func canonicalizeMap(m map[string]interface{}) []kv {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]kv, len(keys))
	for i, k := range keys {
		out[i] = kv{Key: k, Value: canonicalize(m[k])}
	}
	return out
}

// ExpandDottedKeys rewrites a flat signature (or selector) where dotted
// keys are sugar for nesting -- "library.name": "spacy" becomes
// {"library": {"name": "spacy"}} -- merging into any sibling keys already
// present at that path. It returns a new map and never mutates m.
func ExpandDottedKeys(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for key, value := range m {
		parts := strings.Split(key, ".")
		if nested, ok := value.(map[string]interface{}); ok {
			value = ExpandDottedKeys(nested)
		}
		insertPath(out, parts, value)
	}
	return out
}

func insertPath(dst map[string]interface{}, parts []string, value interface{}) {
	if len(parts) == 1 {
		if existing, ok := dst[parts[0]].(map[string]interface{}); ok {
			if incoming, ok := value.(map[string]interface{}); ok {
				dst[parts[0]] = mergeMaps(existing, incoming)
				return
			}
		}
		dst[parts[0]] = value
		return
	}
	child, ok := dst[parts[0]].(map[string]interface{})
	if !ok {
		child = make(map[string]interface{})
	}
	insertPath(child, parts[1:], value)
	dst[parts[0]] = child
}

func mergeMaps(a, b map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if existing, ok := out[k].(map[string]interface{}); ok {
			if incoming, ok := v.(map[string]interface{}); ok {
				out[k] = mergeMaps(existing, incoming)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Tagger is a single producer of tags: a stable identity (GUID) plus the
// signature describing what produced them, and the indices of the codes
// (in the archive's code dictionary) that it has registered.
type Tagger struct {
	GUID      string
	Signature Signature
	Codes     []int
}

// New creates a Tagger with a freshly generated GUID. Signatures are
// expanded so dotted keys passed by the caller are normalized to nested
// form up front.
func New(sig Signature) *Tagger {
	return &Tagger{
		GUID:      uuid.New().String(),
		Signature: Signature(ExpandDottedKeys(map[string]interface{}(sig))),
	}
}
