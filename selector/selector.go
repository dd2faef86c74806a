// Package selector implements tagger resolution and view assembly: picking
// a tagger out of an archive by a structural signature query, and
// resolving an ordered list of tag specs across taggers into a named view
// with no export collisions.
package selector

import (
	"github.com/nlabel/arriba/errs"
	"github.com/nlabel/arriba/tagger"
)

// Query is a tagger selector: a nested mapping of string keys to either
// leaf strings or further nested mappings. Dotted keys are sugar for
// nesting and are expanded the same way a tagger.Signature is.
type Query map[string]interface{}

// Match reports whether every leaf in q equals the corresponding leaf in
// sig: a structural subset match, not full equality. Extra keys present in
// sig but absent from q are ignored.
func Match(q Query, sig tagger.Signature) bool {
	expanded := tagger.ExpandDottedKeys(map[string]interface{}(q))
	return matchMap(expanded, map[string]interface{}(sig))
}

func matchMap(q, sig map[string]interface{}) bool {
	for k, qv := range q {
		sv, ok := sig[k]
		if !ok {
			return false
		}
		switch qvt := qv.(type) {
		case map[string]interface{}:
			svt, ok := sv.(map[string]interface{})
			if !ok {
				return false
			}
			if !matchMap(qvt, svt) {
				return false
			}
		default:
			if qv != sv {
				return false
			}
		}
	}
	return true
}

// Resolve selects the single tagger among taggers whose signature
// structurally matches q. It fails with errs.KindNoMatch if none match, or
// errs.KindAmbiguous if more than one does. Resolution is a pure function
// of q and taggers, so repeated calls always agree.
func Resolve(taggers []*tagger.Tagger, q Query) (int, error) {
	matchIdx := -1
	count := 0
	for i, t := range taggers {
		if Match(q, t.Signature) {
			count++
			matchIdx = i
		}
	}
	switch count {
	case 0:
		return 0, errs.New(errs.KindNoMatch, "no tagger matches selector %v", map[string]interface{}(q))
	case 1:
		return matchIdx, nil
	default:
		return 0, errs.New(errs.KindAmbiguous, "selector %v matches %d taggers", map[string]interface{}(q), count)
	}
}
