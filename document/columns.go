package document

import (
	"math"

	"github.com/nlabel/arriba/column"
	"github.com/nlabel/arriba/errs"
	"github.com/nlabel/arriba/span"
)

// PackedSpans is the on-disk columnar form of a document's span table:
// parallel starts and lens columns, each written at the narrowest width its
// own document needs. Lengths rather than ends are stored so a document of
// short spans keeps an 8-bit lens column even when its text (and therefore
// its starts) needs wider elements.
type PackedSpans struct {
	N      int
	Starts column.Column
	Lens   column.Column
}

// PackSpans flattens a finalized span table into its columnar form.
func PackSpans(spans []span.Span) PackedSpans {
	starts := make([]uint64, len(spans))
	lens := make([]uint64, len(spans))
	for i, sp := range spans {
		starts[i] = uint64(sp.Start)
		lens[i] = uint64(sp.Len())
	}
	return PackedSpans{
		N:      len(spans),
		Starts: column.EncodeUint(starts),
		Lens:   column.EncodeUint(lens),
	}
}

// UnpackSpans restores a span table from its columnar form and verifies the
// canonical ordering invariant: starts ascending, ties longer-first. A table
// that violates it was not produced by Finalize and is treated as corrupt.
func UnpackSpans(p PackedSpans) ([]span.Span, error) {
	starts, err := column.DecodeUint(p.Starts, p.N)
	if err != nil {
		return nil, errs.Wrap(errs.KindCorruptArchive, err, "decoding span starts")
	}
	lens, err := column.DecodeUint(p.Lens, p.N)
	if err != nil {
		return nil, errs.Wrap(errs.KindCorruptArchive, err, "decoding span lens")
	}

	out := make([]span.Span, p.N)
	for i := range out {
		out[i] = span.Span{Start: int(starts[i]), End: int(starts[i] + lens[i])}
	}
	for i := 1; i < len(out); i++ {
		a, b := out[i-1], out[i]
		if a.Start > b.Start || (a.Start == b.Start && a.Len() < b.Len()) {
			return nil, errs.New(errs.KindCorruptArchive, "span %d (%v) out of canonical order after %v", i, b, a)
		}
	}
	return out, nil
}

// PackedCodeData is the on-disk columnar form of one CodeData: every tag's
// span reference, label values/scores, group offsets, and parent index
// packed into width-adaptive columns instead of a slice of structs.
//
// A tag with k labels occupies k consecutive slots in Values/Scores; Groups
// holds, for each tag, the exclusive end slot of its labels, so tag i's
// slice is [Groups[i-1], Groups[i]) with Groups[-1] read as 0, and the last
// entry always equals the total slot count. Groups collapses to NONE when
// every tag has exactly one label, since the end slot is then just i+1 and
// carries no information.
//
// Vectors is a separate parallel column keyed by tag index, not by label
// slot: absence of this column (VectorDim == 0) means the code has no
// embeddings at all, distinct from an individual tag lacking one.
type PackedCodeData struct {
	Code    int32
	NumTags int

	Spans   column.Column
	Values  column.Column
	Scores  column.Column
	Groups  column.Column
	Parents column.Column

	VectorDim int
	Vectors   column.Column
}

// PackCodeData flattens a finalized CodeData into its columnar form.
func PackCodeData(cd CodeData) PackedCodeData {
	n := len(cd.Tags)

	spans := make([]int64, n)
	parents := make([]int64, n)
	groups := make([]uint64, n)

	var values []uint64
	var scores []float64

	for i, tag := range cd.Tags {
		spans[i] = int64(tag.Span)
		parents[i] = int64(tag.Parent)
		for _, label := range tag.Labels {
			values = append(values, uint64(label.ValueID))
			scores = append(scores, label.Score)
		}
		groups[i] = uint64(len(values))
	}

	groupsUniform := true
	for _, tag := range cd.Tags {
		if len(tag.Labels) != 1 {
			groupsUniform = false
			break
		}
	}
	groupsCol := column.EncodeUint(groups)
	if groupsUniform {
		groupsCol = column.None()
	}

	dim := 0
	for _, tag := range cd.Tags {
		if len(tag.Vector) > dim {
			dim = len(tag.Vector)
		}
	}
	var vectors []float64
	if dim > 0 {
		vectors = make([]float64, 0, n*dim)
		for _, tag := range cd.Tags {
			for j := 0; j < dim; j++ {
				if j < len(tag.Vector) {
					vectors = append(vectors, tag.Vector[j])
				} else {
					vectors = append(vectors, math.NaN())
				}
			}
		}
	}

	return PackedCodeData{
		Code:      int32(cd.Code),
		NumTags:   n,
		Spans:     column.EncodeInt(spans),
		Values:    column.EncodeUint(values),
		Scores:    column.EncodeFloat(scores),
		Groups:    groupsCol,
		Parents:   column.EncodeInt(parents),
		VectorDim: dim,
		Vectors:   column.EncodeFloat(vectors),
	}
}

// UnpackCodeData restores a CodeData from its columnar form. The number of
// label slots is the element count of the Values column (0 when it is
// NONE) and must equal the last group offset; when Groups is NONE, each
// tag is read as holding exactly one label.
func UnpackCodeData(p PackedCodeData) (CodeData, error) {
	n := p.NumTags

	spans, err := column.DecodeInt(p.Spans, n)
	if err != nil {
		return CodeData{}, errs.Wrap(errs.KindCorruptArchive, err, "decoding spans for code %d", p.Code)
	}
	parents, err := column.DecodeInt(p.Parents, n)
	if err != nil {
		return CodeData{}, errs.Wrap(errs.KindCorruptArchive, err, "decoding parents for code %d", p.Code)
	}

	var groups []uint64
	if p.Groups.IsNone() {
		groups = make([]uint64, n)
		for i := range groups {
			groups[i] = uint64(i + 1)
		}
	} else {
		groups, err = column.DecodeUint(p.Groups, n)
		if err != nil {
			return CodeData{}, errs.Wrap(errs.KindCorruptArchive, err, "decoding groups for code %d", p.Code)
		}
	}

	numSlots := p.Values.N
	if p.Values.IsNone() {
		numSlots = 0
	}
	values, err := column.DecodeUint(p.Values, numSlots)
	if err != nil {
		return CodeData{}, errs.Wrap(errs.KindCorruptArchive, err, "decoding values for code %d", p.Code)
	}
	scores, err := column.DecodeFloat(p.Scores, numSlots)
	if err != nil {
		return CodeData{}, errs.Wrap(errs.KindCorruptArchive, err, "decoding scores for code %d", p.Code)
	}
	if n > 0 && int(groups[n-1]) != numSlots {
		return CodeData{}, errs.New(errs.KindCorruptArchive, "code %d: last group offset %d does not cover %d label slots", p.Code, groups[n-1], numSlots)
	}

	tags := make([]Tag, n)
	for i := 0; i < n; i++ {
		start := 0
		if i > 0 {
			start = int(groups[i-1])
		}
		end := int(groups[i])
		if end > numSlots || start > end {
			return CodeData{}, errs.New(errs.KindCorruptArchive, "code %d: invalid label group bounds [%d,%d)", p.Code, start, end)
		}
		labels := make([]Label, end-start)
		for j := start; j < end; j++ {
			labels[j-start] = Label{ValueID: int(values[j]), Score: scores[j]}
		}
		tags[i] = Tag{Span: int(spans[i]), Labels: labels, Parent: int(parents[i])}
	}

	if p.VectorDim > 0 {
		flat, err := column.DecodeFloat(p.Vectors, n*p.VectorDim)
		if err != nil {
			return CodeData{}, errs.Wrap(errs.KindCorruptArchive, err, "decoding vectors for code %d", p.Code)
		}
		for i := range tags {
			vec := flat[i*p.VectorDim : (i+1)*p.VectorDim]
			if allNaN(vec) {
				continue
			}
			tags[i].Vector = append([]float64(nil), vec...)
		}
	}

	return CodeData{Code: int(p.Code), Tags: tags}, nil
}

func allNaN(vs []float64) bool {
	for _, v := range vs {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}
