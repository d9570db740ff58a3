package classify

import "sort"

// Result is the outcome of one classification run: the complete span
// sequence plus opacity queries against the isolation config the
// classifier was built with. Immutable.
type Result struct {
	spans  []Span
	length int
	cfg    Config
}

// Spans returns the classified spans in document order. The union of
// the returned spans is exactly [0, Len()) with no overlaps.
func (r *Result) Spans() []Span {
	return r.spans
}

// Len returns the length of the classified document.
func (r *Result) Len() int {
	return r.length
}

// At returns the span containing offset. Offsets outside the document
// return an empty plain span.
func (r *Result) At(offset int) Span {
	if offset < 0 || offset >= r.length {
		return Span{Start: offset, End: offset, Category: CategoryPlain}
	}
	i := sort.Search(len(r.spans), func(i int) bool {
		return r.spans[i].End > offset
	})
	if i < len(r.spans) && r.spans[i].Start <= offset {
		return r.spans[i]
	}
	return Span{Start: offset, End: offset, Category: CategoryPlain}
}

// Opaque reports whether any part of [start, end) is covered by a
// span whose category the config ignores. Opaque text is invisible to
// the structure parser and to custom rule matching.
func (r *Result) Opaque(start, end int) bool {
	if start < 0 {
		start = 0
	}
	if end > r.length {
		end = r.length
	}
	if start >= end {
		return false
	}

	i := sort.Search(len(r.spans), func(i int) bool {
		return r.spans[i].End > start
	})
	for ; i < len(r.spans) && r.spans[i].Start < end; i++ {
		if r.cfg.Ignores(r.spans[i].Category) {
			return true
		}
	}
	return false
}

// PlainAt reports whether the byte at offset is plain-equivalent:
// plain, or tagged with a category the config does not ignore.
func (r *Result) PlainAt(offset int) bool {
	return !r.cfg.Ignores(r.At(offset).Category)
}

// CategoryAt returns the category tagged at offset, CategoryPlain for
// out-of-range offsets.
func (r *Result) CategoryAt(offset int) Category {
	return r.At(offset).Category
}
