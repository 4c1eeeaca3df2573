package mapping

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyPath is returned for a rule without a target path.
	ErrEmptyPath = errors.New("empty path")
	// ErrEmptySegment is returned for paths like "a..b" or ".a".
	ErrEmptySegment = errors.New("empty segment")
	// ErrReservedSegment is returned for segments naming prototype-level
	// properties.
	ErrReservedSegment = errors.New("reserved segment")
)

// reservedSegments would corrupt the document once it reaches a JavaScript
// runtime.
var reservedSegments = map[string]bool{
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}

// IsReservedSegment reports whether a single path segment is reserved.
func IsReservedSegment(s string) bool {
	return reservedSegments[s]
}

// PathError describes why a field path was rejected.
type PathError struct {
	Path    string
	Segment string
	Err     error
}

func (e *PathError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("invalid path %q: %v %q", e.Path, e.Err, e.Segment)
	}

	return fmt.Sprintf("invalid path %q: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// FieldPath is a parsed dot-separated path.
type FieldPath struct {
	Segments []string
}

// String joins the segments back with dots.
func (p FieldPath) String() string {
	return strings.Join(p.Segments, ".")
}

// Field returns the first segment, which names a top-level schema field.
func (p FieldPath) Field() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[0]
}

// IsNested reports whether the path has more than one segment.
func (p FieldPath) IsNested() bool {
	return len(p.Segments) > 1
}

// Parent returns the path without its last segment.
func (p FieldPath) Parent() FieldPath {
	if len(p.Segments) <= 1 {
		return FieldPath{}
	}

	return FieldPath{Segments: p.Segments[:len(p.Segments)-1]}
}

// Last returns the final segment.
func (p FieldPath) Last() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[len(p.Segments)-1]
}

// ParsePath parses a field path string into a FieldPath.
// Supports: "title", "slug.current", "seo.meta.title".
func ParsePath(path string) (FieldPath, error) {
	if path == "" {
		return FieldPath{}, &PathError{Path: path, Err: ErrEmptyPath}
	}

	var segments []string

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return FieldPath{}, &PathError{Path: path, Err: ErrEmptySegment}
		}

		if IsReservedSegment(part) {
			return FieldPath{}, &PathError{Path: path, Segment: part, Err: ErrReservedSegment}
		}

		segments = append(segments, part)
	}

	return FieldPath{Segments: segments}, nil
}
