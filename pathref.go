package jsmodel

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef is an immutable JSON Pointer under construction. Segments are stored
// raw and escaped when the pointer is rendered, so siblings can share a parent.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code, msg string, kv ...any) Issue
}

type pathRef struct {
	parent *pathRef
	seg    string
	depth  int
}

// Root returns the document root ("/").
func Root() PathRef { return (*pathRef)(nil) }

// At parses a rendered pointer. "~1" and "~0" are unescaped per RFC 6901.
func At(pointer string) PathRef {
	var p *pathRef
	for _, seg := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		if seg == "" {
			continue
		}
		p = p.child(unescapePointer(seg))
	}
	return p
}

func (p *pathRef) child(seg string) *pathRef {
	d := 1
	if p != nil {
		d = p.depth + 1
	}
	return &pathRef{parent: p, seg: seg, depth: d}
}

// Field appends a property name. An empty name leaves the path unchanged.
func (p *pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	return p.child(name)
}

func (p *pathRef) Index(i int) PathRef { return p.child(strconv.Itoa(i)) }

func (p *pathRef) Pointer() string {
	if p == nil {
		return "/"
	}
	segs := make([]string, p.depth)
	for n := p; n != nil; n = n.parent {
		segs[n.depth-1] = EscapePointer(n.seg)
	}
	return "/" + strings.Join(segs, "/")
}

// Issue builds an Issue located at p. kv is read as key/value pairs into Params;
// a trailing odd key is dropped.
func (p *pathRef) Issue(code, msg string, kv ...any) Issue {
	params := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

// EscapePointer escapes one pointer segment ('~' as "~0", '/' as "~1").
func EscapePointer(seg string) string {
	if !strings.ContainsAny(seg, "~/") {
		return seg
	}
	return strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1")
}

func unescapePointer(seg string) string {
	if !strings.Contains(seg, "~") {
		return seg
	}
	return strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
}
