package compiler

import (
	"context"
	"regexp"
	"strings"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/source"
)

var refPattern = regexp.MustCompile(`^(.*)#/(definitions|\$defs)/(.+)$`)

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// resolveRef returns the model name a $ref points to. Definitions living in
// another document are fetched and queued for compilation the first time their
// name is seen.
func (b *ClassBuilder) resolveRef(ctx context.Context, ref, path string) (string, error) {
	m := refPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", jsmodel.SchemaErrorf(jsmodel.ErrInvalidReference, "Unable to parse provided reference %q", ref).At(path)
	}
	prefix, keyword, name := m[1], m[2], pointerUnescaper.Replace(m[3])

	uri := b.base
	if prefix != "" {
		resolved, err := source.ResolveRef(b.base, prefix)
		if err != nil {
			return "", jsmodel.SchemaErrorf(jsmodel.ErrInvalidReference, "Unable to parse provided reference %q", ref).Wrap(err).At(path)
		}
		uri = resolved
	}
	if uri == b.doc.Base {
		if _, ok := b.localNames[name]; !ok {
			return "", jsmodel.SchemaErrorf(jsmodel.ErrInvalidReference, "reference to undefined definition %q", name).At(path)
		}
		return name, nil
	}

	if _, seen := b.externalNames[name]; seen {
		return name, nil
	}
	if _, clash := b.localNames[name]; clash {
		return "", jsmodel.SchemaErrorf(jsmodel.ErrInvalidReference,
			"external definition %q from %s collides with a local definition", name, uri).At(path)
	}
	doc, err := b.remoteDocument(ctx, uri)
	if err != nil {
		return "", jsmodel.SchemaErrorf(jsmodel.ErrInvalidReference, "Unable to retrieve provided reference").Wrap(err).At(path)
	}
	def := doc.Object(keyword).Object(name)
	if def == nil {
		return "", jsmodel.SchemaErrorf(jsmodel.ErrInvalidReference, "definition %q not found under %s in %s", name, keyword, uri).At(path)
	}
	b.externalNames[name] = struct{}{}
	b.queue = append(b.queue, external{
		name: name,
		def:  def,
		base: uri,
		path: uri + "#/" + keyword + "/" + jsmodel.EscapePointer(name),
	})
	b.log.Debug("external definition queued", "name", name, "uri", uri)
	return name, nil
}

// remoteDocument fetches uri once per build.
func (b *ClassBuilder) remoteDocument(ctx context.Context, uri string) (*source.Object, error) {
	if doc, ok := b.remote[uri]; ok {
		return doc, nil
	}
	b.log.Debug("fetching remote schema", "uri", uri)
	doc, err := b.fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	b.remote[uri] = doc
	return doc, nil
}
