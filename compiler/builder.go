// Package compiler compiles JSON Schema documents (draft-07, draft-2020-12) into
// model.Model values.
//
// Definitions are compiled in document order. References to not-yet-compiled
// definitions become model.ForwardRef placeholders; definitions pulled in from
// remote documents are queued and compiled after the local ones. Once the queue
// is empty every placeholder is bound against the finished namespace.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/model"
	"github.com/reoring/jsmodel/source"
)

// ClassBuilder compiles one schema document. It is single-use and not safe for
// concurrent use.
type ClassBuilder struct {
	doc     *source.Document
	version source.Version
	keyword string
	fetcher source.Fetcher
	log     *slog.Logger
	diag    *simpleDiag
	strict  bool

	ns      map[string]*model.Model
	order   []string
	pending []*model.Model

	localNames    map[string]struct{}
	externalNames map[string]struct{}
	queue         []external
	remote        map[string]*source.Object

	// base is the document the definition being compiled came from; local-form
	// references inside remote definitions resolve against it.
	base string
	used bool
}

type external struct {
	name string
	def  *source.Object
	base string
	path string
}

// New loads the root document, detects its version and returns a builder.
// input may be a file path, an absolute URL, raw JSON/YAML bytes, a
// map[string]any or a *source.Object.
func New(ctx context.Context, input any, opts Options) (*ClassBuilder, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("build_id", uuid.NewString())

	lopts := opts.Loader
	if lopts.Logger == nil {
		lopts.Logger = log
	}
	loader := source.NewLoader(lopts)
	doc, err := loader.Resolve(ctx, input)
	if err != nil {
		return nil, err
	}
	marker, _ := doc.Root.String("$schema")
	version, err := source.DetectVersion(marker)
	if err != nil {
		return nil, err
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = loader
	}
	b := &ClassBuilder{
		doc:           doc,
		version:       version,
		keyword:       version.DefinitionsKeyword(),
		fetcher:       fetcher,
		log:           log,
		diag:          &simpleDiag{},
		strict:        opts.Strict,
		ns:            map[string]*model.Model{},
		localNames:    map[string]struct{}{},
		externalNames: map[string]struct{}{},
		remote:        map[string]*source.Object{},
		base:          doc.Base,
	}
	log.Debug("schema loaded", "version", version.String(), "base", doc.Base)
	return b, nil
}

// Version returns the detected schema version.
func (b *ClassBuilder) Version() source.Version { return b.version }

// Diag returns the warnings collected so far.
func (b *ClassBuilder) Diag() Diag { return b.diag }

// BuildClasses compiles every definition of the document plus every remote
// definition reachable through $ref, binds forward references and returns the
// models in namespace insertion order: local definitions in document order, then
// remote ones in the order they were fetched.
func (b *ClassBuilder) BuildClasses(ctx context.Context) ([]*model.Model, error) {
	if b.used {
		return nil, errors.New("compiler: BuildClasses called twice on the same ClassBuilder")
	}
	b.used = true

	defsPath := "/" + jsmodel.EscapePointer(b.keyword)
	raw, ok := b.doc.Root.Get(b.keyword)
	if !ok {
		if err := b.warnf(defsPath, "schema declares no %s", b.keyword); err != nil {
			return nil, err
		}
	}
	defs, isObj := raw.(*source.Object)
	if ok && !isObj {
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrSchemaParse, "%s must be an object", b.keyword).At(defsPath)
	}
	for _, name := range defs.Keys() {
		b.localNames[name] = struct{}{}
	}
	for _, name := range defs.Keys() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := defsPath + "/" + jsmodel.EscapePointer(name)
		def := defs.Object(name)
		if def == nil {
			return nil, jsmodel.SchemaErrorf(jsmodel.ErrUnsupportedSchema, "definition %s is not an object", name).At(path)
		}
		if err := b.buildClass(ctx, name, def, path); err != nil {
			return nil, err
		}
	}

	drained := 0
	for len(b.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := b.queue[0]
		b.queue = b.queue[1:]
		b.base = next.base
		if err := b.buildClass(ctx, next.name, next.def, next.path); err != nil {
			return nil, err
		}
		drained++
	}
	b.base = b.doc.Base
	if drained > 0 {
		b.log.Debug("external schema queue drained", "definitions", drained)
	}

	for _, m := range b.pending {
		if err := m.ResolveForwardRefs(b.ns); err != nil {
			return nil, jsmodel.SchemaErrorf(jsmodel.ErrInvalidReference, "%v", err).Wrap(err)
		}
	}
	if len(b.pending) > 0 {
		b.log.Debug("forward references resolved", "models", len(b.pending))
	}

	out := make([]*model.Model, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.ns[name])
	}
	return out, nil
}

// Build compiles input in one call.
func Build(ctx context.Context, input any, opts Options) ([]*model.Model, Diag, error) {
	b, err := New(ctx, input, opts)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	models, err := b.BuildClasses(ctx)
	return models, b.diag, err
}

func (b *ClassBuilder) register(m *model.Model, forwardRefs bool) {
	if _, exists := b.ns[m.Name]; !exists {
		b.order = append(b.order, m.Name)
	}
	b.ns[m.Name] = m
	if forwardRefs {
		b.pending = append(b.pending, m)
	}
}

// warnf logs and records a compile-time warning. In strict mode it returns an
// error instead.
func (b *ClassBuilder) warnf(path, format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	if b.strict {
		return jsmodel.SchemaErrorf(jsmodel.ErrSchemaConversion, "%s", msg).At(path)
	}
	b.diag.warnf("%s (at %s)", msg, path)
	b.log.Warn(msg, "path", path)
	return nil
}

// at locates err at path unless it already carries a location.
func at(err error, path string) error {
	if se, ok := jsmodel.AsSchemaError(err); ok {
		return se.At(path)
	}
	return err
}
