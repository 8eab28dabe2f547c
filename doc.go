// Package jsmodel compiles JSON Schema documents into runtime data models.
//
// The root package holds the types shared by every layer:
//
// - Issues, the per-instance validation error model (JSON Pointer, code, message)
// - SchemaError and its sentinel kinds, the compile-time error taxonomy
// - UnknownPolicy and Presence, the knobs and metadata used by model instances
//
// Design policy:
// - Keep only shared types in the root package.
// - The model runtime lives under model/, the schema compiler under compiler/, document
//   loading under source/ and the CLI under cmd/jsmodel.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	models, diag, err := compiler.Build(ctx, "schema.json", compiler.Options{Logger: logger})
//	point := models[0]
//	inst, err := point.New(ctx, map[string]any{"x": 2, "y": 3})
//	out := inst.Dump()
package jsmodel
