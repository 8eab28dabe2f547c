// Package model is the runtime the schema compiler emits into.
//
// A Model is a named record type (or a named constrained primitive) with an
// ordered field list, validation rules and configuration. Instances are built
// from plain map[string]any input with Model.New and exported back with
// Instance.Dump or encoding through MarshalJSON.
//
// Types are small immutable values implementing Type. Validation failures are
// reported as jsmodel.Issues whose paths are JSON Pointers relative to the value
// being parsed.
package model
