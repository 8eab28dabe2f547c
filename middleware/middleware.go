// Package middleware validates JSON request bodies against compiled models.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	j "github.com/goccy/go-json"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/model"
)

// ErrMalformedBody reports a request body that is not a single JSON object.
var ErrMalformedBody = errors.New("malformed JSON body")

// Option configures Validate and the framework adapters.
type Option func(*Config)

// Config is the resolved middleware configuration.
type Config struct {
	Logger       *slog.Logger
	FailFast     bool
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 1 << 20

// WithLogger sets the logger used for rejected requests. Nil discards.
func WithLogger(l *slog.Logger) Option { return func(c *Config) { c.Logger = l } }

// WithFailFast stops validation at the first issue.
func WithFailFast() Option { return func(c *Config) { c.FailFast = true } }

// WithMaxBodyBytes limits the request body size. Zero or less disables the limit.
func WithMaxBodyBytes(n int64) Option { return func(c *Config) { c.MaxBodyBytes = n } }

// NewConfig applies opts over the defaults.
func NewConfig(opts ...Option) Config {
	c := Config{MaxBodyBytes: defaultMaxBodyBytes}
	for _, o := range opts {
		o(&c)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

type ctxKeyInstance struct{}

// ContextWithInstance attaches a validated instance to ctx.
func ContextWithInstance(ctx context.Context, inst *model.Instance) context.Context {
	return context.WithValue(ctx, ctxKeyInstance{}, inst)
}

// InstanceFromContext returns the instance stored by Validate.
func InstanceFromContext(ctx context.Context) (*model.Instance, bool) {
	inst, ok := ctx.Value(ctxKeyInstance{}).(*model.Instance)
	return inst, ok && inst != nil
}

// Decode reads one JSON object from r and constructs an instance of m.
// Malformed input reports ErrMalformedBody; validation failures are jsmodel.Issues.
func Decode(ctx context.Context, m *model.Model, r io.Reader, cfg Config) (*model.Instance, error) {
	if cfg.MaxBodyBytes > 0 {
		r = io.LimitReader(r, cfg.MaxBodyBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if cfg.MaxBodyBytes > 0 && int64(len(data)) > cfg.MaxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedBody, cfg.MaxBodyBytes)
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	var trailing any
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedBody)
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedBody)
	}
	if cfg.FailFast {
		ctx = jsmodel.WithFailFast(ctx, true)
	}
	return m.New(ctx, obj)
}

// Validate returns net/http middleware that constructs an instance of m from the
// request body. Validation failures answer 422 with an issues payload, malformed
// bodies 400. On success the instance is available through InstanceFromContext.
func Validate(m *model.Model, opts ...Option) func(http.Handler) http.Handler {
	cfg := NewConfig(opts...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inst, err := Decode(r.Context(), m, r.Body, cfg)
			if err != nil {
				status, payload := Reject(err)
				cfg.Logger.Info("request rejected", "model", m.Name, "status", status, "path", r.URL.Path, "error", err)
				writeJSON(w, status, payload)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithInstance(r.Context(), inst)))
		})
	}
}

// Reject maps a Decode error to a status code and response payload.
func Reject(err error) (int, map[string]any) {
	if iss, ok := jsmodel.AsIssues(err); ok {
		return http.StatusUnprocessableEntity, ErrorPayload(iss)
	}
	return http.StatusBadRequest, map[string]any{"error": err.Error()}
}

// IssueView is the JSON shape of one issue in responses.
type IssueView struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Rule    string         `json:"rule,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues jsmodel.Issues) map[string]any {
	views := make([]IssueView, len(issues))
	for i, it := range issues {
		views[i] = IssueView{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint, Rule: it.Rule, Params: it.Params}
	}
	return map[string]any{"issues": views}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = j.NewEncoder(w).Encode(v)
}
