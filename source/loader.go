package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	jsmodel "github.com/reoring/jsmodel"
)

// Fetcher retrieves a schema document by reference (file path or absolute URL).
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (*Object, error)
}

// Options configures a Loader. The zero value reads from the OS filesystem and
// uses a default HTTP client.
type Options struct {
	// FS, when set, replaces the OS filesystem for path lookups.
	FS fs.FS
	// HTTPClient is used for URL retrieval.
	HTTPClient *http.Client
	// Logger receives debug records for retrievals. Nil discards.
	Logger *slog.Logger
}

// Document is a loaded schema document together with the location it came from.
type Document struct {
	Root *Object
	// Base is the path or URL the document was loaded from; empty for in-memory input.
	Base string
}

// Loader loads schema documents from files, URLs and in-memory values.
type Loader struct {
	fsys   fs.FS
	client *http.Client
	log    *slog.Logger
}

var _ Fetcher = (*Loader)(nil)

const defaultHTTPTimeout = 30 * time.Second

// NewLoader returns a Loader configured by opts.
func NewLoader(opts Options) *Loader {
	l := &Loader{fsys: opts.FS, client: opts.HTTPClient, log: opts.Logger}
	if l.client == nil {
		l.client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if l.log == nil {
		l.log = slog.New(slog.DiscardHandler)
	}
	return l
}

func errInvalidInput() *jsmodel.SchemaError {
	return jsmodel.SchemaErrorf(jsmodel.ErrInvalidSchema, "Unable to produce valid schema from input object.")
}

// Resolve turns input into a document. Accepted inputs: *Object, map[string]any,
// []byte (JSON or YAML), and strings naming an existing file or an absolute URL.
func (l *Loader) Resolve(ctx context.Context, input any) (*Document, error) {
	switch in := input.(type) {
	case *Object:
		if in == nil {
			return nil, errInvalidInput()
		}
		return &Document{Root: in}, nil
	case map[string]any:
		return &Document{Root: FromMap(in)}, nil
	case []byte:
		obj, err := Decode(in, "")
		if err != nil {
			return nil, errInvalidInput().Wrap(err)
		}
		return &Document{Root: obj}, nil
	case string:
		obj, err := l.Fetch(ctx, in)
		if err != nil {
			return nil, err
		}
		return &Document{Root: obj, Base: in}, nil
	}
	return nil, errInvalidInput()
}

// Fetch loads ref as a file when it exists, else as an absolute URL.
func (l *Loader) Fetch(ctx context.Context, ref string) (*Object, error) {
	if p, ok := l.existingPath(ref); ok {
		return l.readFile(p)
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errInvalidInput()
	}
	if u.Scheme == "file" {
		return l.readFile(u.Path)
	}
	return l.get(ctx, ref)
}

func (l *Loader) existingPath(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	if l.fsys != nil {
		fp := strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "/")
		if _, err := fs.Stat(l.fsys, fp); err == nil {
			return fp, true
		}
		return "", false
	}
	if st, err := os.Stat(p); err == nil && !st.IsDir() {
		return p, true
	}
	return "", false
}

func (l *Loader) readFile(p string) (*Object, error) {
	var (
		data []byte
		err  error
	)
	if l.fsys != nil {
		data, err = fs.ReadFile(l.fsys, p)
	} else {
		data, err = os.ReadFile(p)
	}
	if err != nil {
		return nil, errInvalidInput().Wrap(err)
	}
	l.log.Debug("schema loaded from file", "path", p, "bytes", len(data))
	obj, err := Decode(data, p)
	if err != nil {
		return nil, errInvalidInput().At(p).Wrap(err)
	}
	return obj, nil
}

func (l *Loader) get(ctx context.Context, addr string) (*Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, errInvalidInput().Wrap(err)
	}
	req.Header.Set("Accept", "application/schema+json, application/json, application/yaml")
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrInvalidSchema, "Schema HTTP retrieval from address %s failed", addr).Wrap(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrInvalidSchema, "Schema HTTP retrieval from address %s failed with code %d", addr, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, jsmodel.SchemaErrorf(jsmodel.ErrInvalidSchema, "Schema HTTP retrieval from address %s failed", addr).Wrap(err)
	}
	l.log.Debug("schema fetched", "url", addr, "status", resp.StatusCode, "bytes", len(data))
	hint := addr
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && strings.Contains(mt, "yaml") {
		hint = ".yaml"
	}
	obj, err := Decode(data, hint)
	if err != nil {
		return nil, errInvalidInput().At(addr).Wrap(err)
	}
	return obj, nil
}

// Decode picks JSON or YAML from the name hint (extension) or the leading byte.
func Decode(data []byte, hint string) (*Object, error) {
	switch strings.ToLower(path.Ext(stripQuery(hint))) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".json":
		return DecodeJSON(data)
	}
	trimmed := strings.TrimLeft(string(data), " \t\r\n\ufeff")
	if strings.HasPrefix(trimmed, "{") {
		return DecodeJSON(data)
	}
	if trimmed == "" {
		return nil, errors.New("empty document")
	}
	return DecodeYAML(data)
}

func stripQuery(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

// ResolveRef resolves a (possibly relative) document reference against base.
func ResolveRef(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && u.Host != "" {
		return ref, nil
	}
	if base == "" {
		return ref, nil
	}
	bu, err := url.Parse(base)
	if err == nil && bu.Scheme != "" && bu.Host != "" {
		ru, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("resolve %q against %q: %w", ref, base, err)
		}
		return bu.ResolveReference(ru).String(), nil
	}
	if filepath.IsAbs(ref) {
		return ref, nil
	}
	return filepath.Join(filepath.Dir(base), ref), nil
}
