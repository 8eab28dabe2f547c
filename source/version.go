package source

import (
	"regexp"
	"strings"

	jsmodel "github.com/reoring/jsmodel"
)

// Version is a recognized JSON Schema dialect.
type Version int

const (
	Draft07 Version = iota + 1
	Draft202012
)

func (v Version) String() string {
	switch v {
	case Draft07:
		return "draft-07"
	case Draft202012:
		return "draft-2020-12"
	}
	return "unknown"
}

// DefinitionsKeyword is the top-level key holding named definitions.
func (v Version) DefinitionsKeyword() string {
	if v == Draft202012 {
		return "$defs"
	}
	return "definitions"
}

var versionPatterns = []struct {
	re *regexp.Regexp
	v  Version
}{
	{re: regexp.MustCompile(`^https://(www\.)?json-schema.org/draft/2020-12/schema$`), v: Draft202012},
	{re: regexp.MustCompile(`^http(s)?://(www\.)?json-schema.org/draft-07/schema$`), v: Draft07},
}

// DetectVersion maps a $schema marker to a Version. An empty fragment ("#") is ignored.
func DetectVersion(marker string) (Version, error) {
	m := strings.TrimSuffix(marker, "#")
	for _, p := range versionPatterns {
		if p.re.MatchString(m) {
			return p.v, nil
		}
	}
	return 0, jsmodel.SchemaErrorf(jsmodel.ErrUnsupportedSchema, "unsupported $schema %q", marker).At("/$schema")
}
