// Package hvmlurl parses and manipulates HVML URLs (spec.md §6.4):
// hvml://host/app/runner[/group[/page]][?query][#fragment].
//
// Parsing and query manipulation follow the same shape ejson's own
// parser/serializer pair uses elsewhere in this module: a strict parse
// into a plain struct, plus separate destructive and non-destructive
// accessors over its query component, grounded on the donor's own
// url.Values-based query handling in core/sdk/executor's redirect path
// (runtime/executor/redirect_runner.go parses and rewrites URLs with
// net/url directly) — the one addition here is case-insensitive
// normalization and strict component validation, which net/url's
// general-purpose parser does not enforce on its own.
package hvmlurl

import (
	"fmt"
	"net/url"
	"strings"
)

// URL is a parsed HVML URL (spec.md §6.4).
type URL struct {
	Host     string
	App      string
	Runner   string
	Group    string
	Page     string
	Query    url.Values
	Fragment string
}

// Parse parses raw as an HVML URL. Host, App, and Runner are required;
// Group and Page are optional but Page requires Group. Parse returns an
// error if the scheme isn't "hvml" or any required component is
// missing.
func Parse(raw string) (*URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("hvmlurl: %w", err)
	}
	if !strings.EqualFold(u.Scheme, "hvml") {
		return nil, fmt.Errorf("hvmlurl: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("hvmlurl: missing host")
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return nil, fmt.Errorf("hvmlurl: missing app/runner in path %q", u.Path)
	}

	parsed := &URL{
		Host:     strings.ToLower(u.Host),
		App:      segments[0],
		Runner:   segments[1],
		Query:    u.Query(),
		Fragment: u.Fragment,
	}
	if len(segments) >= 3 {
		parsed.Group = segments[2]
	}
	if len(segments) >= 4 {
		parsed.Page = segments[3]
	}
	if parsed.Page != "" && parsed.Group == "" {
		return nil, fmt.Errorf("hvmlurl: page %q given without a group", parsed.Page)
	}
	return parsed, nil
}

// String renders u back into its canonical hvml:// form.
func (u *URL) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "hvml://%s/%s/%s", u.Host, u.App, u.Runner)
	if u.Group != "" {
		fmt.Fprintf(&b, "/%s", u.Group)
	}
	if u.Page != "" {
		fmt.Fprintf(&b, "/%s", u.Page)
	}
	if len(u.Query) > 0 {
		b.WriteString("?")
		b.WriteString(u.Query.Encode())
	}
	if u.Fragment != "" {
		fmt.Fprintf(&b, "#%s", u.Fragment)
	}
	return b.String()
}

// GetQueryValue is the non-destructive form (spec.md §6.4): it returns
// the first value for key without modifying u.Query.
func (u *URL) GetQueryValue(key string) (string, bool) {
	if !u.Query.Has(key) {
		return "", false
	}
	return u.Query.Get(key), true
}

// BreakDownQuery is the destructive form (spec.md §6.4): it removes and
// returns key's value from u.Query.
func (u *URL) BreakDownQuery(key string) (string, bool) {
	v, ok := u.GetQueryValue(key)
	if ok {
		u.Query.Del(key)
	}
	return v, ok
}
