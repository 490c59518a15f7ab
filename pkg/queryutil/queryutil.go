// Package queryutil reads and builds query strings, including the pseudo
// query strings that live inside a hash.
package queryutil

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// valid query characters according to RFC 1738
var queryRegexp = regexp.MustCompile(`\?[a-zA-Z0-9=&%$\-_.+!*'(),]+`)

// QueryString returns the decoded query of u, including the leading '?', or
// an empty string. Anything after '#' is ignored.
func QueryString(u string) string {
	if i := strings.IndexByte(u, '#'); i != -1 {
		u = u[:i]
	}
	q := queryRegexp.FindString(u)
	if q == "" {
		return ""
	}
	if decoded, err := url.PathUnescape(q); err == nil {
		return decoded
	}
	return q
}

// ToQueryObject splits a query string into values. Numeric values become
// float64, missing values nil and everything else string. The first
// occurrence of a repeated key wins.
func ToQueryObject(query string) map[string]any {
	query = strings.Replace(query, "?", "", 1)
	obj := map[string]any{}
	if query == "" {
		return obj
	}
	for _, pair := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if _, seen := obj[key]; seen {
			continue
		}
		if !ok {
			obj[key] = nil
			continue
		}
		obj[key] = typed(value)
	}
	return obj
}

// ParamValue returns the value of param in u, or nil when absent.
func ParamValue(param, u string) any {
	re, err := regexp.Compile(`(\?|&)` + regexp.QuoteMeta(param) + `=([^&]*)`)
	if err != nil {
		return nil
	}
	m := re.FindStringSubmatch(u)
	if m == nil || m[2] == "" {
		return nil
	}
	return typed(m[2])
}

func HasParam(param, u string) bool {
	re, err := regexp.Compile(`(\?|&)` + regexp.QuoteMeta(param) + `=`)
	if err != nil {
		return false
	}
	return re.MatchString(QueryString(u))
}

// ToQueryString builds "?k=v&..." with keys sorted, or "" for an empty map.
func ToQueryString(obj map[string]any) string {
	if len(obj) == 0 {
		return ""
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, obj[k])
	}
	return "?" + strings.Join(parts, "&")
}

func typed(value string) any {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || strings.TrimSpace(value) == "" {
		return value
	}
	return f
}
