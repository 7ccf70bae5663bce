package qwant

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// PageSize is the number of results per page. The API is always asked for
// exactly this many and pagination advances by it.
const PageSize = 10

// Kind selects the search vertical.
type Kind int

const (
	KindWeb Kind = iota
	KindNews
	KindImages
	KindVideos
	KindShopping
	KindMusic
)

var kindPaths = [...]string{
	KindWeb:      "web",
	KindNews:     "news",
	KindImages:   "images",
	KindVideos:   "videos",
	KindShopping: "shopping",
	KindMusic:    "music",
}

// Kinds lists every supported search kind.
func Kinds() []Kind {
	return []Kind{KindWeb, KindNews, KindImages, KindVideos, KindShopping, KindMusic}
}

// String returns the path segment used for the kind.
func (k Kind) String() string {
	if !k.valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindPaths[k]
}

func (k Kind) valid() bool { return k >= 0 && int(k) < len(kindPaths) }

// ParseKind maps a path segment such as "images" back to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, p := range kindPaths {
		if p == s {
			return Kind(i), nil
		}
	}
	return 0, &InvalidArgumentError{Field: "kind", Reason: fmt.Sprintf("unknown search kind %q", s)}
}

// SearchRequest holds the per-call search parameters.
type SearchRequest struct {
	Query  string
	Kind   Kind
	Safe   bool
	Locale string // language_REGION, e.g. "en_US"
}

// NormalizeLocale validates a locale and returns it in the API's
// language_REGION form ("en-us" becomes "en_US"). Only case and separator
// change: deprecated codes such as "iw" or "tl" are sent as given. The
// region must be a country, so "en_ZZ" or "es_419" are rejected.
func NormalizeLocale(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &InvalidArgumentError{Field: "locale", Reason: "empty"}
	}
	parts := strings.Split(strings.ReplaceAll(s, "-", "_"), "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", &InvalidArgumentError{Field: "locale", Reason: fmt.Sprintf("%q is not language_REGION", s)}
	}
	tag, err := language.Raw.Parse(parts[0] + "-" + parts[1])
	if err != nil {
		return "", &InvalidArgumentError{Field: "locale", Reason: err.Error()}
	}
	region, conf := tag.Region()
	if conf != language.Exact {
		return "", &InvalidArgumentError{Field: "locale", Reason: fmt.Sprintf("%q has no region", s)}
	}
	if !region.IsCountry() {
		return "", &InvalidArgumentError{Field: "locale", Reason: fmt.Sprintf("%q is not a country", parts[1])}
	}
	return strings.ToLower(parts[0]) + "_" + strings.ToUpper(parts[1]), nil
}

func (r SearchRequest) validate() (SearchRequest, error) {
	if strings.TrimSpace(r.Query) == "" {
		return r, &InvalidArgumentError{Field: "query", Reason: "empty"}
	}
	if !r.Kind.valid() {
		return r, &InvalidArgumentError{Field: "kind", Reason: fmt.Sprintf("unknown search kind %d", int(r.Kind))}
	}
	loc, err := NormalizeLocale(r.Locale)
	if err != nil {
		return r, err
	}
	r.Locale = loc
	return r, nil
}

// BuildURL returns the request URL for req at the given offset. Parameters
// keep the order the API documents; an offset of zero is left out.
func BuildURL(base, appID string, req SearchRequest, offset int) (string, error) {
	if strings.TrimSpace(appID) == "" {
		return "", &InvalidArgumentError{Field: "app id", Reason: "empty"}
	}
	if offset < 0 {
		return "", &InvalidArgumentError{Field: "offset", Reason: "negative"}
	}
	req, err := req.validate()
	if err != nil {
		return "", err
	}

	safe := "0"
	if req.Safe {
		safe = "1"
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/api/search/")
	b.WriteString(req.Kind.String())
	b.WriteString("?count=")
	b.WriteString(strconv.Itoa(PageSize))
	b.WriteString("&device=desktop&extensionDisabled=true&safesearch=")
	b.WriteString(safe)
	b.WriteString("&locale=")
	b.WriteString(url.QueryEscape(req.Locale))
	b.WriteString("&q=")
	b.WriteString(url.QueryEscape(req.Query))
	b.WriteString("&t=")
	b.WriteString(url.QueryEscape(appID))
	if offset > 0 {
		b.WriteString("&offset=")
		b.WriteString(strconv.Itoa(offset))
	}
	return b.String(), nil
}

// withOffset drops any offset parameter from raw and appends the new one,
// leaving every other parameter untouched and in place.
func withOffset(raw string, offset int) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	var kept []string
	for _, p := range strings.Split(u.RawQuery, "&") {
		if p == "" || p == "offset" || strings.HasPrefix(p, "offset=") {
			continue
		}
		kept = append(kept, p)
	}
	kept = append(kept, "offset="+strconv.Itoa(offset))
	u.RawQuery = strings.Join(kept, "&")
	return u.String(), nil
}
