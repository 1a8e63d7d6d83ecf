package httpapi

import (
	"net/http"
	"strings"
)

// BearerToken extracts the bearer credential, tolerating the header arriving
// under different transport names. Some reverse-proxy/CGI setups drop or
// rename Authorization (Apache prefixes REDIRECT_, some proxies re-emit it as
// X-Authorization), so the fallbacks here must stay even though they look
// redundant behind a well-behaved front end.
func BearerToken(r *http.Request) string {
	if tok := bearerValue(r.Header.Get("Authorization")); tok != "" {
		return tok
	}
	if tok := bearerValue(r.Header.Get("X-Authorization")); tok != "" {
		return tok
	}
	if tok := bearerValue(r.Header.Get("Redirect-Http-Authorization")); tok != "" {
		return tok
	}
	// Last resort: scan every header key case-insensitively. Header values
	// set through non-canonical keys (raw CGI environments) land here.
	for key, values := range r.Header {
		if !strings.EqualFold(key, "authorization") || len(values) == 0 {
			continue
		}
		if tok := bearerValue(values[0]); tok != "" {
			return tok
		}
	}
	return ""
}

func bearerValue(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
