package httpapi

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "standard Authorization",
			headers: map[string]string{"Authorization": "Bearer tok-1"},
			want:    "tok-1",
		},
		{
			name:    "case-insensitive scheme",
			headers: map[string]string{"Authorization": "bearer tok-1"},
			want:    "tok-1",
		},
		{
			name:    "X-Authorization fallback",
			headers: map[string]string{"X-Authorization": "Bearer tok-2"},
			want:    "tok-2",
		},
		{
			name:    "Redirect-Http-Authorization fallback",
			headers: map[string]string{"Redirect-Http-Authorization": "Bearer tok-3"},
			want:    "tok-3",
		},
		{
			name: "Authorization wins over fallbacks",
			headers: map[string]string{
				"Authorization":   "Bearer tok-1",
				"X-Authorization": "Bearer tok-2",
			},
			want: "tok-1",
		},
		{
			name: "empty Authorization falls through",
			headers: map[string]string{
				"Authorization":   "",
				"X-Authorization": "Bearer tok-2",
			},
			want: "tok-2",
		},
		{
			name:    "non-bearer scheme is ignored",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			want:    "",
		},
		{
			name:    "bare scheme with no token",
			headers: map[string]string{"Authorization": "Bearer"},
			want:    "",
		},
		{
			name:    "no headers at all",
			headers: map[string]string{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, BearerToken(r))
		})
	}
}

func TestBearerTokenNonCanonicalKey(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	// Bypass Set() canonicalization the way a raw proxy would.
	r.Header["aUtHoRiZaTiOn"] = []string{"Bearer tok-raw"}
	assert.Equal(t, "tok-raw", BearerToken(r))
}
