package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func localeFor(t *testing.T, set func(*http.Request)) string {
	t.Helper()
	var got string
	h := I18N("ru")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	set(req)
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestI18NDetectLocale(t *testing.T) {
	cases := []struct {
		name string
		set  func(*http.Request)
		want string
	}{
		{"default", func(r *http.Request) {}, "ru"},
		{"x-locale header", func(r *http.Request) { r.Header.Set("X-Locale", "en-US") }, "en"},
		{"accept-language russian", func(r *http.Request) { r.Header.Set("Accept-Language", "ru-RU,ru;q=0.9") }, "ru"},
		{"accept-language english", func(r *http.Request) { r.Header.Set("Accept-Language", "en-GB,en;q=0.8") }, "en"},
		{"unsupported falls back", func(r *http.Request) { r.Header.Set("Accept-Language", "de-DE") }, "ru"},
		{"unsupported list falls back", func(r *http.Request) { r.Header.Set("Accept-Language", "fr-FR,de;q=0.7") }, "ru"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := localeFor(t, tc.set); got != tc.want {
				t.Errorf("locale = %q, want %q", got, tc.want)
			}
		})
	}
}
