package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

var LocaleKey = localeContextKey{}

var supportedLocales = language.NewMatcher([]language.Tag{
	language.Russian,
	language.English,
})

// I18N resolves the request locale from the X-Locale header or the
// Accept-Language header, falling back to defaultLocale.
func I18N(defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		return normalizeLocale(v, fallback)
	}
	if v := r.Header.Get("Accept-Language"); v != "" {
		if tags, _, err := language.ParseAcceptLanguage(v); err == nil && len(tags) > 0 {
			// Match falls back to the first supported tag at confidence No;
			// only a real match may override the configured default.
			tag, _, conf := supportedLocales.Match(tags...)
			if conf > language.No {
				base, _ := tag.Base()
				return base.String()
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "ru"
}

func normalizeLocale(locale, fallback string) string {
	switch {
	case strings.HasPrefix(strings.ToLower(locale), "ru"):
		return "ru"
	case strings.HasPrefix(strings.ToLower(locale), "en"):
		return "en"
	}
	if fallback != "" {
		return fallback
	}
	return "ru"
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "ru"
}
