package i18n

import (
	"net/http"

	"golang.org/x/text/language"
)

// Negotiator picks one of the supported locales from Accept-Language.
// The first supported locale is the fallback.
type Negotiator struct {
	supported []language.Tag
	matcher   language.Matcher
}

func NewNegotiator(supported ...language.Tag) *Negotiator {
	if len(supported) == 0 {
		supported = []language.Tag{language.English}
	}
	return &Negotiator{
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}
}

func (n *Negotiator) Negotiate(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return n.supported[0]
	}

	_, idx, conf := n.matcher.Match(tags...)
	if conf == language.No {
		return n.supported[0]
	}
	return n.supported[idx]
}

// Middleware stores the negotiated locale on the request context.
func (n *Negotiator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := n.Negotiate(r.Header.Get("Accept-Language"))
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), tag)))
	})
}

// ParseLocales parses BCP 47 tags, skipping empty strings.
func ParseLocales(locales []string) ([]language.Tag, error) {
	var tags []language.Tag
	for _, l := range locales {
		if l == "" {
			continue
		}
		tag, err := language.Parse(l)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
