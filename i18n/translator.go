// Package i18n provides message catalogs and the translation contract used by
// AJAX responders. A translator signals a missing catalog entry by returning
// the requested key unchanged.
package i18n

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

const DefaultDomain = "messages"

// Translator resolves a message key within a translation domain.
type Translator interface {
	Translate(key string, params map[string]string, domain string) string
}

// Provider hands out translators bound to a locale.
type Provider interface {
	For(locale language.Tag) Translator
}

// Localizer is a Catalog view bound to a single locale.
type Localizer struct {
	catalog *Catalog
	locale  language.Tag
}

func (l *Localizer) Locale() language.Tag { return l.locale }

// Translate returns the catalog message for key with params substituted
// literally, or key itself when no entry exists.
func (l *Localizer) Translate(key string, params map[string]string, domain string) string {
	if domain == "" {
		domain = DefaultDomain
	}

	msg, err := l.catalog.Lookup(l.locale, domain, key)
	if err != nil {
		return key
	}
	return substitute(msg, params)
}

func substitute(msg string, params map[string]string) string {
	if len(params) == 0 {
		return msg
	}

	// longest placeholder first, so "%ab%" wins over "%a%"
	keys := slices.Collect(maps.Keys(params))
	slices.SortFunc(keys, func(a, b string) int {
		if n := cmp.Compare(len(b), len(a)); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	})

	pairs := make([]string, 0, len(params)*2)
	for _, k := range keys {
		pairs = append(pairs, k, params[k])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

type localeKey struct{}

// WithLocale stores the negotiated locale on ctx.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, tag)
}

// LocaleFrom returns the locale stored by WithLocale.
func LocaleFrom(ctx context.Context) (language.Tag, bool) {
	tag, ok := ctx.Value(localeKey{}).(language.Tag)
	return tag, ok
}
