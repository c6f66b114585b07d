package i18n

import (
	"context"
	"strings"

	"github.com/go-ini/ini"
)

// INISource reads a catalog file whose sections are named "<domain>.<locale>",
// or just "<locale>" for the default domain:
//
//	[messages.en]
//	feedback_sent = Thanks, we will get back to you.
//
//	[validators.de]
//	email_invalid = Ungültige E-Mail-Adresse
type INISource struct {
	Path string
	// Data, when set, is parsed instead of the file at Path.
	Data []byte
}

func (s INISource) Load(_ context.Context) ([]Entry, error) {
	var src interface{} = s.Path
	if s.Data != nil {
		src = s.Data
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:       true,
		UnescapeValueDoubleQuotes: true,
	}, src)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, section := range file.Sections() {
		name := section.Name()
		if name == ini.DefaultSection {
			continue
		}

		domain, locale := DefaultDomain, name
		if i := strings.LastIndex(name, "."); i >= 0 {
			domain, locale = name[:i], name[i+1:]
		}

		for _, key := range section.Keys() {
			entries = append(entries, Entry{
				Domain:  domain,
				Locale:  locale,
				Key:     key.Name(),
				Message: key.Value(),
			})
		}
	}
	return entries, nil
}
