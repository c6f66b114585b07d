package i18n

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// ErrTranslationMissing is returned when no locale in the fallback chain has the key.
var ErrTranslationMissing = errors.New("translation missing")

// Entry is one catalog message as stored by a Source.
type Entry struct {
	Domain  string `bson:"domain" db:"domain"`
	Locale  string `bson:"locale" db:"locale"`
	Key     string `bson:"key" db:"msg_key"`
	Message string `bson:"message" db:"message"`
}

// Source loads catalog entries from some backing store.
type Source interface {
	Load(ctx context.Context) ([]Entry, error)
}

// Catalog is an in-memory domain -> locale -> key -> message table, keyed by
// canonical BCP 47 strings.
// It is safe for concurrent use. Load merges into the existing table, so keys
// dropped from a source stay until the process restarts.
type Catalog struct {
	mu            sync.RWMutex
	messages      map[string]map[string]map[string]string
	defaultLocale language.Tag
}

func NewCatalog(defaultLocale language.Tag) *Catalog {
	return &Catalog{
		messages:      map[string]map[string]map[string]string{},
		defaultLocale: defaultLocale,
	}
}

func (c *Catalog) DefaultLocale() language.Tag { return c.defaultLocale }

// Add registers a single message. An empty domain means DefaultDomain.
func (c *Catalog) Add(domain, locale, key, message string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	if domain == "" {
		domain = DefaultDomain
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(domain, tag, key, message)
	return nil
}

func (c *Catalog) add(domain string, tag language.Tag, key, message string) {
	locale := tag.String()
	locales, ok := c.messages[domain]
	if !ok {
		locales = map[string]map[string]string{}
		c.messages[domain] = locales
	}
	keys, ok := locales[locale]
	if !ok {
		keys = map[string]string{}
		locales[locale] = keys
	}
	keys[key] = message
}

// AddEntries registers entries in order; later entries win.
func (c *Catalog) AddEntries(entries []Entry) error {
	for _, e := range entries {
		if err := c.Add(e.Domain, e.Locale, e.Key, e.Message); err != nil {
			return err
		}
	}
	return nil
}

// Load reads all sources concurrently and merges them in argument order,
// so a later source overrides an earlier one on the same key.
func (c *Catalog) Load(ctx context.Context, sources ...Source) error {
	results := make([][]Entry, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			entries, err := src.Load(gctx)
			if err != nil {
				return fmt.Errorf("load catalog source %d: %w", i, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, entries := range results {
		if err := c.AddEntries(entries); err != nil {
			return err
		}
	}
	return nil
}

// Lookup walks locale, its parents, then the default locale.
func (c *Catalog) Lookup(locale language.Tag, domain, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	locales, ok := c.messages[domain]
	if !ok {
		return "", ErrTranslationMissing
	}

	for _, tag := range c.fallbackChain(locale) {
		if msg, ok := locales[tag.String()][key]; ok {
			return msg, nil
		}
	}
	return "", ErrTranslationMissing
}

func (c *Catalog) fallbackChain(locale language.Tag) []language.Tag {
	var chain []language.Tag
	for t := locale; t != language.Und; t = t.Parent() {
		chain = append(chain, t)
	}
	return append(chain, c.defaultLocale)
}

// For returns a Translator bound to locale.
func (c *Catalog) For(locale language.Tag) Translator {
	return &Localizer{catalog: c, locale: locale}
}

// Domains lists the known translation domains, sorted.
func (c *Catalog) Domains() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.messages))
	for d := range c.messages {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Missing lists keys present in reference but absent from target for domain,
// without applying any fallback. Used to audit catalogs.
func (c *Catalog) Missing(domain string, reference, target language.Tag) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	locales := c.messages[domain]
	for key := range locales[reference.String()] {
		if _, ok := locales[target.String()][key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
