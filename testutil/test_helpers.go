// Package testutil holds test doubles shared across packages.
package testutil

import (
	"strings"

	"github.com/SaiNageswarS/go-ajax-boot/i18n"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"
)

// ObservedLogger returns a logger recording every entry at debug level and above.
func ObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// MapTranslator is a Translator over "domain/key" -> message. It records the
// calls it receives and, like a catalog, returns the key when no entry exists.
type MapTranslator struct {
	Messages map[string]string
	Calls    []TranslateCall
}

type TranslateCall struct {
	Key    string
	Params map[string]string
	Domain string
}

func NewMapTranslator(messages map[string]string) *MapTranslator {
	return &MapTranslator{Messages: messages}
}

func (m *MapTranslator) Translate(key string, params map[string]string, domain string) string {
	m.Calls = append(m.Calls, TranslateCall{Key: key, Params: params, Domain: domain})
	if msg, ok := m.Messages[domain+"/"+key]; ok {
		return msg
	}
	return key
}

// For ignores the locale; the same messages serve every language.
func (m *MapTranslator) For(language.Tag) i18n.Translator { return m }

// Keys lists the translated keys in call order.
func (m *MapTranslator) Keys() string {
	keys := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		keys[i] = c.Key
	}
	return strings.Join(keys, ",")
}
