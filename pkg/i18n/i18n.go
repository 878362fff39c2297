package i18n

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"mercator-hq/tokenscope/pkg/providers"
)

//go:embed locales/*.toml
var localeFS embed.FS

// MsgUnknownError is rendered for an error without any text.
const MsgUnknownError = "ErrUnknown"

// Translations renders message IDs and provider errors in one language.
// It is safe for concurrent use.
type Translations struct {
	bundle *i18n.Bundle
	tags   []language.Tag

	mu       sync.RWMutex
	lang     language.Tag
	localize *i18n.Localizer
}

// NewTranslations loads the embedded locales and selects lang. An empty or
// unsupported lang falls back to English.
func NewTranslations(lang string) (*Translations, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}
	for _, entry := range entries {
		name := path.Join("locales", entry.Name())
		data, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("error reading locale file %s: %w", name, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, entry.Name()); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", name, err)
		}
	}

	t := &Translations{
		bundle: bundle,
		tags:   bundle.LanguageTags(),
	}
	t.lang = t.Match(lang)
	t.localize = i18n.NewLocalizer(bundle, t.lang.String())
	return t, nil
}

// Languages returns the tags with an embedded message file.
func (t *Translations) Languages() []language.Tag {
	out := make([]language.Tag, len(t.tags))
	copy(out, t.tags)
	return out
}

// Language returns the active language.
func (t *Translations) Language() language.Tag {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// SetLanguage switches the active language. Unlike NewTranslations it
// rejects languages without a message file.
func (t *Translations) SetLanguage(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("language '%s' not supported", lang)
	}
	for _, supported := range t.tags {
		base, _ := tag.Base()
		supportedBase, _ := supported.Base()
		if base == supportedBase {
			t.mu.Lock()
			t.lang = supported
			t.localize = i18n.NewLocalizer(t.bundle, supported.String())
			t.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

// Match picks the best supported language for a language tag or an
// Accept-Language header value. English is returned when nothing matches.
func (t *Translations) Match(accept string) language.Tag {
	if accept == "" {
		return language.English
	}
	matcher := language.NewMatcher(t.tags)
	_, index := language.MatchStrings(matcher, accept)
	return t.tags[index]
}

// For returns translations bound to the language that best matches accept.
// The receiver is left unchanged.
func (t *Translations) For(accept string) *Translations {
	tag := t.Match(accept)
	return &Translations{
		bundle:   t.bundle,
		tags:     t.tags,
		lang:     tag,
		localize: i18n.NewLocalizer(t.bundle, tag.String()),
	}
}

// Message renders messageID with data. A missing ID renders as
// "Translation missing: <id>".
func (t *Translations) Message(messageID string, data map[string]any) string {
	return t.Plural(messageID, nil, data)
}

// Plural renders messageID choosing the plural form for count.
func (t *Translations) Plural(messageID string, count any, data map[string]any) string {
	t.mu.RLock()
	localize := t.localize
	t.mu.RUnlock()

	localized, err := localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: data,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

// Error renders err in the active language. Provider errors use their
// message ID; any other error falls back to err.Error().
func (t *Translations) Error(err error) string {
	if err == nil {
		return ""
	}

	var perr *providers.Error
	if errors.As(err, &perr) && perr.MessageID != "" {
		t.mu.RLock()
		localize := t.localize
		t.mu.RUnlock()

		localized, lerr := localize.Localize(&i18n.LocalizeConfig{
			MessageID:    perr.MessageID,
			TemplateData: perr.TemplateData,
		})
		if lerr == nil {
			return localized
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return t.Message(MsgUnknownError, nil)
}
