package internal

import (
	"embed"
	"fmt"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

// Messages localizes screen titles and denial reasons.
type Messages struct {
	localizer *i18n.Localizer
	tag       language.Tag
}

// NewMessages loads the embedded catalogs and picks the closest match for lang.
// An empty lang means English.
func NewMessages(lang string) (*Messages, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, f := range files {
		data, err := locales.ReadFile(path.Join("locales", f.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, f.Name()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name(), err)
		}
	}

	requested := language.English
	if lang != "" {
		if requested, err = language.Parse(lang); err != nil {
			return nil, fmt.Errorf("language %q: %w", lang, err)
		}
	}

	supported := bundle.LanguageTags()
	_, idx, _ := language.NewMatcher(supported).Match(requested)

	return &Messages{
		localizer: i18n.NewLocalizer(bundle, supported[idx].String()),
		tag:       supported[idx],
	}, nil
}

// Language returns the catalog language in use.
func (m *Messages) Language() language.Tag {
	return m.tag
}

// Title returns the display title of a route name, or the name itself when the
// catalogs have none.
func (m *Messages) Title(routeName string) string {
	return m.localize("title_"+routeName, nil, routeName)
}

func (m *Messages) DenyUnauthenticated(title string) string {
	return m.localize("deny_unauthenticated", map[string]string{"Route": title}, "authentication required for "+title)
}

func (m *Messages) DenyTransition(from, to string) string {
	return m.localize("deny_transition", map[string]string{"From": from, "To": to}, from+" -> "+to+" is not allowed")
}

// DenyPermission distinguishes a refused permission from a failed check.
func (m *Messages) DenyPermission(title string, err error) string {
	data := map[string]string{"Route": title}
	if err != nil {
		return m.localize("permission_check_failed", data, "permission check failed for "+title)
	}
	return m.localize("deny_permission", data, "no permission for "+title)
}

func (m *Messages) localize(id string, data map[string]string, fallback string) string {
	msg, err := m.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		GetInternalLogger().Debug("missing message", "id", id, "language", m.tag.String(), "error", err)
		return fallback
	}
	return msg
}
