package entities

import (
	"sort"
	"strings"
)

// Voice is one entry of the synthesis voice catalog. Entries are
// immutable after the catalog is built.
type Voice struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Language     string `json:"language"`
	Multilingual bool   `json:"multilingual"`
}

// Locale returns the BCP-47 prefix of the voice id, e.g. "fr-FR" for
// "fr-FR-DeniseNeural".
func (v Voice) Locale() string {
	parts := strings.SplitN(v.ID, "-", 3)
	if len(parts) < 3 {
		return v.ID
	}
	return parts[0] + "-" + parts[1]
}

// VoiceCatalog is the static voice lookup table plus its derived
// language grouping. It is built once at startup and never mutated;
// concurrent reads need no locking.
type VoiceCatalog struct {
	byID       map[string]Voice
	byLanguage map[string][]Voice
	languages  []string
}

// NewVoiceCatalog builds the catalog from the compiled-in voice table.
// Display names and locale grouping are derived here, once.
func NewVoiceCatalog() *VoiceCatalog {
	c := &VoiceCatalog{
		byID:       make(map[string]Voice, len(voiceTable)),
		byLanguage: make(map[string][]Voice),
	}
	for _, v := range voiceTable {
		if v.DisplayName == "" {
			v.DisplayName = deriveDisplayName(v)
		}
		c.byID[v.ID] = v
		c.byLanguage[v.Language] = append(c.byLanguage[v.Language], v)
	}
	for lang := range c.byLanguage {
		c.languages = append(c.languages, lang)
	}
	sort.Strings(c.languages)
	return c
}

// Lookup returns the voice for an id, if present.
func (c *VoiceCatalog) Lookup(id string) (Voice, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// Resolve returns the voice for an id, falling back to the default
// voice when the id is unknown.
func (c *VoiceCatalog) Resolve(id string) Voice {
	if v, ok := c.byID[id]; ok {
		return v
	}
	return c.byID[DefaultVoiceID]
}

// Languages returns the sorted language families the catalog covers.
func (c *VoiceCatalog) Languages() []string {
	return c.languages
}

// VoicesFor returns the voices of one language family, in table order.
func (c *VoiceCatalog) VoicesFor(language string) []Voice {
	return c.byLanguage[language]
}

// Multilingual returns the voices able to speak any language.
func (c *VoiceCatalog) Multilingual() []Voice {
	var out []Voice
	for _, lang := range c.languages {
		for _, v := range c.byLanguage[lang] {
			if v.Multilingual {
				out = append(out, v)
			}
		}
	}
	return out
}

// deriveDisplayName turns "fr-FR-DeniseNeural" into "Denise (fr-FR)".
func deriveDisplayName(v Voice) string {
	parts := strings.SplitN(v.ID, "-", 3)
	if len(parts) < 3 {
		return v.ID
	}
	name := strings.TrimSuffix(parts[2], "Neural")
	name = strings.TrimSuffix(name, "Multilingual")
	return name + " (" + v.Locale() + ")"
}
