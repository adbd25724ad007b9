package entities

// Language describes one supported transcription language.
type Language struct {
	Code   string // short code stored in preferences, e.g. "fr"
	Name   string // display name shown in menus
	Locale string // BCP-47 tag sent to the recognition service
}

// Languages lists the transcription languages offered by /language, in
// menu order.
var Languages = []Language{
	{Code: "en", Name: "English", Locale: "en-US"},
	{Code: "es", Name: "Spanish", Locale: "es-ES"},
	{Code: "fr", Name: "French", Locale: "fr-FR"},
	{Code: "de", Name: "German", Locale: "de-DE"},
	{Code: "it", Name: "Italian", Locale: "it-IT"},
	{Code: "pt", Name: "Portuguese", Locale: "pt-BR"},
	{Code: "ru", Name: "Russian", Locale: "ru-RU"},
	{Code: "ja", Name: "Japanese", Locale: "ja-JP"},
	{Code: "ko", Name: "Korean", Locale: "ko-KR"},
	{Code: "zh", Name: "Chinese", Locale: "zh-CN"},
}

// LanguageByCode resolves a short code, falling back to English for
// unknown codes so a stale stored value never breaks transcription.
func LanguageByCode(code string) Language {
	for _, l := range Languages {
		if l.Code == code {
			return l
		}
	}
	return Languages[0]
}
