package domain

import "github.com/abadojack/whatlanggo"

// DetectLanguage returns the ISO 639-1 code of content, or an empty string
// when the detector is not confident enough.
func DetectLanguage(content string) string {
	info := whatlanggo.Detect(content)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
