package sitemap

import (
	"strings"

	"golang.org/x/text/language"
)

const defaultNewsLanguage = "en"

// NewsLanguage derives the news:language code from a locale such as
// "en_US". Chinese variants keep their region; everything else is reduced
// to its language subtag.
func NewsLanguage(locale string) string {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
	if normalized == "zh-tw" || normalized == "zh-cn" {
		return normalized
	}

	first, _, _ := strings.Cut(normalized, "-")
	if first == "" {
		return defaultNewsLanguage
	}

	tag, err := language.Parse(first)
	if err != nil {
		return defaultNewsLanguage
	}

	base, confidence := tag.Base()
	if confidence == language.No {
		return defaultNewsLanguage
	}
	return base.String()
}
