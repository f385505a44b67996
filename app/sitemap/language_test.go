package sitemap

import "testing"

func TestNewsLanguage(t *testing.T) {
	tests := map[string]string{
		"en_US": "en",
		"de-DE": "de",
		"pt_BR": "pt",
		"fr":    "fr",
		"zh_TW": "zh-tw",
		"zh-CN": "zh-cn",
		"zh_HK": "zh",
		"":      "en",
		"123":   "en",
		"_US":   "en",
	}

	for locale, want := range tests {
		if got := NewsLanguage(locale); got != want {
			t.Errorf("NewsLanguage(%q) = %q, want %q", locale, got, want)
		}
	}
}
