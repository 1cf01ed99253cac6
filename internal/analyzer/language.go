package analyzer

import (
	"strings"

	"github.com/zombar/sentimentanalyzer/internal/models"
)

// tagalogIndicators are common Tagalog function and feeling words. Words that are
// also everyday English ("at", "may", "din", "nag") are left out.
var tagalogIndicators = map[string]struct{}{
	"ako": {}, "ikaw": {}, "ka": {}, "siya": {}, "kami": {}, "tayo": {}, "kayo": {}, "sila": {},
	"ko": {}, "mo": {}, "niya": {}, "namin": {}, "natin": {}, "nila": {},
	"ang": {}, "ng": {}, "mga": {}, "sa": {}, "na": {}, "ay": {},
	"hindi": {}, "oo": {}, "po": {}, "opo": {}, "naman": {}, "lang": {}, "lamang": {},
	"talaga": {}, "sobra": {}, "kasi": {}, "pero": {}, "dahil": {}, "wala": {}, "walang": {},
	"meron": {}, "kung": {}, "kaya": {}, "sana": {}, "yung": {}, "ito": {}, "yan": {},
	"ba": {}, "pa": {}, "rin": {}, "nga": {},
	"masaya": {}, "malungkot": {}, "galit": {}, "takot": {}, "pagod": {}, "mahal": {},
	"gusto": {}, "ayaw": {}, "salamat": {}, "maganda": {}, "mabuti": {}, "masama": {},
	"nalulungkot": {}, "naiinis": {}, "nagaalala": {}, "kinakabahan": {},
}

// ContainsTagalog reports whether any whitespace-delimited token of normalized text is a
// Tagalog indicator. It gates translation and is not a language classifier.
func ContainsTagalog(normalized string) bool {
	for _, token := range strings.Fields(normalized) {
		if IsTagalogWord(token) {
			return true
		}
	}
	return false
}

// IsTagalogWord reports whether word is a Tagalog indicator
func IsTagalogWord(word string) bool {
	_, ok := tagalogIndicators[strings.ToLower(word)]
	return ok
}

// wordLanguage returns the language label for a lexicon-scored token
func wordLanguage(word string) string {
	if IsTagalogWord(word) {
		return models.LanguageTagalog
	}
	return models.LanguageEnglish
}

func originalLanguage(tagalog bool) string {
	if tagalog {
		return models.LanguageTagalog
	}
	return models.LanguageEnglish
}
