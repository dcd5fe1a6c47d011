package title

import "strings"

// Language is a language the title generator can prompt in.
type Language string

const (
	Italian Language = "italian"
	English Language = "english"
	French  Language = "french"
	Spanish Language = "spanish"
	German  Language = "german"
)

// detectionOrder is also the tie-break order; Italian wins ties and the
// zero-match case.
var detectionOrder = []Language{Italian, English, French, Spanish, German}

var keywords = map[Language]map[string]struct{}{
	Italian: wordSet("il", "la", "di", "che", "e", "un", "una", "per", "con", "come", "sono", "hai", "ho",
		"cosa", "ciao", "grazie", "prego", "bene", "male", "molto", "poco", "grande", "piccolo"),
	English: wordSet("the", "and", "of", "to", "a", "in", "for", "is", "on", "that", "by", "this", "with",
		"i", "you", "it", "not", "or", "be", "are", "from", "at", "as", "your", "all", "any", "can", "had",
		"her", "was", "one", "our", "out", "day", "get", "has", "him", "his", "how", "man", "new", "now",
		"old", "see", "two", "way", "who", "boy", "did", "its", "let", "put", "say", "she", "too", "use"),
	French: wordSet("le", "de", "et", "à", "un", "il", "être", "en", "avoir", "que", "pour", "dans", "ce",
		"son", "une", "sur", "avec", "ne", "se", "pas", "tout", "plus", "par", "grand"),
	Spanish: wordSet("el", "la", "de", "que", "y", "a", "en", "un", "ser", "se", "no", "te", "lo", "le",
		"da", "su", "por", "son", "con", "para", "al", "una", "del", "todo", "está", "muy", "fue", "han",
		"era", "sobre", "mi", "entre", "durante", "esto", "también", "antes", "ahora", "cada", "aquí"),
	German: wordSet("der", "die", "und", "in", "den", "von", "zu", "das", "mit", "sich", "des", "auf",
		"für", "ist", "im", "dem", "nicht", "ein", "eine", "als", "auch", "es", "an", "werden", "aus", "er",
		"hat", "dass", "sie", "nach", "wird", "bei", "einer", "um", "am", "sind", "noch", "wie", "einem",
		"über", "einen", "so", "zum", "war", "haben", "nur", "oder", "aber", "vor", "zur", "bis", "mehr",
		"durch", "man", "sein", "wurde", "sei"),
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// DetectLanguage guesses the language of text by counting whitespace tokens
// that appear in each language's keyword list. Tokens are matched verbatim,
// so punctuation attached to a word prevents a match.
func DetectLanguage(text string) Language {
	counts := make(map[Language]int, len(detectionOrder))
	for _, word := range strings.Fields(strings.ToLower(text)) {
		for _, lang := range detectionOrder {
			if _, ok := keywords[lang][word]; ok {
				counts[lang]++
			}
		}
	}

	best := Italian
	for _, lang := range detectionOrder {
		if counts[lang] > counts[best] {
			best = lang
		}
	}
	return best
}
