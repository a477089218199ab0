package procedure

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Language bundles the word lists and patterns used for matching, validation
// and goal classification.
type Language struct {
	Code     string
	Stem     Stemmer
	Generic  map[string]bool
	Stop     map[string]bool
	Complain *regexp.Regexp
	Info     *regexp.Regexp
	Topic    []string
}

// Stemmer reduces a lowercase token to a comparable stem.
type Stemmer func(string) string

// SuffixStemmer strips the first listed suffix that leaves more than three
// characters behind. List longer suffixes before their own endings.
func SuffixStemmer(suffixes ...string) Stemmer {
	return func(word string) string {
		w := []rune(strings.ToLower(word))
		for _, suffix := range suffixes {
			sr := []rune(suffix)
			if len(w) > len(sr)+3 && strings.HasSuffix(string(w), suffix) {
				return string(w[:len(w)-len(sr)])
			}
		}
		return string(w)
	}
}

var EnglishStem = SuffixStemmer(
	"ational", "ations", "ation", "ments", "ment", "ness", "ings", "ing",
	"ies", "ied", "ers", "er", "ed", "es", "ly", "s", "e",
)

var SpanishStem = SuffixStemmer(
	"aciones", "ación", "iones", "ción", "ando", "endo", "idad",
	"entes", "ente", "ados", "idos", "adas", "idas",
	"ado", "ido", "ada", "ida",
	"ar", "er", "ir", "as", "es", "os", "a",
)

var English = Language{
	Code: "en",
	Stem: EnglishStem,
	Generic: set(
		"open", "opening", "search", "find", "now", "click", "please", "want", "need",
		"the", "and", "for", "with", "this", "that", "page", "screen", "app", "application",
		"window", "button", "new", "get", "make", "can", "you", "help", "start", "close",
		"run", "use", "look", "see", "check", "tell", "what", "how", "show", "go", "type",
		"press", "enter", "then", "there", "here", "thing", "stuff", "some", "all",
	),
	Stop: set(
		"this", "that", "with", "from", "have", "what", "where", "want", "please", "into",
		"about", "then", "there", "show", "tell", "some", "could", "would", "should", "your",
		"they", "them", "just", "also", "which", "when", "make", "does", "look", "check",
		"open", "click", "find", "search", "need", "task",
	),
	Complain: regexp.MustCompile(`(?i)^\s*(i\s+(don'?t|do\s+not)\s+know|no\s+idea|it'?s\s+not\s+working|it\s+is\s+not\s+working|it\s+(doesn'?t|does\s+not)\s+work|nothing\s+(happened|works)|that'?s\s+wrong|that\s+is\s+wrong|this\s+is\s+broken|never\s*mind|forget\s+it|why\s+(didn'?t|did\s+not|can'?t))\b`),
	Info:     regexp.MustCompile(`(?i)\b(what|which|how\s+much|how\s+many|tell\s+me|show\s+me|read|check|find\s+out|explain|summari[sz]e|list)\b`),
	Topic: []string{
		"forget it", "never mind", "nevermind", "something else", "new task", "cancel that",
		"stop that", "change of plan", "different question", "do something else",
	},
}

var Spanish = Language{
	Code: "es",
	Stem: SpanishStem,
	Generic: set(
		"abre", "abrir", "busca", "buscar", "ahora", "entra", "entrar", "haz", "hacer", "click",
		"clic", "pon", "dime", "quiero", "necesito", "por", "favor", "para", "con", "que",
		"pantalla", "ventana", "boton", "botón", "pestaña", "nueva", "nuevo", "mira", "ver",
		"muestra", "cierra", "usa", "escribe", "pulsa", "esto", "eso", "aqui", "aquí",
	),
	Stop: set(
		"para", "como", "donde", "mira", "busca", "quiero", "dime", "revisa", "enseña",
		"muestra", "hacer", "tiene", "esta", "esto", "este", "sobre", "tarea", "entra",
		"click", "haga", "quel", "puedo", "puedes", "algo", "todo", "nada", "aqui", "alla",
		"dentro",
	),
	Complain: regexp.MustCompile(`(?i)^\s*(no\s+s[eé]|no\s+lo\s+s[eé]|ni\s+idea|no\s+funciona|no\s+va|no\s+ha\s+funcionado|eso\s+est[aá]\s+mal|est[aá]\s+mal|no\s+pas[oó]\s+nada|olv[ií]dalo|d[eé]jalo|por\s+qu[eé]\s+no)\b`),
	Info:     regexp.MustCompile(`(?i)(qu[eé]|cu[aá]l|cu[aá]nto|dime|muestra|lee|consulta|busca\s+info|comprueba|averigua|investiga|cu[eé]ntame|explica)`),
	Topic: []string{
		"olvídalo", "olvidalo", "olvida eso", "otra cosa", "déjalo", "dejalo", "cancela",
		"mejor haz", "cambio de planes", "ahora quiero", "en vez de eso",
	},
}

// LanguageFor returns the pack registered for code, defaulting to English.
func LanguageFor(code string) Language {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "es", "spanish", "español":
		return Spanish
	default:
		return English
	}
}

// IsInfoGoal reports whether goal asks for information rather than an action.
func (l Language) IsInfoGoal(goal string) bool {
	return l.Info != nil && l.Info.MatchString(goal)
}

// IsComplaint reports whether text is a complaint rather than a task.
func (l Language) IsComplaint(text string) bool {
	return l.Complain != nil && l.Complain.MatchString(text)
}

// IsTopicChange reports whether msg abandons whatever the agent was asking
// about.
func (l Language) IsTopicChange(msg string) bool {
	m := strings.ToLower(strings.TrimSpace(msg))
	for _, phrase := range l.Topic {
		if strings.Contains(m, phrase) {
			return true
		}
	}
	return false
}

// SignificantWords returns the words of text longer than three characters
// that are neither stop words nor generic, in order and without duplicates.
func (l Language) SignificantWords(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range Tokenize(text) {
		if utf8.RuneCountInString(w) <= 3 || l.Stop[w] || l.Generic[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
