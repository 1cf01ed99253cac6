package analyzer

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// MinTokenLength is the shortest token kept by Tokenize
const MinTokenLength = 2

// contractions maps lowercase contractions to their expansions
var contractions = map[string]string{
	"ain't":     "is not",
	"aren't":    "are not",
	"can't":     "cannot",
	"couldn't":  "could not",
	"didn't":    "did not",
	"doesn't":   "does not",
	"don't":     "do not",
	"hadn't":    "had not",
	"hasn't":    "has not",
	"haven't":   "have not",
	"he's":      "he is",
	"here's":    "here is",
	"i'd":       "i would",
	"i'll":      "i will",
	"i'm":       "i am",
	"i've":      "i have",
	"isn't":     "is not",
	"it'll":     "it will",
	"it's":      "it is",
	"let's":     "let us",
	"mightn't":  "might not",
	"mustn't":   "must not",
	"shan't":    "shall not",
	"she's":     "she is",
	"shouldn't": "should not",
	"that's":    "that is",
	"there's":   "there is",
	"they'd":    "they would",
	"they'll":   "they will",
	"they're":   "they are",
	"they've":   "they have",
	"wasn't":    "was not",
	"we'd":      "we would",
	"we'll":     "we will",
	"we're":     "we are",
	"we've":     "we have",
	"weren't":   "were not",
	"what's":    "what is",
	"where's":   "where is",
	"who's":     "who is",
	"won't":     "will not",
	"wouldn't":  "would not",
	"y'all":     "you all",
	"you'd":     "you would",
	"you'll":    "you will",
	"you're":    "you are",
	"you've":    "you have",
}

var (
	contractionPattern = compileContractionPattern()
	urlPattern         = regexp.MustCompile(`https?://\S+|www\.\S+`)
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	apostropheReplacer = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")
	// tagDelimiterReplacer splits "<b>great</b>" into separate words
	tagDelimiterReplacer = strings.NewReplacer("<", " ", ">", " ", "/", " ")
)

func compileContractionPattern() *regexp.Regexp {
	keys := make([]string, 0, len(contractions))
	for k := range contractions {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	// longest first so that alternation never settles on a shorter prefix
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(keys, "|") + `)\b`)
}

// NormalizeText prepares raw message text for lexicon scoring.
// Contractions are expanded before casing and punctuation are touched.
func NormalizeText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrInvalidInput
	}

	s := stripMarkup(text)
	s = apostropheReplacer.Replace(s)
	s = expandContractions(s)
	s = strings.ToLower(s)
	s = punctuationPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " "), nil
}

// Tokenize splits normalized text on whitespace and drops tokens shorter than MinTokenLength
func Tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= MinTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func expandContractions(s string) string {
	return contractionPattern.ReplaceAllStringFunc(s, func(m string) string {
		if expansion, ok := contractions[strings.ToLower(m)]; ok {
			return expansion
		}
		return m
	})
}

// stripMarkup parses markdown and keeps only the text a reader sees. Link text is kept and
// destinations dropped. Inline HTML keeps its words, so "<sad>" still scores as sad.
func stripMarkup(text string) string {
	md := blackfriday.New(blackfriday.WithNoExtensions())
	root := md.Parse([]byte(text))

	var b strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch node.Type {
		case blackfriday.Text, blackfriday.Code, blackfriday.CodeBlock:
			if entering {
				b.Write(node.Literal)
			}
		case blackfriday.HTMLSpan, blackfriday.HTMLBlock:
			if entering {
				b.WriteString(tagDelimiterReplacer.Replace(string(node.Literal)))
			}
		case blackfriday.Softbreak, blackfriday.Hardbreak, blackfriday.Paragraph,
			blackfriday.Heading, blackfriday.Item, blackfriday.BlockQuote,
			blackfriday.TableCell, blackfriday.HorizontalRule:
			b.WriteByte(' ')
		}
		return blackfriday.GoToNext
	})

	s := html.UnescapeString(b.String())
	s = urlPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
