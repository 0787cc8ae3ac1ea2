// Package language identifies the natural language of extracted text.
package language

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/pemistahl/lingua-go"
)

// Unknown is reported by callers when detection fails.
const Unknown = "unknown"

// DefaultMinLetters is the shortest input, in letters, worth classifying.
const DefaultMinLetters = 3

// DefaultShortWords is the word count below which text counts as short.
const DefaultShortWords = 3

// ErrDetection is returned when the text is too short, has no letters or no
// candidate language stands out. Callers report Unknown instead of failing.
var ErrDetection = errors.New("language detection failed")

// Options configures an Identifier.
type Options struct {
	// Candidates are ISO 639-1 codes to choose from. Empty means every
	// language the detector knows.
	Candidates []string

	// MinLetters is the minimum number of letters required. Zero uses
	// DefaultMinLetters.
	MinLetters int

	// Primary is the ISO 639-1 code short text resolves to unless the
	// detector rules it out. Empty uses the first candidate, or "en" when
	// every language is a candidate.
	Primary string

	// ShortWords is the word count below which Primary is preferred. Zero
	// uses DefaultShortWords.
	ShortWords int

	// Preload loads the language models at construction instead of on first use.
	Preload bool
}

// Identifier detects the dominant language of a text. It is safe for
// concurrent use and meant to be built once per process.
type Identifier struct {
	detector   lingua.LanguageDetector
	primary    lingua.Language
	minLetters int
	shortWords int
}

// NewIdentifier builds the detector for the configured candidates.
func NewIdentifier(opts Options) (*Identifier, error) {
	builder, err := newBuilder(opts.Candidates)
	if err != nil {
		return nil, err
	}
	if opts.Preload {
		builder = builder.WithPreloadedLanguageModels()
	}

	primary, err := primaryLanguage(opts)
	if err != nil {
		return nil, err
	}

	minLetters := opts.MinLetters
	if minLetters <= 0 {
		minLetters = DefaultMinLetters
	}
	shortWords := opts.ShortWords
	if shortWords <= 0 {
		shortWords = DefaultShortWords
	}

	return &Identifier{
		detector:   builder.Build(),
		primary:    primary,
		minLetters: minLetters,
		shortWords: shortWords,
	}, nil
}

func primaryLanguage(opts Options) (lingua.Language, error) {
	code := strings.TrimSpace(opts.Primary)
	if code == "" {
		code = "en"
		if len(opts.Candidates) > 0 {
			code = opts.Candidates[0]
		}
	}
	lang, ok := fromISO6391(code)
	if !ok {
		return lingua.Unknown, fmt.Errorf("unsupported primary language %q", code)
	}
	if len(opts.Candidates) == 0 {
		return lang, nil
	}
	for _, c := range opts.Candidates {
		if strings.EqualFold(strings.TrimSpace(c), code) {
			return lang, nil
		}
	}
	return lingua.Unknown, fmt.Errorf("primary language %q is not a candidate", code)
}

func newBuilder(candidates []string) (lingua.LanguageDetectorBuilder, error) {
	if len(candidates) == 0 {
		return lingua.NewLanguageDetectorBuilder().FromAllLanguages(), nil
	}

	languages := make([]lingua.Language, 0, len(candidates))
	for _, code := range candidates {
		lang, ok := fromISO6391(strings.TrimSpace(code))
		if !ok {
			return nil, fmt.Errorf("unsupported language code %q", code)
		}
		languages = append(languages, lang)
	}
	if len(languages) < 2 {
		return nil, fmt.Errorf("at least 2 candidate languages are required, got %d", len(languages))
	}
	return lingua.NewLanguageDetectorBuilder().FromLanguages(languages...), nil
}

func fromISO6391(code string) (lingua.Language, bool) {
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.IsoCode639_1().String(), code) {
			return lang, true
		}
	}
	return lingua.Unknown, false
}

// Detect returns the lower-case ISO 639-1 code of the dominant language.
//
// Single words carry too few n-grams for the statistical models to separate
// related languages, so text with fewer than ShortWords distinct words
// resolves to the primary language whenever the detector gives it any
// confidence at all. Repeated words add no n-grams and are counted once.
// Longer text goes to the detector unchanged.
func (id *Identifier) Detect(text string) (string, error) {
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < id.minLetters {
		return "", fmt.Errorf("%w: %d letters, need at least %d", ErrDetection, letters, id.minLetters)
	}

	if distinctWords(text) < id.shortWords {
		return id.detectShort(text)
	}

	lang, ok := id.detector.DetectLanguageOf(text)
	if !ok {
		return "", fmt.Errorf("%w: no reliable match", ErrDetection)
	}
	return isoCode(lang), nil
}

func (id *Identifier) detectShort(text string) (string, error) {
	values := id.detector.ComputeLanguageConfidenceValues(text)
	best := lingua.Unknown
	bestValue := 0.0
	for _, v := range values {
		if v.Language() == id.primary && v.Value() > 0 {
			return isoCode(id.primary), nil
		}
		if v.Value() > bestValue {
			best, bestValue = v.Language(), v.Value()
		}
	}
	if best == lingua.Unknown {
		return "", fmt.Errorf("%w: no reliable match", ErrDetection)
	}
	return isoCode(best), nil
}

func distinctWords(text string) int {
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		seen[w] = struct{}{}
	}
	return len(seen)
}

func isoCode(lang lingua.Language) string {
	return strings.ToLower(lang.IsoCode639_1().String())
}

// DetectOrUnknown returns Unknown instead of an error.
func (id *Identifier) DetectOrUnknown(text string) string {
	code, err := id.Detect(text)
	if err != nil {
		return Unknown
	}
	return code
}
