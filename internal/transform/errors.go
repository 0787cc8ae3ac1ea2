package transform

import "errors"

var (
	// ErrTranslationUnavailable means no translator is configured or the
	// provider failed. Recoverable: the text passes through untranslated.
	ErrTranslationUnavailable = errors.New("translation unavailable")

	// ErrSummarizationUnavailable means no summarizer is configured or the
	// provider failed. Fatal for the summarize operation.
	ErrSummarizationUnavailable = errors.New("summarization unavailable")

	// ErrTargetLanguageRequired is returned for a translate operation
	// without a target language.
	ErrTargetLanguageRequired = errors.New("target language required for translate")
)
