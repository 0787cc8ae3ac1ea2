package transform

import (
	"fmt"
	"strings"
)

// Kind is the post-processing applied to extracted text.
type Kind int

const (
	KindView Kind = iota
	KindTranslate
	KindSummarize
)

func (k Kind) String() string {
	switch k {
	case KindView:
		return "view"
	case KindTranslate:
		return "translate"
	case KindSummarize:
		return "summarize"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "view":
		*k = KindView
	case "translate":
		*k = KindTranslate
	case "summarize":
		*k = KindSummarize
	default:
		return fmt.Errorf("unknown operation kind %q", b)
	}
	return nil
}

// Operation is a transform request. Target is only meaningful for
// KindTranslate, where it is required.
type Operation struct {
	Kind   Kind   `json:"kind"`
	Target string `json:"target,omitempty"`
}

// View returns the passthrough operation.
func View() Operation { return Operation{Kind: KindView} }

// Translate returns an operation translating into the target language code.
func Translate(target string) Operation { return Operation{Kind: KindTranslate, Target: target} }

// Summarize returns the summarization operation.
func Summarize() Operation { return Operation{Kind: KindSummarize} }

// ParseOperation maps an operation name from a form field, CLI flag or task
// payload to an Operation.
//
// Names are case-insensitive and "" means view. Any other unrecognized name
// also yields View, with known set to false so the caller can report it.
// "translate" without a target fails with ErrTargetLanguageRequired.
func ParseOperation(name, target string) (op Operation, known bool, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "view":
		return View(), true, nil
	case "translate":
		target = strings.TrimSpace(target)
		if target == "" {
			return Operation{}, true, ErrTargetLanguageRequired
		}
		return Translate(target), true, nil
	case "summarize":
		return Summarize(), true, nil
	default:
		return View(), false, nil
	}
}

// Label is the heading shown above the result.
func (op Operation) Label() string {
	switch op.Kind {
	case KindTranslate:
		return "Translated Text"
	case KindSummarize:
		return "Summarized Text"
	default:
		return "Extracted Text"
	}
}

// String returns a stable form used in cache keys and history records,
// e.g. "view", "translate:fr", "summarize".
func (op Operation) String() string {
	if op.Kind == KindTranslate {
		return op.Kind.String() + ":" + op.Target
	}
	return op.Kind.String()
}
