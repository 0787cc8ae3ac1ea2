package transform

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"
)

// GoogleTranslator calls the Cloud Translation v2 API.
type GoogleTranslator struct {
	svc *translate.Service
}

// NewGoogleTranslator authenticates with a service-account credential file.
// Extra options are appended (tests use them to redirect the endpoint).
func NewGoogleTranslator(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*GoogleTranslator, error) {
	if credentialsFile != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(credentialsFile)}, opts...)
	}

	svc, err := translate.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation client: %w", err)
	}
	return &GoogleTranslator{svc: svc}, nil
}

// Translate implements Translator.
func (g *GoogleTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	resp, err := g.svc.Translations.List([]string{text}, target).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", target, err)
	}
	if len(resp.Translations) == 0 {
		return "", errors.New("translation response contained no translations")
	}
	return resp.Translations[0].TranslatedText, nil
}
