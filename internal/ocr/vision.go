package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// VisionEngine recognizes text with the Google Cloud Vision API.
type VisionEngine struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionEngine creates a Vision client. An empty credentialsFile uses
// application default credentials. Extra options are appended (tests use
// them to point the client at a fake endpoint).
func NewVisionEngine(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*VisionEngine, error) {
	if credentialsFile != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(credentialsFile)}, opts...)
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, newError(BackendVision, "NewVisionEngine", ErrEngineUnavailable, err.Error())
	}
	return &VisionEngine{client: client}, nil
}

// Name implements Engine.
func (e *VisionEngine) Name() string {
	return BackendVision
}

// Recognize implements Engine.
func (e *VisionEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", newError(BackendVision, "Recognize", ErrRecognition, fmt.Sprintf("encode: %v", err))
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: buf.Bytes()},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := e.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", classifyVisionError(err)
	}
	if len(resp.Responses) == 0 {
		return "", newError(BackendVision, "Recognize", ErrRecognition, "empty response")
	}

	return visionText(resp.Responses[0])
}

// visionText pulls the recognized text out of one annotation response.
func visionText(r *visionpb.AnnotateImageResponse) (string, error) {
	if r.Error != nil {
		return "", newError(BackendVision, "Recognize", ErrRecognition, r.Error.Message)
	}
	if r.FullTextAnnotation != nil {
		return strings.TrimSpace(r.FullTextAnnotation.Text), nil
	}
	// The first text annotation covers the whole image.
	if len(r.TextAnnotations) > 0 {
		return strings.TrimSpace(r.TextAnnotations[0].Description), nil
	}
	return "", nil
}

// classifyVisionError separates auth and connectivity failures, which affect
// every region, from per-image failures.
func classifyVisionError(err error) error {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied, codes.Unavailable, codes.Unimplemented:
		return newError(BackendVision, "Recognize", ErrEngineUnavailable, err.Error())
	default:
		return newError(BackendVision, "Recognize", ErrRecognition, err.Error())
	}
}

// Close implements Engine.
func (e *VisionEngine) Close() error {
	return e.client.Close()
}
