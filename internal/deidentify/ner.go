package deidentify

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

const (
	// DefaultModel is the token-classification model used for entity
	// scrubbing; downloaded on first use.
	DefaultModel = "dslim/bert-base-NER"

	// MIN_ENTITY_SCORE drops low-confidence spans; below this the NER
	// output is noisier than the regex passes it feeds.
	MIN_ENTITY_SCORE = 0.60
)

// placeholderForLabel maps NER label groups to scrub tokens. MISC is
// deliberately absent: those spans stay in the text.
var placeholderForLabel = map[string]string{
	"PER": PlaceholderPerson,
	"LOC": PlaceholderLocation,
	"GPE": PlaceholderLocation,
	"ORG": PlaceholderOrganization,
}

// NERScrubber owns a hugot session and the token-classification
// pipeline it runs. Callers must Close it to release the ONNX runtime.
type NERScrubber struct {
	session  *hugot.Session
	pipeline *pipelines.TokenClassificationPipeline
}

// NewNERScrubber downloads the model into modelDir when missing and
// boots an ORT session around it.
func NewNERScrubber(modelDir string) (*NERScrubber, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("[NERScrubber] failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(DefaultModel, "/", "_"))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[NERScrubber] Model not found, downloading...",
			slog.String("model", DefaultModel))
		downloaded, err := hugot.DownloadModel(DefaultModel, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("[NERScrubber] failed to download model: %w", err)
		}
		modelPath = downloaded
		slog.Info("[NERScrubber] Model downloaded successfully", slog.String("path", modelPath))
	} else {
		slog.Info("[NERScrubber] Using existing model", slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("[NERScrubber] failed to initialize Hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "nerScrubPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("[NERScrubber] failed to initialize NER pipeline: %w", err)
	}

	return &NERScrubber{session: session, pipeline: pipeline}, nil
}

// Close releases the underlying ONNX session.
func (s *NERScrubber) Close() {
	if s != nil && s.session != nil {
		s.session.Destroy()
	}
}

// Redact replaces every confident PER/LOC/GPE/ORG span in each text
// with its placeholder. Inputs and outputs are index-aligned.
func (s *NERScrubber) Redact(texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	output, err := s.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("[NERScrubber] pipeline run failed: %w", err)
	}

	out := make([]string, len(texts))
	copy(out, texts)
	for i, entities := range output.Entities {
		if i >= len(out) {
			break
		}
		out[i] = redactEntities(out[i], entities)
	}
	return out, nil
}

// redactEntities replaces spans right to left so earlier offsets stay
// valid as the string shrinks and grows.
func redactEntities(text string, entities []pipelines.Entity) string {
	for i := len(entities) - 1; i >= 0; i-- {
		e := entities[i]
		placeholder, ok := placeholderForLabel[normalizeLabel(e.Entity)]
		if !ok || float64(e.Score) < MIN_ENTITY_SCORE {
			continue
		}
		start, end := int(e.Start), int(e.End)
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		text = text[:start] + placeholder + text[end:]
	}
	return text
}

// normalizeLabel strips BIO prefixes so both aggregated and raw
// pipeline outputs map the same way.
func normalizeLabel(label string) string {
	label = strings.TrimPrefix(label, "B-")
	label = strings.TrimPrefix(label, "I-")
	return label
}
