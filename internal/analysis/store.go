// internal/analysis/store.go
package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"reviewbot/internal/common/logger"
	"reviewbot/internal/models"
)

// artifactSchema describes the shape an analysis artifact must have
// before it is accepted. Artifacts carry more (a detailed per-review
// breakdown); only the summary shape is enforced here.
const artifactSchema = `{
	"type": "object",
	"required": ["product_id", "product_info", "summary", "timestamp"],
	"properties": {
		"product_id": {"type": "string", "minLength": 1},
		"product_info": {
			"type": "object",
			"required": ["name", "url"],
			"properties": {
				"name": {"type": "string"},
				"url": {"type": "string"}
			}
		},
		"summary": {
			"type": "object",
			"required": ["overall_sentiment", "confidence_score", "review_counts", "recommendation"],
			"properties": {
				"overall_sentiment": {"enum": ["positive", "neutral", "negative"]},
				"confidence_score": {"type": "number", "minimum": 0, "maximum": 1},
				"review_counts": {
					"type": "object",
					"required": ["positive", "neutral", "negative"],
					"properties": {
						"positive": {"type": "integer", "minimum": 0},
						"neutral": {"type": "integer", "minimum": 0},
						"negative": {"type": "integer", "minimum": 0}
					}
				},
				"recommendation": {"type": "string"}
			}
		},
		"timestamp": {"type": "string"}
	}
}`

// ArtifactStore reads analysis artifacts written by the external tool.
// Artifacts follow the analysis_<productId>_<timestamp>.json naming
// convention; the lexicographically greatest timestamp is the latest.
type ArtifactStore struct {
	dir    string
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewArtifactStore(dir string, log logger.Logger) (*ArtifactStore, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(artifactSchema))
	if err != nil {
		return nil, fmt.Errorf("compile artifact schema: %w", err)
	}

	return &ArtifactStore{
		dir:    dir,
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"component": "artifactStore"}),
	}, nil
}

// LoadLatest returns the most recent valid artifact for productID, or
// (nil, nil) when no matching artifact exists. Artifacts that fail
// schema validation are skipped in favor of the next most recent one;
// a product with nothing but invalid artifacts reads as absent.
func (s *ArtifactStore) LoadLatest(productID string) (*models.AnalysisResult, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read artifacts dir: %w", err)
	}

	prefix := "analysis_" + productID + "_"
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	for _, name := range names {
		path := filepath.Join(s.dir, name)
		result, err := s.loadArtifact(path)
		if err != nil {
			s.logger.Warn("skipping invalid artifact", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		return result, nil
	}

	return nil, nil
}

func (s *ArtifactStore) loadArtifact(path string) (*models.AnalysisResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	validation, err := s.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate artifact: %w", err)
	}
	if !validation.Valid() {
		errs := make([]string, len(validation.Errors()))
		for i, desc := range validation.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("artifact validation failed: %v", errs)
	}

	// The tool writes naive ISO-8601 timestamps (no zone), which the
	// default time.Time decoder rejects; parse the field separately.
	var doc struct {
		ProductID   string             `json:"product_id"`
		ProductInfo models.ProductInfo `json:"product_info"`
		Summary     models.Summary     `json:"summary"`
		Timestamp   string             `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	ts, err := parseArtifactTime(doc.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("decode artifact timestamp: %w", err)
	}

	return &models.AnalysisResult{
		ProductID:   doc.ProductID,
		ProductInfo: doc.ProductInfo,
		Summary:     doc.Summary,
		Timestamp:   ts,
	}, nil
}

var artifactTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseArtifactTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range artifactTimeLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
