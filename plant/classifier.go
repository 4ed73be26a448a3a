// Package plant diagnoses crop disease from leaf photos using a hosted image
// classification model.
package plant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"harvesthub/utils"

	"github.com/disintegration/imaging"
)

const modelInputSize = 224

type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Classifier interface {
	Classify(ctx context.Context, jpeg []byte) ([]Label, error)
}

// HFClassifier posts JPEG bytes to a Hugging Face inference endpoint.
type HFClassifier struct {
	url   string
	token string
	http  *http.Client
}

func NewHFClassifier(url, token string) *HFClassifier {
	return &HFClassifier{url: url, token: token, http: &http.Client{Timeout: 30 * time.Second}}
}

func (c *HFClassifier) Classify(ctx context.Context, img []byte) ([]Label, error) {
	if c.url == "" {
		return nil, utils.Upstream("plant model", "Plant model is not configured", fmt.Errorf("no model url"))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(img))
	if err != nil {
		return nil, utils.Upstream("plant model", "Failed to analyze plant images", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, utils.Upstream("plant model", "Failed to analyze plant images", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, utils.Upstream("plant model", "Failed to analyze plant images",
			fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body)))
	}
	var labels []Label
	if err := json.NewDecoder(resp.Body).Decode(&labels); err != nil {
		return nil, utils.Upstream("plant model", "Failed to analyze plant images", err)
	}
	return labels, nil
}

// Prepare decodes an uploaded photo, honours its EXIF orientation, shrinks it
// to fit the model input and re-encodes it as JPEG.
func Prepare(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, utils.Validation("Unsupported image format")
	}
	img = imaging.Fit(img, modelInputSize, modelInputSize, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

type Result struct {
	FileName       string `json:"fileName"`
	Prediction     string `json:"prediction"`
	Confidence     string `json:"confidence"`
	Recommendation string `json:"recommendation"`
}

// Top picks the highest scoring label; an empty answer is "Unknown" at 0%.
func Top(labels []Label) Label {
	best := Label{Label: "Unknown"}
	for i, l := range labels {
		if i == 0 || l.Score > best.Score {
			best = l
		}
	}
	return best
}

func Confidence(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}
