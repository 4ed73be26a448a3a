package plant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"harvesthub/middleware"
	"harvesthub/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClassifier struct {
	mu     sync.Mutex
	labels []Label
	err    error
	seen   [][]byte
}

func (f *fakeClassifier) Classify(_ context.Context, img []byte) ([]Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, img)
	return f.labels, f.err
}

type anyToken struct{}

func (anyToken) Verify(token string) (middleware.Identity, error) {
	return middleware.Identity{UserID: token}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{G: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type upload struct {
	name string
	data []byte
}

func multipartRequest(t *testing.T, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile(formField, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/plant/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer farmer-1")
	return req
}

func newRouter(c Classifier) *httprouter.Router {
	gate := middleware.NewGate(anyToken{}, zap.NewNop())
	router := httprouter.New()
	router.POST("/api/plant/analyze", gate.Authenticate(NewHandler(c, zap.NewNop()).AnalyzePlantDisease))
	return router
}

func TestPrepareShrinksToModelInput(t *testing.T) {
	out, err := Prepare(bytes.NewReader(pngBytes(t, 800, 400)))
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 224, img.Bounds().Dx())
	assert.Equal(t, 112, img.Bounds().Dy())

	out, err = Prepare(bytes.NewReader(pngBytes(t, 100, 50)))
	require.NoError(t, err)
	img, err = imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx(), "small images keep their size")

	_, err = Prepare(bytes.NewReader([]byte("not an image")))
	var ve *utils.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestTopAndConfidence(t *testing.T) {
	assert.Equal(t, Label{Label: "Unknown"}, Top(nil))
	assert.Equal(t, "Rice with Tungro", Top([]Label{
		{Label: "Healthy", Score: 0.2},
		{Label: "Rice with Tungro", Score: 0.7},
	}).Label)
	assert.Equal(t, "87.35%", Confidence(0.8735))
	assert.Equal(t, "0.00%", Confidence(0))
	assert.Equal(t, noRecommendation, Recommendation("Banana with Panama Disease"))
	assert.Contains(t, Recommendation("Healthy"), "No disease detected")
}

func TestAnalyzePlantDisease(t *testing.T) {
	c := &fakeClassifier{labels: []Label{{Label: "Tomato with Late Blight", Score: 0.9123}}}
	rec := httptest.NewRecorder()
	newRouter(c).ServeHTTP(rec, multipartRequest(t,
		upload{"leaf1.png", pngBytes(t, 640, 480)},
		upload{"leaf2.png", pngBytes(t, 50, 50)},
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Message string   `json:"message"`
		Results []Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, Result{
		FileName:       "leaf1.png",
		Prediction:     "Tomato with Late Blight",
		Confidence:     "91.23%",
		Recommendation: recommendations["Tomato with Late Blight"],
	}, body.Results[0])
	assert.Equal(t, "leaf2.png", body.Results[1].FileName)

	require.Len(t, c.seen, 2)
	for _, img := range c.seen {
		_, format, err := image.DecodeConfig(bytes.NewReader(img))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	}
}

func TestAnalyzeRejectsBadUploads(t *testing.T) {
	router := newRouter(&fakeClassifier{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Please upload at least one image"}`, rec.Body.String())

	img := pngBytes(t, 10, 10)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t,
		upload{"a.png", img}, upload{"b.png", img}, upload{"c.png", img}, upload{"d.png", img}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, upload{"notes.txt", []byte("hello")}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "notes.txt")
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	c := &fakeClassifier{err: utils.Upstream("plant model", "Failed to analyze plant images", errors.New("503"))}
	rec := httptest.NewRecorder()
	newRouter(c).ServeHTTP(rec, multipartRequest(t, upload{"leaf.png", pngBytes(t, 20, 20)}))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to analyze plant images"}`, rec.Body.String())
}

func TestHFClassifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		if string(body) == "fail" {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"label":"Healthy","score":0.98},{"label":"Rice with Brown Spot","score":0.02}]`))
	}))
	defer srv.Close()

	c := NewHFClassifier(srv.URL, "hf-token")
	labels, err := c.Classify(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, []Label{{"Healthy", 0.98}, {"Rice with Brown Spot", 0.02}}, labels)

	_, err = c.Classify(context.Background(), []byte("fail"))
	var ue *utils.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Error(), "503")

	_, err = NewHFClassifier("", "").Classify(context.Background(), nil)
	assert.ErrorAs(t, err, &ue)
}
