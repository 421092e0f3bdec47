package pose

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bmharper/cimg/v2"
)

// HTTPEstimator talks to a pose estimation sidecar over HTTP.
// Each frame is sent as a JPEG to POST {baseURL}/estimate, and the sidecar
// replies with the landmark list, or an empty list when no person is visible.
type HTTPEstimator struct {
	baseURL string
	client  *http.Client
	config  ModelConfig
}

type estimateResponse struct {
	Landmarks []sidecarLandmark `json:"landmarks"`
}

type sidecarLandmark struct {
	ID         int     `json:"id"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Z          float32 `json:"z"`
	Visibility float32 `json:"visibility"`
}

// NewHTTPEstimator connects to the sidecar at baseURL (eg "http://127.0.0.1:9505")
// and verifies it is alive by fetching its model config.
func NewHTTPEstimator(baseURL string) (*HTTPEstimator, error) {
	e := &HTTPEstimator{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	resp, err := e.client.Get(baseURL + "/config")
	if err != nil {
		return nil, fmt.Errorf("pose sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pose sidecar config: status %v", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&e.config); err != nil {
		return nil, fmt.Errorf("pose sidecar config: %w", err)
	}
	return e, nil
}

func (e *HTTPEstimator) Config() *ModelConfig {
	return &e.config
}

func (e *HTTPEstimator) Close() {
	e.client.CloseIdleConnections()
}

func (e *HTTPEstimator) EstimatePose(img *cimg.Image) (map[int]Landmark, error) {
	jpg, err := cimg.Compress(img, cimg.MakeCompressParams(cimg.Sampling420, 85, 0))
	if err != nil {
		return nil, err
	}
	resp, err := e.client.Post(e.baseURL+"/estimate", "image/jpeg", bytes.NewReader(jpg))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("pose sidecar: status %v: %v", resp.Status, string(body))
	}
	res := estimateResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	if len(res.Landmarks) == 0 {
		// no person in frame
		return nil, nil
	}
	landmarks := make(map[int]Landmark, len(res.Landmarks))
	for _, lm := range res.Landmarks {
		landmarks[lm.ID] = Landmark{X: lm.X, Y: lm.Y, Z: lm.Z, Visibility: lm.Visibility}
	}
	return landmarks, nil
}
