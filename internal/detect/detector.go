// Package detect locates fracture sites on X-ray images through an
// external inference sidecar.
package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/medvis/fracturevis/pkg/fracture"
	"github.com/medvis/fracturevis/pkg/geometry"
)

// minConfidence filters out low-quality detections before they reach
// the annotation pipeline.
const minConfidence = 0.3

// BoundingBox is one detection from the sidecar, in pixel coordinates
// with the origin at the image top-left.
type BoundingBox struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Class  string  `json:"class"`
	Conf   float64 `json:"confidence"`
}

// Detector produces break-point annotations for an X-ray image.
type Detector interface {
	Detect(ctx context.Context, image []byte, width, height int) (fracture.BreakPoints, error)
}

// Client talks to the inference sidecar over HTTP.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Detect uploads the image and converts the sidecar's bounding boxes
// into centered break points. Box centers left of the image midline are
// assigned to the radius, centers right of it to the ulna. At most one
// break per bone is kept, the first that clears the confidence floor.
func (c *Client) Detect(ctx context.Context, image []byte, width, height int) (fracture.BreakPoints, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "xray.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(image)); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Detections []BoundingBox `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return assignBreaks(result.Detections, width, height), nil
}

// Health checks sidecar availability.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("detector unhealthy: %d", resp.StatusCode)
	}
	return nil
}

func assignBreaks(detections []BoundingBox, width, height int) fracture.BreakPoints {
	breaks := fracture.BreakPoints{}

	for _, d := range detections {
		if d.Conf < minConfidence {
			continue
		}

		xc := float64(d.X) + float64(d.Width)/2
		yc := float64(d.Y) + float64(d.Height)/2
		p := geometry.FromImage(xc, yc, width, height)

		label := fracture.LabelUlnaBreak
		if p.X < 0 {
			label = fracture.LabelRadiusBreak
		}
		if _, seen := breaks[label]; seen {
			continue
		}
		breaks[label] = p
	}
	return breaks
}

// Fallback supplies fixed break points when no sidecar is configured,
// so the rest of the pipeline stays exercisable offline.
type Fallback struct{}

func (Fallback) Detect(ctx context.Context, image []byte, width, height int) (fracture.BreakPoints, error) {
	return fracture.BreakPoints{
		fracture.LabelUlnaBreak:   geometry.NewPoint2D(50, 100),
		fracture.LabelRadiusBreak: geometry.NewPoint2D(-30, 80),
	}, nil
}
