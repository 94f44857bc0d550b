package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// statusRequestBody asks for the latest snapshot only, not full history.
const statusRequestBody = `{"all":false,"since":"1970-01-01T00:00:00.000Z"}`

// RealClient talks to an actual monitoring daemon over HTTP. The underlying
// http.Client keeps the daemon's session cookie, so the authentication
// handshake performed at startup stays valid across calls.
type RealClient struct {
	baseURL string
	http    *http.Client
}

// NewRealClient creates a client for the daemon at baseURL. The timeout
// bounds every individual call; per-call contexts may shorten it further.
func NewRealClient(baseURL string, timeout time.Duration) (*RealClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &RealClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

// ListDevices fetches the device inventory.
func (c *RealClient) ListDevices(ctx context.Context) (DeviceList, error) {
	var list DeviceList
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/devices", nil)
	if err != nil {
		return list, fmt.Errorf("devices request: %w", err)
	}
	if err := c.doJSON(req, "/devices", &list); err != nil {
		return DeviceList{}, err
	}
	return list, nil
}

// LatestStatus fetches the most recent status snapshot per device.
func (c *RealClient) LatestStatus(ctx context.Context) (StatusResponse, error) {
	var status StatusResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/status",
		strings.NewReader(statusRequestBody))
	if err != nil {
		return status, fmt.Errorf("status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.doJSON(req, "/status", &status); err != nil {
		return StatusResponse{}, err
	}
	return status, nil
}

// UploadImage delivers a frame to the device's LCD via multipart PUT.
func (c *RealClient) UploadImage(ctx context.Context, uid string, up ImageUpload) error {
	body, contentType, err := encodeUpload(up)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/devices/%s/settings/lcd/lcd/images", c.baseURL, uid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, "upload image")
	}
	return nil
}

// encodeUpload builds the multipart body: mode, brightness, orientation and
// the PNG bytes under the images[] field.
func encodeUpload(up ImageUpload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"mode", up.Mode},
		{"brightness", strconv.Itoa(up.Brightness)},
		{"orientation", strconv.Itoa(up.Orientation)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("multipart field %s: %w", f.name, err)
		}
	}

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="images[]"; filename="frame.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, "", fmt.Errorf("multipart image part: %w", err)
	}
	if _, err := part.Write(up.PNG); err != nil {
		return nil, "", fmt.Errorf("multipart image bytes: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("multipart close: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func (c *RealClient) doJSON(req *http.Request, endpoint string, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return statusError(resp.StatusCode, endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", endpoint, err)
	}
	return nil
}
