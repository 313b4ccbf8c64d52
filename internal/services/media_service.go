package services

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// MediaAttachment is a fetched file ready to be sent to the network.
type MediaAttachment struct {
	Data     []byte
	Mimetype string
	Filename string
}

// MediaService downloads attachment content from caller-supplied URLs.
type MediaService struct {
	client *http.Client
}

func NewMediaService() *MediaService {
	return &MediaService{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the file at fileURL. The mimetype comes from the response
// Content-Type header and the filename from the URL path.
func (m *MediaService) Fetch(fileURL string) (*MediaAttachment, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return nil, fmt.Errorf("invalid media url: %v", err)
	}

	resp, err := m.client.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read media body: %v", err)
	}

	mimetype := resp.Header.Get("Content-Type")
	if i := strings.Index(mimetype, ";"); i >= 0 {
		mimetype = strings.TrimSpace(mimetype[:i])
	}
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	filename := path.Base(parsed.Path)
	if filename == "." || filename == "/" {
		filename = "media"
	}

	return &MediaAttachment{
		Data:     data,
		Mimetype: mimetype,
		Filename: filename,
	}, nil
}
