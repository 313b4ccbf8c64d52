package whatsapp

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

// SessionSnapshot marks an authenticated pairing on disk. Its presence at
// startup means "attempt resume"; absence means fresh QR flow. The actual
// credentials live in the whatsmeow store.
type SessionSnapshot struct {
	DeviceJID       string    `json:"device_jid"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
}

// SessionFile is the JSON snapshot on disk. Last write wins; there is no
// lock around it.
type SessionFile struct {
	path string
}

func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

func (f *SessionFile) Path() string {
	return f.path
}

func (f *SessionFile) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

func (f *SessionFile) Write(deviceJID string) error {
	snapshot := SessionSnapshot{
		DeviceJID:       deviceJID,
		AuthenticatedAt: time.Now(),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0644)
}

func (f *SessionFile) Read() (*SessionSnapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	var snapshot SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Delete removes the snapshot. Deleting a missing file is not an error.
func (f *SessionFile) Delete() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
