package history

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Document uploads are local-only: picked files live in an in-memory list
// per patient and never reach the backend. "Save all" is an explicit no-op
// stub; the source behavior has no observable upload effect.

// FilePick is one descriptor returned by the device file picker.
type FilePick struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	URI      string `json:"uri"`
}

// UploadedFile is an ephemeral in-memory record; its id is synthesized from
// the pick time plus a random component.
type UploadedFile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	URI        string `json:"uri"`
	UploadDate string `json:"uploadDate"`
}

type uploadList struct {
	mu    sync.Mutex
	files map[string][]UploadedFile // keyed by patient id
	now   func() time.Time
}

func newUploadList() *uploadList {
	return &uploadList{files: make(map[string][]UploadedFile), now: time.Now}
}

// AddFiles registers picked files for a patient and returns the new entries.
// An empty pick (the picker's cancellation signal) adds nothing.
func (s *Service) AddFiles(patientID string, picks []FilePick) []UploadedFile {
	u := s.uploads
	added := make([]UploadedFile, 0, len(picks))
	now := u.now()

	for _, p := range picks {
		added = append(added, UploadedFile{
			ID:         fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]),
			Name:       p.Name,
			Size:       p.Size,
			Type:       p.MimeType,
			URI:        p.URI,
			UploadDate: now.Format("02-01-2006"),
		})
	}

	u.mu.Lock()
	u.files[patientID] = append(u.files[patientID], added...)
	u.mu.Unlock()
	return added
}

// RemoveFile drops one entry by id, leaving the order and fields of the
// others unchanged. Returns false when no entry matches.
func (s *Service) RemoveFile(patientID, fileID string) bool {
	u := s.uploads
	u.mu.Lock()
	defer u.mu.Unlock()

	list := u.files[patientID]
	for i, f := range list {
		if f.ID == fileID {
			u.files[patientID] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Files returns a copy of the patient's upload list.
func (s *Service) Files(patientID string) []UploadedFile {
	u := s.uploads
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]UploadedFile, len(u.files[patientID]))
	copy(out, u.files[patientID])
	return out
}

// SaveFiles is the "Save All Documents" stub: it reports how many files
// would be saved and performs no backend write.
func (s *Service) SaveFiles(patientID string) int {
	u := s.uploads
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.files[patientID])
}

// FormatFileSize renders a byte count the way the history screen does:
// "0 Bytes", "1.5 KB", "2.25 MB".
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	// two decimals, trailing zeros trimmed
	rounded := math.Round(size*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + units[i]
}
