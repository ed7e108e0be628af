package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dypcet/linuxsaga-backend/internal/domain"

	"github.com/google/uuid"
)

// ErrFileTooLarge is returned when an incoming file exceeds the payment
// proof size cap. The cap is inclusive: exactly MaxPaymentProofSize
// bytes is accepted.
var ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")

// TransientUpload describes a file parked in the transient area while
// it is relayed to durable storage.
type TransientUpload struct {
	OriginalName string
	StoredPath   string
	ContentType  string
	SizeBytes    int64
}

// Store manages the transient upload area: a single directory on local
// disk where incoming files live only for the duration of one request.
// The directory is explicit configuration, not a process-wide constant,
// so multiple instances and test harnesses can run isolated.
type Store struct {
	dir     string
	maxSize int64
}

// NewStore creates the transient area at dir if absent.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("transient upload directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create transient upload dir: %w", err)
	}
	return &Store{dir: dir, maxSize: domain.MaxPaymentProofSize}, nil
}

// Dir returns the transient directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save copies the incoming file into the transient area under a unique
// name and returns its metadata. The name is built from the submission
// instant plus a uuid fragment so concurrent requests cannot collide,
// keeping the original extension.
//
// The copy goes through a limited reader: a part that exceeds the size
// cap is never stored in full. On any error the partial file is
// removed before returning.
func (s *Store) Save(originalName, contentType string, src io.Reader) (*TransientUpload, error) {
	storedName := fmt.Sprintf("%d-%s%s",
		time.Now().UnixNano(),
		strings.Split(uuid.NewString(), "-")[0],
		strings.ToLower(filepath.Ext(originalName)),
	)
	storedPath := filepath.Join(s.dir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create transient file: %w", err)
	}

	// Allow one extra byte past the cap so an oversized source is
	// detectable without reading it to the end.
	n, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > s.maxSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(storedPath)
		return nil, err
	}

	return &TransientUpload{
		OriginalName: originalName,
		StoredPath:   storedPath,
		ContentType:  contentType,
		SizeBytes:    n,
	}, nil
}

// Remove deletes a transient file. A file that is already gone is not
// an error.
func (s *Store) Remove(u *TransientUpload) error {
	if u == nil || u.StoredPath == "" {
		return nil
	}
	err := os.Remove(u.StoredPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
