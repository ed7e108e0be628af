// Package client implements the registration form for the LinuxSaga
// workshop: it holds the in-progress field values and the selected
// payment screenshot, validates them locally, and submits them to the
// registration endpoint as one multipart request. A presentation layer
// only needs SetField, SetFile and Submit.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
)

// MaxFileSize is the cap on the payment screenshot, inclusive: a file
// of exactly this size is accepted.
const MaxFileSize = 5 << 20 // 5 MiB

// Field names accepted by SetField, matching the multipart part names
// on the wire.
const (
	FieldFullName   = "fullName"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldCollege    = "college"
	FieldExperience = "experience"
)

// imagePartName is the multipart part the server expects the payment
// screenshot under. The key must be "image".
const imagePartName = "image"

var requiredFields = []string{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldCollege,
	FieldExperience,
}

// --- Error Definitions ---
var (
	// ErrIncompleteForm is returned by Submit when any required field
	// is empty. No network request is made.
	ErrIncompleteForm = errors.New("all registration fields are required")
	// ErrFileRequired is returned by Submit when no payment screenshot
	// has been attached. No network request is made.
	ErrFileRequired = errors.New("payment screenshot required")
	// ErrFileTooLarge is returned by SetFile for files over MaxFileSize.
	ErrFileTooLarge = errors.New("payment screenshot exceeds 5 MiB")
	// ErrUnknownField is returned by SetField for a name outside the
	// five known fields.
	ErrUnknownField = errors.New("unknown registration field")
	// ErrSubmitInFlight is returned by Submit while another submission
	// is still outstanding on the same form.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrSubmissionFailed is the single generic failure for any
	// network error, non-2xx status or unparsable response body.
	ErrSubmissionFailed = errors.New("failed to submit registration")
)

// File is a candidate payment screenshot.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Form owns the in-progress registration state. One Form permits one
// in-flight submission at a time; it is safe for concurrent use.
type Form struct {
	endpoint   string
	httpClient *http.Client

	mu         sync.Mutex
	submitting bool
	fields     map[string]string
	file       *File
}

// NewForm creates a registration form targeting endpoint (the full URL
// of the POST /register route). A nil httpClient means
// http.DefaultClient.
func NewForm(endpoint string, httpClient *http.Client) *Form {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	f := &Form{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
	f.resetLocked()
	return f
}

// SetField updates one named field. It performs no validation beyond
// rejecting names outside the form's allow-list.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.fields[name]; !ok {
		return ErrUnknownField
	}
	f.fields[name] = value
	return nil
}

// Field returns the current value of one named field.
func (f *Form) Field(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[name]
}

// SetFile stores file as the pending payment proof. A file larger than
// MaxFileSize is rejected and any previously stored file is kept.
func (f *Form) SetFile(file File) error {
	if int64(len(file.Data)) > MaxFileSize {
		return ErrFileTooLarge
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.file = &file
	return nil
}

// HasFile reports whether a payment proof is currently attached.
func (f *Form) HasFile() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file != nil
}

// Submit validates the form and sends it to the registration endpoint.
//
// Validation failures (empty field, missing file) return before any
// network I/O. Exactly one network attempt is made per call; there is
// no retry. A second Submit while one is outstanding fails fast with
// ErrSubmitInFlight. On success the form resets to its initial empty
// state; on failure all values are left untouched so the user can
// correct and resubmit.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	for _, name := range requiredFields {
		if f.fields[name] == "" {
			f.mu.Unlock()
			return ErrIncompleteForm
		}
	}
	if f.file == nil {
		f.mu.Unlock()
		return ErrFileRequired
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.submitting = true
	fields := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		fields[k] = v
	}
	file := *f.file
	f.mu.Unlock()

	err := f.send(ctx, fields, file)

	f.mu.Lock()
	f.submitting = false
	if err == nil {
		f.resetLocked()
	}
	f.mu.Unlock()
	return err
}

// resetLocked restores the initial form state. Callers hold f.mu,
// except the constructor.
func (f *Form) resetLocked() {
	f.fields = map[string]string{
		FieldFullName:   "",
		FieldEmail:      "",
		FieldPhone:      "",
		FieldCollege:    "",
		FieldExperience: "beginner",
	}
	f.file = nil
}

// registerResponse mirrors the server's response envelope.
type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// send serializes the fields and file into one multipart body and
// issues one POST. Any non-2xx status, transport error or unparsable
// body collapses into ErrSubmissionFailed; there is no status-specific
// branching for the caller to act on.
func (f *Form) send(ctx context.Context, fields map[string]string, file File) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(imagePartName, file.Name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, &body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: server returned %s", ErrSubmissionFailed, resp.Status)
	}

	var envelope registerResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: unreadable response: %v", ErrSubmissionFailed, err)
	}

	return nil
}
