package chat

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/api"
)

// maxAttachmentSize caps a staged image at 10 MiB.
const maxAttachmentSize = 10 << 20

// ErrAttachmentReleased is returned when sending an attachment whose bytes
// have already been released.
var ErrAttachmentReleased = errors.New("attachment has been released")

// ErrAttachmentTooLarge is returned when the staged file exceeds the cap.
var ErrAttachmentTooLarge = errors.New("attachment too large")

// Attachment is an image staged for sending: the bytes are held client-side
// for preview until the message is confirmed or the user discards them.
// Release drops the bytes; holding staged files past the view's lifetime is
// a resource leak.
type Attachment struct {
	name        string
	contentType string
	data        []byte
}

// StageAttachment reads the selected file fully into memory.
func StageAttachment(name, contentType string, r io.Reader) (*Attachment, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxAttachmentSize+1))
	if err != nil {
		return nil, fmt.Errorf("stage attachment %q: %w", name, err)
	}
	if len(data) > maxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}
	return &Attachment{name: name, contentType: contentType, data: data}, nil
}

// Name returns the staged file name.
func (a *Attachment) Name() string { return a.name }

// Size returns the staged byte count, 0 once released.
func (a *Attachment) Size() int { return len(a.data) }

// Released reports whether the bytes have been dropped.
func (a *Attachment) Released() bool { return a.data == nil }

// Preview returns a reader over the staged bytes for local display.
func (a *Attachment) Preview() io.Reader { return bytes.NewReader(a.data) }

// Release drops the staged bytes. Safe to call more than once.
func (a *Attachment) Release() { a.data = nil }

// file converts the staged attachment to the transport's multipart field.
func (a *Attachment) file() (*api.FileField, error) {
	if a.Released() {
		return nil, ErrAttachmentReleased
	}
	return &api.FileField{
		Field:       "image",
		Name:        a.name,
		ContentType: a.contentType,
		Data:        a.data,
	}, nil
}
