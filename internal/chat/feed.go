// Package chat maintains the ordered message feed of one event: fetch the
// full history on open, keep it in ascending chronological order, and append
// the server-confirmed echo of every sent message. There is no push channel;
// "live" updates are refreshes.
package chat

import (
	"context"

	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/api"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/models"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/services"
	"github.com/esraahisham753/Co-Eventplanner-Frontend/internal/store"
)

// Feed reconciles one event's chat view against the message collection.
type Feed struct {
	messages *services.MessageService
	store    *store.Store
	eventID  int

	// onAppend fires with each newly appended message; the view layer's
	// auto-scroll hook.
	onAppend func(models.Message)
}

// NewFeed creates a feed over the given event's messages.
func NewFeed(messages *services.MessageService, st *store.Store, eventID int) *Feed {
	return &Feed{messages: messages, store: st, eventID: eventID}
}

// OnAppend registers the callback fired for every appended message.
func (f *Feed) OnAppend(fn func(models.Message)) { f.onAppend = fn }

// Open fetches the full message history and normalizes it to ascending
// chronological order.
func (f *Feed) Open(ctx context.Context) error {
	if _, err := f.messages.FetchForEvent(ctx, f.eventID); err != nil {
		return err
	}
	f.sortAscending()
	return nil
}

// Refresh refetches the history. Because the store discards completions of
// superseded fetches, a refresh racing a send cannot clobber the newer data;
// the ordering pass afterwards restores the display contract either way.
func (f *Feed) Refresh(ctx context.Context) error {
	return f.Open(ctx)
}

// Send submits the composed message and appends the canonical server echo
// in timestamp order. The attachment, if any, is released on success, like
// the compose view dropping its staged preview.
func (f *Feed) Send(ctx context.Context, content string, att *Attachment) (models.Message, error) {
	var file *api.FileField
	if att != nil {
		converted, err := att.file()
		if err != nil {
			return models.Message{}, err
		}
		file = converted
	}
	msg, err := f.messages.Send(ctx, f.eventID, content, file)
	if err != nil {
		return models.Message{}, err
	}
	if att != nil {
		att.Release()
	}
	f.sortAscending()
	if f.onAppend != nil {
		f.onAppend(msg)
	}
	return msg, nil
}

// Messages returns the feed in display order, oldest first.
func (f *Feed) Messages() []models.Message {
	return f.store.Messages.Items()
}

// Status returns the message collection's operation status.
func (f *Feed) Status() store.Status { return f.store.Messages.Status() }

// Err returns the message collection's last error.
func (f *Feed) Err() string { return f.store.Messages.Err() }

func (f *Feed) sortAscending() {
	f.store.Messages.Sort(func(a, b models.Message) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
