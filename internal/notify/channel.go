package notify

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Channel delivers a text message to a destination (a phone number for WhatsApp).
type Channel interface {
	Send(ctx context.Context, destination, text string) (string, error)
}

// ErrNoDestination is returned when the channel has nowhere to send.
var ErrNoDestination = errors.New("notification destination is empty")

// LinkChannel "sends" by producing the wa.me deep link that opens the
// prefilled chat. The link is logged and returned; a person or the storefront
// opens it.
type LinkChannel struct{}

func (LinkChannel) Send(ctx context.Context, destination, text string) (string, error) {
	if destination == "" {
		return "", ErrNoDestination
	}
	link := WhatsAppLink(destination, text)
	log.Printf("[notify] whatsapp link to %s (%d bytes)", destination, len(link))
	return link, nil
}

// Recorder is a Channel that keeps what it was given. Useful for local runs.
type Recorder struct {
	mu   sync.Mutex
	Sent []Sent
}

// Sent is one recorded message.
type Sent struct {
	Destination string
	Text        string
}

func (r *Recorder) Send(ctx context.Context, destination, text string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, Sent{Destination: destination, Text: text})
	return WhatsAppLink(destination, text), nil
}

// Messages returns a copy of what was recorded.
func (r *Recorder) Messages() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sent(nil), r.Sent...)
}
