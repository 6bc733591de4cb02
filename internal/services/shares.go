package services

import (
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"exporthub/internal/cache"
	"exporthub/internal/export"
)

// DefaultShareBaseURL prefixes every share link unless configured otherwise.
const DefaultShareBaseURL = "https://expenses.app"

const qrSize = 256

// ShareLink is a generated link to a shared artifact and its QR code.
type ShareLink struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	QRCodePNG []byte `json:"qrCodePng"`
}

// ShareRegistry keeps recently shared artifacts in memory so they can be
// served locally. Nothing is published remotely; entries expire with the
// cache TTL.
type ShareRegistry struct {
	baseURL string
	cache   *cache.LRUCache[export.Artifact]
	newID   IDSource
}

func NewShareRegistry(baseURL string, maxEntries int, ttl time.Duration, ids IDSource) *ShareRegistry {
	if baseURL == "" {
		baseURL = DefaultShareBaseURL
	}
	if ids == nil {
		ids = NewShareID
	}
	return &ShareRegistry{
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache.NewLRUCache[export.Artifact](maxEntries, ttl),
		newID:   ids,
	}
}

// Cache exposes the backing cache so it can be registered for cleanup.
func (r *ShareRegistry) Cache() *cache.LRUCache[export.Artifact] {
	return r.cache
}

// URLFor builds the fixed-pattern share URL for an id.
func (r *ShareRegistry) URLFor(id string) string {
	return r.baseURL + "/shared/" + id
}

// Create registers the artifact under a fresh id and encodes its URL as a QR
// code.
func (r *ShareRegistry) Create(art export.Artifact) (ShareLink, error) {
	id := r.newID()
	url := r.URLFor(id)
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return ShareLink{}, fmt.Errorf("encode share qr code: %w", err)
	}
	r.cache.Set(id, art)
	return ShareLink{ID: id, URL: url, QRCodePNG: png}, nil
}

func (r *ShareRegistry) Lookup(id string) (export.Artifact, error) {
	art, ok := r.cache.Get(id)
	if !ok {
		return export.Artifact{}, fmt.Errorf("share %s: %w", id, ErrShareNotFound)
	}
	return art, nil
}
