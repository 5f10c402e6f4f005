package catalog

import (
	"sync/atomic"

	"github.com/starford/folio/internal/models"
)

// Holder publishes the current catalog document. Readers always see a
// complete Store; reloads replace it wholesale.
type Holder struct {
	doc atomic.Pointer[Document]
}

// NewHolder returns a Holder serving doc.
func NewHolder(doc *Document) *Holder {
	h := &Holder{}
	h.doc.Store(doc)
	return h
}

// Store returns the current catalog store.
func (h *Holder) Store() *Store {
	return h.doc.Load().Store
}

// Profile returns the current profile.
func (h *Holder) Profile() models.Profile {
	return h.doc.Load().Profile
}

// Swap replaces the current document.
func (h *Holder) Swap(doc *Document) {
	h.doc.Store(doc)
}
