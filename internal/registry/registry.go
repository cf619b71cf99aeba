package registry

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a document ID has no registry entry.
var ErrNotFound = errors.New("document not found")

// StatusProcessed is the only status a registered document can have:
// a document is inserted only after its full processing chain succeeded.
const StatusProcessed = "processed"

// Document is a fully processed upload tracked for the lifetime of the
// process. The document ID doubles as the handle to its vector index state.
type Document struct {
	ID         string
	Name       string // original filename, untrusted
	StoredPath string // raw file location on local disk
	UploadDate time.Time
	WordCount  int
	Size       string // human label, e.g. "12.40 KB"
	Status     string
	FullText   string // extracted text kept in memory for analysis
}

// Meta is the JSON view of a Document, without the full text.
type Meta struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UploadDate string `json:"upload_date"`
	WordCount  int    `json:"word_count"`
	Size       string `json:"size"`
	Status     string `json:"status"`
}

// Meta returns the metadata view of the document.
func (d *Document) Meta() Meta {
	return Meta{
		ID:         d.ID,
		Name:       d.Name,
		UploadDate: d.UploadDate.Format(time.RFC3339),
		WordCount:  d.WordCount,
		Size:       d.Size,
		Status:     d.Status,
	}
}

// Registry is an in-memory, insertion-ordered document store. It is safe
// for concurrent use. State does not survive a process restart.
type Registry struct {
	mu    sync.RWMutex
	docs  map[string]*Document
	order []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		docs: make(map[string]*Document),
	}
}

// Insert adds a document. An existing entry with the same ID is replaced
// but keeps its original position.
func (r *Registry) Insert(doc *Document) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.ID]; !ok {
		r.order = append(r.order, doc.ID)
	}
	r.docs[doc.ID] = doc
}

// Get returns the document with the given ID, or ErrNotFound.
func (r *Registry) Get(id string) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

// List returns all documents in insertion order.
func (r *Registry) List() []*Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*Document, 0, len(r.order))
	for _, id := range r.order {
		docs = append(docs, r.docs[id])
	}
	return docs
}

// Remove deletes the document with the given ID, or returns ErrNotFound.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	delete(r.docs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
