package receipt

import (
	"errors"
	"time"

	"flowershop/internal/domain"
)

// ErrUnsupported is returned by PDF when PDF output is disabled for this process.
var ErrUnsupported = errors.New("receipt: pdf rendering unsupported")

// Renderer turns resolved orders into HTML and PDF receipts.
type Renderer struct {
	store       Store
	pdf         bool
	compressPDF bool
	now         func() time.Time
}

type Option func(*Renderer)

// WithClock overrides the time source used for orders without a creation time.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithoutPDFCompression writes plain PDF content streams.
func WithoutPDFCompression() Option {
	return func(r *Renderer) { r.compressPDF = false }
}

// NewRenderer builds a Renderer. pdfSupported is resolved once at startup.
func NewRenderer(store Store, pdfSupported bool, opts ...Option) *Renderer {
	if store.Name == "" {
		store = DefaultStore
	}
	r := &Renderer{
		store:       store,
		pdf:         pdfSupported,
		compressPDF: true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PDFSupported reports whether PDF returns documents instead of ErrUnsupported.
func (r *Renderer) PDFSupported() bool {
	return r.pdf
}

// Document builds the shared receipt content for an order.
func (r *Renderer) Document(order domain.Order) Document {
	return Build(r.store, order, r.now())
}
