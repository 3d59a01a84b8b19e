// Package receipt builds, stores and serves order receipts.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"

	"flowershop/internal/artifact"
	"flowershop/internal/domain"
	receiptrender "flowershop/internal/receipt"

	"golang.org/x/sync/singleflight"
)

const (
	htmlFileName = "receipt.html"
	pdfFileName  = "receipt.pdf"
)

type OrderStore interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateReceipt(ctx context.Context, id, pointer, html string) error
}

type Resolver interface {
	Order(ctx context.Context, o *domain.Order) error
}

type Renderer interface {
	HTML(order domain.Order) (string, error)
	PDF(order domain.Order) ([]byte, error)
	PDFSupported() bool
}

type FileStore interface {
	WriteFile(id, name string, data []byte) (string, error)
	ReadFile(pointer string) ([]byte, error)
}

// Artifact is the outcome of BuildAndStoreArtifact.
type Artifact struct {
	// Pointer is the PDF URL when one was written, else the HTML URL. Empty when nothing was stored.
	Pointer string
	HTML    string
}

// Service is the receipt store.
type Service struct {
	orders   OrderStore
	resolver Resolver
	renderer Renderer
	files    FileStore
	logger   *log.Logger
	builds   singleflight.Group
}

func New(orders OrderStore, resolver Resolver, renderer Renderer, files FileStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders:   orders,
		resolver: resolver,
		renderer: renderer,
		files:    files,
		logger:   logger,
	}
}

// GetOrBuildHTML returns the receipt HTML for an order, rendering and caching it when needed.
// Cache writes are best-effort. Concurrent calls for one order share a single build.
func (s *Service) GetOrBuildHTML(ctx context.Context, orderID string) (string, error) {
	// The build is shared, so one caller's cancellation must not fail the others.
	buildCtx := context.WithoutCancel(ctx)
	v, err, _ := s.builds.Do(orderID, func() (interface{}, error) {
		return s.getOrBuildHTML(buildCtx, orderID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Service) getOrBuildHTML(ctx context.Context, orderID string) (string, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}

	if o.ReceiptHTML != "" {
		if strings.Contains(o.ReceiptHTML, receiptrender.Marker) {
			return o.ReceiptHTML, nil
		}
		s.logger.Printf("receipt store: stale cached html, re-rendering order_id=%s", orderID)
		return s.renderAndCache(ctx, o)
	}

	if isHTMLPointer(o.Receipt) {
		data, err := s.files.ReadFile(o.Receipt)
		if err == nil {
			html := string(data)
			s.cache(ctx, orderID, html)
			return html, nil
		}
		s.logger.Printf("receipt store: read artifact order_id=%s pointer=%s error=%v", orderID, o.Receipt, err)
	}

	return s.renderAndCache(ctx, o)
}

func (s *Service) renderAndCache(ctx context.Context, o *domain.Order) (string, error) {
	if err := s.resolver.Order(ctx, o); err != nil {
		s.logger.Printf("receipt store: resolve order_id=%s error=%v", o.ID, err)
	}
	html, err := s.renderer.HTML(*o)
	if err != nil {
		return "", err
	}
	s.cache(ctx, o.ID, html)
	return html, nil
}

func (s *Service) cache(ctx context.Context, orderID, html string) {
	if err := s.orders.UpdateReceipt(ctx, orderID, "", html); err != nil {
		s.logger.Printf("receipt store: cache html order_id=%s error=%v", orderID, err)
	}
}

// BuildAndStoreArtifact renders the resolved order to HTML (and PDF when supported) and writes
// the files under the receipts directory. A failed PDF falls back to the HTML pointer.
// When the directory cannot be created it returns artifact.ErrUnavailable with the rendered HTML.
func (s *Service) BuildAndStoreArtifact(ctx context.Context, order domain.Order) (Artifact, error) {
	html, err := s.renderer.HTML(order)
	if err != nil {
		return Artifact{}, err
	}
	out := Artifact{HTML: html}

	htmlPtr, err := s.files.WriteFile(order.ID, htmlFileName, []byte(html))
	if err != nil {
		if errors.Is(err, artifact.ErrUnavailable) {
			return out, err
		}
		return out, fmt.Errorf("write receipt html order_id=%s: %w", order.ID, err)
	}
	out.Pointer = htmlPtr

	if !s.renderer.PDFSupported() {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return out, nil
	}
	pdf, err := s.renderer.PDF(order)
	if err != nil {
		s.logger.Printf("receipt store: render pdf order_id=%s error=%v", order.ID, err)
		return out, nil
	}
	pdfPtr, err := s.files.WriteFile(order.ID, pdfFileName, pdf)
	if err != nil {
		s.logger.Printf("receipt store: write pdf order_id=%s error=%v", order.ID, err)
		return out, nil
	}
	out.Pointer = pdfPtr
	return out, nil
}

func isHTMLPointer(pointer string) bool {
	if pointer == "" {
		return false
	}
	p := pointer
	if u, err := url.Parse(pointer); err == nil {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".html", ".htm":
		return true
	}
	return false
}
