package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ridwanfathin/invoice-composer-service/internal/cache"
	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/metrics"
	"github.com/ridwanfathin/invoice-composer-service/internal/pdf"
	"github.com/ridwanfathin/invoice-composer-service/internal/repository"
	"github.com/ridwanfathin/invoice-composer-service/internal/storage"
)

// Archiver stores rendered documents and returns where they can be fetched
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte) (string, error)
}

// RenderOptions selects per-request rendering variants
type RenderOptions struct {
	Theme string // empty for the configured default
}

// RenderedDocument is a finished PDF
type RenderedDocument struct {
	Filename   string
	Data       []byte
	Pages      int
	Theme      string
	ArchiveURL string
	Cached     bool
}

// DocumentService defines the interface for invoice rendering
type DocumentService interface {
	// RenderInvoice renders a stored invoice owned by userID
	RenderInvoice(ctx context.Context, invoiceID, userID string, opts RenderOptions) (*RenderedDocument, error)

	// RenderDocument renders a caller-supplied record without storing it
	RenderDocument(ctx context.Context, doc *domain.InvoiceDocument, userID string, opts RenderOptions) (*RenderedDocument, error)

	// Themes returns the default theme and every available theme
	Themes() (string, []string)
}

// DocumentServiceConfig holds the optional collaborators of the document service
type DocumentServiceConfig struct {
	Cache      cache.DocumentCache // nil disables caching
	CacheTTL   time.Duration
	Archive    Archiver // nil disables archiving
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Clock      func() time.Time
	MaxWorkers int
}

// DocumentServiceImpl implements the DocumentService interface
type DocumentServiceImpl struct {
	repository repository.InvoiceRepository
	composer   *pdf.Composer
	cache      cache.DocumentCache
	cacheTTL   time.Duration
	archive    Archiver
	metrics    *metrics.Metrics
	logger     *slog.Logger
	clock      func() time.Time
	workerPool chan struct{}
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(repo repository.InvoiceRepository, composer *pdf.Composer, config DocumentServiceConfig) *DocumentServiceImpl {
	if config.Cache == nil {
		config.Cache = cache.Noop{}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 1
	}

	return &DocumentServiceImpl{
		repository: repo,
		composer:   composer,
		cache:      config.Cache,
		cacheTTL:   config.CacheTTL,
		archive:    config.Archive,
		metrics:    config.Metrics,
		logger:     config.Logger,
		clock:      config.Clock,
		workerPool: make(chan struct{}, config.MaxWorkers),
	}
}

// RenderInvoice loads the invoice and renders it
func (s *DocumentServiceImpl) RenderInvoice(ctx context.Context, invoiceID, userID string, opts RenderOptions) (*RenderedDocument, error) {
	doc, err := s.repository.GetInvoiceDocument(ctx, invoiceID, userID)
	if err != nil {
		return nil, &ServiceError{
			Op:  "get_invoice_document",
			Err: err,
		}
	}
	return s.render(ctx, invoiceID, doc, userID, opts)
}

// RenderDocument renders doc as supplied
func (s *DocumentServiceImpl) RenderDocument(ctx context.Context, doc *domain.InvoiceDocument, userID string, opts RenderOptions) (*RenderedDocument, error) {
	if doc == nil {
		return nil, &ServiceError{
			Op:  "render_document",
			Err: &domain.MissingInvoiceDataError{Fields: []string{"invoice"}},
		}
	}
	return s.render(ctx, "adhoc", doc, userID, opts)
}

// Themes returns the default theme and every available theme
func (s *DocumentServiceImpl) Themes() (string, []string) {
	return s.composer.Theme().Name, pdf.ThemeNames()
}

func (s *DocumentServiceImpl) render(ctx context.Context, cacheID string, doc *domain.InvoiceDocument, userID string, opts RenderOptions) (*RenderedDocument, error) {
	composer, err := s.composer.WithTheme(opts.Theme)
	if err != nil {
		return nil, &ServiceError{
			Op:  "select_theme",
			Err: err,
		}
	}
	theme := composer.Theme().Name
	filename := Filename(doc.InvoiceNumber)

	key, keyErr := cache.DocumentKey(cacheID, theme, struct {
		Owner   string
		Options pdf.Options
		Doc     *domain.InvoiceDocument
		Logo    []byte
	}{userID, composer.Options(), doc, doc.Issuer.Logo})
	if keyErr == nil {
		if data, pages, ok := s.lookup(ctx, key); ok {
			return &RenderedDocument{Filename: filename, Data: data, Pages: pages, Theme: theme, Cached: true}, nil
		}
	}

	// Acquire worker from pool
	select {
	case s.workerPool <- struct{}{}:
		defer func() {
			// Release worker back to pool
			<-s.workerPool
		}()
	case <-ctx.Done():
		return nil, &ServiceError{
			Op:  "acquire_worker",
			Err: ctx.Err(),
		}
	}

	start := time.Now()
	layout, err := composer.Compose(doc, s.clock())
	if err != nil {
		s.metrics.ObserveRender(theme, outcome(err), 0, 0)
		return nil, &ServiceError{
			Op:  "compose_invoice",
			Err: err,
		}
	}
	data, err := composer.Render(layout)
	if err != nil {
		s.metrics.ObserveRender(theme, "error", 0, 0)
		return nil, &ServiceError{
			Op:  "render_invoice",
			Err: err,
		}
	}
	elapsed := time.Since(start)
	s.metrics.ObserveRender(theme, "ok", layout.PageCount(), elapsed)

	rendered := &RenderedDocument{
		Filename: filename,
		Data:     data,
		Pages:    layout.PageCount(),
		Theme:    theme,
	}

	if keyErr == nil {
		if err := s.cache.Set(ctx, key, encodeCached(rendered.Pages, data), s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "document cache write failed", "error", err)
		}
	}

	if s.archive != nil {
		url, err := s.archive.Archive(ctx, storage.ObjectKey(userID, doc.InvoiceNumber, s.clock()), data)
		s.metrics.ObserveArchive(err)
		if err != nil {
			s.logger.WarnContext(ctx, "document archive failed", "invoice", doc.InvoiceNumber, "error", err)
		} else {
			rendered.ArchiveURL = url
		}
	}

	s.logger.InfoContext(ctx, "invoice rendered",
		"invoice", doc.InvoiceNumber,
		"theme", theme,
		"pages", rendered.Pages,
		"bytes", len(data),
		"duration", elapsed,
	)
	return rendered, nil
}

func (s *DocumentServiceImpl) lookup(ctx context.Context, key string) ([]byte, int, bool) {
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "document cache read failed", "error", err)
		return nil, 0, false
	}
	if found {
		if pages, data, ok := decodeCached(raw); ok {
			s.metrics.ObserveCache(true)
			return data, pages, true
		}
	}
	s.metrics.ObserveCache(false)
	return nil, 0, false
}

func outcome(err error) string {
	var missing *domain.MissingInvoiceDataError
	var invalid *domain.InvalidNumericInputError
	if errors.As(err, &missing) || errors.As(err, &invalid) {
		return "invalid"
	}
	return "error"
}

// cached entries are "<pages>\n<pdf bytes>"
func encodeCached(pages int, data []byte) []byte {
	out := make([]byte, 0, len(data)+4)
	out = strconv.AppendInt(out, int64(pages), 10)
	out = append(out, '\n')
	return append(out, data...)
}

func decodeCached(raw []byte) (int, []byte, bool) {
	i := bytes.IndexByte(raw, '\n')
	if i <= 0 {
		return 0, nil, false
	}
	pages, err := strconv.Atoi(string(raw[:i]))
	if err != nil || pages <= 0 {
		return 0, nil, false
	}
	return pages, raw[i+1:], true
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename is the download name of an invoice PDF
func Filename(invoiceNumber string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(invoiceNumber, "-"), "-.")
	if name == "" {
		return "invoice.pdf"
	}
	return "invoice-" + name + ".pdf"
}
