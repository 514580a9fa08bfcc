package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-composer-service/internal/model"
	"github.com/ridwanfathin/invoice-composer-service/internal/service"
)

// maxRenderBody bounds the JSON accepted by the render endpoint, logo included
const maxRenderBody = 8 << 20

// DocumentHandler handles HTTP requests for invoice documents
type DocumentHandler struct {
	documents service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// RegisterRoutes registers the handler's routes. Rendering routes are behind auth.
func (h *DocumentHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	router.GET("/v1/invoices/themes", h.ListThemes)

	protected := router.Group("/v1/invoices", auth)
	protected.GET("/:invoiceId/pdf", h.DownloadInvoice)
	protected.POST("/render", h.RenderInvoice)
}

// DownloadInvoice renders a stored invoice as PDF
// @Summary Download an invoice PDF
// @Description Render a stored invoice with the selected theme
// @Tags invoices
// @Produce application/pdf
// @Param invoiceId path string true "Invoice ID"
// @Param theme query string false "Theme: plain, clean or blue"
// @Param disposition query string false "attachment (default) or inline"
// @Success 200 {file} file "PDF document"
// @Failure 400 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 404 {object} model.ErrorResponse "Invoice not found"
// @Failure 422 {object} model.ErrorResponse "Invoice is missing required data"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/invoices/{invoiceId}/pdf [get]
func (h *DocumentHandler) DownloadInvoice(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, ErrNotAuthenticated)
		return
	}

	invoiceID, err := getPathParam(c, "invoiceId")
	if err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("invoiceId", err.Error()))
		return
	}

	inline, err := parseDisposition(c.Query("disposition"))
	if err != nil {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("disposition", err.Error()))
		return
	}

	doc, err := h.documents.RenderInvoice(c.Request.Context(), invoiceID, userID, service.RenderOptions{Theme: c.Query("theme")})
	if err != nil {
		respondServiceError(c, "render_invoice", err)
		return
	}

	writeDocumentHeaders(c, doc)
	respondPDF(c, doc.Filename, doc.Data, inline)
}

// RenderInvoice renders a caller-supplied invoice as PDF
// @Summary Render an invoice PDF
// @Description Render an invoice record posted as JSON without storing it
// @Tags invoices
// @Accept json
// @Produce application/pdf
// @Param invoice body model.InvoiceDocumentRequest true "Invoice record"
// @Param theme query string false "Theme: plain, clean or blue"
// @Param disposition query string false "attachment (default) or inline"
// @Success 200 {file} file "PDF document"
// @Failure 400 {object} model.ErrorResponse "Invalid input format"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 422 {object} model.ErrorResponse "Invoice is missing required data"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/invoices/render [post]
func (h *DocumentHandler) RenderInvoice(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, ErrNotAuthenticated)
		return
	}

	inline, err := parseDisposition(c.Query("disposition"))
	if err != nil {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("disposition", err.Error()))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRenderBody)
	var req model.InvoiceDocumentRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput, newErrorDetail("body", err.Error()))
		return
	}

	doc, err := req.ToDomain()
	if err != nil {
		respondBadRequest(c, ErrInvalidInput, newErrorDetail("issuer.logoBase64", err.Error()))
		return
	}

	rendered, err := h.documents.RenderDocument(c.Request.Context(), doc, userID, service.RenderOptions{Theme: c.Query("theme")})
	if err != nil {
		respondServiceError(c, "render_document", err)
		return
	}

	writeDocumentHeaders(c, rendered)
	respondPDF(c, rendered.Filename, rendered.Data, inline)
}

// ListThemes lists the available themes
// @Summary List document themes
// @Tags invoices
// @Produce json
// @Success 200 {object} model.ThemesResponse "Available themes"
// @Router /v1/invoices/themes [get]
func (h *DocumentHandler) ListThemes(c *gin.Context) {
	def, names := h.documents.Themes()
	respondOK(c, model.ThemesResponse{Default: def, Themes: names})
}

func writeDocumentHeaders(c *gin.Context, doc *service.RenderedDocument) {
	c.Header("X-Document-Pages", strconv.Itoa(doc.Pages))
	c.Header("X-Document-Theme", doc.Theme)
	if doc.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	if doc.ArchiveURL != "" {
		c.Header("X-Archive-URL", doc.ArchiveURL)
	}
}
