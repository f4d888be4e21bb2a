// Package handler is the HTTP layer. Handlers parse requests, call
// services, and translate service errors into status codes; no business
// logic lives here.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NtshVrm/VYSONM2A2/internal/middleware"
	"github.com/NtshVrm/VYSONM2A2/internal/models"
	"github.com/NtshVrm/VYSONM2A2/internal/service"
)

// LinkHandler handles link endpoints.
type LinkHandler struct {
	links *service.LinkService
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(links *service.LinkService) *LinkHandler {
	return &LinkHandler{links: links}
}

// Shorten handles POST /shorten.
//
// Request:
//
//	{
//	  "long_url": "https://example.com/very/long/url",
//	  "custom_code": "mylink",               // optional
//	  "expiry_date": "2026-01-01T00:00:00Z", // optional
//	  "password": "hunter2"                  // optional
//	}
//
// Responds 201 with {short_code, expiry_date}. A taken custom code is a
// 400, same as any other rejected input.
func (h *LinkHandler) Shorten(c *gin.Context) {
	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Code:    models.ErrCodeInvalidInput,
			Details: err.Error(),
		})
		return
	}

	caller := middleware.GetUserFromContext(c)
	resp, err := h.links.Create(c.Request.Context(), req, caller)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ShortenBulk handles POST /shorten/bulk. Enterprise tier only; items
// succeed or fail independently and the batch reports both.
func (h *LinkHandler) ShortenBulk(c *gin.Context) {
	var req models.BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Code:    models.ErrCodeInvalidInput,
			Details: err.Error(),
		})
		return
	}

	caller := middleware.GetUserFromContext(c)
	resp, err := h.links.CreateBulk(c.Request.Context(), req, caller)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Redirect handles GET /redirect?code=<shortCode>[&password=...].
// Responds 302 with the original URL in Location. Missing and deleted
// codes are 404, expired ones 410.
func (h *LinkHandler) Redirect(c *gin.Context) {
	shortCode := c.Query("code")

	// X-Password keeps the secret out of access logs; the query form is
	// kept for plain-browser use.
	password := c.GetHeader("X-Password")
	if password == "" {
		password = c.Query("password")
	}

	caller := middleware.GetUserFromContext(c)
	link, err := h.links.Resolve(c.Request.Context(), shortCode, password, caller)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Redirect(http.StatusFound, link.OriginalURL)
}

// Delete handles DELETE /delete with body {"short_code": "..."}.
func (h *LinkHandler) Delete(c *gin.Context) {
	var req models.DeleteLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Code:    models.ErrCodeInvalidInput,
			Details: err.Error(),
		})
		return
	}

	caller := middleware.GetUserFromContext(c)
	if err := h.links.Delete(c.Request.Context(), req.ShortCode, caller); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s deleted successfully!", req.ShortCode),
	})
}

// UpdateExpiry handles PUT /code/:shortCode with body {"expiry_date":
// "..."}. The link keeps its id and short code. An unknown code is a 400
// on this route.
func (h *LinkHandler) UpdateExpiry(c *gin.Context) {
	shortCode := c.Param("shortCode")

	var req models.UpdateExpiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Code:    models.ErrCodeInvalidInput,
			Details: err.Error(),
		})
		return
	}

	caller := middleware.GetUserFromContext(c)
	resp, err := h.links.UpdateExpiry(c.Request.Context(), shortCode, req, caller)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "no link with that short code",
				Code:  models.ErrCodeInvalidInput,
			})
			return
		}
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Lookup handles GET /lookup?url=<originalURL>. Responds 200 with the
// caller's existing short code for the URL, or a null short_code. With
// ?code= instead, reports whether that short code is taken, so clients
// can probe custom-code availability before shortening.
func (h *LinkHandler) Lookup(c *gin.Context) {
	if code := c.Query("code"); code != "" {
		exists, err := h.links.CheckCustomCodeExists(c.Request.Context(), code)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"exists": exists})
		return
	}

	originalURL := c.Query("url")

	caller := middleware.GetUserFromContext(c)
	resp, err := h.links.CheckExists(c.Request.Context(), originalURL, caller)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListAll handles GET /all.
func (h *LinkHandler) ListAll(c *gin.Context) {
	links, err := h.links.ListAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// handleError maps service errors to HTTP statuses. The cases mirror the
// service sentinel set; anything unclassified is a 500.
func (h *LinkHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: err.Error(),
			Code:  models.ErrCodeInvalidInput,
		})

	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "short code already taken",
			Code:  models.ErrCodeConflict,
		})

	case errors.Is(err, service.ErrBulkNotAllowed):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: err.Error(),
			Code:  models.ErrCodeForbidden,
		})

	case errors.Is(err, service.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "incorrect password",
			Code:  models.ErrCodeUnauthorized,
		})

	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "link not found",
			Code:  models.ErrCodeNotFound,
		})

	case errors.Is(err, service.ErrExpired):
		c.JSON(http.StatusGone, models.ErrorResponse{
			Error: "link has expired",
			Code:  models.ErrCodeExpired,
		})

	case errors.Is(err, service.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: "store unavailable",
			Code:  models.ErrCodeUnavailable,
		})

	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "internal server error",
			Code:  models.ErrCodeInternalError,
		})
	}
}
