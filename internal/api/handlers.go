package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/groupdir/internal/directory"
	"github.com/mmynk/groupdir/internal/models"
	"github.com/mmynk/groupdir/internal/validation"
)

const (
	msgNotFound      = "Group not found"
	msgInvalidID     = "Invalid group ID"
	msgInvalidLimit  = "Invalid limit parameter"
	msgEmptyQuery    = "Search query is required"
	msgInvalidBody   = "Invalid request body"
	msgInvalidGroup  = "Invalid group data"
	msgInvalidInvite = "Invalid WhatsApp group link"
)

// GroupHandler serves the group directory endpoints.
type GroupHandler struct {
	dir *directory.Service
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(dir *directory.Service) *GroupHandler {
	return &GroupHandler{dir: dir}
}

// List returns every group.
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.dir.All(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to fetch groups", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// Featured returns featured groups ordered by rank.
func (h *GroupHandler) Featured(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	groups, err := h.dir.Featured(c.Request.Context(), limit)
	if err != nil {
		internalError(c, "Failed to fetch featured groups", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// Recent returns the newest groups.
func (h *GroupHandler) Recent(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	groups, err := h.dir.Recent(c.Request.Context(), limit)
	if err != nil {
		internalError(c, "Failed to fetch recent groups", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// Get returns one group by ID.
func (h *GroupHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidID})
		return
	}

	group, err := h.dir.Get(c.Request.Context(), id)
	if err != nil {
		internalError(c, "Failed to fetch group", err)
		return
	}
	if group == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, group)
}

// Create validates and stores a submitted group.
func (h *GroupHandler) Create(c *gin.Context) {
	var in models.GroupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return
	}

	group, err := h.dir.Submit(c.Request.Context(), in)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidGroup, "errors": verr.Fields})
			return
		}
		internalError(c, "Failed to create group", err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// Categories returns the category catalog.
func (h *GroupHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, models.Categories)
}

// ByCategory returns the groups in a category.
func (h *GroupHandler) ByCategory(c *gin.Context) {
	groups, err := h.dir.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		internalError(c, "Failed to fetch groups by category", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// Countries returns the country catalog.
func (h *GroupHandler) Countries(c *gin.Context) {
	c.JSON(http.StatusOK, models.Countries)
}

// ByCountry returns the groups in a country.
func (h *GroupHandler) ByCountry(c *gin.Context) {
	groups, err := h.dir.ByCountry(c.Request.Context(), c.Param("country"))
	if err != nil {
		internalError(c, "Failed to fetch groups by country", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// Search matches q against group text, optionally narrowed by category and
// country query parameters.
func (h *GroupHandler) Search(c *gin.Context) {
	groups, err := h.dir.Search(c.Request.Context(), c.Query("q"), c.Query("category"), c.Query("country"))
	if err != nil {
		if errors.Is(err, directory.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgEmptyQuery})
			return
		}
		internalError(c, "Failed to search groups", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

type previewRequest struct {
	URL string `json:"url" binding:"required"`
}

// Preview returns the placeholder card for a WhatsApp invite link.
func (h *GroupHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInvite})
		return
	}

	preview, err := directory.Preview(req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInvite})
		return
	}
	c.JSON(http.StatusOK, preview)
}

func healthz(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				slog.Error("Health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// queryLimit parses the optional limit parameter. It writes a 400 and
// returns false when the value is not a non-negative integer.
func queryLimit(c *gin.Context) (*int, bool) {
	raw, present := c.GetQuery("limit")
	if !present || strings.TrimSpace(raw) == "" {
		return nil, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidLimit})
		return nil, false
	}
	return &n, true
}

func internalError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": message})
}
