package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"nextdocs/src/core/search"
)

// Search handles GET /api/v1/search?q=...&limit=...&offset=...&types=a,b&category=...&tags=x,y
func (h *Handler) Search(c *gin.Context) {
	opts, err := parseSearchOptions(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	resp, err := h.searchService.SearchContent(c.Request.Context(), c.Query("q"), opts)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, resp)
}

// Suggestions handles GET /api/v1/search/suggestions?q=...&limit=...
func (h *Handler) Suggestions(c *gin.Context) {
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	titles, err := h.searchService.GetSearchSuggestions(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, titles)
}

// CheckHealth handles GET /api/v1/health
func (h *Handler) CheckHealth(c *gin.Context) {
	health := h.sysService.CheckHealth(c.Request.Context())

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	sendJSON(c, status, health)
}

func parseSearchOptions(c *gin.Context) (search.Options, error) {
	var opts search.Options
	var err error

	if opts.Limit, err = intQuery(c, "limit", 0); err != nil {
		return opts, err
	}
	if opts.Offset, err = intQuery(c, "offset", 0); err != nil {
		return opts, err
	}
	if opts.Types, err = search.ParseTypes(csvQuery(c, "types")); err != nil {
		return opts, err
	}
	opts.Category = c.Query("category")
	opts.Tags = csvQuery(c, "tags")
	return opts, nil
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s parameter: %q", name, raw)
	}
	return v, nil
}

func csvQuery(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
