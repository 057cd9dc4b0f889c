package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"dealer-console/internal/domain"
	"dealer-console/internal/infra"

	"github.com/gin-gonic/gin"
)

const maxImportSize = 10 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ListUsers(c *gin.Context) {
	var q UserListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	users, err := h.users.List(c.Request.Context(), capabilities(c), infra.UserFilter{Role: q.Role, Status: q.Status})
	if users == nil && err == nil {
		users = []domain.User{}
	}
	respond(c, http.StatusOK, users, err)
}

// BulkUpdateUserStatus answers 207 when only part of the batch succeeded; the
// body carries the per-user results and the re-fetched list either way.
func (h *Handler) BulkUpdateUserStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.users.BulkUpdateStatus(c.Request.Context(), capabilities(c), req.UserIDs, req.Status)
	respond(c, http.StatusOK, res, err)
}

func (h *Handler) ImportUsers(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, fmt.Errorf("file is required: %w", err))
		return
	}
	if fh.Size > maxImportSize {
		badRequest(c, fmt.Errorf("file exceeds %d MB", maxImportSize>>20))
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.users.ImportUsers(c.Request.Context(), capabilities(c), fh.Filename, content)
	respond(c, http.StatusOK, res, err)
}

func (h *Handler) ExportUsers(c *gin.Context) {
	blob, err := h.users.ExportUsers(c.Request.Context(), capabilities(c))
	if err != nil {
		respond(c, http.StatusOK, nil, err)
		return
	}
	name := fmt.Sprintf("users-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, blob)
}
