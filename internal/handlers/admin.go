package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) AdminListDocuments(c *gin.Context) {
	limit := 50
	offset := 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}

	docs, err := h.documents.AdminList(c.Request.Context(), limit, offset)
	if err != nil {
		h.error(c, err)
		return
	}

	items := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		items = append(items, map[string]interface{}{
			"id":           doc.ID,
			"userId":       doc.UserID,
			"title":        doc.Title,
			"documentType": doc.DocumentType,
			"status":       doc.Status,
			"sizeBytes":    doc.SizeBytes,
			"isSuperseded": doc.IsSuperseded,
			"createdAt":    doc.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
