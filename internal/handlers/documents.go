package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"societydocs/api/internal/middleware"
	"societydocs/api/internal/models"
	"societydocs/api/internal/service"
)

type documentResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	DocumentType string     `json:"documentType"`
	Description  *string    `json:"description"`
	Shareholding *string    `json:"shareholding"`
	FileName     string     `json:"fileName"`
	SizeBytes    int64      `json:"sizeBytes"`
	MimeType     string     `json:"mimeType"`
	Status       string     `json:"status"`
	IsSuperseded bool       `json:"isSuperseded"`
	SupersededAt *time.Time `json:"supersededAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toDocumentResponse(doc models.Document) documentResponse {
	return documentResponse{
		ID:           doc.ID,
		Title:        doc.Title,
		DocumentType: string(doc.DocumentType),
		Description:  doc.Description,
		Shareholding: doc.Shareholding,
		FileName:     doc.FileName,
		SizeBytes:    doc.SizeBytes,
		MimeType:     doc.MimeType,
		Status:       string(doc.Status),
		IsSuperseded: doc.IsSuperseded,
		SupersededAt: doc.SupersededAt,
		CreatedAt:    doc.CreatedAt,
	}
}

func (h HandlerSet) UploadDocument(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_file"})
		return
	}

	doc, err := h.documents.Upload(c.Request.Context(), service.UploadInput{
		OwnerID:      user.ID,
		Title:        c.PostForm("title"),
		DocumentType: c.PostForm("documentType"),
		Description:  c.PostForm("description"),
		Shareholding: c.PostForm("shareholding"),
		FileName:     header.Filename,
		Data:         data,
	})
	if err != nil {
		h.error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": toDocumentResponse(doc)})
}

func (h HandlerSet) ListDocuments(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	filter := models.DocumentFilter{
		Type:   models.DocumentType(c.Query("type")),
		Status: models.DocumentStatus(c.Query("status")),
	}

	docs, err := h.documents.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		h.error(c, err)
		return
	}

	resp := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toDocumentResponse(doc))
	}

	c.JSON(http.StatusOK, gin.H{"documents": resp})
}

func (h HandlerSet) GetDocument(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": toDocumentResponse(doc)})
}

// ViewDocument streams the current PDF bytes inline.
func (h HandlerSet) ViewDocument(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	doc, rc, err := h.documents.Open(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.FileName))
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Error().Err(err).Str("document_id", doc.ID).Msg("stream document failed")
	}
}

func (h HandlerSet) SupersedeDocument(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	doc, err := h.documents.Supersede(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "document superseded",
		"document": toDocumentResponse(doc),
	})
}

func (h HandlerSet) DeleteDocument(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	if err := h.documents.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		h.error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}
