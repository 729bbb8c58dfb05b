// Package mockbackend is a stand-in for the document assistant backend. It
// serves the same five endpoints with the same payloads and error bodies,
// answering questions from the uploaded text instead of an LLM.
package mockbackend

import (
	"doc-chat/domain"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const (
	Model            = "mock-llm"
	uploadDateLayout = "2006-01-02T15:04:05.000000"
)

type queryRequest struct {
	DocumentID  string   `json:"document_id" binding:"required"`
	Question    string   `json:"question" binding:"required"`
	Temperature *float64 `json:"temperature" binding:"omitempty,gte=0,lte=2"`
}

type Server struct {
	store       *store
	log         *slog.Logger
	maxFileSize int64
}

func NewServer(log *slog.Logger, maxFileSize int64) *Server {
	if maxFileSize <= 0 {
		maxFileSize = domain.MaxFileSize
	}
	return &Server{store: newStore(), log: log, maxFileSize: maxFileSize}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", s.health)
	router.POST("/upload", s.upload)
	router.POST("/query", s.query)
	router.GET("/documents", s.listDocuments)
	router.DELETE("/document/:id", s.deleteDocument)
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("Mock backend request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}

func detail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": message})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil || header.Filename == "" {
		detail(c, http.StatusBadRequest, "No file provided")
		return
	}
	if !domain.IsAllowedExtension(header.Filename) {
		detail(c, http.StatusBadRequest, fmt.Sprintf("File type not allowed. Allowed: %s",
			strings.Join(domain.AllowedExtensions, ", ")))
		return
	}
	if header.Size > s.maxFileSize {
		detail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Max size: %d bytes", s.maxFileSize))
		return
	}

	file, err := header.Open()
	if err != nil {
		detail(c, http.StatusInternalServerError, fmt.Sprintf("Upload failed: %v", err))
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		detail(c, http.StatusInternalServerError, fmt.Sprintf("Upload failed: %v", err))
		return
	}

	content := ""
	if domain.Extension(header.Filename) == ".txt" {
		content = string(raw)
	}
	doc := s.store.add(header.Filename, content, int64(len(raw)))
	s.log.Info("Mock document stored", "document_id", doc.ID, "filename", doc.Filename, "size", doc.Size)

	c.JSON(http.StatusOK, gin.H{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"status":      "success",
		"message":     "Document processed successfully (in-memory, no file stored)",
	})
}

func (s *Server) query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"detail": []gin.H{{"loc": []string{"body"}, "msg": err.Error(), "type": "value_error"}},
		})
		return
	}
	doc, ok := s.store.get(req.DocumentID)
	if !ok {
		detail(c, http.StatusNotFound, "Document not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id": doc.ID,
		"question":    req.Question,
		"answer":      answer(doc, req.Question),
		"model":       Model,
	})
}

func (s *Server) listDocuments(c *gin.Context) {
	docs := lo.Map(s.store.list(), func(doc document, _ int) gin.H {
		return gin.H{
			"document_id": doc.ID,
			"filename":    doc.Filename,
			"upload_date": doc.UploadedAt.Format(uploadDateLayout),
			"file_size":   doc.Size,
		}
	})
	c.JSON(http.StatusOK, gin.H{"documents": docs, "total": len(docs)})
}

func (s *Server) deleteDocument(c *gin.Context) {
	id := c.Param("id")
	if !s.store.delete(id) {
		detail(c, http.StatusNotFound, "Document not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully", "document_id": id})
}

// answer quotes the lines of the document sharing a word with the question.
func answer(doc document, question string) string {
	words := lo.Filter(strings.Fields(strings.ToLower(question)), func(w string, _ int) bool {
		return len(w) > 3
	})
	var hits []string
	for _, line := range strings.Split(doc.Content, "\n") {
		lower := strings.ToLower(line)
		if strings.TrimSpace(line) != "" && lo.SomeBy(words, func(w string) bool {
			return strings.Contains(lower, strings.Trim(w, "?.,!"))
		}) {
			hits = append(hits, "- "+strings.TrimSpace(line))
		}
	}
	if len(hits) == 0 {
		return fmt.Sprintf("I could not find anything about that in **%s**.", doc.Filename)
	}
	return fmt.Sprintf("According to **%s**:\n\n%s", doc.Filename, strings.Join(lo.Slice(hits, 0, 5), "\n"))
}
