package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	uploadmodels "io.winapps.therapyjournal/internal/models/upload_images"
	"io.winapps.therapyjournal/internal/store"
)

const (
	maxUploadFiles    = 5
	maxUploadFileSize = 5 * 1024 * 1024
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var allowedImageMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// UploadImages handles attaching up to five JPEG/PNG images to an entry via
// a multipart form field named "images"
func (h *JournalHandler) UploadImages(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Нет файлов для загрузки"})
		return
	}
	if len(files) > maxUploadFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Можно загрузить не более %d файлов", maxUploadFiles)})
		return
	}

	// Whole request is rejected before anything is saved
	for _, file := range files {
		if msg := validateImageFile(file); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
	}

	if _, err := h.store.GetEntry(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Запись не найдена"})
			return
		}
		h.logError(c, err, "verify entry for upload failed", "entry_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при загрузке изображений"})
		return
	}

	uploaded := 0
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		name := uuid.New().String() + ext
		relPath := "images/" + name
		dst := filepath.Join(h.uploadsDir, "images", name)

		if err := c.SaveUploadedFile(file, dst); err != nil {
			h.logError(c, err, "save uploaded file failed", "entry_id", id, "file", file.Filename)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при загрузке изображений"})
			return
		}

		img := &store.Image{
			EntryID:  id,
			FilePath: relPath,
			FileName: file.Filename,
			FileSize: file.Size,
			MimeType: file.Header.Get("Content-Type"),
		}
		if err := h.store.AddImage(ctx, img); err != nil {
			h.logError(c, err, "insert image row failed", "entry_id", id, "file", file.Filename)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при загрузке изображений"})
			return
		}
		uploaded++
	}

	h.invalidateEntry(ctx, id)

	c.JSON(http.StatusOK, uploadmodels.UploadImagesResponse{
		Message: fmt.Sprintf("%d изображений загружено успешно", uploaded),
		Count:   uploaded,
	})
}

// validateImageFile returns a localized rejection message, or "" when the
// file passes the size/extension/MIME checks.
func validateImageFile(file *multipart.FileHeader) string {
	if file.Size > maxUploadFileSize {
		return "Файл слишком большой (максимум 5MB)"
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "Только изображения PNG и JPG разрешены"
	}
	if ct := file.Header.Get("Content-Type"); !allowedImageMimes[ct] {
		return "Только изображения PNG и JPG разрешены"
	}
	return ""
}
