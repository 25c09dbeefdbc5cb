package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendlyapp/booking-platform/internal/httperr"
	"github.com/agendlyapp/booking-platform/internal/media"
	"github.com/agendlyapp/booking-platform/internal/middleware"
	"github.com/agendlyapp/booking-platform/internal/models"
)

const (
	logoMaxWidth    = 512
	serviceMaxWidth = 1024
)

type MediaHandler struct {
	db      *gorm.DB
	storage *media.Storage
}

func NewMediaHandler(db *gorm.DB, storage *media.Storage) *MediaHandler {
	return &MediaHandler{db: db, storage: storage}
}

func (h *MediaHandler) enabled(c *gin.Context) bool {
	if h.storage == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "media_disabled", "Upload de imagens não está habilitado.")
		return false
	}
	return true
}

// UploadTenantLogo replaces the tenant's logo.
func (h *MediaHandler) UploadTenantLogo(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "Estabelecimento não encontrado.")
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Arquivo obrigatório.")
		return
	}
	defer file.Close()

	img, err := media.ProcessImage(file, logoMaxWidth)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Imagem inválida.")
		return
	}

	url, err := h.storage.Put(
		c.Request.Context(),
		fmt.Sprintf("tenants/%d/logo", tenantID),
		img,
		"image/webp",
	)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Erro ao enviar imagem.")
		return
	}

	tenant.LogoURL = url
	if err := h.db.Save(&tenant).Error; err != nil {
		httperr.Internal(c, "failed_to_update_tenant", "Erro ao salvar imagem.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}

// UploadServiceImage attaches an image to one of the tenant's services.
func (h *MediaHandler) UploadServiceImage(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id := c.Param("id")

	var service models.Service
	if err := h.db.
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&service).Error; err != nil {

		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Arquivo obrigatório.")
		return
	}
	defer file.Close()

	img, err := media.ProcessImage(file, serviceMaxWidth)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Imagem inválida.")
		return
	}

	url, err := h.storage.Put(
		c.Request.Context(),
		fmt.Sprintf("tenants/%d/services/%d", tenantID, service.ID),
		img,
		"image/webp",
	)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Erro ao enviar imagem.")
		return
	}

	service.ImageURL = url
	if err := h.db.Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao salvar imagem.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
