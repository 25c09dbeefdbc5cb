package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendlyapp/booking-platform/internal/middleware"
	"github.com/agendlyapp/booking-platform/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	proIDVal, exists := c.Get(middleware.ContextProfessionalID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "professional_not_in_context"})
		return
	}

	professionalID, ok := proIDVal.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_professional_id_type"})
		return
	}

	var pro models.Professional
	if err := h.db.Preload("Tenant").First(&pro, professionalID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "professional_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"professional": gin.H{
			"id":        pro.ID,
			"name":      pro.Name,
			"email":     pro.Email,
			"phone":     pro.Phone,
			"role":      pro.Role,
			"tenant_id": pro.TenantID,
		},
		"tenant": gin.H{
			"id":       pro.Tenant.ID,
			"name":     pro.Tenant.Name,
			"slug":     pro.Tenant.Slug,
			"phone":    pro.Tenant.Phone,
			"address":  pro.Tenant.Address,
			"timezone": pro.Tenant.Timezone,
		},
	})
}
