package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendlyapp/booking-platform/internal/middleware"
	"github.com/agendlyapp/booking-platform/internal/models"
	"github.com/agendlyapp/booking-platform/internal/timeutil"
)

type WorkingHoursHandler struct {
	db *gorm.DB
}

func NewWorkingHoursHandler(db *gorm.DB) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	proIDVal, _ := c.Get(middleware.ContextProfessionalID)
	professionalID := proIDVal.(uint)

	var hours []models.WorkingHours
	if err := h.db.
		Where("professional_id = ?", professionalID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_working_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	proIDVal, _ := c.Get(middleware.ContextProfessionalID)
	professionalID := proIDVal.(uint)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// Reject broken windows up front; a corrupt row would poison every slot
	// computation for that weekday.
	for _, d := range req.Days {
		if !d.Active {
			continue
		}
		if err := validateDayConfig(d); err != "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   err,
				"weekday": d.Weekday,
			})
			return
		}
	}

	if err := h.db.Where("professional_id = ?", professionalID).Delete(&models.WorkingHours{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_clear_existing_hours"})
		return
	}

	var toCreate []models.WorkingHours
	for _, d := range req.Days {
		wh := models.WorkingHours{
			ProfessionalID: professionalID,
			Weekday:        d.Weekday,
			Active:         d.Active,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
			LunchStart:     d.LunchStart,
			LunchEnd:       d.LunchEnd,
		}
		toCreate = append(toCreate, wh)
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_working_hours"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func validateDayConfig(d WorkingDayConfig) string {
	start, err := timeutil.TimeToMinutes(d.StartTime)
	if err != nil {
		return "invalid_start_time"
	}
	end, err := timeutil.TimeToMinutes(d.EndTime)
	if err != nil {
		return "invalid_end_time"
	}
	if start >= end {
		return "start_after_end"
	}

	if d.LunchStart != "" || d.LunchEnd != "" {
		ls, err := timeutil.TimeToMinutes(d.LunchStart)
		if err != nil {
			return "invalid_lunch_start"
		}
		le, err := timeutil.TimeToMinutes(d.LunchEnd)
		if err != nil {
			return "invalid_lunch_end"
		}
		if ls >= le || ls < start || le > end {
			return "invalid_lunch_window"
		}
	}

	return ""
}
