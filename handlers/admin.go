package handlers

import (
	"net/http"
	"time"

	"villacarmen/config"
	capacityRepo "villacarmen/database/repository/capacity"
	"villacarmen/models"
	"villacarmen/services/availability"
	"villacarmen/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler exposes the capacity management API used by the restaurant.
type AdminHandler struct {
	Capacity capacityRepo.CapacityRepository
	Engine   availability.Engine
}

func NewAdminHandler(capacity capacityRepo.CapacityRepository, engine availability.Engine) *AdminHandler {
	return &AdminHandler{Capacity: capacity, Engine: engine}
}

// HandleLogin checks the admin password and issues a short-lived JWT.
func (h *AdminHandler) HandleLogin(c *gin.Context) {
	var input struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	hash := config.AppConfig.AdminPasswordHash
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(12 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// HandleSetDayOverride opens or closes a specific date.
func (h *AdminHandler) HandleSetDayOverride(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var input struct {
		Open *bool `json:"open" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	override := models.DayOverride{Date: date, Open: *input.Open}
	if err := h.Capacity.SetDayOverride(c.Request.Context(), override); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store day override", err.Error())
		return
	}
	c.JSON(http.StatusOK, override)
}

// HandleSetDayBudget sets the seat budget for a date.
func (h *AdminHandler) HandleSetDayBudget(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var input struct {
		Budget int `json:"budget" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	budget := models.DayBudget{Date: date, Budget: input.Budget}
	if err := h.Capacity.SetDayBudget(c.Request.Context(), budget); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store day budget", err.Error())
		return
	}
	c.JSON(http.StatusOK, budget)
}

// HandleSetHourConfig sets the hour-slot layout for a date.
func (h *AdminHandler) HandleSetHourConfig(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var input struct {
		Hours []models.HourConfig `json:"hours" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	cfg := models.DayHourConfig{Date: date, Hours: input.Hours}
	if err := h.Capacity.SetHourConfig(c.Request.Context(), cfg); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store hour config", err.Error())
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// HandleGetAvailability previews the live capacity picture for a date.
func (h *AdminHandler) HandleGetAvailability(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	day, err := h.Engine.DaySnapshot(ctx, date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read day status", err.Error())
		return
	}
	daily, err := h.Engine.DailyCapacity(ctx, date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read daily capacity", err.Error())
		return
	}
	slots, err := h.Engine.HourSlots(ctx, date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read hour slots", err.Error())
		return
	}

	type slotView struct {
		models.HourSlot
		Status string `json:"status"`
	}
	views := make([]slotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, slotView{HourSlot: slot, Status: slot.Status()})
	}

	c.JSON(http.StatusOK, gin.H{
		"day":   day,
		"daily": daily,
		"slots": views,
	})
}

func dateParam(c *gin.Context) (string, bool) {
	date := c.Param("date")
	if _, err := time.Parse(availability.DateLayout, date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
		return "", false
	}
	return date, true
}
