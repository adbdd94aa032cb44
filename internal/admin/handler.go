// Package admin exposes an operator HTTP surface: liveness, per-day usage
// aggregates, and an unlock endpoint mirroring the bot's /unlock command.
package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AaravSuri1/StudyBuddy/internal/db"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	db db.Service
	// now is injectable so tests can control the calendar day.
	now func() time.Time
}

func NewHandler(dbService db.Service) *Handler {
	return &Handler{db: dbService, now: time.Now}
}

func (h *Handler) HealthzHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UsageHandler returns the usage summary for ?day=YYYY-MM-DD, defaulting to today.
func (h *Handler) UsageHandler(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		day = h.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
		return
	}

	summary, err := h.db.UsageSummary(day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load usage summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UnlockHandler grants a user unlimited access for the current day, creating
// the usage record first when absent.
func (h *Handler) UnlockHandler(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	day := h.now().Format("2006-01-02")
	if _, _, err := h.db.GetOrCreateUsage(userID, day); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare usage record"})
		return
	}
	if err := h.db.SetPremium(userID, day); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set premium"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unlocked", "user_id": userID, "day": day})
}
