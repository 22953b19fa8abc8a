package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vacancy-backend/services"
	"vacancy-backend/utils"
)

type DashboardController struct {
	Registry *services.Registry
}

// GetStats returns occupancy counts computed from the current state
func (dc DashboardController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, dc.Registry.Stats())
}

// CreateBackup writes a timestamped copy of all data
func (dc DashboardController) CreateBackup(c *gin.Context) {
	result, err := dc.Registry.Backup(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to back up data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Backup completed",
		"file":           result.File,
		"totalRooms":     result.TotalRooms,
		"totalCustomers": result.TotalCustomers,
		"backupDate":     result.BackupDate,
	})
}

// GetHealth reports whether the last flush to storage succeeded
func (dc DashboardController) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, dc.Registry.Health())
}
