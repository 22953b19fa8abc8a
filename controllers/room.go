// controllers/room.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vacancy-backend/models"
	"vacancy-backend/services"
	"vacancy-backend/utils"
)

type RoomController struct {
	Rooms *services.RoomRepository
}

// GetRooms lists all rooms
func (rc RoomController) GetRooms(c *gin.Context) {
	c.JSON(http.StatusOK, rc.Rooms.List())
}

// GetRoom retrieves a specific room by ID
func (rc RoomController) GetRoom(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Room not found")
		return
	}

	room, err := rc.Rooms.Get(id)
	if err != nil {
		respondRoomError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// CreateRoom stores a new room with whatever attributes the caller sent
func (rc RoomController) CreateRoom(c *gin.Context) {
	var input models.JSONB
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	room := rc.Rooms.Create(c.Request.Context(), input)
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom replaces the attributes of an existing room
func (rc RoomController) UpdateRoom(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Room not found")
		return
	}

	var input models.JSONB
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	room, err := rc.Rooms.Update(c.Request.Context(), id, input)
	if err != nil {
		respondRoomError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom removes a room that nobody lives in
func (rc RoomController) DeleteRoom(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Room not found")
		return
	}

	room, err := rc.Rooms.Delete(c.Request.Context(), id)
	if err != nil {
		respondRoomError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func respondRoomError(c *gin.Context, err error) {
	var conflict *services.ConflictError
	switch {
	case errors.Is(err, services.ErrRoomNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Room not found")
	case errors.As(err, &conflict):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":          "Cannot delete room while customers are assigned to it",
			"customersCount": conflict.CustomersCount,
		})
	default:
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
