package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"vacancy-backend/models"
	"vacancy-backend/services"
	"vacancy-backend/utils"
)

type CustomerController struct {
	Customers *services.CustomerRepository
}

// CreateCustomerInput holds the fields a new customer must carry. roomId and
// any free-form attributes are read from the same body as models.JSONB.
type CreateCustomerInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// GetCustomers retrieves all customers with their room info
func (cc CustomerController) GetCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, cc.Customers.List())
}

// GetCustomer retrieves a specific customer by ID
func (cc CustomerController) GetCustomer(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	customer, err := cc.Customers.Get(id)
	if err != nil {
		respondCustomerError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CreateCustomer creates a new customer, optionally placed in a room
func (cc CustomerController) CreateCustomer(c *gin.Context) {
	var fields models.JSONB
	if err := c.ShouldBindBodyWith(&fields, binding.JSON); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	var input CreateCustomerInput
	if err := c.ShouldBindBodyWith(&input, binding.JSON); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "name and phone are required")
		return
	}

	customer, err := cc.Customers.Create(c.Request.Context(), fields)
	if err != nil {
		respondCustomerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer replaces an existing customer's data
func (cc CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	var input models.JSONB
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := cc.Customers.Update(c.Request.Context(), id, input)
	if err != nil {
		respondCustomerError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer
func (cc CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	customer, err := cc.Customers.Delete(c.Request.Context(), id)
	if err != nil {
		respondCustomerError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GetRoomCustomers lists the customers assigned to a room
func (cc CustomerController) GetRoomCustomers(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Room not found")
		return
	}

	customers, err := cc.Customers.ListByRoom(id)
	if err != nil {
		respondCustomerError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// SearchCustomers finds customers whose name contains the given text
func (cc CustomerController) SearchCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, cc.Customers.Search(c.Param("name")))
}

func respondCustomerError(c *gin.Context, err error) {
	var invalid *services.ValidationError
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
	case errors.Is(err, services.ErrRoomNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Room not found")
	case errors.As(err, &invalid):
		utils.RespondWithError(c, http.StatusBadRequest, invalid.Message)
	default:
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
