package handlers

import (
	"net/http"

	"carental/models"

	"github.com/gin-gonic/gin"
)

// CreateManager registers a new staff account. Admin only.
func CreateManager(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Role == "" {
		input.Role = string(models.RoleManager)
	}

	manager, err := AuthService.CreateManager(input.Email, input.Password, input.Name, models.ManagerRole(input.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, manager)
}

// ListManagers returns every staff account. Admin only.
func ListManagers(c *gin.Context) {
	managers, err := AuthService.ListManagers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"managers": managers})
}

// UpdateManager edits a staff account's name or role. Admin only.
func UpdateManager(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	manager, err := AuthService.UpdateManager(c.Param("id"), updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, manager)
}

// DeleteManager removes a staff account. Admin only.
func DeleteManager(c *gin.Context) {
	if err := AuthService.DeleteManager(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "manager deleted"})
}
