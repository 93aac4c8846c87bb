package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Login authenticates a manager and returns a session token.
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	manager, token, err := AuthService.Login(input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"manager": manager,
		"token":   token,
	})
}

// Logout revokes the calling manager's session.
func Logout(c *gin.Context) {
	managerID := c.GetString("managerID")
	if err := AuthService.Logout(managerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Profile returns the calling manager's own account.
func Profile(c *gin.Context) {
	manager, err := AuthService.Profile(c.GetString("managerID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, manager)
}

// ChangePassword rotates the calling manager's password.
func ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := AuthService.ChangePassword(c.GetString("managerID"), input.CurrentPassword, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed; please log in again"})
}
