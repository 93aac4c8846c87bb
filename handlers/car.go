package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	carRepo "carental/database/repository/car"
	"carental/models"

	"github.com/gin-gonic/gin"
)

// CreateCar registers a new car in the fleet.
func CreateCar(c *gin.Context) {
	var car models.Car
	if err := c.ShouldBindJSON(&car); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := FleetService.Create(&car)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetCar returns one car.
func GetCar(c *gin.Context) {
	car, err := FleetService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

// ListCars returns a filtered page of the fleet.
func ListCars(c *gin.Context) {
	filter := carRepo.ListFilter{
		Search:       c.Query("search"),
		Availability: models.CarAvailability(c.Query("availability")),
		Category:     c.Query("category"),
	}
	filter.MinRate, _ = strconv.ParseFloat(c.Query("min_rate"), 64)
	filter.MaxRate, _ = strconv.ParseFloat(c.Query("max_rate"), 64)
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	cars, total, err := FleetService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cars":     cars,
		"total":    total,
		"page":     filter.Page,
		"per_page": filter.PerPage,
	})
}

// UpdateCar applies a partial edit to a car.
func UpdateCar(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	car, err := FleetService.Update(c.Param("id"), updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

// DeleteCar removes a car that has no live bookings.
func DeleteCar(c *gin.Context) {
	if err := FleetService.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "car deleted"})
}

// CarHistory returns the car's rental records, newest first.
func CarHistory(c *gin.Context) {
	records, err := FleetService.History(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rental_history": records})
}

// UploadCarImage stores an uploaded image and attaches its URL to the car.
func UploadCarImage(c *gin.Context) {
	carID := c.Param("id")

	if StorageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "details": err.Error()})
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "details": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	publicID, err := StorageService.UploadFile(c, tempFilePath, "cars/"+carID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file", "details": err.Error()})
		return
	}
	url, err := StorageService.GetDownloadURL(c, "image", publicID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to construct image URL", "details": err.Error()})
		return
	}

	car, err := FleetService.AddImage(carID, url)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image uploaded", "url": url, "car": car})
}
