// controllers/booking.go
package controllers

import (
	"net/http"

	"blackbird-backend/services"
	"blackbird-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// CreateBooking records a booking on behalf of the authenticated caller.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var input services.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	userID, _, _, ok := callerContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	input.EmployeeID = userID

	booking, err := bc.bookings.CreateBooking(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBookings lists bookings newest first. Admins may scope by any
// branch; employees always see their own branch only.
func (bc *BookingController) GetBookings(c *gin.Context) {
	_, role, ownBranchID, ok := callerContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, limit := parsePagination(c)
	filters := services.BookingFilters{
		BranchID:  utils.EffectiveBranchFilter(role, ownBranchID, c.Query("branchId")),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Page:      page,
		Limit:     limit,
	}

	bookings, total, err := bc.bookings.ListBookings(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (bc *BookingController) GetBooking(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := bc.bookings.FindByID(bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
