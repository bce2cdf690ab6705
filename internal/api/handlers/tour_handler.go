package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdurRehmanbaig1/paktravel/internal/services"
	"github.com/AbdurRehmanbaig1/paktravel/internal/utils"
)

// TourHandler handles REST requests for tours.
type TourHandler struct {
	tourService services.ITourService
}

// NewTourHandler creates a new TourHandler.
func NewTourHandler(tourService services.ITourService) *TourHandler {
	return &TourHandler{tourService: tourService}
}

// createTourRequest mirrors the historical payload: numeric fields arrive as
// numbers or numeric strings, so they bind loosely and are validated here.
type createTourRequest struct {
	ClientPhone string `json:"clientPhone"`
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	Type        string `json:"type"`
	Price       any    `json:"price"`
	Cost        any    `json:"cost"`
	PeopleCount any    `json:"peopleCount"`
	Days        any    `json:"days"`
	Date        string `json:"date"`
	Currency    string `json:"currency"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Destination string `json:"destination"`
	Description string `json:"description"`
}

// Create handles POST /tours
func (h *TourHandler) Create(c *gin.Context) {
	var req createTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	price, okPrice := optionalNumber(req.Price)
	cost, okCost := optionalNumber(req.Cost)
	people, okPeople := optionalNumber(req.PeopleCount)
	days, okDays := optionalNumber(req.Days)
	if !okPrice || !okCost || !okPeople || !okDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price, cost, people count and days must be numbers"})
		return
	}

	in := services.CreateTourInput{
		ClientPhone: req.ClientPhone,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Type:        req.Type,
		Price:       price,
		Cost:        cost,
		Date:        req.Date,
		Currency:    req.Currency,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Destination: req.Destination,
		Description: req.Description,
	}
	if people != nil {
		v := int(*people)
		in.PeopleCount = &v
	}
	if days != nil {
		v := int(*days)
		in.Days = &v
	}

	created, err := h.tourService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to add tour")
		return
	}

	resp := gin.H{
		"message": "Tour added successfully with ledger entry",
		"tourId":  created.TourID.String(),
	}
	if created.LedgerID != nil {
		resp["ledgerId"] = created.LedgerID.String()
	} else {
		resp["ledgerId"] = nil
	}
	c.JSON(http.StatusCreated, resp)
}

// List handles GET /tours
func (h *TourHandler) List(c *gin.Context) {
	tours, err := h.tourService.All(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch tours")
		return
	}
	c.JSON(http.StatusOK, tours)
}

// GetByID handles GET /tours/:clientPhone/:tourId
func (h *TourHandler) GetByID(c *gin.Context) {
	clientPhone := c.Param("clientPhone")
	tourID, err := utils.ParseSixID(c.Param("tourId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tour ID format"})
		return
	}

	tour, err := h.tourService.FindByID(c.Request.Context(), clientPhone, tourID)
	if err != nil {
		respondError(c, err, "Failed to fetch tour details")
		return
	}
	c.JSON(http.StatusOK, tour)
}

// Delete handles DELETE /tours/:clientPhone/:tourId
func (h *TourHandler) Delete(c *gin.Context) {
	clientPhone := c.Param("clientPhone")
	tourID, err := utils.ParseSixID(c.Param("tourId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tour ID format"})
		return
	}

	if err := h.tourService.Delete(c.Request.Context(), clientPhone, tourID); err != nil {
		respondError(c, err, "Failed to delete tour")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Tour deleted successfully",
		"tourId":  tourID.String(),
	})
}
