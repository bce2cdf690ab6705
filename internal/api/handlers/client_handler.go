package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdurRehmanbaig1/paktravel/internal/models"
	"github.com/AbdurRehmanbaig1/paktravel/internal/services"
)

// ClientHandler handles REST requests for client records.
type ClientHandler struct {
	clientService services.IClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService services.IClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

type createClientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phoneNumber"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// ClientWithTours is the response for a single-client lookup.
type ClientWithTours struct {
	Client *models.Client `json:"client"`
	Tours  []models.Tour  `json:"tours"`
}

// Create handles POST /clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	_, err := h.clientService.Create(c.Request.Context(), services.CreateClientInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
	})
	if err != nil {
		respondError(c, err, "Failed to add client")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Client added successfully"})
}

// GetByPhone handles GET /clients/:phone
func (h *ClientHandler) GetByPhone(c *gin.Context) {
	phone := c.Param("phone")

	client, tours, err := h.clientService.FindByPhone(c.Request.Context(), phone)
	if err != nil {
		respondError(c, err, "Failed to fetch client details")
		return
	}
	c.JSON(http.StatusOK, ClientWithTours{Client: client, Tours: tours})
}

// List handles GET /clients
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Delete handles DELETE /clients/:phone
func (h *ClientHandler) Delete(c *gin.Context) {
	phone := c.Param("phone")

	if err := h.clientService.Delete(c.Request.Context(), phone); err != nil {
		respondError(c, err, "Failed to delete client")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
