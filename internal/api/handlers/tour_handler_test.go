package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/AbdurRehmanbaig1/paktravel/internal/api/handlers"
	"github.com/AbdurRehmanbaig1/paktravel/internal/models"
	"github.com/AbdurRehmanbaig1/paktravel/internal/services"
	"github.com/AbdurRehmanbaig1/paktravel/internal/utils"
)

func newTourRouter(tourSvc services.ITourService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewTourHandler(tourSvc)
	r := gin.New()
	r.POST("/tours", handler.Create)
	r.GET("/tours", handler.List)
	r.GET("/tours/:clientPhone/:tourId", handler.GetByID)
	r.DELETE("/tours/:clientPhone/:tourId", handler.Delete)
	return r
}

func TestTourHandler_Create_Success(t *testing.T) {
	mockTourSvc := new(MockTourService)
	r := newTourRouter(mockTourSvc)

	tourID := utils.NewSixID()
	ledgerID := utils.NewSixID()
	mockTourSvc.On("Create", mock.Anything, mock.MatchedBy(func(in services.CreateTourInput) bool {
		return in.ClientPhone == "03211234567" &&
			in.Type == "international" &&
			in.Price != nil && *in.Price == 5000 &&
			in.Cost != nil && *in.Cost == 3500 &&
			in.Days != nil && *in.Days == 7
	})).Return(&services.TourCreated{TourID: tourID, LedgerID: &ledgerID}, nil)

	body, _ := json.Marshal(map[string]any{
		"clientPhone": "03211234567",
		"clientName":  "Bilal Ahmed",
		"clientEmail": "bilal@example.com",
		"type":        "international",
		"price":       5000,
		"cost":        "3500",
		"days":        7,
		"destination": "Istanbul",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/tours", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "Tour added successfully with ledger entry", respBody["message"])
	assert.Equal(t, tourID.String(), respBody["tourId"])
	assert.Equal(t, ledgerID.String(), respBody["ledgerId"])
	mockTourSvc.AssertExpectations(t)
}

func TestTourHandler_Create_ExistingLedger(t *testing.T) {
	mockTourSvc := new(MockTourService)
	r := newTourRouter(mockTourSvc)

	tourID := utils.NewSixID()
	mockTourSvc.On("Create", mock.Anything, mock.Anything).
		Return(&services.TourCreated{TourID: tourID, LedgerID: nil}, nil)

	body, _ := json.Marshal(map[string]any{
		"clientPhone": "03211234567",
		"clientName":  "Bilal Ahmed",
		"clientEmail": "bilal@example.com",
		"type":        "local",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/tours", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, tourID.String(), respBody["tourId"])
	assert.Contains(t, respBody, "ledgerId")
	assert.Nil(t, respBody["ledgerId"])
}

func TestTourHandler_Create_ZeroPriceTreatedAsAbsent(t *testing.T) {
	mockTourSvc := new(MockTourService)
	r := newTourRouter(mockTourSvc)

	tourID := utils.NewSixID()
	mockTourSvc.On("Create", mock.Anything, mock.MatchedBy(func(in services.CreateTourInput) bool {
		return in.Price == nil && in.Cost == nil
	})).Return(&services.TourCreated{TourID: tourID}, nil)

	body, _ := json.Marshal(map[string]any{
		"clientPhone": "03211234567",
		"clientName":  "Bilal Ahmed",
		"clientEmail": "bilal@example.com",
		"type":        "local",
		"price":       0,
		"cost":        "",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/tours", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockTourSvc.AssertExpectations(t)
}

func TestTourHandler_Create_NonNumericPrice(t *testing.T) {
	mockTourSvc := new(MockTourService)
	r := newTourRouter(mockTourSvc)

	body, _ := json.Marshal(map[string]any{
		"clientPhone": "03211234567",
		"clientName":  "Bilal Ahmed",
		"clientEmail": "bilal@example.com",
		"type":        "local",
		"price":       "expensive",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/tours", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "Price, cost, people count and days must be numbers", respBody["error"])
	mockTourSvc.AssertNotCalled(t, "Create")
}

func TestTourHandler_Create_MissingClientFields(t *testing.T) {
	mockTourSvc := new(MockTourService)
	r := newTourRouter(mockTourSvc)

	mockTourSvc.On("Create", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: Client phone, name, email, and tour type are required", services.ErrValidation))

	body, _ := json.Marshal(map[string]any{"clientPhone": "03211234567"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/tours", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "Client phone, name, email, and tour type are required", respBody["error"])
}

func TestTourHandler_List_Success(t *testing.T) {
	mockTourSvc := new(MockTourService)
	r := newTourRouter(mockTourSvc)

	mockTourSvc.On("All", mock.Anything).Return([]models.TourWithClient{
		{Tour: models.Tour{Base: models.NewBase(), ClientPhone: "0301", Type: "local"}, ClientName: "A"},
		{Tour: models.Tour{Base: models.NewBase(), ClientPhone: "0302", Type: "umrah"}, ClientName: "B"},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tours", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Len(t, respBody, 2)
}

func TestTourHandler_GetByID_Success(t *testing.T) {
	mockTourSvc := new(MockTourService)
	r := newTourRouter(mockTourSvc)

	tourID := utils.NewSixID()
	mockTourSvc.On("FindByID", mock.Anything, "03211234567", tourID).
		Return(&models.TourWithClient{
			Tour:       models.Tour{ClientPhone: "03211234567", Type: "local", Destination: "Hunza"},
			ClientName: "Imran",
		}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tours/03211234567/"+tourID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "Hunza", respBody["destination"])
	mockTourSvc.AssertExpectations(t)
}

func TestTourHandler_GetByID_InvalidID(t *testing.T) {
	mockTourSvc := new(MockTourService)
	r := newTourRouter(mockTourSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tours/03211234567/bad-id", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Contains(t, respBody["error"], "Invalid tour ID format")
	mockTourSvc.AssertNotCalled(t, "FindByID")
}

func TestTourHandler_GetByID_NotFound(t *testing.T) {
	mockTourSvc := new(MockTourService)
	r := newTourRouter(mockTourSvc)

	tourID := utils.NewSixID()
	mockTourSvc.On("FindByID", mock.Anything, "03211234567", tourID).
		Return(nil, fmt.Errorf("%w: Tour not found", services.ErrNotFound))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tours/03211234567/"+tourID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "Tour not found", respBody["error"])
}

func TestTourHandler_Delete_Success(t *testing.T) {
	mockTourSvc := new(MockTourService)
	r := newTourRouter(mockTourSvc)

	tourID := utils.NewSixID()
	mockTourSvc.On("Delete", mock.Anything, "03211234567", tourID).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/tours/03211234567/"+tourID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "Tour deleted successfully", respBody["message"])
	assert.Equal(t, tourID.String(), respBody["tourId"])
	mockTourSvc.AssertExpectations(t)
}
