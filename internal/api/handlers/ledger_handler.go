package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AbdurRehmanbaig1/paktravel/internal/services"
	"github.com/AbdurRehmanbaig1/paktravel/internal/tasks"
)

// LedgerHandler handles REST requests for per-client ledgers.
type LedgerHandler struct {
	ledgerService    services.ILedgerService
	statementService services.IStatementService
	taskClient       IAsynqClient // optional; nil disables statement archiving
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.ILedgerService, statementService services.IStatementService, taskClient IAsynqClient) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:    ledgerService,
		statementService: statementService,
		taskClient:       taskClient,
	}
}

type addTransactionRequest struct {
	Type        string `json:"type"`
	Amount      any    `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// AddTransaction handles POST /clients/:phone/ledger
func (h *LedgerHandler) AddTransaction(c *gin.Context) {
	phone := c.Param("phone")

	var req addTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	amount, ok := optionalNumber(req.Amount)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number"})
		return
	}

	in := services.AddTransactionInput{
		Type:        req.Type,
		Description: req.Description,
	}
	if amount != nil {
		in.Amount = *amount
	}
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			// Fall back to a bare date
			parsed, err = time.Parse("2006-01-02", req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
				return
			}
		}
		in.Date = &parsed
	}

	entry, err := h.ledgerService.AddTransaction(c.Request.Context(), phone, in)
	if err != nil {
		respondError(c, err, "Failed to add transaction")
		return
	}

	h.enqueueStatementArchive(phone)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Transaction added successfully",
		"transaction": gin.H{
			"id":          entry.ID.String(),
			"type":        entry.Type,
			"amount":      entry.Amount,
			"description": entry.Description,
		},
	})
}

// GetSummary handles GET /clients/:phone/ledger/summary
func (h *LedgerHandler) GetSummary(c *gin.Context) {
	phone := c.Param("phone")

	summary, err := h.ledgerService.Summary(c.Request.Context(), phone)
	if err != nil {
		respondError(c, err, "Failed to get ledger summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListTransactions handles GET /clients/:phone/ledger
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	phone := c.Param("phone")

	entries, err := h.ledgerService.Transactions(c.Request.Context(), phone)
	if err != nil {
		respondError(c, err, "Failed to get ledger transactions")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetStatement handles GET /clients/:phone/ledger/statement
func (h *LedgerHandler) GetStatement(c *gin.Context) {
	phone := c.Param("phone")

	data, filename, err := h.statementService.Build(c.Request.Context(), phone)
	if err != nil {
		respondError(c, err, "Failed to build ledger statement")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// enqueueStatementArchive schedules a refresh of the client's archived
// statement. Failures only cost the archive copy, so they are logged and
// swallowed.
func (h *LedgerHandler) enqueueStatementArchive(phone string) {
	if h.taskClient == nil {
		return
	}
	task, err := tasks.NewStatementArchiveTask(phone)
	if err != nil {
		log.Printf("Failed to build statement archive task for %s: %v", phone, err)
		return
	}
	if _, err := h.taskClient.Enqueue(task, tasks.ArchiveQueue()); err != nil {
		log.Printf("Failed to enqueue statement archive for %s: %v", phone, err)
	}
}
