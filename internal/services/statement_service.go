package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// IStatementService renders a client's ledger as a downloadable XLSX workbook.
type IStatementService interface {
	Build(ctx context.Context, phone string) ([]byte, string, error)
}

// statementService implements IStatementService on top of the client and
// ledger services rather than hitting collections itself.
type statementService struct {
	clientService IClientService
	ledgerService ILedgerService
}

// NewStatementService creates a new StatementService.
func NewStatementService(clientService IClientService, ledgerService ILedgerService) IStatementService {
	return &statementService{clientService: clientService, ledgerService: ledgerService}
}

// Build produces the workbook bytes and a suggested filename.
// Returns ErrNotFound when no client has that phone number.
func (s *statementService) Build(ctx context.Context, phone string) ([]byte, string, error) {
	client, _, err := s.clientService.FindByPhone(ctx, phone)
	if err != nil {
		return nil, "", err
	}
	entries, err := s.ledgerService.Transactions(ctx, phone)
	if err != nil {
		return nil, "", err
	}
	summary, err := s.ledgerService.Summary(ctx, phone)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheetName := "Ledger"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("error creating statement sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheetName, "A1", "Client")
	f.SetCellValue(sheetName, "B1", client.Name)
	f.SetCellValue(sheetName, "A2", "Phone")
	f.SetCellValue(sheetName, "B2", client.Phone)

	headers := []string{"Date", "Type", "Amount", "Description"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c4", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, e := range entries {
		row := idx + 5
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Description)
	}

	totalsRow := len(entries) + 6
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalsRow), "Total Debit")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", totalsRow), summary.TotalDebit)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalsRow+1), "Total Credit")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", totalsRow+1), summary.TotalCredit)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalsRow+2), "Balance")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", totalsRow+2), summary.Balance)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("error writing statement workbook: %w", err)
	}

	filename := fmt.Sprintf("ledger_%s_%s.xlsx", phone, time.Now().UTC().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
