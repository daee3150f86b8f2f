package repository

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// Sheet ranges for each record table. The first row of every table is a
// header and is excluded from data operations by the callers.
const (
	UsersRange        = "Users!A:F"
	SugarRange        = "SugarRecords!A:E"
	MedicationRange   = "MedicationLogs!A:F"
	AppointmentsRange = "DoctorAppointments!A:D"
)

// ErrStoreUnavailable is returned when the remote row store cannot be
// reached or rejects a call. Callers surface it to the user as a
// recoverable failure; it is not retried within a request.
var ErrStoreUnavailable = errors.New("row store unavailable")

// RowStore defines the operations against the external row store
type RowStore interface {
	// FetchRows returns every row of the addressed range, header included,
	// with each cell coerced to a string.
	FetchRows(ctx context.Context, readRange string) ([][]string, error)

	// AppendRow appends one row after the last row of the addressed range.
	AppendRow(ctx context.Context, writeRange string, row []interface{}) error
}

// SheetsRepository implements RowStore against one Google spreadsheet
type SheetsRepository struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsRepository creates a new Google Sheets repository
func NewSheetsRepository(svc *sheets.Service, spreadsheetID string) *SheetsRepository {
	return &SheetsRepository{
		svc:           svc,
		spreadsheetID: spreadsheetID,
	}
}

func (r *SheetsRepository) FetchRows(ctx context.Context, readRange string) ([][]string, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrStoreUnavailable, readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			// Cells arrive as interface{} (string or number); everything
			// downstream compares string values.
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (r *SheetsRepository) AppendRow(ctx context.Context, writeRange string, row []interface{}) error {
	body := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := r.svc.Spreadsheets.Values.Append(r.spreadsheetID, writeRange, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: appending to %s: %v", ErrStoreUnavailable, writeRange, err)
	}

	return nil
}
