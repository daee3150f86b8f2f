package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SetupSheets initializes the Google Sheets client from the configured
// service-account credentials. A failure here is a fatal startup error
// for the caller to act on; this function never exits the process itself.
func SetupSheets(ctx context.Context, cfg *Config) (*sheets.Service, error) {
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, errors.New("SPREADSHEET_ID is required")
	}
	if cfg.Sheets.ServiceAccountJSON == "" {
		return nil, errors.New("GOOGLE_SERVICE_ACCOUNT_JSON is required")
	}

	var account map[string]interface{}
	if err := json.Unmarshal([]byte(cfg.Sheets.ServiceAccountJSON), &account); err != nil {
		return nil, fmt.Errorf("failed to parse GOOGLE_SERVICE_ACCOUNT_JSON: %w", err)
	}

	// Keys pasted into environment variables commonly arrive with the PEM
	// newlines escaped; undo that before handing the key to the auth layer.
	if key, ok := account["private_key"].(string); ok {
		account["private_key"] = strings.ReplaceAll(key, `\n`, "\n")
	}

	credentials, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return svc, nil
}
