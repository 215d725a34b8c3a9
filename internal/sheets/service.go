package sheets

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"society/internal/googleauth"
	"society/internal/logger"
)

// MaxCellChars is the Google Sheets limit on characters in a single cell.
const MaxCellChars = 50000

// ErrSheetNotFound is returned when a document sheet does not exist in the spreadsheet.
var ErrSheetNotFound = errors.New("sheet not found")

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// Service stores JSON documents in a Google Spreadsheet, one document per sheet.
// A document lives in column A starting at A1; documents longer than one cell
// continue in A2, A3, ... and are joined back together on read.
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// NewSheetsService creates a new Google Sheets service for the spreadsheet at sheetURL
func NewSheetsService(ctx context.Context, sheetURL string) (*Service, error) {
	const op = "NewSheetsService"

	client, err := googleauth.Client(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewSheetsServiceWithOptions(ctx, sheetURL, option.WithHTTPClient(client))
}

// NewSheetsServiceWithOptions creates the service with explicit client options
func NewSheetsServiceWithOptions(ctx context.Context, sheetURL string, opts ...option.ClientOption) (*Service, error) {
	const op = "NewSheetsServiceWithOptions"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := ExtractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	sheetsService, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
// A bare ID is returned unchanged.
func ExtractSpreadsheetID(url string) (string, error) {
	if matches := spreadsheetIDPattern.FindStringSubmatch(url); len(matches) == 2 {
		return matches[1], nil
	}
	if url != "" && !strings.ContainsAny(url, "/:?") {
		return url, nil
	}
	return "", fmt.Errorf("invalid Google Sheets URL format")
}

// SpreadsheetID returns the ID of the backing spreadsheet
func (s *Service) SpreadsheetID() string {
	return s.spreadsheetID
}

// EnsureSheets creates any of the named sheets missing from the spreadsheet and
// returns the names it created
func (s *Service) EnsureSheets(ctx context.Context, names []string) ([]string, error) {
	const op = "EnsureSheets"

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		existing[sheet.Properties.Title] = true
	}

	var requests []*sheets.Request
	var created []string
	for _, name := range names {
		if existing[name] {
			continue
		}
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		})
		created = append(created, name)
	}

	if len(requests) == 0 {
		return nil, nil
	}

	s.log.Info().Strs("sheets", created).Msg("Creating missing sheets")

	batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	if _, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets: %w", op, err)
	}

	return created, nil
}

// ReadDocument returns the JSON document stored in the sheet, or nil when the sheet is empty
func (s *Service) ReadDocument(ctx context.Context, sheetName string) ([]byte, error) {
	const op = "ReadDocument"

	values, err := s.ReadRange(ctx, sheetName+"!A:A")
	if err != nil {
		if isRangeError(err) {
			return nil, fmt.Errorf("%s: %s: %w", op, sheetName, ErrSheetNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var sb strings.Builder
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprint(row[0]))
	}

	if strings.TrimSpace(sb.String()) == "" {
		return nil, nil
	}

	s.log.Debug().
		Str("sheet", sheetName).
		Int("chunks", len(values)).
		Int("bytes", sb.Len()).
		Msg("Read document")

	return []byte(sb.String()), nil
}

// WriteDocument replaces the document stored in the sheet. Rows left over
// from a longer previous version are blanked in the same update, so a failed
// write never leaves a mix of old and new chunks.
func (s *Service) WriteDocument(ctx context.Context, sheetName string, data []byte) error {
	const op = "WriteDocument"

	existing, err := s.ReadRange(ctx, sheetName+"!A:A")
	if err != nil {
		if isRangeError(err) {
			return fmt.Errorf("%s: %s: %w", op, sheetName, ErrSheetNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	chunks := ChunkDocument(string(data), MaxCellChars)
	values := DocumentRows(chunks, len(existing))

	writeRange := fmt.Sprintf("%s!A1:A%d", sheetName, len(values))
	_, err = s.sheetsService.Spreadsheets.Values.Update(
		s.spreadsheetID,
		writeRange,
		&sheets.ValueRange{Values: values},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		if isRangeError(err) {
			return fmt.Errorf("%s: %s: %w", op, sheetName, ErrSheetNotFound)
		}
		return fmt.Errorf("%s: failed to write %s: %w", op, sheetName, err)
	}

	s.log.Debug().
		Str("sheet", sheetName).
		Int("chunks", len(chunks)).
		Int("blanked", len(values)-len(chunks)).
		Int("bytes", len(data)).
		Msg("Wrote document")

	return nil
}

// DocumentRows lays chunks out one per row and pads with empty cells up to
// previousRows, overwriting what a longer document left behind.
func DocumentRows(chunks []string, previousRows int) [][]interface{} {
	n := len(chunks)
	if previousRows > n {
		n = previousRows
	}
	rows := make([][]interface{}, n)
	for i := range rows {
		if i < len(chunks) {
			rows[i] = []interface{}{chunks[i]}
		} else {
			rows[i] = []interface{}{""}
		}
	}
	return rows
}

// ReadRange reads values from a specified range in the spreadsheet
func (s *Service) ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	const op = "ReadRange"

	s.log.Debug().
		Str("range", rangeSpec).
		Msg("Reading range from spreadsheet")

	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, rangeSpec).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read range %s: %w", op, rangeSpec, err)
	}

	return resp.Values, nil
}

// ChunkDocument splits a document into pieces of at most size runes
func ChunkDocument(doc string, size int) []string {
	runes := []rune(doc)
	if len(runes) <= size {
		return []string{doc}
	}

	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func isRangeError(err error) bool {
	return strings.Contains(err.Error(), "Unable to parse range")
}
