package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"society/internal/billing"
	"society/internal/googleauth"
	"society/internal/payment"
	"society/internal/sheets"
	"society/internal/storage"
)

func testCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().StringP("output", "o", "", "")
	c.Flags().String("date", "", "")
	c.Flags().Int("timeout", 5, "")
	return c
}

func TestWriteOutput_Stdout(t *testing.T) {
	c := testCommand()
	var buf bytes.Buffer
	c.SetOut(&buf)

	require.NoError(t, writeOutput(c, map[string]int{"created": 2}, zerolog.Nop()))
	assert.Equal(t, "{\n  \"created\": 2\n}\n", buf.String())
}

func TestWriteOutput_File(t *testing.T) {
	c := testCommand()
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, c.Flags().Set("output", path))

	require.NoError(t, writeOutput(c, []string{"a"}, zerolog.Nop()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(data))
}

func TestParseDateFlag(t *testing.T) {
	c := testCommand()

	d, err := parseDateFlag(c, "date")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	require.NoError(t, c.Flags().Set("date", "2024-04-08"))
	d, err = parseDateFlag(c, "date")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-08", d.Format("2006-01-02"))

	require.NoError(t, c.Flags().Set("date", "08/04/2024"))
	_, err = parseDateFlag(c, "date")
	assert.EqualError(t, err, "--date must be a date in YYYY-MM-DD format")
}

func TestHandleError(t *testing.T) {
	log := zerolog.Nop()

	tests := []struct {
		name     string
		err      error
		contains string
		is       error
	}{
		{"timeout", fmt.Errorf("load: %w", context.DeadlineExceeded), "timed out", nil},
		{"credentials", fmt.Errorf("client: %w", googleauth.ErrMissingCredentials), "GOOGLE_APPLICATION_CREDENTIALS", nil},
		{"missing sheet", fmt.Errorf("ReadDocument: Bills: %w", sheets.ErrSheetNotFound), "society init", sheets.ErrSheetNotFound},
		{"malformed", &storage.DocumentError{Op: "GetFlats", Sheet: storage.SheetFlats, Err: fmt.Errorf("%w: bad", storage.ErrMalformedDocument)}, "Fix the sheet", storage.ErrMalformedDocument},
		{"bills exist", fmt.Errorf("Generate: %w", billing.ErrBillsExist), "--skip-existing", billing.ErrBillsExist},
		{"not found passes through", fmt.Errorf("Record: %w: f9", payment.ErrFlatNotFound), "f9", payment.ErrFlatNotFound},
		{"permission", errors.New("googleapi: Error 403: PERMISSION_DENIED"), "Share the spreadsheet", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handleError(tt.err, log)
			assert.Contains(t, got.Error(), tt.contains)
			if tt.is != nil {
				assert.ErrorIs(t, got, tt.is)
			}
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"init"},
		{"bills", "generate"},
		{"bills", "list"},
		{"bills", "delete"},
		{"payments", "add"},
		{"payments", "list"},
		{"payments", "delete"},
		{"ledger"},
		{"reports", "outstanding"},
		{"reports", "collection"},
		{"reports", "fee-position"},
		{"reports", "income-expense"},
		{"reports", "dashboard"},
		{"expenses", "add"},
		{"expenses", "list"},
		{"expenses", "delete"},
		{"serve"},
	} {
		c, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], c.Name())
	}
}
