package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/amount"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/holdings"
)

// ExportFormat represents the output format
type ExportFormat string

const (
	FormatTable ExportFormat = "table"
	FormatCSV   ExportFormat = "csv"
	FormatJSON  ExportFormat = "json"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case FormatTable, FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidInput, s)
	}
}

// MintReader fetches mint accounts in one batch
type MintReader interface {
	GetAccounts(ctx context.Context, pubkeys []solana.PublicKey) ([]*blockchain.AccountRecord, error)
}

// Row is one holding with its display amount
type Row struct {
	Mint     string `json:"mint"`
	Account  string `json:"account"`
	Balance  uint64 `json:"balance"`
	Decimals *uint8 `json:"decimals,omitempty"`
	Amount   string `json:"amount"`
}

// HoldingsExporter renders holdings for humans and scripts
type HoldingsExporter struct {
	mints  MintReader
	logger *zap.Logger
	now    func() time.Time
}

// NewHoldingsExporter creates a new exporter. mints may be nil, in which case
// balances are shown in base units.
func NewHoldingsExporter(mints MintReader, logger *zap.Logger) *HoldingsExporter {
	return &HoldingsExporter{
		mints:  mints,
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// Rows converts records to rows, reading each distinct mint once to format balances.
// A mint that cannot be read or decoded leaves its rows in base units.
func (e *HoldingsExporter) Rows(ctx context.Context, records []domain.HoldingRecord) ([]Row, error) {
	decimals, err := e.mintDecimals(ctx, records)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			Mint:    rec.Mint.String(),
			Account: rec.Account.String(),
			Balance: rec.Balance,
			Amount:  strconv.FormatUint(rec.Balance, 10),
		}
		if d, ok := decimals[rec.Mint]; ok {
			d := d
			row.Decimals = &d
			row.Amount = amount.FormatBaseUnits(rec.Balance, d)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e *HoldingsExporter) mintDecimals(ctx context.Context, records []domain.HoldingRecord) (map[solana.PublicKey]uint8, error) {
	out := make(map[solana.PublicKey]uint8)
	if e.mints == nil || len(records) == 0 {
		return out, nil
	}

	seen := make(map[solana.PublicKey]bool)
	var keys []solana.PublicKey
	for _, rec := range records {
		if !seen[rec.Mint] {
			seen[rec.Mint] = true
			keys = append(keys, rec.Mint)
		}
	}

	accounts, err := e.mints.GetAccounts(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read mints: %w", domain.ErrQueryUnavailable, err)
	}

	for i, acc := range accounts {
		if acc == nil || i >= len(keys) {
			continue
		}
		info, err := holdings.DecodeMint(*acc)
		if err != nil {
			e.logger.Debug("Mint not decodable, keeping base units",
				zap.String("mint", keys[i].String()),
				zap.Error(err))
			continue
		}
		out[keys[i]] = info.Decimals
	}
	return out, nil
}

// Write renders rows to w in the given format
func (e *HoldingsExporter) Write(w io.Writer, rows []Row, format ExportFormat) error {
	switch format {
	case FormatTable, "":
		return e.writeTable(w, rows)
	case FormatCSV:
		return e.writeCSV(w, rows)
	case FormatJSON:
		return e.writeJSON(w, rows)
	default:
		return fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidInput, format)
	}
}

// ExportToFile writes rows into a timestamped file under outputDir
func (e *HoldingsExporter) ExportToFile(rows []Row, format ExportFormat, owner solana.PublicKey, outputDir string) (string, error) {
	if format == FormatTable {
		return "", fmt.Errorf("%w: table format is for terminals only", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, e.generateFilename(owner, format))
	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := e.Write(file, rows, format); err != nil {
		return "", err
	}

	e.logger.Info("Holdings exported",
		zap.String("file", outputPath),
		zap.Int("count", len(rows)),
		zap.String("format", string(format)))
	return outputPath, nil
}

// generateFilename creates a filename from the owner and current time
func (e *HoldingsExporter) generateFilename(owner solana.PublicKey, format ExportFormat) string {
	timestamp := e.now().Format("20060102_150405")
	prefix := "holdings"
	if !owner.IsZero() {
		prefix += "_" + owner.String()[:8]
	}
	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, format)
}

func (e *HoldingsExporter) writeTable(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No token holdings.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MINT", "ACCOUNT", "AMOUNT")
	for _, r := range rows {
		t.Row(r.Mint, r.Account, r.Amount)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func (e *HoldingsExporter) writeCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"mint", "account", "balance", "decimals", "amount"}); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, r := range rows {
		decimals := ""
		if r.Decimals != nil {
			decimals = strconv.Itoa(int(*r.Decimals))
		}
		record := []string{r.Mint, r.Account, strconv.FormatUint(r.Balance, 10), decimals, r.Amount}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write holding: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (e *HoldingsExporter) writeJSON(w io.Writer, rows []Row) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime   time.Time `json:"export_time"`
		HoldingCount int       `json:"holding_count"`
		Holdings     []Row     `json:"holdings"`
	}{
		ExportTime:   e.now(),
		HoldingCount: len(rows),
		Holdings:     rows,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
