package service

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	ingestdomain "github.com/happytownlabs/happytown/internal/ingest/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Expected column order: building number, entrance number, door number,
// household name (optional), outstanding balance.
const (
	colBuilding = iota
	colEntrance
	colDoor
	colHousehold
	colBalance
)

// parseWorkbook decodes the first sheet of an xlsx payload. The header row is
// skipped; fully empty rows are ignored. Bad rows become RowFailures, only an
// unreadable container is an error.
func parseWorkbook(content []byte) ([]ingestdomain.ParsedRow, []ingestdomain.RowFailure, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ingestdomain.ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: workbook has no sheets", ingestdomain.ErrUnreadableWorkbook)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ingestdomain.ErrUnreadableWorkbook, err)
	}

	var (
		parsed   []ingestdomain.ParsedRow
		failures []ingestdomain.RowFailure
	)
	for i, cells := range rows {
		if i == 0 {
			continue // header
		}
		rowNumber := i + 1

		row, failure := parseRow(rowNumber, cells)
		if failure != nil {
			failures = append(failures, *failure)
			continue
		}
		if row != nil {
			parsed = append(parsed, *row)
		}
	}
	return parsed, failures, nil
}

func parseRow(rowNumber int, cells []string) (*ingestdomain.ParsedRow, *ingestdomain.RowFailure) {
	building := cellValue(cells, colBuilding)
	entranceRaw := cellValue(cells, colEntrance)
	doorRaw := cellValue(cells, colDoor)
	household := cellValue(cells, colHousehold)
	balanceRaw := cellValue(cells, colBalance)

	if building == "" && entranceRaw == "" && doorRaw == "" && household == "" && balanceRaw == "" {
		return nil, nil // empty filler row
	}

	fail := func(format string, args ...any) (*ingestdomain.ParsedRow, *ingestdomain.RowFailure) {
		return nil, &ingestdomain.RowFailure{RowNumber: rowNumber, Reason: fmt.Sprintf(format, args...)}
	}

	if building == "" {
		return fail("missing building number")
	}
	entrance, err := parseCellInt(entranceRaw)
	if err != nil {
		return fail("invalid entrance number %q", entranceRaw)
	}
	door, err := parseCellInt(doorRaw)
	if err != nil {
		return fail("invalid door number %q", doorRaw)
	}
	if balanceRaw == "" {
		return fail("missing outstanding balance")
	}
	balance, err := decimal.NewFromString(balanceRaw)
	if err != nil {
		return fail("invalid outstanding balance %q", balanceRaw)
	}

	return &ingestdomain.ParsedRow{
		RowNumber:      rowNumber,
		BuildingNumber: building,
		EntranceNumber: entrance,
		DoorNumber:     door,
		HouseholdName:  household,
		Balance:        balance,
	}, nil
}

func cellValue(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// parseCellInt accepts integer text and numeric cells formatted with a
// trailing fraction ("2.0").
func parseCellInt(raw string) (int, error) {
	if raw == "" {
		return 0, strconv.ErrSyntax
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}
