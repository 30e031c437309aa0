package portfolio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the worksheet written by WriteWorkbook.
const DefaultSheetName = "Portfolio"

const dateNumFmt = "yyyy-mm-dd"

const (
	colAssetType = iota
	colInstrument
	colIssuer
	colCurrency
	colInvested
	colPurchaseDate
	colMaturityDate
	colInterestRate
	colCurrentValue
	colValuationDate
	colFinalValue
	colProfitLoss
	columnCount
)

// Columns is the fixed workbook header, in order.
var Columns = []string{
	"Asset Type",
	"Instrument",
	"Issuer",
	"Currency",
	"Invested (PLN)",
	"Purchase Date",
	"Maturity Date",
	"Interest Rate (%)",
	"Current Value",
	"Valuation Date",
	"Final Value",
	"Profit / Loss",
}

// legacyColumns are the Polish headers of workbooks written by the
// original spreadsheet dashboard; they are accepted on read.
var legacyColumns = []string{
	"Typ aktywa",
	"Instrument",
	"Emitent",
	"Waluta",
	"Kwota (PLN)",
	"Data zakupu",
	"Data wykupu",
	"Oprocentowanie (%)",
	"Kwota bieżąca",
	"Data wyceny",
	"Kwota końcowa",
	"Zysk / Strata",
}

var headerIndex = buildHeaderIndex()

func buildHeaderIndex() map[string]int {
	idx := make(map[string]int, 2*columnCount)
	for i := 0; i < columnCount; i++ {
		idx[strings.ToLower(Columns[i])] = i
		idx[strings.ToLower(legacyColumns[i])] = i
	}
	return idx
}

// ReadWorkbook loads the portfolio table from an .xlsx file.
func ReadWorkbook(path, sheet string) ([]Holding, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, WrapError(ErrCodeStorage, "open workbook", err)
	}
	defer file.Close()
	return DecodeWorkbook(file, sheet)
}

// DecodeWorkbook parses a workbook. The named sheet is used when present,
// otherwise the first sheet. Every one of the twelve columns must be
// present in the header row.
func DecodeWorkbook(r io.Reader, sheet string) ([]Holding, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, WrapError(ErrCodeSchema, "parse workbook", err)
	}
	defer f.Close()

	name := pickSheet(f.GetSheetList(), sheet)
	if name == "" {
		return nil, NewError(ErrCodeSchema, "workbook has no sheets")
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, WrapError(ErrCodeSchema, "read sheet "+name, err)
	}
	if len(rows) == 0 {
		return nil, NewError(ErrCodeSchema, "missing header row")
	}

	positions, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	holdings := []Holding{}
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		h, err := decodeRow(row, positions)
		if err != nil {
			return nil, WrapError(ErrCodeSchema, fmt.Sprintf("row %d", i+2), err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

// WriteWorkbook overwrites path with the full table. The file is written
// to a temporary sibling first and renamed into place.
func WriteWorkbook(path, sheet string, holdings []Holding) error {
	data, err := EncodeWorkbook(sheet, holdings)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".portfolio-*.xlsx")
	if err != nil {
		return WrapError(ErrCodeStorage, "create temp workbook", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return WrapError(ErrCodeStorage, "write workbook", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return WrapError(ErrCodeStorage, "sync workbook", err)
	}
	if err := tmp.Close(); err != nil {
		return WrapError(ErrCodeStorage, "close workbook", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return WrapError(ErrCodeStorage, "replace workbook", err)
	}
	return nil
}

// EncodeWorkbook renders the table as .xlsx bytes.
func EncodeWorkbook(sheet string, holdings []Holding) ([]byte, error) {
	if sheet == "" {
		sheet = DefaultSheetName
	}
	f := excelize.NewFile()
	defer f.Close()

	if first := f.GetSheetName(0); first != sheet {
		if err := f.SetSheetName(first, sheet); err != nil {
			return nil, WrapError(ErrCodeInternal, "name sheet", err)
		}
	}
	dateFmt := dateNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "create date style", err)
	}

	header := make([]any, columnCount)
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, WrapError(ErrCodeInternal, "write header", err)
	}

	for i, h := range holdings {
		if err := writeRow(f, sheet, i+2, h, dateStyle); err != nil {
			return nil, WrapError(ErrCodeInternal, fmt.Sprintf("write row %d", i+2), err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, WrapError(ErrCodeInternal, "encode workbook", err)
	}
	return buf.Bytes(), nil
}

// numericCell is a number written verbatim into a cell of numeric type.
type numericCell string

func writeRow(f *excelize.File, sheet string, row int, h Holding, dateStyle int) error {
	values := []any{
		string(h.AssetType),
		h.Instrument,
		h.Issuer,
		string(h.Currency),
		cellAmount(h.Invested),
		h.PurchaseDate,
		h.MaturityDate,
		cellAmount(h.InterestRate),
		cellAmount(h.CurrentValue),
		h.ValuationDate,
		cellAmount(h.FinalValue),
		cellAmount(h.ProfitLoss),
	}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		switch value := v.(type) {
		case nil:
			continue
		case Date:
			if value.IsZero() {
				continue
			}
			if err := f.SetCellValue(sheet, cell, value.Time()); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
				return err
			}
		case string:
			if value == "" {
				continue
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
		case numericCell:
			if err := f.SetCellDefault(sheet, cell, string(value)); err != nil {
				return err
			}
		default:
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellAmount carries the exact decimal text so numeric cells keep every
// digit instead of passing through float64.
func cellAmount(a *Amount) any {
	if a == nil {
		return nil
	}
	return numericCell(a.Decimal.String())
}

func pickSheet(sheets []string, want string) string {
	for _, s := range sheets {
		if s == want {
			return s
		}
	}
	if len(sheets) == 0 {
		return ""
	}
	return sheets[0]
}

func mapHeader(header []string) ([columnCount]int, error) {
	var positions [columnCount]int
	for i := range positions {
		positions[i] = -1
	}
	for pos, name := range header {
		if i, ok := headerIndex[strings.ToLower(strings.TrimSpace(name))]; ok && positions[i] < 0 {
			positions[i] = pos
		}
	}
	var missing []string
	for i, pos := range positions {
		if pos < 0 {
			missing = append(missing, Columns[i])
		}
	}
	if len(missing) > 0 {
		return positions, NewError(ErrCodeSchema, "missing columns: "+strings.Join(missing, ", "))
	}
	return positions, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func decodeRow(row []string, positions [columnCount]int) (Holding, error) {
	cell := func(col int) string {
		pos := positions[col]
		if pos >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[pos])
	}

	h := Holding{
		AssetType:     ParseAssetType(cell(colAssetType)),
		Instrument:    cell(colInstrument),
		Issuer:        cell(colIssuer),
		Currency:      ParseCurrency(cell(colCurrency)),
		PurchaseDate:  parseDateCell(cell(colPurchaseDate)),
		MaturityDate:  parseDateCell(cell(colMaturityDate)),
		ValuationDate: parseDateCell(cell(colValuationDate)),
	}
	amounts := []struct {
		col int
		dst **Amount
	}{
		{colInvested, &h.Invested},
		{colInterestRate, &h.InterestRate},
		{colCurrentValue, &h.CurrentValue},
		{colFinalValue, &h.FinalValue},
		{colProfitLoss, &h.ProfitLoss},
	}
	for _, a := range amounts {
		v, err := ParseAmount(cell(a.col))
		if err != nil {
			return Holding{}, fmt.Errorf("column %q: %w", Columns[a.col], err)
		}
		*a.dst = v
	}
	return h, nil
}

// parseDateCell accepts Excel serial numbers as well as textual dates.
// Anything else is an undefined date.
func parseDateCell(s string) Date {
	if s == "" {
		return Date{}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return Date{}
		}
		return DateOf(t)
	}
	return ParseDate(s)
}
