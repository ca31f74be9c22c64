package billing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// NormalizeCell turns a raw cell into a number. Numeric cells pass through,
// blank cells are 0, and text is trimmed and stripped of thousands
// separators and embedded spaces before parsing. Text that still does not
// parse returns a *CellParseError.
//
// The sign is preserved; callers decide whether a negative value is allowed.
func NormalizeCell(c types.Cell) (float64, error) {
	switch c.Kind {
	case types.CellEmpty:
		return 0, nil
	case types.CellNumber:
		return c.Number, nil
	}

	cleaned := strings.TrimSpace(c.Text)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &CellParseError{Value: c.Text, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &CellParseError{Value: c.Text}
	}
	return v, nil
}

// CheckNonNegative rejects a Bill Quantity sheet that carries a negative
// quantity or rate in any data row. Cells that do not parse are left to the
// accumulator, which skips their rows.
func CheckNonNegative(billQuantity types.CellGrid) error {
	l := Layout.BillQuantity
	for row := l.DataStartRow; row < billQuantity.Rows(); row++ {
		if v, err := NormalizeCell(billQuantity.At(row, l.Quantity)); err == nil && v < 0 {
			return NewValidationError("quantity",
				fmt.Sprintf("Negative quantities are not allowed (%s row %d)", l.Sheet, row+1))
		}
		if v, err := NormalizeCell(billQuantity.At(row, l.Rate)); err == nil && v < 0 {
			return NewValidationError("rate",
				fmt.Sprintf("Negative rates are not allowed (%s row %d)", l.Sheet, row+1))
		}
	}
	return nil
}
