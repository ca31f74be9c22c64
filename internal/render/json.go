// Package render turns bill documents into the files handed to the office:
// PDFs, a single workbook with one sheet per document, and JSON.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/CRAJKUMARSINGH/ContractorBillGenerator/internal/types"
)

// JSON renders all documents as one indented JSON object. Documents that do
// not apply to the bill are null.
func JSON(docs types.Documents) ([]byte, error) {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode documents: %w", err)
	}
	return append(data, '\n'), nil
}
