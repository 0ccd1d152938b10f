package handler

import (
	"errors"
	"net/http"

	"github.com/TechLionDev/InviStar/internal/csvimport"
	"github.com/TechLionDev/InviStar/internal/logging"
	"go.uber.org/zap"
)

// maxImportSize caps uploaded CSV files.
const maxImportSize = 5 << 20

// readImport parses the "file" part of a multipart upload as CSV.
func readImport(w http.ResponseWriter, r *http.Request, entity csvimport.Entity) ([]csvimport.Row, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return nil, false
	}
	defer file.Close()

	rows, err := csvimport.Parse(file, entity)
	if err != nil {
		if errors.Is(err, csvimport.ErrTooFewRows) || errors.Is(err, csvimport.ErrNoDataRows) {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid CSV file")
		return nil, false
	}
	return rows, true
}

func rowFailed(r *http.Request, index int, err error) importError {
	logging.FromContext(r.Context()).Warn("import row failed", zap.Int("row", index), zap.Error(err))
	return importError{Row: index, Message: "failed to save row"}
}
