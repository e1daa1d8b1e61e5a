package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldstack/simport/internal/csvio"
	"github.com/fieldstack/simport/internal/engine"
)

// healthResponse describes the running service and its active template so
// clients can discover the rules their exports will be held to.
type healthResponse struct {
	OK               bool     `json:"ok"`
	Service          string   `json:"service"`
	Version          string   `json:"version"`
	Time             string   `json:"time"`
	TemplateColumns  []string `json:"template_columns"`
	AllowedTaxCodes  []string `json:"allowed_tax_codes"`
	RequiredNonempty []string `json:"required_nonempty"`
	RequiredNumeric  []string `json:"required_numeric"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	schema := s.engine.Schema()
	writeJSON(w, http.StatusOK, healthResponse{
		OK:               true,
		Service:          "simport",
		Version:          s.version,
		Time:             time.Now().UTC().Format(time.RFC3339),
		TemplateColumns:  schema.Columns,
		AllowedTaxCodes:  schema.AllowedTaxCodes,
		RequiredNonempty: schema.RequiredNonempty,
		RequiredNumeric:  schema.RequiredNumeric,
	})
}

// handleProcess accepts a multipart upload in form field "file" and answers
// with a CSV attachment: the mapped template file when the upload validates,
// the error report otherwise. Both are 200s; validation failure is a normal
// outcome, not a transport error. The X-Simport-Result header tells the two
// apart without parsing the filename.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	upload, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "no file uploaded; use form field 'file'",
		})
		return
	}
	defer func() { _ = upload.Close() }()

	headers, rows, err := csvio.Read(upload, header.Filename)
	if err != nil {
		s.logger.Warn("unreadable upload", "filename", header.Filename, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	artifact, stats := s.engine.Process(headers, rows)

	result := "mapped"
	if _, rejected := artifact.(engine.ErrorReport); rejected {
		result = "errors"
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", csvio.ArtifactFilename(header.Filename, artifact)))
	w.Header().Set("X-Simport-Result", result)
	w.Header().Set("X-Simport-Run-Id", stats.RunID)

	if err := csvio.WriteArtifact(w, artifact); err != nil {
		s.logger.Error("writing artifact", "run_id", stats.RunID, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
