package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/google/uuid"

	"github.com/Lllllllleong/csvsplitter/internal/apperr"
	"github.com/Lllllllleong/csvsplitter/internal/archive"
	"github.com/Lllllllleong/csvsplitter/internal/config"
	"github.com/Lllllllleong/csvsplitter/internal/models"
	"github.com/Lllllllleong/csvsplitter/internal/services"
)

var (
	splitterInstance *services.CSVSplitterFunction
	once             sync.Once
	initErr          error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// "HandleSplitCSV" is the entry point name configured in GCP.
	functions.HTTP("HandleSplitCSV", handleSplitCSV)
}

// main is required by the Go Functions Framework.
func main() {}

// handleSplitCSV accepts a multipart CSV upload and responds with the zip of
// its chunks. GET returns the current split settings as JSON.
func handleSplitCSV(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		splitterInstance, initErr = services.NewCSVSplitter(context.Background(), config.GetEnv("ENV_FILE", ""))
	})
	if initErr != nil {
		slog.Error("Critical: CSV splitter initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	logCtx := slog.With("requestId", requestID)

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, logCtx, splitterInstance.Settings())
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	settings := splitterInstance.Settings()
	r.Body = http.MaxBytesReader(w, r.Body, settings.MaxUploadBytes)
	if err := r.ParseMultipartForm(settings.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logCtx.Warn("Upload exceeds size limit", "limit", settings.MaxUploadBytes)
			http.Error(w, "Request Entity Too Large: upload exceeds the size limit", http.StatusRequestEntityTooLarge)
			return
		}
		logCtx.Warn("Could not parse multipart form", "error", err)
		http.Error(w, "Bad Request: expected a multipart form upload", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		logCtx.Warn("Upload has no file field", "error", err)
		http.Error(w, "Bad Request: missing 'file' field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		logCtx.Warn("Rejected non-CSV upload", "filename", header.Filename)
		http.Error(w, "Bad Request: only .csv files are accepted", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logCtx.Error("Failed to read uploaded file", "error", err)
		http.Error(w, "Internal Server Error: failed to read upload", http.StatusInternalServerError)
		return
	}

	req := &models.SplitRequest{
		RequestID: requestID,
		Filename:  header.Filename,
		Data:      data,
	}
	if raw := r.FormValue("chunkSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Bad Request: chunkSize must be an integer", http.StatusBadRequest)
			return
		}
		req.ChunkSize = &n
	}

	res, err := splitterInstance.Process(r.Context(), req)
	if err != nil {
		// The specific error is already logged inside the Process method.
		status := statusFor(err)
		http.Error(w, http.StatusText(status)+": "+err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", archive.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.ArchiveName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Archive)))
	w.Header().Set("X-Chunk-Count", strconv.Itoa(res.ChunkCount))
	w.Header().Set("X-Row-Count", strconv.Itoa(res.RowCount))
	if _, err := w.Write(res.Archive); err != nil {
		logCtx.Error("Failed to write response", "error", err, "filename", header.Filename)
	}
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInput, apperr.KindConfig:
		return http.StatusBadRequest
	case apperr.KindSerialization:
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, logCtx *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logCtx.Error("Failed to write response", "error", err)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}
