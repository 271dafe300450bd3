package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Brittles42/Shelfie/internal/confirm"
	"github.com/Brittles42/Shelfie/internal/pipeline"
)

// maxImageSize bounds uploaded capture frames.
const maxImageSize = 10 * 1024 * 1024

// HandleScan starts a capture run. The request is either a multipart image
// upload (camera frame or photo library file) or a JSON body carrying an
// already-decoded barcode value or a manually typed title.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input pipeline.Input

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var request struct {
			Barcode string `json:"barcode"`
			Title   string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		input.Barcode = request.Barcode
		input.Title = request.Title
	} else {
		imageData, ok := h.readImageUpload(w, r)
		if !ok {
			return
		}
		input.Image = imageData
		input.ScanBarcode = r.FormValue("scan_barcode") == "true"
	}

	candidate, err := h.pipeline.Run(r.Context(), input)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoInput) {
			h.writeError(w, "Provide an image, barcode, or title", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Capture failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if candidate == nil {
		h.writeError(w, "No book found", http.StatusNotFound)
		return
	}

	stage := confirm.NewStage(candidate, h.store)
	scanID := h.addPending(stage)

	h.writeJSON(w, map[string]any{
		"scan_id":   scanID,
		"candidate": candidate,
	})
}

// HandleScanDetail confirms or cancels a pending scan.
func (h *Handler) HandleScanDetail(w http.ResponseWriter, r *http.Request) {
	scanID := strings.TrimPrefix(r.URL.Path, "/api/scans/")
	scanID = strings.TrimSuffix(scanID, "/confirm")

	stage, ok := h.getPending(scanID)
	if !ok {
		h.writeError(w, "Scan not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.confirmScan(w, r, scanID, stage)
	case http.MethodDelete:
		stage.Cancel()
		h.removePending(scanID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) confirmScan(w http.ResponseWriter, r *http.Request, scanID string, stage *confirm.Stage) {
	var request struct {
		Title   *string  `json:"title"`
		Authors []string `json:"authors"`
	}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	record, err := stage.Commit(confirm.Edits{Title: request.Title, Authors: request.Authors})
	if err != nil {
		if errors.Is(err, confirm.ErrEmptyTitle) {
			// Stage stays pending; the client can retry with a title.
			h.writeError(w, "Please enter a title", http.StatusUnprocessableEntity)
			return
		}
		h.writeError(w, "Failed to add book: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.removePending(scanID)
	h.writeJSON(w, record)
}

// readImageUpload pulls the capture frame out of a multipart form, trying
// the same field names the upload UI uses.
func (h *Handler) readImageUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	file, _, err := r.FormFile("files")
	if err != nil {
		file, _, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return nil, false
		}
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if len(imageData) >= maxImageSize {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return nil, false
	}

	return imageData, true
}
