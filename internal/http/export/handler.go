package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genadi53/next-ismp-sub001/internal/export"
	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{type}/months/{month}", h.month)
	r.Get("/{type}/template", h.template)
}

func (h *Handler) month(w http.ResponseWriter, r *http.Request) {
	planType, err := plan.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	month := chi.URLParam(r, "month")
	if !plan.ValidMonth(month) {
		http.Error(w, plan.ErrInvalidMonth.Error(), http.StatusBadRequest)
		return
	}

	// Buffered so a failure can still be reported with a status code.
	var buf bytes.Buffer

	n, err := h.svc.Month(r.Context(), planType, month, &buf)
	if err != nil {
		slog.Error("failed to export month", "type", planType, "month", month, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)

		return
	}

	if n == 0 {
		http.Error(w, fmt.Sprintf("no %s rows stored for %s", planType, month), http.StatusNotFound)
		return
	}

	writeWorkbook(w, export.FileName(planType, month), &buf)
}

func (h *Handler) template(w http.ResponseWriter, r *http.Request) {
	planType, err := plan.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := export.Template(planType, &buf); err != nil {
		if errors.Is(err, plan.ErrUnknownType) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, "export failed", http.StatusInternalServerError)

		return
	}

	writeWorkbook(w, export.FileName(planType, "template"), &buf)
}

func writeWorkbook(w http.ResponseWriter, name string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write workbook", "error", err)
	}
}
