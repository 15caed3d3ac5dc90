package plan

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genadi53/next-ismp-sub001/internal/alias"
	"github.com/genadi53/next-ismp-sub001/internal/auth"
	"github.com/genadi53/next-ismp-sub001/internal/importer"
	"github.com/genadi53/next-ismp-sub001/internal/importer/workbook"
	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

type Handler struct {
	planSvc      *plan.Service
	importSvc    *importer.Service
	aliasSvc     *alias.Service
	maxFileBytes int64
}

func NewHandler(planSvc *plan.Service, importSvc *importer.Service, aliasSvc *alias.Service, maxFileBytes int64) *Handler {
	return &Handler{
		planSvc:      planSvc,
		importSvc:    importSvc,
		aliasSvc:     aliasSvc,
		maxFileBytes: maxFileBytes,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/types", h.types)
	r.Post("/{type}/import", h.importMonth)
	r.Get("/{type}/months/{month}", h.month)
	r.Get("/{type}/imports", h.imports)
}

func (h *Handler) types(w http.ResponseWriter, _ *http.Request) {
	schemas := plan.Schemas()

	resp := make([]schemaResponse, len(schemas))
	for i, s := range schemas {
		resp[i] = toSchemaResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) importMonth(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	planType, err := plan.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileBytes)
	if err := r.ParseMultipartForm(h.maxFileBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	month := r.FormValue("month")
	if !plan.ValidMonth(month) {
		http.Error(w, "month field must be formatted as yyyy-MM", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.importSvc.Import(planType, file, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	resolved, err := h.aliasSvc.Resolve(r.Context(), rows)
	if err != nil {
		slog.Warn("failed to resolve object aliases", "type", planType, "error", err)
	}

	result, err := h.planSvc.ReplaceMonth(r.Context(), plan.Batch{
		Type:      planType,
		Month:     month,
		UserAdded: user.ID,
		FileName:  header.Filename,
		Rows:      rows,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("plan month replaced",
		"type", planType,
		"month", month,
		"inserted", result.Inserted,
		"deleted", result.Deleted,
		"user", user.ID,
	)

	resp := toImportResponse(result.Import)
	resp.AliasesResolved = resolved

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) month(w http.ResponseWriter, r *http.Request) {
	planType, err := plan.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	rows, err := h.planSvc.ListMonth(r.Context(), planType, chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRowResponseList(rows))
}

func (h *Handler) imports(w http.ResponseWriter, r *http.Request) {
	planType, err := plan.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	imports, err := h.planSvc.ListImports(r.Context(), planType)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]importResponse, len(imports))
	for i, imp := range imports {
		resp[i] = toImportResponse(imp)
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeError maps the import error taxonomy to status codes. Repository
// failures are logged and reported without driver detail.
func writeError(w http.ResponseWriter, err error) {
	var (
		ingestErr *workbook.IngestionError
		validErr  *plan.ValidationError
		repoErr   *plan.RepositoryError
	)

	switch {
	case errors.As(err, &ingestErr), errors.Is(err, plan.ErrInvalidMonth):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, plan.ErrUnknownType):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &validErr):
		msg := err.Error()
		if hint := validErr.Hint(); hint != "" {
			msg += "; " + hint
		}

		http.Error(w, msg, http.StatusUnprocessableEntity)
	case errors.As(err, &repoErr):
		slog.Error("plan repository failure", "op", repoErr.Op, "error", repoErr.Err)
		http.Error(w, "storage failure, nothing was changed", http.StatusInternalServerError)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
