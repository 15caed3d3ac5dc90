package plan

import (
	"time"

	"github.com/google/uuid"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

type fieldResponse struct {
	Name    string             `json:"name"`
	Header  string             `json:"header"`
	Default plan.DefaultPolicy `json:"default"`
}

type schemaResponse struct {
	Type    plan.Type       `json:"type"`
	Label   string          `json:"label"`
	Headers []string        `json:"headers"`
	Fields  []fieldResponse `json:"fields"`
}

type rowResponse struct {
	PlanMonthDay string              `json:"plan_month_day"`
	Object       string              `json:"object"`
	Values       map[string]*float64 `json:"values"`
	UserAdded    string              `json:"user_added,omitempty"`
}

type importResponse struct {
	ID              uuid.UUID `json:"id"`
	Type            plan.Type `json:"type"`
	Month           string    `json:"month"`
	Inserted        int       `json:"inserted"`
	Deleted         int64     `json:"deleted"`
	AliasesResolved int       `json:"aliases_resolved,omitempty"`
	UserAdded       string    `json:"user_added"`
	FileName        string    `json:"file_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toSchemaResponse(s plan.Schema) schemaResponse {
	resp := schemaResponse{
		Type:    s.Type,
		Label:   s.Label,
		Headers: s.Headers(),
		Fields:  make([]fieldResponse, len(s.Fields)),
	}

	for i, f := range s.Fields {
		resp.Fields[i] = fieldResponse{Name: f.Name, Header: f.Header, Default: f.Default}
	}

	return resp
}

func toRowResponseList(rows []plan.Row) []rowResponse {
	resp := make([]rowResponse, len(rows))
	for i, r := range rows {
		resp[i] = rowResponse{
			PlanMonthDay: r.MonthDay,
			Object:       r.Object,
			Values:       r.Values,
			UserAdded:    r.UserAdded,
		}
	}

	return resp
}

func toImportResponse(imp plan.Import) importResponse {
	return importResponse{
		ID:        imp.ID,
		Type:      imp.Type,
		Month:     imp.Month,
		Inserted:  imp.Inserted,
		Deleted:   imp.Deleted,
		UserAdded: imp.UserAdded,
		FileName:  imp.FileName,
		CreatedAt: imp.CreatedAt,
	}
}
