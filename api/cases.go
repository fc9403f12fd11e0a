package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Case is a matter tracked by the firm.
type Case struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	CaseTypeID  int64      `json:"case_type"`
	ClientID    int64      `json:"client"`
	OpenedAt    time.Time  `json:"opened_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// CaseList is a paginated case listing.
type CaseList struct {
	Count   int    `json:"count"`
	Next    string `json:"next,omitempty"`
	Results []Case `json:"results"`
}

// CaseInput creates or replaces a case.
type CaseInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	CaseTypeID  int64      `json:"case_type"`
	ClientID    int64      `json:"client"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// CaseAssignment links a firm member to a case.
type CaseAssignment struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user"`
	Role       string    `json:"role,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}

// CaseAssignmentInput adds a member to a case.
type CaseAssignmentInput struct {
	UserID int64  `json:"user"`
	Role   string `json:"role,omitempty"`
}

// CaseNote is a free-form note on a case.
type CaseNote struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	AuthorID  int64     `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// CasesAPI covers the case endpoints.
type CasesAPI struct {
	c *Client
}

// List returns cases matching the filter parameters (status, client, search
// and so on, passed through verbatim).
func (a *CasesAPI) List(ctx context.Context, params map[string]string) (*CaseList, error) {
	out := &CaseList{}
	if err := a.c.do(ctx, http.MethodGet, "/cases/", toQuery(params), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CasesAPI) Get(ctx context.Context, id int64) (*Case, error) {
	out := &Case{}
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/cases/%d/", id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CasesAPI) Create(ctx context.Context, input CaseInput) (*Case, error) {
	out := &Case{}
	if err := a.c.do(ctx, http.MethodPost, "/cases/", nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CasesAPI) Update(ctx context.Context, id int64, input CaseInput) (*Case, error) {
	out := &Case{}
	if err := a.c.do(ctx, http.MethodPut, fmt.Sprintf("/cases/%d/", id), nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CasesAPI) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/cases/%d/", id), nil, nil, nil)
}

func (a *CasesAPI) Assignments(ctx context.Context, caseID int64) ([]CaseAssignment, error) {
	var out []CaseAssignment
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/cases/%d/assignments/", caseID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CasesAPI) AddAssignment(ctx context.Context, caseID int64, input CaseAssignmentInput) (*CaseAssignment, error) {
	out := &CaseAssignment{}
	if err := a.c.do(ctx, http.MethodPost, fmt.Sprintf("/cases/%d/assignments/", caseID), nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CasesAPI) RemoveAssignment(ctx context.Context, caseID, assignmentID int64) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/cases/%d/assignments/%d/", caseID, assignmentID), nil, nil, nil)
}

func (a *CasesAPI) Notes(ctx context.Context, caseID int64) ([]CaseNote, error) {
	var out []CaseNote
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/cases/%d/notes/", caseID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CasesAPI) AddNote(ctx context.Context, caseID int64, body string) (*CaseNote, error) {
	out := &CaseNote{}
	payload := map[string]string{"body": body}
	if err := a.c.do(ctx, http.MethodPost, fmt.Sprintf("/cases/%d/notes/", caseID), nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CasesAPI) DeleteNote(ctx context.Context, caseID, noteID int64) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/cases/%d/notes/%d/", caseID, noteID), nil, nil, nil)
}

// CaseType is a firm-configured category for cases.
type CaseType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CaseTypesAPI covers the case-type lookup table.
type CaseTypesAPI struct {
	c *Client
}

func (a *CaseTypesAPI) List(ctx context.Context) ([]CaseType, error) {
	var out []CaseType
	if err := a.c.do(ctx, http.MethodGet, "/case-types/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CaseTypesAPI) Create(ctx context.Context, name string) (*CaseType, error) {
	out := &CaseType{}
	payload := map[string]string{"name": name}
	if err := a.c.do(ctx, http.MethodPost, "/case-types/", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CaseTypesAPI) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/case-types/%d/", id), nil, nil, nil)
}

func toQuery(params map[string]string) url.Values {
	if len(params) == 0 {
		return nil
	}
	query := make(url.Values, len(params))
	for k, v := range params {
		query.Set(k, v)
	}
	return query
}
