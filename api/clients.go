package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ClientRecord is a person or organization the firm represents. (Named to
// avoid colliding with the service Client itself.)
type ClientRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientList is a paginated client listing.
type ClientList struct {
	Count   int            `json:"count"`
	Next    string         `json:"next,omitempty"`
	Results []ClientRecord `json:"results"`
}

// ClientInput creates or replaces a client record.
type ClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// ClientOption is the slim form used by selection dropdowns.
type ClientOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ClientsAPI covers the client endpoints.
type ClientsAPI struct {
	c *Client
}

func (a *ClientsAPI) List(ctx context.Context, params map[string]string) (*ClientList, error) {
	out := &ClientList{}
	if err := a.c.do(ctx, http.MethodGet, "/clients/", toQuery(params), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Select returns the slim id/name listing used to populate pickers.
func (a *ClientsAPI) Select(ctx context.Context, params map[string]string) ([]ClientOption, error) {
	var out []ClientOption
	if err := a.c.do(ctx, http.MethodGet, "/clients/select/", toQuery(params), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ClientsAPI) Get(ctx context.Context, id int64) (*ClientRecord, error) {
	out := &ClientRecord{}
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/clients/%d/", id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ClientsAPI) Create(ctx context.Context, input ClientInput) (*ClientRecord, error) {
	out := &ClientRecord{}
	if err := a.c.do(ctx, http.MethodPost, "/clients/", nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ClientsAPI) Update(ctx context.Context, id int64, input ClientInput) (*ClientRecord, error) {
	out := &ClientRecord{}
	if err := a.c.do(ctx, http.MethodPut, fmt.Sprintf("/clients/%d/", id), nil, input, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ClientsAPI) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/clients/%d/", id), nil, nil, nil)
}
