package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casedesk/casedesk-go/api"
	"github.com/casedesk/casedesk-go/internal/utils"
)

func TestLoginDecodesTokensAndProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login/", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "jane@example.com", payload["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access": "access-1",
			"refresh": "refresh-1",
			"user": {"id": 7, "email": "jane@example.com", "firm": {"id": 1, "name": "Smith & Co", "role": "attorney"}}
		}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	resp, err := client.Auth().Login(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "access-1", resp.Access)
	require.Equal(t, "refresh-1", resp.Refresh)
	require.Equal(t, int64(7), resp.User.ID)
	require.NotNil(t, resp.User.Firm)
	require.Equal(t, "Smith & Co", resp.User.Firm.Name)
}

func TestCasesListPassesFilterParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cases/", r.URL.Path)
		require.Equal(t, "open", r.URL.Query().Get("status"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 1, "results": [{"id": 42, "title": "Estate of Doe", "status": "open"}]}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	list, err := client.Cases().List(context.Background(), map[string]string{"status": "open"})
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	require.Equal(t, "Estate of Doe", list.Results[0].Title)
}

func TestValidationFailureSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"title":["This field is required."]}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	_, err = client.Cases().Create(context.Background(), api.CaseInput{})
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "This field is required.", apiErr.Message())
}

func TestDeleteAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/cases/42/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := api.New(srv.URL)
	require.NoError(t, err)
	require.NoError(t, client.Cases().Delete(context.Background(), 42))
}

func TestUpdateProfileSendsOnlySetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, map[string]any{"first_name": "Janet"}, payload)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "first_name": "Janet"}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	profile, err := client.Auth().UpdateProfile(context.Background(), api.UpdateProfileInput{
		FirstName: utils.Ptr("Janet"),
	})
	require.NoError(t, err)
	require.Equal(t, "Janet", profile.FirstName)
}

func TestDocumentUploadIsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "retainer.pdf", r.FormValue("name"))
		require.Equal(t, "42", r.FormValue("case"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 9, "name": "retainer.pdf", "version": 1}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	doc, err := client.Documents().Upload(context.Background(), api.DocumentUpload{
		Name:    "retainer.pdf",
		CaseID:  utils.Ptr(int64(42)),
		Content: strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(9), doc.ID)
}
