package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models"
	"cabinet/internal/domain/services"
	"cabinet/internal/httputil"
)

const testFolderID = "7f3c2a4e-9a61-4a51-8f43-0c1d2e3f4a5b"

// mockFolderService records the last call and returns canned results.
type mockFolderService struct {
	err error

	gotUserID   string
	gotFolderID string
	gotCreate   *services.CreateFolderRequest
	gotUpdate   *services.UpdateFolderRequest
}

func (m *mockFolderService) CreateFolder(ctx context.Context, userID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	m.gotUserID, m.gotCreate = userID, req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Folder{ID: testFolderID, Name: req.Name, OwnerID: userID}, nil
}

func (m *mockFolderService) ListFolders(ctx context.Context, userID string) (*models.FolderListing, error) {
	m.gotUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	return &models.FolderListing{
		UserFolders:   []models.Folder{{ID: "a", OwnerID: userID}},
		SharedFolders: []models.Folder{},
	}, nil
}

func (m *mockFolderService) GetFolderWithFiles(ctx context.Context, userID, folderID string) (*models.FolderWithFiles, error) {
	m.gotUserID, m.gotFolderID = userID, folderID
	if m.err != nil {
		return nil, m.err
	}
	return &models.FolderWithFiles{Folder: &models.Folder{ID: folderID}, Files: []models.File{}}, nil
}

func (m *mockFolderService) GetFolderWithSharedFiles(ctx context.Context, userID, folderID string) (*models.FolderWithSharedFiles, error) {
	m.gotUserID, m.gotFolderID = userID, folderID
	if m.err != nil {
		return nil, m.err
	}
	return &models.FolderWithSharedFiles{
		Folder:      &models.Folder{ID: folderID},
		SharedFiles: []models.File{{ID: "file-1", FolderID: folderID}},
	}, nil
}

func (m *mockFolderService) UpdateFolder(ctx context.Context, userID, folderID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	m.gotUserID, m.gotFolderID, m.gotUpdate = userID, folderID, req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Folder{ID: folderID, Name: "updated"}, nil
}

func (m *mockFolderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	m.gotUserID, m.gotFolderID = userID, folderID
	return m.err
}

func newTestHandler(svc services.FolderService) *FolderHandler {
	return NewFolderHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newRequest builds a request as the router and auth middleware would hand it over.
func newRequest(method, body, userID, folderID string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, "/api/folders", nil)
	} else {
		r = httptest.NewRequest(method, "/api/folders", strings.NewReader(body))
	}
	if folderID != "" {
		r.SetPathValue("folderId", folderID)
	}
	if userID != "" {
		r = httputil.WithUserID(r, userID)
	}
	return r
}

func TestFolderHandler_StatusMapping(t *testing.T) {
	h := newTestHandler(nil)

	type route struct {
		name   string
		method string
		body   string
		serve  func(*FolderHandler) http.HandlerFunc
		ok     int
	}
	routes := []route{
		{"create", http.MethodPost, `{"name":"Docs"}`, func(h *FolderHandler) http.HandlerFunc { return h.CreateFolder }, http.StatusCreated},
		{"list", http.MethodGet, "", func(h *FolderHandler) http.HandlerFunc { return h.ListFolders }, http.StatusOK},
		{"get", http.MethodGet, "", func(h *FolderHandler) http.HandlerFunc { return h.GetFolder }, http.StatusOK},
		{"get shared", http.MethodGet, "", func(h *FolderHandler) http.HandlerFunc { return h.GetSharedFolder }, http.StatusOK},
		{"update", http.MethodPatch, `{"name":"New"}`, func(h *FolderHandler) http.HandlerFunc { return h.UpdateFolder }, http.StatusOK},
		{"delete", http.MethodDelete, "", func(h *FolderHandler) http.HandlerFunc { return h.DeleteFolder }, http.StatusOK},
	}

	cases := []struct {
		name       string
		userID     string
		serviceErr error
		wantStatus func(route) int
	}{
		{"success", "user-a", nil, func(rt route) int { return rt.ok }},
		{"no identity", "", nil, func(route) int { return http.StatusUnauthorized }},
		{"not found", "user-a", &domain.NotFoundError{Message: "folder not found"}, func(route) int { return http.StatusNotFound }},
		{"forbidden", "user-a", &domain.ForbiddenError{Message: "folder does not belong to the user"}, func(route) int { return http.StatusForbidden }},
		{"invalid reference", "user-a", &domain.ValidationError{Message: "invalid parent folder ID"}, func(route) int { return http.StatusBadRequest }},
		{"wrapped sentinel", "user-a", errors.Join(errors.New("lookup"), domain.ErrNotFound), func(route) int { return http.StatusNotFound }},
		{"store failure", "user-a", errors.New("connection refused"), func(route) int { return http.StatusInternalServerError }},
	}

	for _, rt := range routes {
		for _, tc := range cases {
			t.Run(rt.name+"/"+tc.name, func(t *testing.T) {
				h.folderService = &mockFolderService{err: tc.serviceErr}

				rec := httptest.NewRecorder()
				rt.serve(h)(rec, newRequest(rt.method, rt.body, tc.userID, testFolderID))

				if want := tc.wantStatus(rt); rec.Code != want {
					t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
				}
			})
		}
	}
}

func TestFolderHandler_InternalErrorIsNotLeaked(t *testing.T) {
	h := newTestHandler(&mockFolderService{err: errors.New("pq: password authentication failed")})

	rec := httptest.NewRecorder()
	h.ListFolders(rec, newRequest(http.MethodGet, "", "user-a", ""))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("internal error leaked to client: %s", rec.Body.String())
	}
}

func TestFolderHandler_InvalidFolderID(t *testing.T) {
	svc := &mockFolderService{}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.GetFolder(rec, newRequest(http.MethodGet, "", "user-a", "not-a-uuid"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if svc.gotFolderID != "" {
		t.Error("service should not be called for a malformed id")
	}
}

func TestFolderHandler_InvalidBody(t *testing.T) {
	h := newTestHandler(&mockFolderService{})

	rec := httptest.NewRecorder()
	h.CreateFolder(rec, newRequest(http.MethodPost, `{"name":`, "user-a", ""))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("create: status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.UpdateFolder(rec, newRequest(http.MethodPatch, `{"parentFolderId": 12}`, "user-a", testFolderID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("update: status = %d, want 400", rec.Code)
	}
}

func TestFolderHandler_UnauthenticatedBeforeBodyParsing(t *testing.T) {
	h := newTestHandler(&mockFolderService{})

	rec := httptest.NewRecorder()
	h.CreateFolder(rec, newRequest(http.MethodPost, `{"name":`, "", ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestFolderHandler_CreatePassesCaller(t *testing.T) {
	svc := &mockFolderService{}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.CreateFolder(rec, newRequest(http.MethodPost, `{"name":"Invoices"}`, "user-a", ""))

	if svc.gotUserID != "user-a" || svc.gotCreate.Name != "Invoices" {
		t.Fatalf("service got user=%q req=%+v", svc.gotUserID, svc.gotCreate)
	}

	var folder models.Folder
	if err := json.Unmarshal(rec.Body.Bytes(), &folder); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if folder.OwnerID != "user-a" || folder.Name != "Invoices" {
		t.Errorf("unexpected folder: %+v", folder)
	}
}

func TestFolderHandler_UpdateParentTriState(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantClear   bool
	}{
		{name: "absent", body: `{"name":"x"}`, wantPresent: false},
		{name: "null", body: `{"parentFolderId":null}`, wantPresent: true, wantClear: true},
		{name: "value", body: `{"parentFolderId":"` + testFolderID + `"}`, wantPresent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockFolderService{}
			h := newTestHandler(svc)

			rec := httptest.NewRecorder()
			h.UpdateFolder(rec, newRequest(http.MethodPatch, tt.body, "user-a", testFolderID))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			got := svc.gotUpdate.ParentFolderID
			if got.Present != tt.wantPresent || got.IsClear() != tt.wantClear {
				t.Errorf("ParentFolderID = %+v, want present=%v clear=%v", got, tt.wantPresent, tt.wantClear)
			}
		})
	}
}

func TestFolderHandler_ResponseShapes(t *testing.T) {
	h := newTestHandler(&mockFolderService{})

	tests := []struct {
		name     string
		serve    http.HandlerFunc
		method   string
		folderID string
		wantKeys []string
	}{
		{"list", h.ListFolders, http.MethodGet, "", []string{"userFolders", "sharedFolders"}},
		{"get", h.GetFolder, http.MethodGet, testFolderID, []string{"folder", "files"}},
		{"get shared", h.GetSharedFolder, http.MethodGet, testFolderID, []string{"folder", "sharedFiles"}},
		{"delete", h.DeleteFolder, http.MethodDelete, testFolderID, []string{"message"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.serve(rec, newRequest(tt.method, "", "user-a", tt.folderID))

			var body map[string]json.RawMessage
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			for _, key := range tt.wantKeys {
				if _, ok := body[key]; !ok {
					t.Errorf("response missing %q: %s", key, rec.Body.String())
				}
			}
		})
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rec := httptest.NewRecorder()
	NewHealthHandler(stubPinger{}, logger).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthy store: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	NewHealthHandler(stubPinger{err: errors.New("down")}, logger).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("failing store: status = %d", rec.Code)
	}
}
