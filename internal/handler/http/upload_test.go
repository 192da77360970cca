package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SakshamTolani/ProductPro/internal/service"
	"github.com/SakshamTolani/ProductPro/internal/storage/memory"
	"github.com/SakshamTolani/ProductPro/pkg/middleware"
)

func testUploadRouter(t *testing.T) *chi.Mux {
	t.Helper()
	return testUploadRouterAs(t, adminID, "admin")
}

func testUploadRouterAs(t *testing.T, userID, role string) *chi.Mux {
	t.Helper()
	store := memory.New("http://localhost:8080")
	svc := service.NewUploadService(store, testLogger())
	handler := NewUploadHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/uploads", func(r chi.Router) {
		r.Use(middleware.Auth(fakeTokenValidator(userID, role)))

		r.Post("/", handler.UploadImage)
		r.With(middleware.RequireRole("admin")).Delete("/{key}", handler.DeleteImage)
	})
	return r
}

// uploadTestImage pushes a file through the upload endpoint and returns its
// storage key.
func uploadTestImage(t *testing.T, router *chi.Mux) string {
	t.Helper()
	body, contentType := multipartBody(t, "chair.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	key, _ := data["key"].(string)
	require.NotEmpty(t, key)
	return key
}

// multipartBody builds a multipart form with a single "file" part.
func multipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestUploadImage_Success(t *testing.T) {
	router := testUploadRouter(t)

	body, contentType := multipartBody(t, "chair.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	url, _ := data["url"].(string)
	assert.Contains(t, url, "/images/")
}

func TestUploadImage_UnsupportedType(t *testing.T) {
	router := testUploadRouter(t)

	body, contentType := multipartBody(t, "chart.svg", "image/svg+xml", []byte("<svg/>"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestUploadImage_MissingFile(t *testing.T) {
	router := testUploadRouter(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "chair"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "file is required")
}

func TestDeleteImage_Success(t *testing.T) {
	router := testUploadRouter(t)
	key := uploadTestImage(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/"+key, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	// Deleting again reports the upload as missing.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/"+key, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestDeleteImage_UnknownKey(t *testing.T) {
	router := testUploadRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/no-such-key", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteImage_TeamMemberForbidden(t *testing.T) {
	router := testUploadRouterAs(t, memberID, "team_member")
	key := uploadTestImage(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/"+key, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestUploadImage_Unauthenticated(t *testing.T) {
	router := testUploadRouter(t)

	body, contentType := multipartBody(t, "chair.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
