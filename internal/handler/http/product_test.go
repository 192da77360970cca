package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SakshamTolani/ProductPro/internal/domain"
	"github.com/SakshamTolani/ProductPro/internal/service"
	apperrors "github.com/SakshamTolani/ProductPro/pkg/errors"
	"github.com/SakshamTolani/ProductPro/pkg/httputil"
	"github.com/SakshamTolani/ProductPro/pkg/middleware"
)

func testProductHandler(repo *mockProductRepo) *ProductHandler {
	svc := service.NewProductService(repo, &stubCache{}, testEventProducer(), testLogger())
	return NewProductHandler(svc, testLogger())
}

// setupProductRouter mirrors the production route layout: reads are public,
// writes sit behind auth.
func setupProductRouter(handler *ProductHandler, userID, role string) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Get("/{id}", handler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(fakeTokenValidator(userID, role)))
			r.Post("/", handler.CreateProduct)
			r.Delete("/{id}", handler.DeleteProduct)
		})
	})
	return r
}

func validCreateProductJSON() []byte {
	req := CreateProductRequest{
		Title:       "Ergonomic Chair",
		Description: "Adjustable office chair",
		PriceCents:  5000,
		ImageURL:    "https://cdn.example.com/chair.jpg",
	}
	b, _ := json.Marshal(req)
	return b
}

// ============================================================================
// GET /api/v1/products - ListProducts
// ============================================================================

func TestListProducts_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	repo.On("List", mock.Anything, 1, 20).Return([]domain.Product{*sampleProduct()}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var listResp httputil.PaginatedResponse[domain.Product]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listResp))
	assert.Equal(t, 1, listResp.TotalCount)
	assert.Equal(t, 1, listResp.Page)
	assert.Equal(t, 20, listResp.PerPage)
	require.Len(t, listResp.Data, 1)
	assert.Equal(t, "Ergonomic Chair", listResp.Data[0].Title)
	repo.AssertExpectations(t)
}

func TestListProducts_WithPagination(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	repo.On("List", mock.Anything, 2, 10).Return([]domain.Product{*sampleProduct()}, 25, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2&per_page=10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var listResp httputil.PaginatedResponse[domain.Product]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listResp))
	assert.Equal(t, 25, listResp.TotalCount)
	assert.Equal(t, 3, listResp.TotalPages)
	assert.True(t, listResp.HasNext)
	repo.AssertExpectations(t)
}

func TestListProducts_InvalidPerPage(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?per_page=999", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

// ============================================================================
// GET /api/v1/products/{id} - GetProduct
// ============================================================================

func TestGetProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	repo.On("GetByID", mock.Anything, productID).Return(sampleProduct(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	repo.On("GetByID", mock.Anything, missingUUID).Return(nil, apperrors.NotFound("product", missingUUID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+missingUUID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	repo.AssertExpectations(t)
}

func TestGetProduct_InvalidUUID(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

// ============================================================================
// POST /api/v1/products - CreateProduct
// ============================================================================

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(validCreateProductJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestCreateProduct_TeamMemberForbidden(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), memberID, "team_member")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(validCreateProductJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_MissingTitle(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	b, _ := json.Marshal(CreateProductRequest{PriceCents: 5000})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestCreateProduct_InvalidJSON(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte(`{bad`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid request body")
}

// ============================================================================
// DELETE /api/v1/products/{id} - DeleteProduct
// ============================================================================

func TestDeleteProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	repo.On("Delete", mock.Anything, productID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+productID, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestDeleteProduct_TeamMemberForbidden(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), memberID, "team_member")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+productID, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupProductRouter(testProductHandler(repo), adminID, "admin")

	repo.On("Delete", mock.Anything, missingUUID).Return(apperrors.NotFound("product", missingUUID))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+missingUUID, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertExpectations(t)
}
