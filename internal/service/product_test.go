package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SakshamTolani/ProductPro/internal/domain"
	apperrors "github.com/SakshamTolani/ProductPro/pkg/errors"
)

func newTestProductService(repo *mockProductRepository) (*ProductService, *stubCache) {
	cache := &stubCache{}
	svc := NewProductService(repo, cache, newTestProducer(), newTestLogger())
	return svc, cache
}

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc, _ := newTestProductService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	input := &CreateProductInput{
		Title:       "Ergonomic Chair",
		Description: "Mesh back office chair",
		PriceCents:  5000,
		ImageURL:    "https://cdn.example.com/chair.jpg",
	}

	product, err := svc.CreateProduct(ctx, admin, input)
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Ergonomic Chair", product.Title)
	assert.Equal(t, int64(5000), product.PriceCents)
	assert.False(t, product.CreatedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestCreateProduct_NonAdminForbidden(t *testing.T) {
	repo := new(mockProductRepository)
	svc, _ := newTestProductService(repo)

	_, err := svc.CreateProduct(context.Background(), member, &CreateProductInput{Title: "Chair", PriceCents: 100})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_MissingTitle(t *testing.T) {
	repo := new(mockProductRepository)
	svc, _ := newTestProductService(repo)

	_, err := svc.CreateProduct(context.Background(), admin, &CreateProductInput{PriceCents: 100})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateProduct_NegativePrice(t *testing.T) {
	repo := new(mockProductRepository)
	svc, _ := newTestProductService(repo)

	_, err := svc.CreateProduct(context.Background(), admin, &CreateProductInput{Title: "Chair", PriceCents: -1})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestGetProduct_CacheMissFallsThrough(t *testing.T) {
	repo := new(mockProductRepository)
	svc, _ := newTestProductService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "prod-chair").Return(chair(), nil)

	product, err := svc.GetProduct(ctx, "prod-chair")
	require.NoError(t, err)
	assert.Equal(t, "Chair", product.Title)
	repo.AssertExpectations(t)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc, _ := newTestProductService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	_, err := svc.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListProducts_PaginationDefaults(t *testing.T) {
	repo := new(mockProductRepository)
	svc, _ := newTestProductService(repo)
	ctx := context.Background()

	repo.On("List", ctx, 1, 20).Return([]domain.Product{*chair()}, 41, nil)

	result, err := svc.ListProducts(ctx, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PerPage)
	assert.Equal(t, 41, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	repo.AssertExpectations(t)
}

func TestListProducts_PerPageCapped(t *testing.T) {
	repo := new(mockProductRepository)
	svc, _ := newTestProductService(repo)
	ctx := context.Background()

	repo.On("List", ctx, 1, 100).Return([]domain.Product{}, 0, nil)

	result, err := svc.ListProducts(ctx, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, result.PerPage)
}

func TestDeleteProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc, cache := newTestProductService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "prod-chair").Return(nil)

	err := svc.DeleteProduct(ctx, admin, "prod-chair")
	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, "prod-chair")
	repo.AssertExpectations(t)
}

func TestDeleteProduct_NonAdminForbidden(t *testing.T) {
	repo := new(mockProductRepository)
	svc, _ := newTestProductService(repo)

	err := svc.DeleteProduct(context.Background(), member, "prod-chair")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc, _ := newTestProductService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "missing").Return(apperrors.NotFound("product", "missing"))

	err := svc.DeleteProduct(ctx, admin, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
