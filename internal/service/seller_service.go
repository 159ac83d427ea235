package service

import (
	"context"

	"seller-console/internal/backend"
	"seller-console/internal/models"
	"seller-console/internal/util"

	"go.uber.org/zap"
)

// ProductView is a seller product with its derived net amounts per variant.
type ProductView struct {
	models.SellerProduct
	TotalStock int       `json:"totalStock"`
	NetAmounts []float64 `json:"netAmounts"`
}

// SellerService covers the product/category mapping surface and the
// dashboard projection.
type SellerService struct {
	backend *backend.Client
	logger  *zap.Logger
}

// NewSellerService creates a seller service.
func NewSellerService(backendClient *backend.Client) *SellerService {
	return &SellerService{
		backend: backendClient,
		logger:  util.GetLogger(),
	}
}

// Products fetches one page of the store's products with derived fields.
func (s *SellerService) Products(ctx context.Context, q backend.ProductQuery) ([]ProductView, int, error) {
	ctx, span := util.StartSpan(ctx, "SellerService.Products")
	defer span.End()

	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}

	products, total, err := s.backend.SellerProducts(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	views := make([]ProductView, len(products))
	for i, p := range products {
		view := ProductView{SellerProduct: p, TotalStock: TotalStock(p)}
		view.NetAmounts = make([]float64, len(p.Variants))
		for j, v := range p.Variants {
			view.NetAmounts[j] = NetAmount(v.SellPrice, p.Commission)
		}
		views[i] = view
	}
	return views, total, nil
}

// ToggleProductStatus flips a product's active flag.
func (s *SellerService) ToggleProductStatus(ctx context.Context, storeID, productID string, active bool) error {
	return s.backend.UpdateProductStatus(ctx, storeID, productID, active)
}

// Categories fetches the store's category mappings.
func (s *SellerService) Categories(ctx context.Context, storeID string) ([]models.Category, error) {
	return s.backend.SellerCategories(ctx, storeID)
}

// AddCategory maps a marketplace category onto the store.
func (s *SellerService) AddCategory(ctx context.Context, storeID, categoryID string) error {
	if err := s.backend.AddCategory(ctx, storeID, categoryID); err != nil {
		return err
	}
	s.logger.Info("Category mapped",
		zap.String("store_id", storeID),
		zap.String("category_id", categoryID))
	return nil
}

// DashboardStats fetches the store's headline numbers.
func (s *SellerService) DashboardStats(ctx context.Context, storeID string) (*models.DashboardStats, error) {
	return s.backend.DashboardStats(ctx, storeID)
}

// SetStoreOpen opens or closes the store.
func (s *SellerService) SetStoreOpen(ctx context.Context, storeID string, open bool) error {
	return s.backend.SetStoreStatus(ctx, storeID, open)
}
