package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"seller-console/internal/backend"
	"seller-console/internal/models"
	"seller-console/internal/util"

	"go.uber.org/zap"
)

// ErrSaveInFlight rejects a save while a previous one is still running.
var ErrSaveInFlight = errors.New("a save is already in progress")

// Stock thresholds for the page-level counters.
const lowStockThreshold = 10

// VariantEdit is one pending edit. Nil fields fall back to the baseline
// value at save time.
type VariantEdit struct {
	Stock *int     `json:"stock,omitempty"`
	Price *float64 `json:"price,omitempty"`
	MRP   *float64 `json:"mrp,omitempty"`
}

// StockPage is the loaded baseline plus its derived counters.
type StockPage struct {
	Products        []models.SellerProduct `json:"products"`
	Total           int                    `json:"total"`
	OutOfStockCount int                    `json:"out_of_stock_count"`
	LowStockCount   int                    `json:"low_stock_count"`
}

// ProductFailure reports one product whose save failed while others
// proceeded.
type ProductFailure struct {
	ProductID string `json:"product_id"`
	Error     string `json:"error"`
}

// SaveResult is the outcome of flushing the edit set: updates are
// per-product independent, so both lists may be non-empty.
type SaveResult struct {
	Updated         []string         `json:"updated"`
	Failed          []ProductFailure `json:"failed"`
	OutOfStockCount int              `json:"out_of_stock_count"`
	LowStockCount   int              `json:"low_stock_count"`
}

// StockService holds a per-store baseline of products and a working set of
// pending edits, flushed to the backend one product at a time.
type StockService struct {
	backend *backend.Client
	logger  *zap.Logger

	mu     sync.Mutex
	stores map[string]*stockState
}

type stockState struct {
	products []models.SellerProduct
	edits    map[string]map[string]VariantEdit
	saving   bool
}

// NewStockService creates a stock service.
func NewStockService(backendClient *backend.Client) *StockService {
	return &StockService{
		backend: backendClient,
		logger:  util.GetLogger(),
		stores:  make(map[string]*stockState),
	}
}

func (s *StockService) state(storeID string) *stockState {
	st, ok := s.stores[storeID]
	if !ok {
		st = &stockState{edits: make(map[string]map[string]VariantEdit)}
		s.stores[storeID] = st
	}
	return st
}

// NetAmount is the seller's take after platform commission, rounded to two
// decimal places.
func NetAmount(price, commissionPercent float64) float64 {
	net := price * (1 - commissionPercent/100)
	return math.Round(net*100) / 100
}

// TotalStock is a product's aggregate stock across variants.
func TotalStock(p models.SellerProduct) int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

func countStockLevels(products []models.SellerProduct) (outOfStock, lowStock int) {
	for _, p := range products {
		total := TotalStock(p)
		switch {
		case total == 0:
			outOfStock++
		case total <= lowStockThreshold:
			lowStock++
		}
	}
	return outOfStock, lowStock
}

// Load fetches a page of products and replaces the baseline. Pending edits
// are discarded: they were staged against the previous baseline.
func (s *StockService) Load(ctx context.Context, q backend.ProductQuery) (*StockPage, error) {
	ctx, span := util.StartSpan(ctx, "StockService.Load")
	defer span.End()

	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 30
	}

	products, total, err := s.backend.SellerProducts(ctx, q)
	if err != nil {
		s.logger.Error("Failed to load seller products",
			zap.String("store_id", q.StoreID),
			zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	st := s.state(q.StoreID)
	st.products = products
	st.edits = make(map[string]map[string]VariantEdit)
	s.mu.Unlock()

	outOfStock, lowStock := countStockLevels(products)
	return &StockPage{
		Products:        products,
		Total:           total,
		OutOfStockCount: outOfStock,
		LowStockCount:   lowStock,
	}, nil
}

// StageEdit records a pending edit for one variant, keyed by
// (productID, variantID). Later edits to the same variant are merged.
func (s *StockService) StageEdit(storeID, productID, variantID string, edit VariantEdit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(storeID)
	if st.edits[productID] == nil {
		st.edits[productID] = make(map[string]VariantEdit)
	}
	existing := st.edits[productID][variantID]
	if edit.Stock != nil {
		existing.Stock = edit.Stock
	}
	if edit.Price != nil {
		existing.Price = edit.Price
	}
	if edit.MRP != nil {
		existing.MRP = edit.MRP
	}
	st.edits[productID][variantID] = existing
}

// DiscardEdits drops the working set without saving.
func (s *StockService) DiscardEdits(storeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(storeID).edits = make(map[string]map[string]VariantEdit)
}

// Save flushes the edit set, one request per product. Products fail
// independently: a failure neither blocks nor rolls back the others, and
// every failure is reported back to the caller. Successful products have
// their edits merged into the baseline before the stock counters are
// recomputed.
func (s *StockService) Save(ctx context.Context, storeID string) (*SaveResult, error) {
	ctx, span := util.StartSpan(ctx, "StockService.Save")
	defer span.End()

	start := time.Now()
	defer func() {
		util.StockSaveLatency.Observe(time.Since(start).Seconds())
	}()

	s.mu.Lock()
	st := s.state(storeID)
	if st.saving {
		s.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	st.saving = true

	type productSave struct {
		productID string
		payload   []backend.VariantStock
		edits     map[string]VariantEdit
	}
	var saves []productSave
	for productID, variantEdits := range st.edits {
		product, ok := findProduct(st.products, productID)
		if !ok {
			continue
		}
		var payload []backend.VariantStock
		for _, v := range product.Variants {
			edit, ok := variantEdits[v.ID]
			if !ok {
				continue
			}
			vs := backend.VariantStock{
				VariantID: v.ID,
				Quantity:  v.Stock,
				Price:     v.SellPrice,
				MRP:       v.MRP,
			}
			if edit.Stock != nil {
				vs.Quantity = *edit.Stock
			}
			if edit.Price != nil {
				vs.Price = *edit.Price
			}
			if edit.MRP != nil {
				vs.MRP = *edit.MRP
			}
			payload = append(payload, vs)
		}
		if len(payload) > 0 {
			saves = append(saves, productSave{productID: productID, payload: payload, edits: variantEdits})
		}
	}
	s.mu.Unlock()

	result := &SaveResult{}
	for _, save := range saves {
		err := s.backend.UpdateStock(ctx, save.productID, storeID, save.payload)
		if err != nil {
			util.StockSavesTotal.WithLabelValues("error").Inc()
			s.logger.Error("Stock update failed",
				zap.String("product_id", save.productID),
				zap.Error(err))
			result.Failed = append(result.Failed, ProductFailure{
				ProductID: save.productID,
				Error:     err.Error(),
			})
			continue
		}

		util.StockSavesTotal.WithLabelValues("success").Inc()
		result.Updated = append(result.Updated, save.productID)

		s.mu.Lock()
		mergeEdits(st.products, save.productID, save.edits)
		delete(st.edits, save.productID)
		s.mu.Unlock()
	}

	s.mu.Lock()
	result.OutOfStockCount, result.LowStockCount = countStockLevels(st.products)
	st.saving = false
	s.mu.Unlock()

	return result, nil
}

// Page returns the current baseline snapshot and counters without a fetch.
func (s *StockService) Page(storeID string) *StockPage {
	s.mu.Lock()
	st := s.state(storeID)
	products := make([]models.SellerProduct, len(st.products))
	copy(products, st.products)
	s.mu.Unlock()

	outOfStock, lowStock := countStockLevels(products)
	return &StockPage{
		Products:        products,
		Total:           len(products),
		OutOfStockCount: outOfStock,
		LowStockCount:   lowStock,
	}
}

func findProduct(products []models.SellerProduct, productID string) (models.SellerProduct, bool) {
	for _, p := range products {
		if p.ID == productID {
			return p, true
		}
	}
	return models.SellerProduct{}, false
}

func mergeEdits(products []models.SellerProduct, productID string, edits map[string]VariantEdit) {
	for i := range products {
		if products[i].ID != productID {
			continue
		}
		for j := range products[i].Variants {
			edit, ok := edits[products[i].Variants[j].ID]
			if !ok {
				continue
			}
			if edit.Stock != nil {
				products[i].Variants[j].Stock = *edit.Stock
			}
			if edit.Price != nil {
				products[i].Variants[j].SellPrice = *edit.Price
			}
			if edit.MRP != nil {
				products[i].Variants[j].MRP = *edit.MRP
			}
		}
		return
	}
}
