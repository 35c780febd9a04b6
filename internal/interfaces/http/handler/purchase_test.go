package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apppurchase "github.com/essentials/backend/internal/application/purchase"
	"github.com/essentials/backend/internal/domain/catalog"
	"github.com/essentials/backend/internal/domain/partner"
	"github.com/essentials/backend/internal/domain/purchase"
	"github.com/essentials/backend/internal/domain/shared"
	"github.com/essentials/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations for the purchase service's repositories

type mockPurchaseRepository struct {
	purchases map[uuid.UUID]*purchase.Purchase
}

func newMockPurchaseRepository() *mockPurchaseRepository {
	return &mockPurchaseRepository{purchases: make(map[uuid.UUID]*purchase.Purchase)}
}

func (m *mockPurchaseRepository) FindByID(_ context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	p, ok := m.purchases[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockPurchaseRepository) FindByIDForOrg(_ context.Context, organizationID, id uuid.UUID) (*purchase.Purchase, error) {
	p, ok := m.purchases[id]
	if !ok || p.OrganizationID != organizationID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockPurchaseRepository) FindAllForOrg(_ context.Context, organizationID uuid.UUID, _ shared.Filter) ([]purchase.Purchase, error) {
	var result []purchase.Purchase
	for _, p := range m.purchases {
		if p.OrganizationID == organizationID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPurchaseRepository) FindByIssuedRange(_ context.Context, organizationID uuid.UUID, from, to time.Time, _ shared.Filter) ([]purchase.Purchase, error) {
	var result []purchase.Purchase
	for _, p := range m.purchases {
		if p.OrganizationID != organizationID {
			continue
		}
		if p.IssuedAt.Before(from) || p.IssuedAt.After(to) {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPurchaseRepository) FindByStorageLocation(_ context.Context, organizationID, storageLocationID uuid.UUID, _ shared.Filter) ([]purchase.Purchase, error) {
	var result []purchase.Purchase
	for _, p := range m.purchases {
		if p.OrganizationID == organizationID && p.StorageLocationID == storageLocationID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPurchaseRepository) Save(_ context.Context, p *purchase.Purchase) error {
	m.purchases[p.ID] = p
	return nil
}

func (m *mockPurchaseRepository) SaveWithLock(_ context.Context, p *purchase.Purchase) error {
	p.IncrementVersion()
	m.purchases[p.ID] = p
	return nil
}

func (m *mockPurchaseRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.purchases, id)
	return nil
}

func (m *mockPurchaseRepository) CountForOrg(_ context.Context, organizationID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for _, p := range m.purchases {
		if p.OrganizationID == organizationID {
			count++
		}
	}
	return count, nil
}

type mockItemRepository struct {
	items map[uuid.UUID]*catalog.Item
}

func newMockItemRepository() *mockItemRepository {
	return &mockItemRepository{items: make(map[uuid.UUID]*catalog.Item)}
}

func (m *mockItemRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (m *mockItemRepository) FindByIDForOrg(_ context.Context, organizationID, id uuid.UUID) (*catalog.Item, error) {
	item, ok := m.items[id]
	if !ok || item.OrganizationID != organizationID {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (m *mockItemRepository) FindByIDsForOrg(_ context.Context, organizationID uuid.UUID, ids []uuid.UUID) ([]catalog.Item, error) {
	var result []catalog.Item
	for _, id := range ids {
		if item, ok := m.items[id]; ok && item.OrganizationID == organizationID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (m *mockItemRepository) FindAllForOrg(_ context.Context, organizationID uuid.UUID, _ shared.Filter) ([]catalog.Item, error) {
	var result []catalog.Item
	for _, item := range m.items {
		if item.OrganizationID == organizationID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (m *mockItemRepository) Save(_ context.Context, item *catalog.Item) error {
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockItemRepository) CountForOrg(_ context.Context, organizationID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	for _, item := range m.items {
		if item.OrganizationID == organizationID {
			count++
		}
	}
	return count, nil
}

type mockVendorRepository struct {
	vendors map[uuid.UUID]*partner.Vendor
}

func newMockVendorRepository() *mockVendorRepository {
	return &mockVendorRepository{vendors: make(map[uuid.UUID]*partner.Vendor)}
}

func (m *mockVendorRepository) FindByID(_ context.Context, id uuid.UUID) (*partner.Vendor, error) {
	v, ok := m.vendors[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func (m *mockVendorRepository) FindByIDForOrg(_ context.Context, organizationID, id uuid.UUID) (*partner.Vendor, error) {
	v, ok := m.vendors[id]
	if !ok || v.OrganizationID != organizationID {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func (m *mockVendorRepository) FindAllForOrg(_ context.Context, organizationID uuid.UUID, _ shared.Filter) ([]partner.Vendor, error) {
	var result []partner.Vendor
	for _, v := range m.vendors {
		if v.OrganizationID == organizationID {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *mockVendorRepository) ExistsForOrg(_ context.Context, organizationID, id uuid.UUID) (bool, error) {
	v, ok := m.vendors[id]
	return ok && v.OrganizationID == organizationID, nil
}

func (m *mockVendorRepository) Save(_ context.Context, vendor *partner.Vendor) error {
	m.vendors[vendor.ID] = vendor
	return nil
}

func (m *mockVendorRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.vendors, id)
	return nil
}

// purchaseTestEnv wires a real purchase service to mock repositories behind
// a registered handler
type purchaseTestEnv struct {
	engine   *gin.Engine
	ledger   *mockInventoryItemRepository
	items    *mockItemRepository
	orgID    uuid.UUID
	location *partner.StorageLocation
}

func newPurchaseTestEnv(t *testing.T) *purchaseTestEnv {
	t.Helper()

	purchaseRepo := newMockPurchaseRepository()
	ledger := newMockInventoryItemRepository()
	items := newMockItemRepository()
	locations := newMockStorageLocationRepository()
	vendors := newMockVendorRepository()

	scope := apppurchase.NewNoOpTransactionScope(purchaseRepo, ledger, items, locations, vendors)
	service := apppurchase.NewPurchaseService(purchaseRepo, scope)

	orgID := uuid.New()
	location, err := partner.NewStorageLocation(orgID, "Main Bank", "100 Main St")
	require.NoError(t, err)
	require.NoError(t, locations.Save(context.Background(), location))

	engine := gin.New()
	NewPurchaseHandler(service).RegisterRoutes(engine.Group(""))

	return &purchaseTestEnv{
		engine:   engine,
		ledger:   ledger,
		items:    items,
		orgID:    orgID,
		location: location,
	}
}

func (env *purchaseTestEnv) newItem(t *testing.T, name string) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(env.orgID, name, "disposable")
	require.NoError(t, err)
	require.NoError(t, env.items.Save(context.Background(), item))
	return item
}

func (env *purchaseTestEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Organization-ID", env.orgID.String())
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func decodePurchase(t *testing.T, w *httptest.ResponseRecorder) apppurchase.PurchaseResponse {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var p apppurchase.PurchaseResponse
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestPurchaseHandler_Create(t *testing.T) {
	env := newPurchaseTestEnv(t)
	itemA := env.newItem(t, "Diapers Size 4")
	itemB := env.newItem(t, "Wipes")

	amount := int64(450)
	w := env.do(t, http.MethodPost, "/purchases", CreatePurchaseRequest{
		StorageLocationID: env.location.ID,
		AmountSpentCents:  &amount,
		DiapersCents:      450,
		LineItems: []LineItemEntryRequest{
			{ItemID: itemA.ID, Quantity: 5},
			{ItemID: itemB.ID, Quantity: 3},
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	p := decodePurchase(t, w)
	assert.Equal(t, int64(8), p.TotalQuantity)
	assert.Equal(t, "$4.50", p.AmountSpent)
	assert.Len(t, p.LineItems, 2)

	qty, err := env.ledger.SumQuantityByItem(context.Background(), env.orgID, itemA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty)
}

func TestPurchaseHandler_Create_CategoryMismatch(t *testing.T) {
	env := newPurchaseTestEnv(t)
	item := env.newItem(t, "Diapers Size 4")

	amount := int64(450)
	w := env.do(t, http.MethodPost, "/purchases", CreatePurchaseRequest{
		StorageLocationID: env.location.ID,
		AmountSpentCents:  &amount,
		DiapersCents:      100,
		OtherCents:        100,
		LineItems:         []LineItemEntryRequest{{ItemID: item.ID, Quantity: 1}},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	errInfo := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeCategoryMismatch, errInfo.Code)
	assert.Equal(t, "categories add to $2.00 but given total is $4.50", errInfo.Message)
}

func TestPurchaseHandler_Create_UnknownLocation(t *testing.T) {
	env := newPurchaseTestEnv(t)
	item := env.newItem(t, "Wipes")

	w := env.do(t, http.MethodPost, "/purchases", CreatePurchaseRequest{
		StorageLocationID: uuid.New(),
		LineItems:         []LineItemEntryRequest{{ItemID: item.ID, Quantity: 1}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeMissingReference, decodeError(t, w).Code)
}

func TestPurchaseHandler_ReplaceLineItems(t *testing.T) {
	env := newPurchaseTestEnv(t)
	item := env.newItem(t, "Diapers Size 4")

	created := decodePurchase(t, env.do(t, http.MethodPost, "/purchases", CreatePurchaseRequest{
		StorageLocationID: env.location.ID,
		LineItems:         []LineItemEntryRequest{{ItemID: item.ID, Quantity: 5}},
	}))

	w := env.do(t, http.MethodPut, "/purchases/"+created.ID.String()+"/line-items", ReplaceLineItemsRequest{
		LineItems: []LineItemEntryRequest{{ItemID: item.ID, Quantity: 2}},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	p := decodePurchase(t, w)
	require.Len(t, p.LineItems, 1)
	assert.Equal(t, int64(2), p.LineItems[0].Quantity)

	qty, err := env.ledger.SumQuantityByItem(context.Background(), env.orgID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), qty)
}

func TestPurchaseHandler_ReplaceLineItems_NegativeQuantity(t *testing.T) {
	env := newPurchaseTestEnv(t)
	item := env.newItem(t, "Diapers Size 4")

	created := decodePurchase(t, env.do(t, http.MethodPost, "/purchases", CreatePurchaseRequest{
		StorageLocationID: env.location.ID,
		LineItems:         []LineItemEntryRequest{{ItemID: item.ID, Quantity: 5}},
	}))

	w := env.do(t, http.MethodPut, "/purchases/"+created.ID.String()+"/line-items", ReplaceLineItemsRequest{
		LineItems: []LineItemEntryRequest{{ItemID: item.ID, Quantity: -1}},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidLineItem, decodeError(t, w).Code)

	// Ledger untouched by the failed replacement
	qty, err := env.ledger.SumQuantityByItem(context.Background(), env.orgID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty)
}

func TestPurchaseHandler_RemoveLineItem_AbsentIsNoOp(t *testing.T) {
	env := newPurchaseTestEnv(t)
	item := env.newItem(t, "Diapers Size 4")

	created := decodePurchase(t, env.do(t, http.MethodPost, "/purchases", CreatePurchaseRequest{
		StorageLocationID: env.location.ID,
		LineItems:         []LineItemEntryRequest{{ItemID: item.ID, Quantity: 5}},
	}))

	w := env.do(t, http.MethodDelete,
		"/purchases/"+created.ID.String()+"/line-items/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	p := decodePurchase(t, w)
	require.Len(t, p.LineItems, 1)
	assert.Equal(t, int64(5), p.LineItems[0].Quantity)
}

func TestPurchaseHandler_GetByID_NotFound(t *testing.T) {
	env := newPurchaseTestEnv(t)

	w := env.do(t, http.MethodGet, "/purchases/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeError(t, w).Code)
}

func TestPurchaseHandler_Delete(t *testing.T) {
	env := newPurchaseTestEnv(t)
	item := env.newItem(t, "Diapers Size 4")

	created := decodePurchase(t, env.do(t, http.MethodPost, "/purchases", CreatePurchaseRequest{
		StorageLocationID: env.location.ID,
		LineItems:         []LineItemEntryRequest{{ItemID: item.ID, Quantity: 5}},
	}))

	w := env.do(t, http.MethodDelete, "/purchases/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Delete reverses the remaining quantities out of the ledger
	qty, err := env.ledger.SumQuantityByItem(context.Background(), env.orgID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)

	w = env.do(t, http.MethodGet, "/purchases/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
