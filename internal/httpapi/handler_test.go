package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vitrine-be/internal/middleware"
	"vitrine-be/internal/order"
	"vitrine-be/internal/payment"
	"vitrine-be/internal/product"
	"vitrine-be/internal/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) Checkout(ctx context.Context, buyerID, addressID int64, method string) (*order.Order, error) {
	args := m.Called(ctx, buyerID, addressID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderService) Reconcile(ctx context.Context, orderID int64, verdict order.Verdict) error {
	args := m.Called(ctx, orderID, verdict)
	return args.Error(0)
}

func (m *mockOrderService) GetOrder(ctx context.Context, orderID, buyerID int64) (*order.Order, error) {
	args := m.Called(ctx, orderID, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) CreatePreference(
	ctx context.Context,
	externalReference string,
	raw []payment.RawItem,
	declaredTotal *float64,
) (*payment.Preference, error) {
	args := m.Called(ctx, externalReference, raw, declaredTotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Preference), args.Error(1)
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) GetPaymentByOrder(ctx context.Context, orderID int64) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) GetProduct(ctx context.Context, productID int64) (*product.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type mockStockRepo struct {
	mock.Mock
}

func (m *mockStockRepo) MovementsByProduct(ctx context.Context, productID int64) ([]stock.Movement, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Movement), args.Error(1)
}

type testServer struct {
	mux         *http.ServeMux
	orderSvc    *mockOrderService
	paymentSvc  *mockPaymentService
	paymentRepo *mockPaymentRepo
	productRepo *mockProductRepo
	stockRepo   *mockStockRepo
}

func newTestServer() *testServer {
	ts := &testServer{
		mux:         http.NewServeMux(),
		orderSvc:    new(mockOrderService),
		paymentSvc:  new(mockPaymentService),
		paymentRepo: new(mockPaymentRepo),
		productRepo: new(mockProductRepo),
		stockRepo:   new(mockStockRepo),
	}
	NewHandler(ts.orderSvc, ts.paymentSvc, ts.paymentRepo, ts.productRepo, ts.stockRepo).Register(ts.mux)
	return ts
}

func (ts *testServer) do(method, target, body string, buyerID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if buyerID != 0 {
		req = req.WithContext(middleware.SetBuyerContext(req.Context(), buyerID))
	}
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Checkout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := newTestServer()
		ts.orderSvc.On("Checkout", mock.Anything, int64(1), int64(3), "pix").
			Return(&order.Order{ID: 100, BuyerID: 1, TotalCents: 2500, Status: order.StatusPending}, nil)

		rec := ts.do(http.MethodPost, "/checkout", `{"addressId":3,"paymentMethod":"pix"}`, 1)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp map[string]int64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(100), resp["orderId"])
		ts.orderSvc.AssertExpectations(t)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		ts := newTestServer()

		rec := ts.do(http.MethodPost, "/checkout", `{"addressId":3,"paymentMethod":"pix"}`, 0)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		ts.orderSvc.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingFields", func(t *testing.T) {
		ts := newTestServer()

		rec := ts.do(http.MethodPost, "/checkout", `{"addressId":3}`, 1)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		ts := newTestServer()

		rec := ts.do(http.MethodPost, "/checkout", `{"addressId":`, 1)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		ts := newTestServer()
		ts.orderSvc.On("Checkout", mock.Anything, int64(1), int64(3), "pix").
			Return(nil, order.ErrEmptyCart)

		rec := ts.do(http.MethodPost, "/checkout", `{"addressId":3,"paymentMethod":"pix"}`, 1)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		ts := newTestServer()
		ts.orderSvc.On("Checkout", mock.Anything, int64(1), int64(3), "pix").
			Return(nil, stock.ErrInsufficientStock)

		rec := ts.do(http.MethodPost, "/checkout", `{"addressId":3,"paymentMethod":"pix"}`, 1)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandler_CreatePreference(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := newTestServer()
		ts.paymentSvc.On("CreatePreference",
			mock.Anything, mock.AnythingOfType("string"),
			[]payment.RawItem{{Name: "Caneca", Quantity: 2, UnitPrice: 10.00}},
			mock.AnythingOfType("*float64"),
		).Return(&payment.Preference{ID: "pref-123", RedirectURL: "https://mp.example/r"}, nil)

		rec := ts.do(http.MethodPost, "/payments/preference",
			`{"items":[{"name":"Caneca","quantity":2,"unitPrice":10.00}],"declaredTotal":20.00}`, 1)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var pref payment.Preference
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pref))
		assert.Equal(t, "pref-123", pref.ID)
		assert.Equal(t, "https://mp.example/r", pref.RedirectURL)
	})

	t.Run("TotalMismatch", func(t *testing.T) {
		ts := newTestServer()
		ts.paymentSvc.On("CreatePreference", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, payment.ErrTotalMismatch)

		rec := ts.do(http.MethodPost, "/payments/preference",
			`{"items":[{"name":"Caneca","quantity":2,"unitPrice":10.00}],"declaredTotal":1.00}`, 1)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("GatewayDown", func(t *testing.T) {
		ts := newTestServer()
		ts.paymentSvc.On("CreatePreference", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, payment.ErrGatewayUnavailable)

		rec := ts.do(http.MethodPost, "/payments/preference",
			`{"items":[{"name":"Caneca","quantity":2,"unitPrice":10.00}]}`, 1)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestHandler_GetOrder(t *testing.T) {
	t.Run("SuccessWithPayment", func(t *testing.T) {
		ts := newTestServer()
		o := &order.Order{ID: 100, BuyerID: 1, TotalCents: 2500, Status: order.StatusPaid}
		p := &payment.Payment{ID: 55, OrderID: 100, AmountCents: 2500,
			Status: payment.StatusAprovado, Method: "pix",
			CreatedAt: time.Now(), UpdatedAt: time.Now()}

		ts.orderSvc.On("GetOrder", mock.Anything, int64(100), int64(1)).Return(o, nil)
		ts.paymentRepo.On("GetPaymentByOrder", mock.Anything, int64(100)).Return(p, nil)

		rec := ts.do(http.MethodGet, "/orders/100", "", 1)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp orderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(100), resp.Order.ID)
		require.NotNil(t, resp.Payment)
		assert.Equal(t, payment.StatusAprovado, resp.Payment.Status)
	})

	t.Run("PaymentMissingIsNotFatal", func(t *testing.T) {
		ts := newTestServer()
		o := &order.Order{ID: 100, BuyerID: 1, Status: order.StatusPending}

		ts.orderSvc.On("GetOrder", mock.Anything, int64(100), int64(1)).Return(o, nil)
		ts.paymentRepo.On("GetPaymentByOrder", mock.Anything, int64(100)).
			Return(nil, payment.ErrPaymentNotFound)

		rec := ts.do(http.MethodGet, "/orders/100", "", 1)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp orderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Nil(t, resp.Payment)
	})

	t.Run("PaymentReadFailureIsNotFatal", func(t *testing.T) {
		ts := newTestServer()
		o := &order.Order{ID: 100, BuyerID: 1, Status: order.StatusPending}

		ts.orderSvc.On("GetOrder", mock.Anything, int64(100), int64(1)).Return(o, nil)
		ts.paymentRepo.On("GetPaymentByOrder", mock.Anything, int64(100)).
			Return(nil, errors.New("db error"))

		rec := ts.do(http.MethodGet, "/orders/100", "", 1)

		// The order read succeeded; the payment is omitted, not the response.
		assert.Equal(t, http.StatusOK, rec.Code)
		var resp orderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(100), resp.Order.ID)
		assert.Nil(t, resp.Payment)
	})

	t.Run("NotOwner", func(t *testing.T) {
		ts := newTestServer()
		ts.orderSvc.On("GetOrder", mock.Anything, int64(100), int64(2)).
			Return(nil, order.ErrUnauthorized)

		rec := ts.do(http.MethodGet, "/orders/100", "", 2)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		ts := newTestServer()
		ts.orderSvc.On("GetOrder", mock.Anything, int64(999), int64(1)).
			Return(nil, order.ErrOrderNotFound)

		rec := ts.do(http.MethodGet, "/orders/999", "", 1)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		ts := newTestServer()

		rec := ts.do(http.MethodGet, "/orders/abc", "", 1)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		ts := newTestServer()

		rec := ts.do(http.MethodGet, "/orders/100", "", 0)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandler_GetProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := newTestServer()
		ts.productRepo.On("GetProduct", mock.Anything, int64(10)).
			Return(&product.Product{ID: 10, Name: "Caneca esmaltada",
				PriceCents: 1000, Quantity: 5, SellerID: 7}, nil)

		rec := ts.do(http.MethodGet, "/products/10", "", 0)

		assert.Equal(t, http.StatusOK, rec.Code)
		var p product.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, "Caneca esmaltada", p.Name)
		assert.Equal(t, int64(1000), p.PriceCents)
	})

	t.Run("NotFound", func(t *testing.T) {
		ts := newTestServer()
		ts.productRepo.On("GetProduct", mock.Anything, int64(999)).
			Return(nil, product.ErrProductNotFound)

		rec := ts.do(http.MethodGet, "/products/999", "", 0)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		ts := newTestServer()

		rec := ts.do(http.MethodGet, "/products/abc", "", 0)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		ts.productRepo.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
	})
}

func TestHandler_ListMovements(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := newTestServer()
		ts.stockRepo.On("MovementsByProduct", mock.Anything, int64(10)).
			Return([]stock.Movement{
				{ID: 1, ProductID: 10, Type: stock.TypeSaida, Quantity: 2},
				{ID: 2, ProductID: 10, Type: stock.TypeEntrada, Quantity: 2},
			}, nil)

		rec := ts.do(http.MethodGet, "/products/10/movements", "", 1)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Movements []stock.Movement `json:"movements"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Movements, 2)
		assert.Equal(t, stock.TypeSaida, resp.Movements[0].Type)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		ts := newTestServer()
		ts.stockRepo.On("MovementsByProduct", mock.Anything, int64(999)).
			Return(nil, stock.ErrProductNotFound)

		rec := ts.do(http.MethodGet, "/products/999/movements", "", 1)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
