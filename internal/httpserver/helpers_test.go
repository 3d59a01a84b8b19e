package httpserver

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flowershop/internal/domain"
	authsvc "flowershop/internal/service/auth"
	"flowershop/internal/service/catalog"
	ordersvc "flowershop/internal/service/order"

	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// stubAuth accepts the tokens "admin-token" and "user-token".
type stubAuth struct {
	loginErr error
	user     *domain.User
}

func (s *stubAuth) Login(_ context.Context, _, _ string) (string, *domain.User, error) {
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return "signed-token", s.user, nil
}

func (s *stubAuth) Verify(token string) (authsvc.Claims, error) {
	switch token {
	case "admin-token":
		return authsvc.Claims{UserID: "admin-1", Role: domain.RoleAdmin}, nil
	case "user-token":
		return authsvc.Claims{UserID: "u-1", Role: domain.RoleCustomer}, nil
	}
	return authsvc.Claims{}, authsvc.ErrInvalidToken
}

type stubOrders struct {
	created     ordersvc.CreateInput
	createdBy   ordersvc.Actor
	order       *domain.Order
	list        []domain.Order
	err         error
	status      domain.OrderStatus
	attached    string
	html        string
	lastActorID string
}

func (s *stubOrders) Create(_ context.Context, actor ordersvc.Actor, in ordersvc.CreateInput) (*domain.Order, error) {
	s.created, s.createdBy = in, actor
	return s.order, s.err
}

func (s *stubOrders) ListByUser(_ context.Context, actor ordersvc.Actor, userID string) ([]domain.Order, error) {
	if !actor.Admin && actor.ID != userID {
		return nil, domain.ErrForbidden
	}
	return s.list, s.err
}

func (s *stubOrders) ListAll(_ context.Context, _ ordersvc.Actor) ([]domain.Order, error) {
	return s.list, s.err
}

func (s *stubOrders) Get(_ context.Context, actor ordersvc.Actor, _ string) (*domain.Order, error) {
	s.lastActorID = actor.ID
	return s.order, s.err
}

func (s *stubOrders) SetStatus(_ context.Context, _ string, status domain.OrderStatus, actingUserID string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ordersvc.ErrInvalidStatus
	}
	s.status, s.lastActorID = status, actingUserID
	return s.order, s.err
}

func (s *stubOrders) MarkCompleted(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrders) AttachUploadedReceipt(_ context.Context, _ string, filePath, actingUserID string) (*domain.Order, error) {
	s.attached, s.lastActorID = filePath, actingUserID
	return s.order, s.err
}

func (s *stubOrders) ReceiptHTML(_ context.Context, _ ordersvc.Actor, _ string) (string, error) {
	return s.html, s.err
}

type stubCatalog struct {
	products   []domain.Product
	categories []domain.Category
	addOns     []domain.AddOn
	lastQuery  catalog.ProductQuery
}

func (s *stubCatalog) ListProducts(_ context.Context, q catalog.ProductQuery) ([]domain.Product, error) {
	s.lastQuery = q
	return s.products, nil
}

func (s *stubCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubCatalog) ListAddOns(context.Context) ([]domain.AddOn, error) {
	return s.addOns, nil
}

func (s *stubCatalog) GetAddOn(_ context.Context, id string) (*domain.AddOn, error) {
	for _, a := range s.addOns {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func testDeps() Deps {
	return Deps{
		AuthSvc:    &stubAuth{},
		OrderSvc:   &stubOrders{},
		CatalogSvc: &stubCatalog{},
		Now:        func() time.Time { return time.UnixMilli(1700000000000) },
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
