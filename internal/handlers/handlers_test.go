package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/fybyshop/internal/account"
	"github.com/imrishuroy/fybyshop/internal/auth"
	"github.com/imrishuroy/fybyshop/internal/aws/awsmock"
	"github.com/imrishuroy/fybyshop/internal/cart"
	"github.com/imrishuroy/fybyshop/internal/catalog"
	"github.com/imrishuroy/fybyshop/internal/checkout"
	"github.com/imrishuroy/fybyshop/internal/idempotency"
	"github.com/imrishuroy/fybyshop/internal/orders"
)

type fakeProvider struct {
	products []catalog.Product
}

func (f *fakeProvider) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return f.products, nil
}

func (f *fakeProvider) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return nil, nil
}

func (f *fakeProvider) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return nil, nil
}

type eventLog struct {
	mu     sync.Mutex
	events []checkout.OrderCreatedEvent
}

func (l *eventLog) Publish(ctx context.Context, ev checkout.OrderCreatedEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func (l *eventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

type testEnv struct {
	router *gin.Engine
	signer *auth.Signer
	carts  *cart.RedisStore
	dynamo *awsmock.Dynamo
	events *eventLog
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "p1", Name: "Samsung Galaxy", Brand: "Samsung", Category: "phones", Price: 5000, Rating: 4.1, Description: "Smartphone 128 Go", InStock: true},
		{ID: "p2", Name: "Coque silicone", Brand: "Generic", Category: "accessories", Price: 5000, Rating: 4.8, Description: "Protection pour Galaxy", InStock: true},
		{ID: "p3", Name: "Casque Bluetooth", Brand: "JBL", Category: "audio", Price: 12000, Rating: 4.5, Description: "Son puissant", InStock: true, IsFeatured: true},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mock := awsmock.NewDynamo()
	mock.CreateTable("orders", "order_id")
	mock.CreateTable("idempotency", "idempotency_key")
	mock.CreateTable("profiles", "user_id")

	signer, err := auth.NewSigner("test-secret", time.Hour)
	require.NoError(t, err)

	env := &testEnv{
		signer: signer,
		carts:  cart.NewRedisStore(rdb),
		dynamo: mock,
		events: &eventLog{},
	}
	env.router = NewRouter(Deps{
		Catalog:        catalog.NewService(&fakeProvider{products: testProducts()}, nil),
		Carts:          env.carts,
		Orders:         orders.NewStore(mock, "orders", "user_id-index", idempotency.NewStore(mock, "idempotency", time.Hour)),
		Profiles:       account.NewStore(mock, "profiles"),
		Sessions:       checkout.NewRegistry(time.Minute),
		Checkout:       checkout.DefaultConfig(),
		Events:         env.events,
		Signer:         signer,
		WhatsAppNumber: "22952353484",
		AdminIDs:       []string{"admin"},
	})
	return env
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := e.signer.Issue(userID, userID+"@example.com")
	require.NoError(t, err)
	return tok
}

// do sends a request as userID ("" for anonymous) and decodes a JSON body into out when given.
func (e *testEnv) do(t *testing.T, method, path, userID string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(t, userID))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}
