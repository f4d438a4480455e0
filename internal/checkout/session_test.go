package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/imrishuroy/fybyshop/internal/cart"
	"github.com/imrishuroy/fybyshop/internal/catalog"
	"github.com/imrishuroy/fybyshop/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	mu      sync.Mutex
	calls   int
	keys    []string
	last    orders.Order
	err     error
	release chan struct{}
	started chan struct{}
}

func (f *fakeOrders) Create(ctx context.Context, key string, o orders.Order) (string, error) {
	f.mu.Lock()
	f.calls++
	f.keys = append(f.keys, key)
	f.last = o
	err := f.err
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if err != nil {
		return "", err
	}
	return "order-1", nil
}

func (f *fakeOrders) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCart struct {
	users   []string
	removed []cart.Line
	err     error
}

func (f *fakeCart) RemoveLines(ctx context.Context, userID string, lines []cart.Line) error {
	f.users = append(f.users, userID)
	f.removed = append(f.removed, lines...)
	return f.err
}

type fakeLookup struct {
	order *orders.Order
	err   error
	ids   []string
}

func (f *fakeLookup) Get(ctx context.Context, orderID string) (*orders.Order, error) {
	f.ids = append(f.ids, orderID)
	return f.order, f.err
}

type recordingSink struct {
	events []OrderCreatedEvent
}

func (r *recordingSink) Publish(ctx context.Context, ev OrderCreatedEvent) error {
	r.events = append(r.events, ev)
	return nil
}

// cart15000 totals 15000.
func cart15000() cart.Cart {
	c, _ := cart.Cart{}.Add(catalog.Product{ID: "p1", Name: "Phone", Price: 5000, Image: "https://img/p1"}, 2)
	c, _ = c.Add(catalog.Product{ID: "p2", Name: "Case", Price: 5000}, 1)
	return c
}

type harness struct {
	orders *fakeOrders
	cart   *fakeCart
	sink   *recordingSink
	s      *Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{orders: &fakeOrders{}, cart: &fakeCart{}, sink: &recordingSink{}}
	s, err := New(DefaultConfig(), Deps{Orders: h.orders, Cart: h.cart, Events: h.sink}, "u1", cart15000(), nil)
	require.NoError(t, err)
	h.s = s
	return h
}

func fillContact(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.UpdateCustomer(map[string]string{
		"firstName": "Ada",
		"lastName":  "Kossou",
		"email":     "ada@example.com",
		"phone":     "+22990000000",
	}))
}

func fillAddress(t *testing.T, s *Session, city string) {
	t.Helper()
	require.NoError(t, s.UpdateCustomer(map[string]string{
		"street":  "Rue 12",
		"city":    city,
		"country": "Bénin",
	}))
}

// toConfirmation walks the wizard to step 4.
func toConfirmation(t *testing.T, s *Session, optionID, city string) {
	t.Helper()
	require.NoError(t, s.SelectDelivery(optionID))
	step, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, StepCustomerInfo, step)

	fillContact(t, s)
	if city != "" {
		fillAddress(t, s, city)
	}
	step, err = s.Next()
	require.NoError(t, err)
	require.Equal(t, StepPayment, step)

	step, err = s.Next()
	require.NoError(t, err)
	require.Equal(t, StepConfirmation, step)
}

func TestNew_Guards(t *testing.T) {
	_, err := New(DefaultConfig(), Deps{}, "", cart15000(), nil)
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = New(DefaultConfig(), Deps{}, "u1", cart.Cart{}, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNew_Prefill(t *testing.T) {
	prefill := &orders.CustomerInfo{FirstName: "Ada", Email: "ada@example.com"}
	s, err := New(DefaultConfig(), Deps{}, "u1", cart15000(), prefill)
	require.NoError(t, err)

	v := s.Snapshot()
	assert.Equal(t, "Ada", v.CustomerInfo.FirstName)
	assert.NotNil(t, v.CustomerInfo.Address)
	assert.Equal(t, orders.PaymentCash, v.PaymentMethod)
	assert.Equal(t, StepDelivery, v.Step)
	assert.Equal(t, StateInProgress, v.State)
}

func TestNext_WithoutDeliveryStaysOnStepOne(t *testing.T) {
	h := newHarness(t)

	step, err := h.s.Next()

	assert.ErrorIs(t, err, ErrDeliveryRequired)
	assert.Equal(t, StepDelivery, step)
	assert.Equal(t, StepDelivery, h.s.Snapshot().Step)
}

func TestSelectDelivery_Unknown(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.s.SelectDelivery("drone"), ErrUnknownDeliveryOption)
}

func TestNext_MissingStreetBlocksDeliveryOnly(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.SelectDelivery(StandardOptionID))
	_, _ = h.s.Next()
	fillContact(t, h.s)
	require.NoError(t, h.s.UpdateCustomer(map[string]string{"city": "Porto-Novo", "country": "Bénin"}))

	step, err := h.s.Next()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Fields["street"])
	assert.Equal(t, StepCustomerInfo, step)
	assert.NotEmpty(t, h.s.Snapshot().Errors["street"])

	// editing the field clears its error
	require.NoError(t, h.s.SetField("street", "Rue 12"))
	assert.Empty(t, h.s.Snapshot().Errors)

	// same omission with pickup does not block
	p := newHarness(t)
	require.NoError(t, p.s.SelectDelivery(PickupOptionID))
	_, _ = p.s.Next()
	fillContact(t, p.s)
	step, err = p.s.Next()
	require.NoError(t, err)
	assert.Equal(t, StepPayment, step)
}

func TestSetField_Unknown(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.s.SetField("nickname", "x"), ErrUnknownField)
	assert.ErrorIs(t, h.s.UpdateCustomer(map[string]string{"firstName": "A", "age": "3"}), ErrUnknownField)
	assert.Empty(t, h.s.Snapshot().CustomerInfo.FirstName)
}

func TestBack_KeepsData(t *testing.T) {
	h := newHarness(t)
	toConfirmation(t, h.s, StandardOptionID, "Porto-Novo")
	require.NoError(t, h.s.SelectPayment(orders.PaymentMobileMoney))

	assert.Equal(t, StepPayment, h.s.Back())
	assert.Equal(t, StepCustomerInfo, h.s.Back())
	assert.Equal(t, StepDelivery, h.s.Back())
	assert.Equal(t, StepDelivery, h.s.Back())

	v := h.s.Snapshot()
	assert.Equal(t, StandardOptionID, v.Delivery.ID)
	assert.Equal(t, "Ada", v.CustomerInfo.FirstName)
	assert.Equal(t, "Porto-Novo", v.CustomerInfo.Address.City)
	assert.Equal(t, orders.PaymentMobileMoney, v.PaymentMethod)
}

func TestSelectPayment(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.s.SelectPayment("card"), ErrUnknownPaymentMethod)
	assert.Nil(t, h.s.MobileMoney())

	require.NoError(t, h.s.SelectPayment(orders.PaymentMobileMoney))
	mm := h.s.MobileMoney()
	require.NotNil(t, mm)
	assert.Equal(t, "52 35 34 84", mm.Number)
	assert.Equal(t, int64(15000), mm.Amount)
}

func TestSubmit_PickupTotal(t *testing.T) {
	h := newHarness(t)
	toConfirmation(t, h.s, PickupOptionID, "")

	id, err := h.s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "order-1", id)

	o := h.orders.last
	assert.Equal(t, int64(15000), o.Total)
	assert.Equal(t, int64(0), o.DeliveryPrice)
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.Equal(t, orders.PaymentCash, o.PaymentMethod)
	assert.Nil(t, o.CustomerInfo.Address)
	assert.Equal(t, "u1", o.UserID)
	require.Len(t, o.Items, 2)
	assert.Equal(t, orders.Item{ID: "p1", Name: "Phone", Image: "https://img/p1", Price: 5000, Quantity: 2}, o.Items[0])
}

func TestSubmit_DeliveryOutsideZoneTotal(t *testing.T) {
	h := newHarness(t)
	toConfirmation(t, h.s, StandardOptionID, "Porto-Novo")

	q := h.s.Quote()
	assert.Equal(t, Quote{Subtotal: 15000, DeliveryPrice: 2500, Total: 17500}, q)

	_, err := h.s.Submit(context.Background())
	require.NoError(t, err)

	o := h.orders.last
	assert.Equal(t, int64(17500), o.Total)
	assert.Equal(t, int64(2500), o.DeliveryPrice)
	require.NotNil(t, o.CustomerInfo.Address)
	assert.Equal(t, "Rue 12", o.CustomerInfo.Address.Street)
}

func TestSubmit_FreeZone(t *testing.T) {
	h := newHarness(t)
	toConfirmation(t, h.s, StandardOptionID, "Calavi-Nord")

	q := h.s.Quote()
	assert.Equal(t, int64(0), q.DeliveryPrice)
	assert.True(t, q.FreeShipping)
}

func TestSubmit_SideEffects(t *testing.T) {
	h := newHarness(t)
	toConfirmation(t, h.s, PickupOptionID, "")

	id, err := h.s.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"u1"}, h.cart.users)
	require.Len(t, h.cart.removed, 2)
	assert.Equal(t, "p1", h.cart.removed[0].Product.ID)
	assert.Equal(t, 2, h.cart.removed[0].Quantity)
	assert.Equal(t, "p2", h.cart.removed[1].Product.ID)
	assert.Equal(t, 1, h.cart.removed[1].Quantity)
	require.Len(t, h.sink.events, 1)
	ev := h.sink.events[0]
	assert.Equal(t, EventOrderCreated, ev.Type)
	assert.Equal(t, id, ev.Order.OrderID)
	assert.False(t, ev.Order.CreatedAt.IsZero())

	v := h.s.Snapshot()
	assert.Equal(t, StateOrderCreated, v.State)
	assert.Equal(t, id, v.OrderID)
	require.NotNil(t, h.s.Order())

	// a second submit returns the same order without calling the store
	again, err := h.s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, h.orders.Calls())
	assert.Len(t, h.sink.events, 1)

	assert.ErrorIs(t, h.s.SelectPayment(orders.PaymentMobileMoney), ErrOrderAlreadyCreated)
}

func TestSubmit_SideEffectFailuresDoNotFail(t *testing.T) {
	h := newHarness(t)
	h.cart.err = errors.New("redis down")
	h.s.deps.Events = EventSinkFunc(func(ctx context.Context, ev OrderCreatedEvent) error {
		return errors.New("queue down")
	})
	toConfirmation(t, h.s, PickupOptionID, "")

	id, err := h.s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "order-1", id)
	assert.Equal(t, StateOrderCreated, h.s.Snapshot().State)
}

func TestSubmit_ConcurrentCallsCreateOnce(t *testing.T) {
	h := newHarness(t)
	h.orders.started = make(chan struct{}, 1)
	h.orders.release = make(chan struct{})
	toConfirmation(t, h.s, PickupOptionID, "")

	done := make(chan error, 1)
	go func() {
		_, err := h.s.Submit(context.Background())
		done <- err
	}()
	<-h.orders.started

	_, err := h.s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	assert.True(t, h.s.Snapshot().Submitting)
	assert.Equal(t, StepConfirmation, h.s.Back(), "back is ignored while submitting")

	close(h.orders.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, h.orders.Calls())
}

func TestSubmit_FailureIsRetriable(t *testing.T) {
	h := newHarness(t)
	h.orders.err = errors.New("network")
	toConfirmation(t, h.s, PickupOptionID, "")

	_, err := h.s.Submit(context.Background())
	var failed *OrderCreationFailedError
	require.ErrorAs(t, err, &failed)

	v := h.s.Snapshot()
	assert.Equal(t, StateFailed, v.State)
	assert.Equal(t, StepConfirmation, v.Step)
	assert.False(t, v.Submitting)
	assert.Equal(t, "network", v.LastError)
	assert.Empty(t, h.cart.users)
	assert.Empty(t, h.sink.events)

	h.orders.mu.Lock()
	h.orders.err = nil
	h.orders.mu.Unlock()

	id, err := h.s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "order-1", id)
	require.Len(t, h.orders.keys, 2)
	assert.Equal(t, h.orders.keys[0], h.orders.keys[1], "retries reuse the submission key")
}

func TestSubmit_EditingAfterFailureResumes(t *testing.T) {
	h := newHarness(t)
	h.orders.err = errors.New("network")
	toConfirmation(t, h.s, StandardOptionID, "Porto-Novo")

	_, err := h.s.Submit(context.Background())
	require.Error(t, err)
	require.Equal(t, StateFailed, h.s.Snapshot().State)

	assert.Equal(t, StepPayment, h.s.Back())
	v := h.s.Snapshot()
	assert.Equal(t, StateInProgress, v.State)
	assert.Empty(t, v.LastError)

	_, err = h.s.Next()
	require.NoError(t, err)
	_, err = h.s.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, StepPayment, h.s.Back())
	assert.Equal(t, StepCustomerInfo, h.s.Back())
	require.NoError(t, h.s.SetField("city", "Cotonou"))
	v = h.s.Snapshot()
	assert.Equal(t, StepCustomerInfo, v.Step)
	assert.Equal(t, StateInProgress, v.State)
	assert.Empty(t, v.LastError)
}

func TestSubmit_RetryReportsStoredOrder(t *testing.T) {
	h := newHarness(t)
	h.orders.err = errors.New("timeout after commit")
	toConfirmation(t, h.s, PickupOptionID, "")

	_, err := h.s.Submit(context.Background())
	require.Error(t, err)

	// the first attempt was stored as pickup with cash before the draft changed
	storedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	stored := orders.Order{
		OrderID:       "order-1",
		UserID:        "u1",
		Items:         []orders.Item{{ID: "p1", Name: "Phone", Price: 5000, Quantity: 2}, {ID: "p2", Name: "Case", Price: 5000, Quantity: 1}},
		Total:         15000,
		PaymentMethod: orders.PaymentCash,
		Status:        orders.StatusPending,
		CreatedAt:     storedAt,
		UpdatedAt:     storedAt,
	}
	lookup := &fakeLookup{order: &stored}
	h.s.deps.Lookup = lookup

	require.NoError(t, h.s.SelectPayment(orders.PaymentMobileMoney))
	h.orders.mu.Lock()
	h.orders.err = nil
	h.orders.mu.Unlock()

	id, err := h.s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "order-1", id)
	assert.Equal(t, []string{"order-1"}, lookup.ids)

	got := h.s.Order()
	require.NotNil(t, got)
	assert.Equal(t, orders.PaymentCash, got.PaymentMethod)
	assert.Equal(t, storedAt, got.CreatedAt)

	require.Len(t, h.sink.events, 1)
	assert.Equal(t, orders.PaymentCash, h.sink.events[0].Order.PaymentMethod)
	assert.Len(t, h.cart.removed, 2)
}

func TestSubmit_FirstAttemptSkipsLookup(t *testing.T) {
	h := newHarness(t)
	lookup := &fakeLookup{err: errors.New("must not be called")}
	h.s.deps.Lookup = lookup
	toConfirmation(t, h.s, PickupOptionID, "")

	_, err := h.s.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lookup.ids)
	assert.Equal(t, orders.PaymentCash, h.s.Order().PaymentMethod)
}

func TestSubmit_LookupFailureFallsBackToDraft(t *testing.T) {
	h := newHarness(t)
	h.orders.err = errors.New("network")
	toConfirmation(t, h.s, PickupOptionID, "")
	_, err := h.s.Submit(context.Background())
	require.Error(t, err)

	h.s.deps.Lookup = &fakeLookup{err: errors.New("dynamo down")}
	h.orders.mu.Lock()
	h.orders.err = nil
	h.orders.mu.Unlock()

	id, err := h.s.Submit(context.Background())
	require.NoError(t, err)
	got := h.s.Order()
	require.NotNil(t, got)
	assert.Equal(t, id, got.OrderID)
	assert.Equal(t, int64(15000), got.Total)
}

func TestSubmit_Guards(t *testing.T) {
	h := newHarness(t)

	_, err := h.s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOnConfirmation)

	toConfirmation(t, h.s, StandardOptionID, "Porto-Novo")
	require.NoError(t, h.s.SetField("phone", ""))

	_, err = h.s.Submit(context.Background())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "phone")
	assert.Equal(t, 0, h.orders.Calls())
}

func TestSubmit_UsesCartSnapshot(t *testing.T) {
	c := cart15000()
	s, err := New(DefaultConfig(), Deps{Orders: &fakeOrders{}}, "u1", c, nil)
	require.NoError(t, err)

	c.Lines[0].Quantity = 99
	assert.Equal(t, int64(15000), s.Quote().Subtotal)
}

func TestSubmit_CancelledContextStillCreates(t *testing.T) {
	h := newHarness(t)
	toConfirmation(t, h.s, PickupOptionID, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.s.deps.Orders = OrderCreatorFunc(func(ctx context.Context, key string, o orders.Order) (string, error) {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "order-9", nil
	})

	id, err := h.s.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order-9", id)
}

func TestSnapshot_IsACopy(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.SelectDelivery(StandardOptionID))

	v := h.s.Snapshot()
	v.Delivery.ID = "tampered"
	v.Items[0].Quantity = 50

	again := h.s.Snapshot()
	assert.Equal(t, StandardOptionID, again.Delivery.ID)
	assert.Equal(t, 2, again.Items[0].Quantity)
}
