package checkout

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/imrishuroy/fybyshop/internal/cart"
	"github.com/imrishuroy/fybyshop/internal/catalog"
	"github.com/imrishuroy/fybyshop/internal/orders"
)

// Step is a position in the four-step checkout wizard.
type Step int

const (
	StepDelivery Step = iota + 1
	StepCustomerInfo
	StepPayment
	StepConfirmation
)

// State is the outcome of the checkout so far.
type State string

const (
	StateInProgress   State = "in_progress"
	StateOrderCreated State = "order_created"
	StateFailed       State = "failed"
)

// OrderCreator persists an order. The same submissionKey must yield the same order.
type OrderCreator interface {
	Create(ctx context.Context, submissionKey string, order orders.Order) (string, error)
}

// OrderCreatorFunc adapts a function to OrderCreator.
type OrderCreatorFunc func(ctx context.Context, submissionKey string, order orders.Order) (string, error)

func (f OrderCreatorFunc) Create(ctx context.Context, submissionKey string, order orders.Order) (string, error) {
	return f(ctx, submissionKey, order)
}

// CartUpdater takes ordered lines out of a user's cart once the order exists.
type CartUpdater interface {
	RemoveLines(ctx context.Context, userID string, lines []cart.Line) error
}

// OrderLookup loads a stored order by id. It returns nil, nil when missing.
type OrderLookup interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
}

// Deps are the collaborators of a checkout session. Only Orders is required.
// Lookup is used after a retried submission to read back the order the store
// kept, which may predate edits made between attempts.
type Deps struct {
	Orders OrderCreator
	Cart   CartUpdater
	Events EventSink
	Lookup OrderLookup
}

// MobileMoneyInstructions tell the customer where to send the payment.
type MobileMoneyInstructions struct {
	Number string `json:"number"`
	Amount int64  `json:"amount"`
}

// Session is one user's checkout draft. It works on a snapshot of the cart
// taken when it started. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id     string
	userID string
	cfg    Config
	deps   Deps
	lines  []cart.Line

	step          Step
	state         State
	delivery      *DeliveryOption
	payment       string
	customer      orders.CustomerInfo
	errors        map[string]string
	submitting    bool
	submissionKey string
	attempts      int
	orderID       string
	order         *orders.Order
	lastError     string

	nowFunc func() time.Time
}

// New starts a checkout for userID over the cart c. prefill, when set, seeds
// the customer info (usually from the user profile).
func New(cfg Config, deps Deps, userID string, c cart.Cart, prefill *orders.CustomerInfo) (*Session, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	s := &Session{
		id:            uuid.NewString(),
		userID:        userID,
		cfg:           cfg,
		deps:          deps,
		lines:         append([]cart.Line(nil), c.Lines...),
		step:          StepDelivery,
		state:         StateInProgress,
		payment:       orders.PaymentCash,
		customer:      orders.CustomerInfo{Address: &orders.Address{}},
		errors:        map[string]string{},
		submissionKey: uuid.NewString(),
		nowFunc:       time.Now,
	}
	if prefill != nil {
		s.customer = *prefill
		addr := orders.Address{}
		if prefill.Address != nil {
			addr = *prefill.Address
		}
		s.customer.Address = &addr
	}
	return s, nil
}

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }

// editable reports why the draft cannot change right now, if it cannot.
// Caller holds s.mu.
func (s *Session) editable() error {
	if s.state == StateOrderCreated {
		return ErrOrderAlreadyCreated
	}
	if s.submitting {
		return ErrSubmissionInProgress
	}
	return nil
}

// resume leaves the failed state once the user acts on the draft again.
// Caller holds s.mu.
func (s *Session) resume() {
	if s.state == StateFailed {
		s.state = StateInProgress
		s.lastError = ""
	}
}

// SelectDelivery picks a delivery option by id.
func (s *Session) SelectDelivery(optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	opt, ok := s.cfg.Option(optionID)
	if !ok {
		return ErrUnknownDeliveryOption
	}
	s.resume()
	s.delivery = &opt
	return nil
}

// SetField edits one customer info field and clears its error.
func (s *Session) SetField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if err := s.setField(field, value); err != nil {
		return err
	}
	s.resume()
	delete(s.errors, field)
	return nil
}

// UpdateCustomer applies several field edits. It stops at the first unknown field.
func (s *Session) UpdateCustomer(fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	for field := range fields {
		if !knownField(field) {
			return ErrUnknownField
		}
	}
	s.resume()
	for field, value := range fields {
		_ = s.setField(field, value)
		delete(s.errors, field)
	}
	return nil
}

func knownField(field string) bool {
	switch field {
	case "firstName", "lastName", "email", "phone", "street", "city", "postalCode", "country":
		return true
	}
	return false
}

// Caller holds s.mu.
func (s *Session) setField(field, value string) error {
	c := &s.customer
	switch field {
	case "firstName":
		c.FirstName = value
	case "lastName":
		c.LastName = value
	case "email":
		c.Email = value
	case "phone":
		c.Phone = value
	case "street":
		c.Address.Street = value
	case "city":
		c.Address.City = value
	case "postalCode":
		c.Address.PostalCode = value
	case "country":
		c.Address.Country = value
	default:
		return ErrUnknownField
	}
	return nil
}

// SelectPayment sets the payment method (cash or mobile_money).
func (s *Session) SelectPayment(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if method != orders.PaymentCash && method != orders.PaymentMobileMoney {
		return ErrUnknownPaymentMethod
	}
	s.resume()
	s.payment = method
	return nil
}

// Next advances one step when the current step is complete. On failure the
// step is unchanged and the error says why.
func (s *Session) Next() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return s.step, err
	}

	switch s.step {
	case StepDelivery:
		if s.delivery == nil {
			return s.step, ErrDeliveryRequired
		}
	case StepCustomerInfo:
		if errs := ValidateCustomer(s.customer, s.delivery); errs != nil {
			s.errors = errs
			return s.step, &ValidationError{Fields: copyErrors(errs)}
		}
		s.errors = map[string]string{}
	case StepConfirmation:
		return s.step, nil
	}
	s.step++
	return s.step, nil
}

// Back returns to the previous step. Entered data is kept.
func (s *Session) Back() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateOrderCreated || s.submitting {
		return s.step
	}
	s.resume()
	if s.step > StepDelivery {
		s.step--
	}
	return s.step
}

// Caller holds s.mu.
func (s *Session) deliveryPrice() int64 {
	return s.cfg.ComputeDeliveryPrice(s.delivery, s.customer.Address)
}

// Caller holds s.mu.
func (s *Session) quote() Quote {
	subtotal := cart.Cart{Lines: s.lines}.Subtotal()
	dp := s.deliveryPrice()
	return Quote{
		Subtotal:      subtotal,
		DeliveryPrice: dp,
		Total:         subtotal + dp,
		FreeShipping:  s.delivery != nil && s.delivery.Type == orders.DeliveryHome && dp == 0,
	}
}

// Quote is the current price breakdown.
func (s *Session) Quote() Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote()
}

// MobileMoney returns deposit instructions when mobile money is selected.
func (s *Session) MobileMoney() *MobileMoneyInstructions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mobileMoney()
}

// Caller holds s.mu.
func (s *Session) mobileMoney() *MobileMoneyInstructions {
	if s.payment != orders.PaymentMobileMoney {
		return nil
	}
	return &MobileMoneyInstructions{Number: s.cfg.MobileMoneyNumber, Amount: s.quote().Total}
}

// Caller holds s.mu.
func (s *Session) buildOrder() orders.Order {
	q := s.quote()
	items := make([]orders.Item, 0, len(s.lines))
	for _, l := range s.lines {
		items = append(items, orders.Item{
			ID:       l.Product.ID,
			Name:     l.Product.Name,
			Image:    l.Product.Image,
			Price:    l.Product.Price,
			Quantity: l.Quantity,
		})
	}

	info := s.customer
	info.Address = nil
	if s.delivery != nil && s.delivery.Type == orders.DeliveryHome {
		addr := *s.customer.Address
		info.Address = &addr
	}

	return orders.Order{
		UserID:        s.userID,
		Items:         items,
		Total:         q.Total,
		DeliveryPrice: q.DeliveryPrice,
		PaymentMethod: s.payment,
		Status:        orders.StatusPending,
		CustomerInfo:  info,
	}
}

// Submit creates the order from the confirmation step and returns its id.
//
// Only one submission runs at a time; a concurrent call gets
// ErrSubmissionInProgress. Every attempt of a session reuses the same
// submission key, so the store creates at most one order. When an earlier
// attempt may have committed, the order is read back through Deps.Lookup so
// the session reports what was stored, not the current draft. Once the order
// exists its lines are removed from the cart and an OrderCreatedEvent is
// published; failures of either are logged and do not affect the result. A
// store failure returns *OrderCreationFailedError and leaves the session on
// the confirmation step.
func (s *Session) Submit(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state == StateOrderCreated {
		id := s.orderID
		s.mu.Unlock()
		return id, nil
	}
	if s.submitting {
		s.mu.Unlock()
		return "", ErrSubmissionInProgress
	}
	if s.step != StepConfirmation {
		s.mu.Unlock()
		return "", ErrNotOnConfirmation
	}
	if s.delivery == nil {
		s.mu.Unlock()
		return "", ErrDeliveryRequired
	}
	if errs := ValidateCustomer(s.customer, s.delivery); errs != nil {
		s.errors = errs
		s.mu.Unlock()
		return "", &ValidationError{Fields: copyErrors(errs)}
	}

	order := s.buildOrder()
	key := s.submissionKey
	retried := s.attempts > 0
	s.attempts++
	s.resume()
	s.submitting = true
	s.mu.Unlock()

	// Once issued, the creation is not cancelled with the request.
	ctx = context.WithoutCancel(ctx)
	id, err := s.deps.Orders.Create(ctx, key, order)
	var stored *orders.Order
	if err == nil && retried {
		stored = s.lookup(ctx, id)
	}

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.state = StateFailed
		s.lastError = err.Error()
		s.mu.Unlock()
		log.Printf("[checkout] session=%s order creation failed: %v", s.id, err)
		return "", &OrderCreationFailedError{Err: err}
	}
	if stored != nil {
		order = *stored
	} else {
		order.OrderID = id
		order.CreatedAt = s.nowFunc()
		order.UpdatedAt = order.CreatedAt
	}
	s.state = StateOrderCreated
	s.orderID = id
	s.order = &order
	s.lastError = ""
	s.mu.Unlock()

	log.Printf("[checkout] session=%s created order=%s total=%d", s.id, id, order.Total)
	s.afterCommit(ctx, order)
	return id, nil
}

// lookup reads back a stored order. Errors are logged and yield nil.
func (s *Session) lookup(ctx context.Context, orderID string) *orders.Order {
	if s.deps.Lookup == nil {
		return nil
	}
	o, err := s.deps.Lookup.Get(ctx, orderID)
	if err != nil {
		log.Printf("[checkout] session=%s load order=%s failed: %v", s.id, orderID, err)
		return nil
	}
	return o
}

func (s *Session) afterCommit(ctx context.Context, order orders.Order) {
	if s.deps.Cart != nil {
		if err := s.deps.Cart.RemoveLines(ctx, s.userID, orderedLines(order)); err != nil {
			log.Printf("[checkout] order=%s remove cart lines failed: %v", order.OrderID, err)
		}
	}
	if s.deps.Events != nil {
		ev := OrderCreatedEvent{Type: EventOrderCreated, Order: order, OccurredAt: s.nowFunc()}
		if err := s.deps.Events.Publish(ctx, ev); err != nil {
			log.Printf("[checkout] order=%s publish event failed: %v", order.OrderID, err)
		}
	}
}

func orderedLines(o orders.Order) []cart.Line {
	lines := make([]cart.Line, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, cart.Line{
			Product:  catalog.Product{ID: it.ID, Name: it.Name, Image: it.Image, Price: it.Price},
			Quantity: it.Quantity,
		})
	}
	return lines
}

// Order returns the created order, or nil before a successful Submit.
func (s *Session) Order() *orders.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return nil
	}
	o := *s.order
	return &o
}

// View is a read-only snapshot of a session.
type View struct {
	ID            string                   `json:"id"`
	Step          Step                     `json:"step"`
	State         State                    `json:"state"`
	Items         []cart.Line              `json:"items"`
	Options       []DeliveryOption         `json:"deliveryOptions"`
	Delivery      *DeliveryOption          `json:"deliveryOption"`
	PaymentMethod string                   `json:"paymentMethod"`
	CustomerInfo  orders.CustomerInfo      `json:"customerInfo"`
	Errors        map[string]string        `json:"errors"`
	Submitting    bool                     `json:"submitting"`
	Quote         Quote                    `json:"quote"`
	MobileMoney   *MobileMoneyInstructions `json:"mobileMoney,omitempty"`
	FreeZones     []string                 `json:"freeShippingZones"`
	OrderID       string                   `json:"orderId,omitempty"`
	LastError     string                   `json:"lastError,omitempty"`
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := s.customer
	if s.customer.Address != nil {
		addr := *s.customer.Address
		info.Address = &addr
	}
	var delivery *DeliveryOption
	if s.delivery != nil {
		d := *s.delivery
		delivery = &d
	}
	return View{
		ID:            s.id,
		Step:          s.step,
		State:         s.state,
		Items:         append([]cart.Line(nil), s.lines...),
		Options:       append([]DeliveryOption(nil), s.cfg.Options...),
		Delivery:      delivery,
		PaymentMethod: s.payment,
		CustomerInfo:  info,
		Errors:        copyErrors(s.errors),
		Submitting:    s.submitting,
		Quote:         s.quote(),
		MobileMoney:   s.mobileMoney(),
		FreeZones:     append([]string(nil), s.cfg.FreeShippingZones...),
		OrderID:       s.orderID,
		LastError:     s.lastError,
	}
}

func copyErrors(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
