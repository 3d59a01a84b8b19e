// Package order implements checkout, order reads and the status workflow.
package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"time"

	"flowershop/internal/domain"
	"flowershop/internal/events"
	"flowershop/internal/lock"
	"flowershop/internal/money"
	orderrepo "flowershop/internal/repository/order"
	"flowershop/internal/service/receipt"
	"flowershop/internal/worker"

	"github.com/google/uuid"
)

var (
	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidInput wraps every validation failure of Create.
	ErrInvalidInput = errors.New("invalid order")
)

type AddOnCatalog interface {
	GetByID(ctx context.Context, id string) (*domain.AddOn, error)
}

type Resolver interface {
	Order(ctx context.Context, o *domain.Order) error
	Orders(ctx context.Context, orders []domain.Order) error
}

type Receipts interface {
	GetOrBuildHTML(ctx context.Context, orderID string) (string, error)
	BuildAndStoreArtifact(ctx context.Context, o domain.Order) (receipt.Artifact, error)
}

type Notifier interface {
	SendReceiptEmail(ctx context.Context, to string, o domain.Order, pointer string) error
}

type TaskRunner interface {
	Submit(name string, task worker.Task) error
}

// Deps wires the service collaborators. Events, Inflight, Now and NewID have defaults.
type Deps struct {
	Orders   orderrepo.Repository
	AddOns   AddOnCatalog
	Resolver Resolver
	Receipts Receipts
	Notifier Notifier
	Events   events.Publisher
	Tasks    TaskRunner
	Inflight lock.Locker
	LockTTL  time.Duration
	Logger   *log.Logger
	Now      func() time.Time
	NewID    func() string
}

// Actor is the authenticated caller.
type Actor struct {
	ID    string
	Admin bool
}

// Service coordinates orders, receipts and notifications.
type Service struct {
	orders   orderrepo.Repository
	addOns   AddOnCatalog
	resolver Resolver
	receipts Receipts
	notifier Notifier
	events   events.Publisher
	tasks    TaskRunner
	inflight lock.Locker
	lockTTL  time.Duration
	logger   *log.Logger
	now      func() time.Time
	newID    func() string
}

func New(d Deps) *Service {
	s := &Service{
		orders:   d.Orders,
		addOns:   d.AddOns,
		resolver: d.Resolver,
		receipts: d.Receipts,
		notifier: d.Notifier,
		events:   d.Events,
		tasks:    d.Tasks,
		inflight: d.Inflight,
		lockTTL:  d.LockTTL,
		logger:   d.Logger,
		now:      d.Now,
		newID:    d.NewID,
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	if s.inflight == nil {
		s.inflight = lock.NewLocal()
	}
	if s.lockTTL <= 0 {
		s.lockTTL = 2 * time.Minute
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// AddOnInput is a requested add-on. Price is the client's figure, used only when the catalog has no entry.
type AddOnInput struct {
	AddOnID       string
	Quantity      int
	Price         float64
	CustomMessage string
}

type ItemInput struct {
	ProductID string
	Quantity  int
	Price     float64
	AddOns    []AddOnInput
}

// CreateInput is a checkout submission.
type CreateInput struct {
	Items               []ItemInput
	Total               float64
	DeliveryDate        string
	DeliveryTime        string
	SenderName          string
	SenderPhone         string
	RecipientName       string
	RecipientPhone      string
	Address             string
	MessageCard         string
	SpecialInstructions string
}

// Create validates and stores a pending order owned by actor, returning it resolved.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (*domain.Order, error) {
	if actor.ID == "" {
		return nil, domain.ErrForbidden
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	items := make([]domain.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		li := domain.LineItem{
			ProductID: strings.TrimSpace(it.ProductID),
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
		for _, a := range it.AddOns {
			li.AddOns = append(li.AddOns, s.snapshotAddOn(ctx, a))
		}
		items = append(items, li)
	}

	o := domain.Order{
		ID:                  s.newID(),
		UserID:              actor.ID,
		Items:               items,
		Total:               in.Total,
		Status:              domain.StatusPending,
		DeliveryDate:        strings.TrimSpace(in.DeliveryDate),
		DeliveryTime:        strings.TrimSpace(in.DeliveryTime),
		SenderName:          strings.TrimSpace(in.SenderName),
		SenderPhone:         strings.TrimSpace(in.SenderPhone),
		RecipientName:       strings.TrimSpace(in.RecipientName),
		RecipientPhone:      strings.TrimSpace(in.RecipientPhone),
		Address:             strings.TrimSpace(in.Address),
		MessageCard:         in.MessageCard,
		SpecialInstructions: in.SpecialInstructions,
		CreatedAt:           s.now(),
	}
	if o.Total == 0 {
		o.Total = money.Compute(o.Items).Total.InexactFloat64()
	}

	created, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeOrderCreated, *created)
	s.resolve(ctx, created)
	return created, nil
}

func (s *Service) snapshotAddOn(ctx context.Context, in AddOnInput) domain.AddOnSelection {
	sel := domain.AddOnSelection{
		AddOnID:       strings.TrimSpace(in.AddOnID),
		Quantity:      in.Quantity,
		Price:         in.Price,
		CustomMessage: in.CustomMessage,
	}
	if sel.Quantity <= 0 {
		sel.Quantity = 1
	}
	if sel.AddOnID == "" || s.addOns == nil {
		return sel
	}
	a, err := s.addOns.GetByID(ctx, sel.AddOnID)
	switch {
	case err == nil:
		sel.Price = a.Price
	case errors.Is(err, domain.ErrNotFound):
	default:
		s.logger.Printf("order service: add-on lookup id=%s error=%v", sel.AddOnID, err)
	}
	return sel
}

func validate(in CreateInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: items required", ErrInvalidInput)
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return fmt.Errorf("%w: items[%d].product required", ErrInvalidInput, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be positive", ErrInvalidInput, i)
		}
		if !validAmount(it.Price) {
			return fmt.Errorf("%w: items[%d].price must be a non-negative number", ErrInvalidInput, i)
		}
		for j, a := range it.AddOns {
			if !validAmount(a.Price) {
				return fmt.Errorf("%w: items[%d].addOns[%d].price must be a non-negative number", ErrInvalidInput, i, j)
			}
		}
	}
	if !validAmount(in.Total) {
		return fmt.Errorf("%w: total must be a non-negative number", ErrInvalidInput)
	}
	required := []struct{ name, value string }{
		{"deliveryDate", in.DeliveryDate},
		{"deliveryTime", in.DeliveryTime},
		{"senderName", in.SenderName},
		{"senderPhone", in.SenderPhone},
		{"recipientName", in.RecipientName},
		{"recipientPhone", in.RecipientPhone},
		{"address", in.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s required", ErrInvalidInput, f.name)
		}
	}
	return nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// ListByUser returns userID's orders. Only the user or an admin may read them.
func (s *Service) ListByUser(ctx context.Context, actor Actor, userID string) ([]domain.Order, error) {
	if !actor.Admin && actor.ID != userID {
		return nil, domain.ErrForbidden
	}
	list, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.resolveAll(ctx, list)
	return list, nil
}

// ListAll returns every order, newest first. Admin only.
func (s *Service) ListAll(ctx context.Context, actor Actor) ([]domain.Order, error) {
	if !actor.Admin {
		return nil, domain.ErrForbidden
	}
	list, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.resolveAll(ctx, list)
	return list, nil
}

// Get returns one resolved order visible to actor.
func (s *Service) Get(ctx context.Context, actor Actor, orderID string) (*domain.Order, error) {
	o, err := s.load(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	s.resolve(ctx, o)
	return o, nil
}

// ReceiptHTML returns the receipt HTML of an order visible to actor.
func (s *Service) ReceiptHTML(ctx context.Context, actor Actor, orderID string) (string, error) {
	if _, err := s.load(ctx, actor, orderID); err != nil {
		return "", err
	}
	return s.receipts.GetOrBuildHTML(ctx, orderID)
}

func (s *Service) load(ctx context.Context, actor Actor, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && o.UserID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// SetStatus sets any recognized status. Approving records the approver and
// schedules receipt generation and delivery in the background.
func (s *Service) SetStatus(ctx context.Context, orderID string, status domain.OrderStatus, actingUserID string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	update := orderrepo.StatusUpdate{Status: status}
	if status == domain.StatusApproved {
		now := s.now()
		update.ApprovedBy = actingUserID
		update.ApprovedAt = &now
	}
	if err := s.orders.UpdateStatus(ctx, orderID, update); err != nil {
		return nil, err
	}
	applyStatus(o, update)
	s.logger.Printf("order service: status order_id=%s status=%s by=%s", o.ID, status, actingUserID)
	s.publish(ctx, events.TypeStatusChanged, *o)

	if status == domain.StatusApproved {
		id := o.ID
		if err := s.tasks.Submit("approve:"+id, func(ctx context.Context) { s.processApproval(ctx, id) }); err != nil {
			s.logger.Printf("order service: schedule receipt order_id=%s error=%v", id, err)
		}
	}
	s.resolve(ctx, o)
	return o, nil
}

// MarkCompleted sets the order completed regardless of its current status.
func (s *Service) MarkCompleted(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	update := orderrepo.StatusUpdate{Status: domain.StatusCompleted, CompletedAt: &now}
	if err := s.orders.UpdateStatus(ctx, orderID, update); err != nil {
		return nil, err
	}
	applyStatus(o, update)
	s.publish(ctx, events.TypeStatusChanged, *o)
	s.resolve(ctx, o)
	return o, nil
}

// AttachUploadedReceipt stores an admin-supplied receipt file and approves the order. Nothing is rendered.
func (s *Service) AttachUploadedReceipt(ctx context.Context, orderID, filePath, actingUserID string) (*domain.Order, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, fmt.Errorf("%w: receipt file required", ErrInvalidInput)
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	update := orderrepo.StatusUpdate{Status: domain.StatusApproved, ApprovedBy: actingUserID, ApprovedAt: &now}
	if err := s.orders.UpdateReceipt(ctx, orderID, filePath, ""); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, orderID, update); err != nil {
		return nil, err
	}
	o.Receipt = filePath
	applyStatus(o, update)
	s.publish(ctx, events.TypeReceiptUploaded, *o)
	s.resolve(ctx, o)
	return o, nil
}

func applyStatus(o *domain.Order, u orderrepo.StatusUpdate) {
	o.Status = u.Status
	if u.ApprovedBy != "" {
		o.ApprovedBy = u.ApprovedBy
	}
	if u.ApprovedAt != nil {
		o.ApprovedAt = u.ApprovedAt
	}
	if u.CompletedAt != nil {
		o.CompletedAt = u.CompletedAt
	}
}

func (s *Service) processApproval(ctx context.Context, orderID string) {
	release, err := s.inflight.Acquire(ctx, "receipt:"+orderID, s.lockTTL)
	switch {
	case errors.Is(err, lock.ErrHeld):
		s.logger.Printf("order service: receipt already in progress order_id=%s", orderID)
		return
	case err != nil:
		s.logger.Printf("order service: receipt lock order_id=%s error=%v", orderID, err)
		return
	}
	defer release()

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Printf("order service: reload order_id=%s error=%v", orderID, err)
		return
	}
	s.resolve(ctx, o)

	if o.Receipt != "" {
		s.logger.Printf("order service: receipt present, skip build order_id=%s", orderID)
		return
	}

	art, err := s.receipts.BuildAndStoreArtifact(ctx, *o)
	if err != nil {
		s.logger.Printf("order service: build receipt order_id=%s error=%v", orderID, err)
	}
	if art.Pointer == "" && art.HTML == "" {
		return
	}
	if err := s.orders.UpdateReceipt(ctx, orderID, art.Pointer, art.HTML); err != nil {
		s.logger.Printf("order service: store receipt order_id=%s error=%v", orderID, err)
		return
	}
	o.Receipt = art.Pointer
	o.ReceiptHTML = art.HTML
	if art.Pointer == "" {
		return
	}
	s.logger.Printf("order service: receipt generated order_id=%s pointer=%s", orderID, art.Pointer)
	s.publish(ctx, events.TypeReceiptGenerated, *o)

	if o.User == nil || o.User.Email == "" {
		s.logger.Printf("order service: owner email unknown, skip email order_id=%s", orderID)
		return
	}
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendReceiptEmail(ctx, o.User.Email, *o, art.Pointer); err != nil {
		s.logger.Printf("order service: email receipt order_id=%s error=%v", orderID, err)
	}
}

func (s *Service) resolve(ctx context.Context, o *domain.Order) {
	if s.resolver == nil {
		return
	}
	if err := s.resolver.Order(ctx, o); err != nil {
		s.logger.Printf("order service: resolve order_id=%s error=%v", o.ID, err)
	}
}

func (s *Service) resolveAll(ctx context.Context, list []domain.Order) {
	if s.resolver == nil {
		return
	}
	if err := s.resolver.Orders(ctx, list); err != nil {
		s.logger.Printf("order service: resolve orders error=%v", err)
	}
}

func (s *Service) publish(ctx context.Context, typ string, o domain.Order) {
	e := events.Event{
		Type:       typ,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		Receipt:    o.Receipt,
		Total:      o.Total,
		OccurredAt: s.now(),
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Printf("order service: publish %s order_id=%s error=%v", typ, o.ID, err)
	}
}
