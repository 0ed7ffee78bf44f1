package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/amenity"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/modules/ledger"
	"resortbooking/internal/pkg/keylock"
	"resortbooking/internal/pkg/validator"
	"resortbooking/internal/repository"
)

// DefaultUpcomingLimit is how many bookings the dashboard shows as upcoming.
const DefaultUpcomingLimit = 4

type Service struct {
	store   repository.Store
	cancels *ledger.Service
	events  EventPublisher
	metrics MetricsRecorder
	log     *zap.Logger
	now     func() time.Time

	// locks serializes mutations of one booking; schedule serializes the
	// availability check with the write that claims the slot.
	locks    *keylock.Locker[snowflake.ID]
	schedule sync.Mutex
}

func NewService(
	store repository.Store,
	cancels *ledger.Service,
	events EventPublisher,
	metrics MetricsRecorder,
	log *zap.Logger,
) *Service {
	if events == nil {
		events = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:   store,
		cancels: cancels,
		events:  events,
		metrics: metrics,
		log:     log,
		now:     time.Now,
		locks:   keylock.New[snowflake.ID](),
	}
}

// Create books a slot for a new client and records the initial payment.
// Client, booking and payment are written in one transaction.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*domain.BookingDetails, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if err := validateDraft(req.StartDate, req.EndDate, req.BaseTotalAmount); err != nil {
		return nil, err
	}
	lines, err := amenity.Normalize(req.ExtraAmenities)
	if err != nil {
		return nil, err
	}
	if !domain.InRange(req.BaseTotalAmount.Add(amenity.Total(lines))) {
		return nil, ErrTooManyCents
	}

	b := &domain.Booking{
		EventType:       req.EventType,
		NumberOfPerson:  req.NumberOfPerson,
		StartDate:       req.StartDate.UTC(),
		EndDate:         req.EndDate.UTC(),
		BaseTotalAmount: req.BaseTotalAmount,
		ExtraAmenities:  lines,
		Status:          domain.BookingActive,
	}
	payment, err := initialPayment(req.Payment, b.EffectiveTotal())
	if err != nil {
		return nil, err
	}

	s.schedule.Lock()
	defer s.schedule.Unlock()

	var details domain.BookingDetails
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		ok, err := availability.NewChecker(tx.Bookings()).IsSlotAvailable(ctx, b.StartDate, b.EndDate)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrSlotConflict
		}

		client := &domain.Client{}
		req.Client.apply(client)
		if err := tx.Clients().Create(ctx, client); err != nil {
			return err
		}

		b.ClientID = client.ID
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}

		payment.BookingID = b.ID
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}

		details = ledger.Details(*b, *client, []domain.Payment{*payment})
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			s.metrics.SlotConflict()
		}
		return nil, err
	}

	s.metrics.BookingCreated()
	s.metrics.PaymentRecorded(payment.PaymentType, payment.Amount)
	s.publish(domain.EventBookingCreated, &details, nil)
	s.log.Info("booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("client", details.Client.Name),
		zap.Time("start_date", b.StartDate),
		zap.String("effective_total", details.EffectiveTotal.String()),
		zap.String("payment_type", string(payment.PaymentType)),
	)
	return &details, nil
}

// Update rewrites the client and booking fields, amenities included. The new
// effective total may not fall below what has already been collected.
func (s *Service) Update(ctx context.Context, id snowflake.ID, req UpdateBookingRequest) (*domain.BookingDetails, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if err := validateDraft(req.StartDate, req.EndDate, req.BaseTotalAmount); err != nil {
		return nil, err
	}
	lines, err := amenity.Normalize(req.ExtraAmenities)
	if err != nil {
		return nil, err
	}
	if !domain.InRange(req.BaseTotalAmount.Add(amenity.Total(lines))) {
		return nil, ErrTooManyCents
	}

	unlock := s.locks.Lock(id)
	defer unlock()
	s.schedule.Lock()
	defer s.schedule.Unlock()

	var details domain.BookingDetails
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		b, err := tx.Bookings().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b.IsCancelled() {
			return domain.ErrBookingCancelled
		}

		b.EventType = req.EventType
		b.NumberOfPerson = req.NumberOfPerson
		b.StartDate = req.StartDate.UTC()
		b.EndDate = req.EndDate.UTC()
		b.BaseTotalAmount = req.BaseTotalAmount
		b.ExtraAmenities = lines

		ok, err := availability.NewChecker(tx.Bookings()).IsSlotAvailableExcluding(ctx, b.StartDate, b.EndDate, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrSlotConflict
		}

		payments, err := tx.Payments().ListByBooking(ctx, id)
		if err != nil {
			return err
		}
		effective := b.EffectiveTotal()
		if collected := ledger.Collected(payments); effective.LessThan(collected) {
			return fmt.Errorf("%w (total %s, paid %s)", domain.ErrBelowPaidAmount,
				effective.StringFixed(domain.CentPlaces), collected.StringFixed(domain.CentPlaces))
		}

		client, err := tx.Clients().GetByID(ctx, b.ClientID)
		if err != nil {
			return err
		}
		req.Client.apply(client)
		if err := tx.Clients().Update(ctx, client); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}

		// Re-read so timestamps reflect what the store holds.
		if b, err = tx.Bookings().GetByID(ctx, id); err != nil {
			return err
		}
		if client, err = tx.Clients().GetByID(ctx, b.ClientID); err != nil {
			return err
		}
		details = ledger.Details(*b, *client, payments)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			s.metrics.SlotConflict()
		}
		return nil, err
	}

	s.metrics.BookingUpdated()
	s.publish(domain.EventBookingUpdated, &details, nil)
	s.log.Info("booking updated",
		zap.String("booking_id", id.String()),
		zap.String("effective_total", details.EffectiveTotal.String()),
		zap.String("remaining_amount", details.RemainingAmount.String()),
	)
	return &details, nil
}

// AddPayment appends a payment to an active booking. Overpayment is allowed and
// shows up as a negative remaining amount.
func (s *Service) AddPayment(ctx context.Context, id snowflake.ID, req AddPaymentRequest) (*domain.BookingDetails, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !domain.HasCents(req.Amount) {
		return nil, ErrTooManyCents
	}
	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = domain.PaymentPartial
	}

	return s.recordPayment(ctx, id, func(remaining decimal.Decimal) (*domain.Payment, error) {
		return &domain.Payment{Amount: req.Amount, PaymentType: paymentType}, nil
	})
}

// PayRemaining settles the outstanding balance exactly, never overpaying.
func (s *Service) PayRemaining(ctx context.Context, id snowflake.ID) (*domain.BookingDetails, error) {
	return s.recordPayment(ctx, id, func(remaining decimal.Decimal) (*domain.Payment, error) {
		if !remaining.IsPositive() {
			return nil, domain.ErrNothingDue
		}
		return &domain.Payment{Amount: remaining, PaymentType: domain.PaymentPartial}, nil
	})
}

func (s *Service) recordPayment(
	ctx context.Context,
	id snowflake.ID,
	build func(remaining decimal.Decimal) (*domain.Payment, error),
) (*domain.BookingDetails, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var (
		details domain.BookingDetails
		payment *domain.Payment
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		b, err := tx.Bookings().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b.IsCancelled() {
			return domain.ErrBookingCancelled
		}

		payments, err := tx.Payments().ListByBooking(ctx, id)
		if err != nil {
			return err
		}

		payment, err = build(ledger.Remaining(b.EffectiveTotal(), payments))
		if err != nil {
			return err
		}
		payment.BookingID = id
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}

		client, err := tx.Clients().GetByID(ctx, b.ClientID)
		if err != nil {
			return err
		}
		details = ledger.Details(*b, *client, append(payments, *payment))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentRecorded(payment.PaymentType, payment.Amount)
	s.publish(domain.EventPaymentRecorded, &details, &payment.Amount)
	s.log.Info("payment recorded",
		zap.String("booking_id", id.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("payment_type", string(payment.PaymentType)),
		zap.String("remaining_amount", details.RemainingAmount.String()),
	)
	return &details, nil
}

// Cancel runs the ledger cancellation and returns the result together with
// the booking as it stands afterwards.
func (s *Service) Cancel(ctx context.Context, id snowflake.ID) (*ledger.CancellationResult, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	res, err := s.cancels.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.BookingCancelled(res.Refunded, res.RefundAmount)
	if res.Refund != nil {
		s.metrics.PaymentRecorded(domain.PaymentRefund, res.Refund.Amount)
	}
	var refund *decimal.Decimal
	if res.Refunded {
		refund = &res.RefundAmount
	}
	s.events.Publish(domain.LedgerEvent{
		Type:      domain.EventBookingCancelled,
		BookingID: id,
		Amount:    refund,
		Remaining: &res.Remaining,
		At:        s.now().UTC(),
	})
	return res, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.BookingDetails, error) {
	b, err := s.store.Bookings().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	client, err := s.store.Clients().GetByID(ctx, b.ClientID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments().ListByBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	details := ledger.Details(*b, *client, payments)
	return &details, nil
}

// List returns bookings newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.BookingDetails, error) {
	f := repository.BookingFilter{Status: filter.Status}
	if filter.Status != "" && filter.Status != domain.BookingActive && filter.Status != domain.BookingCancelled {
		return nil, domain.Validationf("status must be %q or %q", domain.BookingActive, domain.BookingCancelled)
	}
	if filter.Month != "" {
		from, to, err := domain.MonthRange(filter.Month)
		if err != nil {
			return nil, err
		}
		f.StartFrom, f.StartTo = &from, &to
	}

	bookings, err := s.store.Bookings().List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, bookings)
}

// ListUpcoming returns active bookings starting today or later, earliest first.
func (s *Service) ListUpcoming(ctx context.Context, limit int) ([]domain.BookingDetails, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	today := domain.TruncateDay(s.now().UTC())
	bookings, err := s.store.Bookings().List(ctx, repository.BookingFilter{
		Status:    domain.BookingActive,
		StartFrom: &today,
		Ascending: true,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, bookings)
}

// CheckAvailability reports whether [start, end) is free, listing the active
// bookings that overlap it otherwise.
func (s *Service) CheckAvailability(ctx context.Context, start, end time.Time, exclude snowflake.ID) (*AvailabilityResponse, error) {
	checker := availability.NewChecker(s.store.Bookings())
	ok, err := checker.IsSlotAvailableExcluding(ctx, start.UTC(), end.UTC(), exclude)
	if err != nil {
		return nil, err
	}

	resp := &AvailabilityResponse{Available: ok, Conflicts: []availabilitySlot{}}
	if ok {
		return resp, nil
	}

	slots, err := checker.BusySlots(ctx, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		if slot.BookingID == exclude {
			continue
		}
		resp.Conflicts = append(resp.Conflicts, availabilitySlot{
			BookingID: slot.BookingID.String(),
			Start:     slot.Start,
			End:       slot.End,
		})
	}
	return resp, nil
}

func (s *Service) hydrate(ctx context.Context, bookings []domain.Booking) ([]domain.BookingDetails, error) {
	out := make([]domain.BookingDetails, 0, len(bookings))
	if len(bookings) == 0 {
		return out, nil
	}

	ids := make([]snowflake.ID, 0, len(bookings))
	clientIDs := make([]snowflake.ID, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
		clientIDs = append(clientIDs, b.ClientID)
	}

	payments, err := s.store.Payments().ListByBookings(ctx, ids)
	if err != nil {
		return nil, err
	}
	clients, err := s.store.Clients().GetByIDs(ctx, clientIDs)
	if err != nil {
		return nil, err
	}

	for _, b := range bookings {
		out = append(out, ledger.Details(b, clients[b.ClientID], payments[b.ID]))
	}
	return out, nil
}

func (s *Service) publish(kind domain.LedgerEventType, d *domain.BookingDetails, amount *decimal.Decimal) {
	remaining := d.RemainingAmount
	s.events.Publish(domain.LedgerEvent{
		Type:      kind,
		BookingID: d.Booking.ID,
		Amount:    amount,
		Remaining: &remaining,
		At:        s.now().UTC(),
	})
}

func validateDraft(start, end time.Time, base decimal.Decimal) error {
	if start.IsZero() || end.IsZero() {
		return ErrMissingDates
	}
	if !end.After(start) {
		return ErrInvalidRange
	}
	if !base.IsPositive() {
		return ErrInvalidBaseTotal
	}
	if !domain.HasCents(base) {
		return ErrTooManyCents
	}
	return nil
}

func initialPayment(plan PaymentPlan, effective decimal.Decimal) (*domain.Payment, error) {
	switch plan.Type {
	case domain.PaymentFull:
		if plan.Amount.IsZero() {
			return &domain.Payment{Amount: effective, PaymentType: domain.PaymentFull}, nil
		}
		if !domain.HasCents(plan.Amount) {
			return nil, ErrTooManyCents
		}
		if !plan.Amount.Equal(effective) {
			return nil, ErrFullAmountMismatch
		}
		return &domain.Payment{Amount: effective, PaymentType: domain.PaymentFull}, nil
	case domain.PaymentPartial:
		if !plan.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		if !domain.HasCents(plan.Amount) {
			return nil, ErrTooManyCents
		}
		if plan.Amount.GreaterThan(effective) {
			return nil, ErrAmountExceedsTotal
		}
		return &domain.Payment{Amount: plan.Amount, PaymentType: domain.PaymentPartial}, nil
	default:
		return nil, domain.Validationf("payment type must be %q or %q", domain.PaymentFull, domain.PaymentPartial)
	}
}
