package repository

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"resortbooking/internal/domain"
)

type clientModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name      string    `gorm:"column:name;type:text;not null"`
	Phone     *string   `gorm:"column:phone;type:text"`
	Email     *string   `gorm:"column:email;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (clientModel) TableName() string { return "clients" }

// amenityRecord is the JSON shape of one amenity line inside bookings.extra_amenities.
type amenityRecord struct {
	Item     string          `json:"item"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type bookingModel struct {
	ID              int64                              `gorm:"column:id;primaryKey;autoIncrement:false"`
	ClientID        int64                              `gorm:"column:client_id;not null;index"`
	EventType       string                             `gorm:"column:event_type;type:text"`
	NumberOfPerson  *int                               `gorm:"column:number_of_person"`
	StartDate       time.Time                          `gorm:"column:start_date;not null;index"`
	EndDate         time.Time                          `gorm:"column:end_date;not null;index"`
	BaseTotalAmount decimal.Decimal                    `gorm:"column:base_total_amount;type:decimal(14,2);not null"`
	ExtraAmenities  datatypes.JSONSlice[amenityRecord] `gorm:"column:extra_amenities"`
	Status          string                             `gorm:"column:status;type:varchar(16);not null;default:'active';index"`
	CreatedAt       time.Time                          `gorm:"column:created_at;not null;index"`
	UpdatedAt       time.Time                          `gorm:"column:updated_at;not null"`
	CancelledAt     *time.Time                         `gorm:"column:cancelled_at"`

	Client *clientModel `gorm:"foreignKey:ClientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (bookingModel) TableName() string { return "bookings" }

type paymentModel struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement:false"`
	BookingID   int64           `gorm:"column:booking_id;not null;index"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(14,2);not null"`
	PaymentType string          `gorm:"column:payment_type;type:varchar(16);not null;check:payment_type IN ('full','partial','refund')"`
	CreatedAt   time.Time       `gorm:"column:created_at;not null;index"`

	Booking *bookingModel `gorm:"foreignKey:BookingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (paymentModel) TableName() string { return "payments" }

type expenseModel struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement:false"`
	Category    string          `gorm:"column:category;type:varchar(32);not null;index"`
	Description *string         `gorm:"column:description;type:text"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(14,2);not null"`
	ExpenseDate time.Time       `gorm:"column:expense_date;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;not null"`
}

func (expenseModel) TableName() string { return "expenses" }

// Models lists every table the store owns, in dependency order, for migrations.
func Models() []any {
	return []any{
		&clientModel{},
		&bookingModel{},
		&paymentModel{},
		&expenseModel{},
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDomainClient(m clientModel) *domain.Client {
	return &domain.Client{
		ID:        snowflake.ID(m.ID),
		Name:      m.Name,
		Phone:     deref(m.Phone),
		Email:     deref(m.Email),
		CreatedAt: utc(m.CreatedAt),
		UpdatedAt: utc(m.UpdatedAt),
	}
}

func toClientModel(c *domain.Client) clientModel {
	return clientModel{
		ID:        int64(c.ID),
		Name:      c.Name,
		Phone:     optional(c.Phone),
		Email:     optional(c.Email),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toDomainBooking(m bookingModel) *domain.Booking {
	lines := make([]domain.AmenityLine, 0, len(m.ExtraAmenities))
	for _, rec := range m.ExtraAmenities {
		// the stored total is informational; recompute from price and quantity
		lines = append(lines, domain.NewAmenityLine(rec.Item, rec.Price, rec.Quantity))
	}

	var cancelledAt *time.Time
	if m.CancelledAt != nil {
		t := utc(*m.CancelledAt)
		cancelledAt = &t
	}

	return &domain.Booking{
		ID:              snowflake.ID(m.ID),
		ClientID:        snowflake.ID(m.ClientID),
		EventType:       m.EventType,
		NumberOfPerson:  m.NumberOfPerson,
		StartDate:       utc(m.StartDate),
		EndDate:         utc(m.EndDate),
		BaseTotalAmount: m.BaseTotalAmount,
		ExtraAmenities:  lines,
		Status:          domain.BookingStatus(m.Status),
		CreatedAt:       utc(m.CreatedAt),
		UpdatedAt:       utc(m.UpdatedAt),
		CancelledAt:     cancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	records := make([]amenityRecord, 0, len(b.ExtraAmenities))
	for _, line := range b.ExtraAmenities {
		records = append(records, amenityRecord{
			Item:     line.Item,
			Price:    line.Price,
			Quantity: line.Quantity,
			Total:    line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}

	return bookingModel{
		ID:              int64(b.ID),
		ClientID:        int64(b.ClientID),
		EventType:       b.EventType,
		NumberOfPerson:  b.NumberOfPerson,
		StartDate:       utc(b.StartDate),
		EndDate:         utc(b.EndDate),
		BaseTotalAmount: b.BaseTotalAmount,
		ExtraAmenities:  datatypes.NewJSONSlice(records),
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		CancelledAt:     b.CancelledAt,
	}
}

func toDomainPayment(m paymentModel) domain.Payment {
	return domain.Payment{
		ID:          snowflake.ID(m.ID),
		BookingID:   snowflake.ID(m.BookingID),
		Amount:      m.Amount,
		PaymentType: domain.PaymentType(m.PaymentType),
		CreatedAt:   utc(m.CreatedAt),
	}
}

func toDomainExpense(m expenseModel) *domain.Expense {
	return &domain.Expense{
		ID:          snowflake.ID(m.ID),
		Category:    domain.ExpenseCategory(m.Category),
		Description: deref(m.Description),
		Amount:      m.Amount,
		ExpenseDate: domain.NewDate(m.ExpenseDate.UTC()),
		CreatedAt:   utc(m.CreatedAt),
		UpdatedAt:   utc(m.UpdatedAt),
	}
}

func toExpenseModel(e *domain.Expense) expenseModel {
	return expenseModel{
		ID:          int64(e.ID),
		Category:    string(e.Category),
		Description: optional(e.Description),
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate.Time,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
