package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resortbooking/internal/config"
	"resortbooking/internal/database"
	"resortbooking/internal/domain"
	"resortbooking/internal/modules/amenity"
	"resortbooking/internal/modules/booking"
	"resortbooking/internal/modules/expense"
	"resortbooking/internal/modules/ledger"
	applog "resortbooking/internal/pkg/logger"
	"resortbooking/internal/repository"
)

type sample struct {
	client    booking.ClientInput
	eventType string
	dayOffset int
	hours     int
	base      string
	amenities []amenity.RawLine
	plan      domain.PaymentType
	deposit   string
	payOff    bool
	cancel    bool
}

var samples = []sample{
	{
		client:    booking.ClientInput{Name: "Maria Santos", Phone: "09171234567"},
		eventType: "Birthday",
		dayOffset: -20, hours: 8, base: "8000",
		amenities: []amenity.RawLine{{Item: "Chairs", Price: "15", Quantity: "50"}, {Item: "Videoke", Price: "1500", Quantity: "1"}},
		plan:      domain.PaymentFull,
	},
	{
		client:    booking.ClientInput{Name: "Jose Reyes", Phone: "+639281112233", Email: "jose.reyes@example.com"},
		eventType: "Reunion",
		dayOffset: -6, hours: 24, base: "15000",
		amenities: []amenity.RawLine{{Item: "Cottage", Price: "750", Quantity: "2"}},
		plan:      domain.PaymentPartial, deposit: "5000", payOff: true,
	},
	{
		client:    booking.ClientInput{Name: "Ana Villanueva"},
		eventType: "Team Building",
		dayOffset: 3, hours: 10, base: "12000",
		plan: domain.PaymentPartial, deposit: "3000",
	},
	{
		client:    booking.ClientInput{Name: "Carlos Mendoza", Phone: "09998887766"},
		eventType: "Wedding",
		dayOffset: 12, hours: 12, base: "35000",
		amenities: []amenity.RawLine{{Item: "Tables", Price: "100", Quantity: "20"}, {Item: "Sound System", Price: "2500", Quantity: "1"}},
		plan:      domain.PaymentPartial, deposit: "10000", cancel: true,
	},
	{
		client:    booking.ClientInput{Name: "Liza Garcia"},
		eventType: "Swimming",
		dayOffset: 30, hours: 6, base: "4500",
		plan: domain.PaymentPartial, deposit: "1000",
	},
}

var expenses = []expense.ExpenseRequest{
	{Category: domain.ExpenseUtilities, Description: "Electric bill", Amount: decimal.RequireFromString("6200.75")},
	{Category: domain.ExpenseStaff, Description: "Lifeguard wages", Amount: decimal.RequireFromString("9000")},
	{Category: domain.ExpenseMaintenance, Description: "Pool chlorine", Amount: decimal.RequireFromString("1850.50")},
}

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample bookings and expenses through the booking services",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := applog.New(cfg.Env, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := database.Connect(cfg.DatabaseURL, database.Options{Log: log})
		if err != nil {
			return fmt.Errorf("DB connection failed: %w", err)
		}
		log.Info("running migrations")
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate failed: %w", err)
		}

		node, err := snowflake.NewNode(cfg.SnowflakeNode)
		if err != nil {
			return err
		}
		store := repository.NewStore(db, node)
		bookings := booking.NewService(store, ledger.NewService(store, log), nil, nil, log)
		return seed(cmd.Context(), bookings, expense.NewService(store, log), log)
	},
}

func seed(ctx context.Context, bookings *booking.Service, expenseSvc *expense.Service, log *zap.Logger) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	for _, s := range samples {
		start := today.AddDate(0, 0, s.dayOffset).Add(9 * time.Hour)
		req := booking.CreateBookingRequest{
			Client:          s.client,
			EventType:       s.eventType,
			StartDate:       start,
			EndDate:         start.Add(time.Duration(s.hours) * time.Hour),
			BaseTotalAmount: decimal.RequireFromString(s.base),
			ExtraAmenities:  s.amenities,
			Payment:         booking.PaymentPlan{Type: s.plan},
		}
		if s.deposit != "" {
			req.Payment.Amount = decimal.RequireFromString(s.deposit)
		}

		details, err := bookings.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("seed booking for %s: %w", s.client.Name, err)
		}
		id := details.Booking.ID

		if s.payOff {
			if _, err := bookings.PayRemaining(ctx, id); err != nil {
				return fmt.Errorf("pay remaining for %s: %w", s.client.Name, err)
			}
		}
		if s.cancel {
			if _, err := bookings.Cancel(ctx, id); err != nil {
				return fmt.Errorf("cancel for %s: %w", s.client.Name, err)
			}
		}
	}

	for i, req := range expenses {
		req.ExpenseDate = domain.NewDate(today.AddDate(0, 0, -7*i))
		if _, err := expenseSvc.Create(ctx, req); err != nil {
			return fmt.Errorf("seed expense %q: %w", req.Description, err)
		}
	}

	log.Info("seed completed", zap.Int("bookings", len(samples)), zap.Int("expenses", len(expenses)))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
