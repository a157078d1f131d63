package main

import (
	"context"
	"flag"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/app"
	"github.com/noah-isme/backend-crm/internal/config"
	"github.com/noah-isme/backend-crm/internal/db"
	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
	"github.com/noah-isme/backend-crm/internal/obs"
)

type seedProduct struct {
	SKU         string
	Name        string
	Description string
	Cost        string
	Price       string
	Stock       int64
}

var products = []seedProduct{
	{"LAP-14-PRO", "Laptop 14\" Pro", "14 inch business laptop, 16GB RAM", "850.00", "1099.00", 25},
	{"LAP-15-STD", "Laptop 15\" Standard", "15 inch office laptop, 8GB RAM", "520.00", "699.00", 40},
	{"MON-27-4K", "Monitor 27\" 4K", "IPS panel, USB-C", "260.00", "349.00", 30},
	{"DOCK-USBC", "USB-C Dock", "Dual display docking station", "95.00", "149.00", 60},
	{"KB-MECH", "Mechanical Keyboard", "Tenkeyless, brown switches", "45.00", "79.00", 120},
	{"MS-WL", "Wireless Mouse", "Silent clicks, 2.4GHz receiver", "12.00", "24.90", 200},
	{"HS-NC", "Noise Cancelling Headset", "Bluetooth with boom mic", "70.00", "119.00", 50},
	{"SUP-1Y", "Support Plan 1 Year", "Next business day on-site support", "40.00", "120.00", 1000},
}

type seedCustomer struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

var customers = []seedCustomer{
	{"Budi Santoso", "budi@example.com", "+62 811 0001", "Santoso Logistics"},
	{"Siti Aminah", "siti@example.com", "+62 811 0002", "Aminah Design"},
	{"Andi Pratama", "andi@example.com", "+62 811 0003", "Pratama Retail"},
	{"Dewi Lestari", "dewi@example.com", "+62 811 0004", ""},
	{"Eko Kurniawan", "eko@example.com", "+62 811 0005", "Kurniawan & Co"},
}

func main() {
	migrate := flag.Bool("migrate", false, "apply migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLogger("console", "info").With().Str("component", "seeder").Logger()

	if *migrate {
		if err := app.RunMigrations(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := app.OpenPostgres(ctx, cfg, "crm-seeder")
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()
	q := dbgen.New(pool)

	created, skipped := 0, 0
	for _, p := range products {
		_, err := q.CreateProduct(ctx, dbgen.CreateProductParams{
			Sku:         p.SKU,
			Name:        p.Name,
			Description: db.Text(p.Description),
			Cost:        db.Numeric(decimal.RequireFromString(p.Cost)),
			Price:       db.Numeric(decimal.RequireFromString(p.Price)),
			Stock:       p.Stock,
			Active:      true,
		})
		switch {
		case db.IsUniqueViolation(err):
			skipped++
		case err != nil:
			logger.Fatal().Err(err).Str("sku", p.SKU).Msg("seed product")
		default:
			created++
		}
	}
	logger.Info().Int("created", created).Int("skipped", skipped).Msg("products seeded")

	created = 0
	for _, c := range customers {
		if _, err := q.CreateCustomer(ctx, dbgen.CreateCustomerParams{
			Name:    c.Name,
			Email:   db.Text(c.Email),
			Phone:   db.Text(c.Phone),
			Company: db.Text(c.Company),
		}); err != nil {
			logger.Fatal().Err(err).Str("email", c.Email).Msg("seed customer")
		}
		created++
	}
	logger.Info().Int("created", created).Msg("customers seeded")
}
