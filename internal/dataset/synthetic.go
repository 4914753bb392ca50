package dataset

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"upidash/internal/core"
)

// SyntheticOptions controls GenerateSynthetic.
type SyntheticOptions struct {
	Rows   int
	Start  time.Time
	Months int
	Seed   uint64
}

type merchantProfile struct {
	name     string
	category string
	typ      string
	min, max int64 // paise
}

var syntheticMerchants = []merchantProfile{
	{"Swiggy", "Food", "P2M", 12000, 95000},
	{"Zomato", "Food", "P2M", 15000, 120000},
	{"BigBasket", "Groceries", "P2M", 40000, 450000},
	{"DMart", "Groceries", "P2M", 30000, 600000},
	{"Amazon", "Shopping", "P2M", 20000, 1500000},
	{"Flipkart", "Shopping", "P2M", 25000, 1200000},
	{"IRCTC", "Travel", "P2M", 30000, 450000},
	{"Uber", "Travel", "P2M", 8000, 90000},
	{"BESCOM", "Bills", "P2M", 60000, 400000},
	{"Airtel", "Bills", "P2M", 29900, 159900},
	{"PVR Cinemas", "Entertainment", "P2M", 25000, 180000},
	{"Apollo Pharmacy", "Health", "P2M", 9000, 300000},
	{"Rahul Sharma", "Transfers", "P2P", 10000, 2500000},
	{"Priya Nair", "Transfers", "P2P", 5000, 1500000},
	{"Ankit Verma", "Transfers", "P2P", 20000, 1000000},
}

// GenerateSynthetic returns a reproducible table of plausible UPI payments
// spread over opts.Months months starting at opts.Start.
func GenerateSynthetic(opts SyntheticOptions) *core.Table {
	if opts.Rows < 0 {
		opts.Rows = 0
	}
	if opts.Months <= 0 {
		opts.Months = 6
	}
	if opts.Start.IsZero() {
		opts.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	start := time.Date(opts.Start.Year(), opts.Start.Month(), 1, 0, 0, 0, 0, opts.Start.Location())
	span := start.AddDate(0, opts.Months, 0).Sub(start)

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	rows := make([]core.Transaction, opts.Rows)
	for i := range rows {
		m := syntheticMerchants[rng.IntN(len(syntheticMerchants))]
		at := start.Add(time.Duration(rng.Int64N(int64(span)))).Truncate(time.Second)
		paise := m.min + rng.Int64N(m.max-m.min+1)
		rows[i] = core.NewTransaction(at, at, decimal.New(paise, -2), m.typ, m.category, m.name)
	}
	return core.NewTable(rows)
}
