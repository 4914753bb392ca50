package http

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"upidash/internal/core"
	"upidash/internal/filter"
	"upidash/internal/services"
)

// PageTitle is the dashboard header.
const PageTitle = "UPI Transaction Analysis Dashboard"

type choice struct {
	Value   string
	Checked bool
}

type controlsView struct {
	Types      []choice
	Categories []choice
	Months     []choice
	AmountMin  string
	AmountMax  string
	BoundMin   string
	BoundMax   string
}

type chartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type chartData struct {
	Currency   string      `json:"currency"`
	Monthly    chartSeries `json:"monthly"`
	Merchants  chartSeries `json:"merchants"`
	Categories chartSeries `json:"categories"`
}

type dashboardView struct {
	*services.View
	TopK      int
	ChartJSON string
	ExportURL string
	// PageURL is the full page showing the same selection.
	PageURL string
}

type pageData struct {
	Title     string
	DataPath  string
	Controls  controlsView
	Dashboard *dashboardView
}

type errorPageData struct {
	Title     string
	Message   string
	RequestID string
}

func choices(all []string, selected filter.Set) []choice {
	out := make([]choice, len(all))
	for i, v := range all {
		out[i] = choice{Value: v, Checked: selected.Has(v)}
	}
	return out
}

func newControlsView(opts filter.Options, c filter.Criteria) controlsView {
	return controlsView{
		Types:      choices(opts.Types, c.Types),
		Categories: choices(opts.Categories, c.Categories),
		Months:     choices(opts.Months, c.Months),
		AmountMin:  c.Amount.Min.String(),
		AmountMax:  c.Amount.Max.String(),
		BoundMin:   opts.AmountMin.String(),
		BoundMax:   opts.AmountMax.String(),
	}
}

func series(totals []core.Total) chartSeries {
	s := chartSeries{Labels: make([]string, len(totals)), Values: make([]float64, len(totals))}
	for i, t := range totals {
		s.Labels[i] = t.Key
		s.Values[i] = core.Float(t.Amount)
	}
	return s
}

func (s *Server) newDashboardView(v *services.View, topK int) (*dashboardView, error) {
	payload, err := json.Marshal(chartData{
		Currency:   s.currency,
		Monthly:    series(v.Monthly),
		Merchants:  series(v.Merchants),
		Categories: series(v.Categories),
	})
	if err != nil {
		return nil, err
	}
	return &dashboardView{
		View:      v,
		TopK:      topK,
		ChartJSON: string(payload),
		ExportURL: "/export.csv?" + EncodeCriteria(v.Criteria).Encode(),
		PageURL:   "/?" + EncodeCriteria(v.Criteria).Encode(),
	}, nil
}

// JSON shapes of the API.

type totalJSON struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

type transactionJSON struct {
	DateTime time.Time       `json:"datetime"`
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Merchant string          `json:"merchant"`
	Month    string          `json:"month"`
}

type summaryJSON struct {
	RowCount       int             `json:"row_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalFormatted string          `json:"total_formatted"`
}

type dashboardJSON struct {
	Summary      summaryJSON       `json:"summary"`
	Monthly      []totalJSON       `json:"monthly_spend"`
	TopMerchants []totalJSON       `json:"top_merchants"`
	Categories   []totalJSON       `json:"category_spend"`
	Rows         []transactionJSON `json:"rows"`
	Warnings     []filter.Warning  `json:"warnings"`
}

func totalsJSON(totals []core.Total) []totalJSON {
	out := make([]totalJSON, len(totals))
	for i, t := range totals {
		out[i] = totalJSON{Key: t.Key, Amount: t.Amount}
	}
	return out
}

func (s *Server) newDashboardJSON(v *services.View) dashboardJSON {
	rows := make([]transactionJSON, len(v.Rows))
	for i, tx := range v.Rows {
		rows[i] = transactionJSON{
			DateTime: tx.DateTime,
			Date:     tx.Date.String(),
			Amount:   tx.Amount,
			Type:     tx.Type,
			Category: tx.Category,
			Merchant: tx.Merchant,
			Month:    tx.Month,
		}
	}
	warnings := v.Warnings
	if warnings == nil {
		warnings = []filter.Warning{}
	}
	return dashboardJSON{
		Summary: summaryJSON{
			RowCount:       v.Summary.RowCount,
			TotalAmount:    v.Summary.TotalAmount,
			TotalFormatted: core.FormatCurrency(v.Summary.TotalAmount, s.currency),
		},
		Monthly:      totalsJSON(v.Monthly),
		TopMerchants: totalsJSON(v.Merchants),
		Categories:   totalsJSON(v.Categories),
		Rows:         rows,
		Warnings:     warnings,
	}
}
