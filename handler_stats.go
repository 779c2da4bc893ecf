package main

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"dollcase/internal/models"
)

// nowFunc supplies the current time for window computation; swapped in tests.
var nowFunc = time.Now

// partRow is the slice of a doll part the aggregation engine works on.
// Null prices stay null so the fallback chain can tell unset from zero.
type partRow struct {
	sizeCategory    string
	ownershipStatus string
	originalPrice   sql.NullFloat64
	actualPrice     sql.NullFloat64
	totalPrice      sql.NullFloat64
	deposit         sql.NullFloat64
	finalPayment    sql.NullFloat64
	receivedDate    string
}

// fallbackCost resolves the acquisition cost of a part:
// total_price -> actual_price -> original_price, first non-null wins, else 0.
func fallbackCost(p partRow) float64 {
	switch {
	case p.totalPrice.Valid:
		return p.totalPrice.Float64
	case p.actualPrice.Valid:
		return p.actualPrice.Float64
	case p.originalPrice.Valid:
		return p.originalPrice.Float64
	}
	return 0
}

// ownedCost is the cost formula used for owned parts: actual -> original -> 0.
func ownedCost(p partRow) float64 {
	switch {
	case p.actualPrice.Valid:
		return p.actualPrice.Float64
	case p.originalPrice.Valid:
		return p.originalPrice.Float64
	}
	return 0
}

func nzero(n sql.NullFloat64) float64 {
	if n.Valid {
		return n.Float64
	}
	return 0
}

func loadPartRows(ctx context.Context, table string) ([]partRow, error) {
	rows, err := db.QueryContext(ctx, `SELECT COALESCE(size_category,''), ownership_status,
		original_price, actual_price, total_price, deposit, final_payment, COALESCE(received_date,'')
		FROM `+table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var parts []partRow
	for rows.Next() {
		var p partRow
		if err := rows.Scan(&p.sizeCategory, &p.ownershipStatus,
			&p.originalPrice, &p.actualPrice, &p.totalPrice, &p.deposit, &p.finalPayment, &p.receivedDate); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// accumulate folds one part into a stats bucket. Absent values count as 0;
// absence never propagates as an error or NaN.
func accumulate(b *models.StatsBucket, p partRow) {
	b.Count++
	switch p.ownershipStatus {
	case "owned":
		b.Owned++
		b.TotalAmountOwned += ownedCost(p)
	case "preorder":
		b.Preorder++
		b.TotalAmountPreorder += nzero(p.totalPrice)
	case "wishlist":
		b.Wishlist++
	}
	b.TotalAmount += fallbackCost(p)
	b.TotalPaid += nzero(p.deposit)
	b.TotalRemaining += nzero(p.finalPayment)
}

func sumFee(ctx context.Context, table string) (float64, error) {
	var total float64
	err := db.QueryRowContext(ctx, "SELECT COALESCE(SUM(COALESCE(fee,0)),0) FROM "+table).Scan(&total)
	return total, err
}

func loadMakeupTotals(ctx context.Context, g *errgroup.Group, totals *models.MakeupTotals) {
	g.Go(func() error {
		v, err := sumFee(ctx, "makeup_history")
		totals.History = v
		return err
	})
	g.Go(func() error {
		v, err := sumFee(ctx, "makeup_current")
		totals.Current = v
		return err
	})
	g.Go(func() error {
		v, err := sumFee(ctx, "makeup_appointments")
		totals.Appointment = v
		return err
	})
	g.Go(func() error {
		v, err := sumFee(ctx, "body_makeup")
		totals.Body = v
		return err
	})
}

// handleDollStats computes the cross-entity inventory and cost summary.
// Sub-queries run concurrently; any failure aborts the whole aggregate and
// no partial result is returned.
func handleDollStats(w http.ResponseWriter, r *http.Request) {
	g, ctx := errgroup.WithContext(r.Context())
	var heads, bodies []partRow
	var makeup models.MakeupTotals
	g.Go(func() error {
		var err error
		heads, err = loadPartRows(ctx, "doll_heads")
		return err
	})
	g.Go(func() error {
		var err error
		bodies, err = loadPartRows(ctx, "doll_bodies")
		return err
	})
	loadMakeupTotals(ctx, g, &makeup)
	if err := g.Wait(); err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	makeup.Total = makeup.History + makeup.Current + makeup.Appointment + makeup.Body

	stats := models.DollStats{
		ByType: map[string]models.StatsBucket{},
		BySize: map[string]models.StatsBucket{},
		Makeup: makeup,
	}
	byType := map[string][]partRow{"head": heads, "body": bodies}
	for typ, parts := range byType {
		bucket := models.StatsBucket{}
		for _, p := range parts {
			accumulate(&stats.Total, p)
			accumulate(&bucket, p)
			size := p.sizeCategory
			if size == "" {
				size = "unclassified"
			}
			sb := stats.BySize[size]
			accumulate(&sb, p)
			stats.BySize[size] = sb
		}
		stats.ByType[typ] = bucket
	}
	jsonResp(w, stats)
}

// handleTotalExpenses computes the three top-level spending buckets and a
// presentation breakdown sorted descending by amount.
func handleTotalExpenses(w http.ResponseWriter, r *http.Request) {
	g, ctx := errgroup.WithContext(r.Context())
	var exp models.TotalExpenses
	var makeup models.MakeupTotals
	sumActual := func(table string, dest *float64) func() error {
		return func() error {
			return db.QueryRowContext(ctx, "SELECT COALESCE(SUM(COALESCE(actual_price,0)),0) FROM "+table).Scan(dest)
		}
	}
	g.Go(sumActual("doll_heads", &exp.Dolls.Heads))
	g.Go(sumActual("doll_bodies", &exp.Dolls.Bodies))
	loadMakeupTotals(ctx, g, &makeup)
	g.Go(func() error {
		// Owned items cost their full price; preorders cost what has been
		// committed so far (deposit plus the outstanding final payment).
		return db.QueryRowContext(ctx, `SELECT COALESCE(SUM(
			CASE WHEN ownership_status='owned' THEN COALESCE(total_price,0)
			ELSE COALESCE(deposit,0)+COALESCE(final_payment,0) END),0) FROM wardrobe_items`).Scan(&exp.Wardrobe.Total)
	})
	if err := g.Wait(); err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	makeup.Total = makeup.History + makeup.Current + makeup.Appointment + makeup.Body
	exp.Makeup = makeup
	exp.Dolls.Total = exp.Dolls.Heads + exp.Dolls.Bodies
	exp.GrandTotal = exp.Dolls.Total + exp.Makeup.Total + exp.Wardrobe.Total

	exp.Breakdown = []models.BreakdownItem{
		{Category: "dolls", Amount: exp.Dolls.Total, Icon: "doll", Color: "#e06c9f"},
		{Category: "makeup", Amount: exp.Makeup.Total, Icon: "brush", Color: "#8c7ae6"},
		{Category: "wardrobe", Amount: exp.Wardrobe.Total, Icon: "hanger", Color: "#60a3bc"},
	}
	sort.SliceStable(exp.Breakdown, func(i, j int) bool {
		return exp.Breakdown[i].Amount > exp.Breakdown[j].Amount
	})
	exp.MonthlyTrend = []models.TrendPoint{}
	jsonResp(w, exp)
}

// monthlyAmount is a date-keyed cost pair used while bucketing the trend.
type monthlyAmount struct {
	month  string
	amount float64
}

func loadDollTrendRows(ctx context.Context, table string) ([]monthlyAmount, error) {
	parts, err := loadPartRows(ctx, table)
	if err != nil {
		return nil, err
	}
	var out []monthlyAmount
	for _, p := range parts {
		if len(p.receivedDate) < 7 {
			continue
		}
		out = append(out, monthlyAmount{month: p.receivedDate[:7], amount: fallbackCost(p)})
	}
	return out, nil
}

func loadMakeupTrendRows(ctx context.Context, table, dateCol string) ([]monthlyAmount, error) {
	rows, err := db.QueryContext(ctx, "SELECT COALESCE("+dateCol+",''), COALESCE(fee,0) FROM "+table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []monthlyAmount
	for rows.Next() {
		var date string
		var fee float64
		if err := rows.Scan(&date, &fee); err != nil {
			return nil, err
		}
		if len(date) < 7 {
			continue
		}
		out = append(out, monthlyAmount{month: date[:7], amount: fee})
	}
	return out, rows.Err()
}

// handleMonthlyTrend builds the fixed 12-month spending window ending at the
// current month, oldest first. Wardrobe stays 0: wardrobe items carry no
// acquisition month in this model.
func handleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	g, ctx := errgroup.WithContext(r.Context())
	dolls := make([][]monthlyAmount, 2)
	makeup := make([][]monthlyAmount, 4)
	for i, table := range []string{"doll_heads", "doll_bodies"} {
		i, table := i, table
		g.Go(func() error {
			var err error
			dolls[i], err = loadDollTrendRows(ctx, table)
			return err
		})
	}
	makeupTables := []struct{ table, dateCol string }{
		{"makeup_history", "makeup_date"},
		{"makeup_current", "makeup_date"},
		{"makeup_appointments", "appointment_date"},
		{"body_makeup", "makeup_date"},
	}
	for i, mt := range makeupTables {
		i, mt := i, mt
		g.Go(func() error {
			var err error
			makeup[i], err = loadMakeupTrendRows(ctx, mt.table, mt.dateCol)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	now := nowFunc()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	trend := make([]models.TrendPoint, 12)
	index := map[string]int{}
	for i := 0; i < 12; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		trend[i] = models.TrendPoint{Month: key, Display: m.Format("Jan 2006")}
		index[key] = i
	}
	for _, set := range dolls {
		for _, ma := range set {
			if i, ok := index[ma.month]; ok {
				trend[i].Dolls += ma.amount
			}
		}
	}
	for _, set := range makeup {
		for _, ma := range set {
			if i, ok := index[ma.month]; ok {
				trend[i].Makeup += ma.amount
			}
		}
	}
	for i := range trend {
		trend[i].Total = trend[i].Dolls + trend[i].Makeup + trend[i].Wardrobe
	}
	jsonResp(w, trend)
}
