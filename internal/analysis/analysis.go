// Package analysis derives dashboard and report figures for one user from the
// item catalog and the activity log. It performs no I/O and never fails.
package analysis

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zaloga/internal/model"
)

// UnspecifiedLossType groups losses recorded without a loss type.
const UnspecifiedLossType = "undefined"

const (
	recentLimit   = 5
	topItemsLimit = 5
	seriesMonths  = 6
)

// Series is a chart axis: Labels[i] belongs to Data[i].
type Series[T any] struct {
	Labels []string `json:"labels"`
	Data   []T      `json:"data"`
}

// Dashboard is the summary shown on the home page. MonthlyRevenue and
// MonthlyLosses are all-time sums; clients depend on the names.
type Dashboard struct {
	TotalStock       int              `json:"totalStock"`
	MonthlyRevenue   decimal.Decimal  `json:"monthlyRevenue"`
	MonthlyLosses    decimal.Decimal  `json:"monthlyLosses"`
	RecentActivities []model.Activity `json:"recentActivities"`
}

// Report is the full analysis for one user.
type Report struct {
	TotalRevenue  decimal.Decimal         `json:"totalRevenue"`
	TotalLosses   decimal.Decimal         `json:"totalLosses"`
	ItemsSold     int                     `json:"itemsSold"`
	ItemsLost     int                     `json:"itemsLost"`
	MonthlySales  Series[decimal.Decimal] `json:"monthlySales"`
	MonthlyLosses Series[decimal.Decimal] `json:"monthlyLosses"`
	TopItems      Series[int]             `json:"topItems"`
	LossTypes     Series[int]             `json:"lossTypes"`
}

// BuildDashboard computes the dashboard for userID.
func BuildDashboard(items []model.Item, activities []model.Activity, userID string) Dashboard {
	totalStock := 0
	for _, item := range items {
		if item.UserID == userID {
			totalStock += int(item.Stock)
		}
	}

	own := ownedBy(activities, userID)

	recent := slices.Clone(own)
	slices.SortStableFunc(recent, func(a, b model.Activity) int {
		return b.Date.Compare(a.Date)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return Dashboard{
		TotalStock:       totalStock,
		MonthlyRevenue:   sumAmount(own, model.ActivitySale),
		MonthlyLosses:    sumAmount(own, model.ActivityLoss),
		RecentActivities: recent,
	}
}

// BuildAnalysis computes the report for userID. Monthly series cover the
// six calendar months ending with the month of now, in now's location.
func BuildAnalysis(items []model.Item, activities []model.Activity, userID string, now time.Time) Report {
	own := ownedBy(activities, userID)

	report := Report{
		TotalRevenue: sumAmount(own, model.ActivitySale),
		TotalLosses:  sumAmount(own, model.ActivityLoss),
		ItemsSold:    sumQuantity(own, model.ActivitySale),
		ItemsLost:    sumQuantity(own, model.ActivityLoss),
		TopItems:     topItems(own),
		LossTypes:    lossTypes(own),
	}
	report.MonthlySales, report.MonthlyLosses = monthlySeries(own, now)
	return report
}

// monthlySeries buckets sale and loss amounts into the last six calendar
// months, oldest first.
func monthlySeries(own []model.Activity, now time.Time) (sales, losses Series[decimal.Decimal]) {
	loc := now.Location()
	sales = Series[decimal.Decimal]{Labels: make([]string, 0, seriesMonths), Data: make([]decimal.Decimal, 0, seriesMonths)}
	losses = Series[decimal.Decimal]{Labels: make([]string, 0, seriesMonths), Data: make([]decimal.Decimal, 0, seriesMonths)}

	for i := seriesMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, loc)
		label := month.Format("Jan")

		saleSum, lossSum := decimal.Zero, decimal.Zero
		for _, a := range own {
			if !sameMonth(a.Date.In(loc), month) {
				continue
			}
			switch a.Type {
			case model.ActivitySale:
				saleSum = saleSum.Add(a.Amount)
			case model.ActivityLoss:
				lossSum = lossSum.Add(a.Amount)
			}
		}

		sales.Labels = append(sales.Labels, label)
		sales.Data = append(sales.Data, saleSum)
		losses.Labels = append(losses.Labels, label)
		losses.Data = append(losses.Data, lossSum)
	}
	return sales, losses
}

// topItems ranks items by sold quantity. Equal quantities keep the order in
// which the items were first sold.
func topItems(own []model.Activity) Series[int] {
	type group struct {
		name     string
		quantity int
	}

	var order []string
	groups := make(map[string]*group)
	for _, a := range own {
		if a.Type != model.ActivitySale {
			continue
		}
		g, ok := groups[a.ItemID]
		if !ok {
			g = &group{}
			groups[a.ItemID] = g
			order = append(order, a.ItemID)
		}
		g.name = a.ItemName
		g.quantity += int(a.Quantity)
	}

	ranked := make([]*group, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, groups[id])
	}
	slices.SortStableFunc(ranked, func(a, b *group) int {
		return b.quantity - a.quantity
	})
	if len(ranked) > topItemsLimit {
		ranked = ranked[:topItemsLimit]
	}

	out := Series[int]{Labels: make([]string, 0, len(ranked)), Data: make([]int, 0, len(ranked))}
	for _, g := range ranked {
		out.Labels = append(out.Labels, g.name)
		out.Data = append(out.Data, g.quantity)
	}
	return out
}

// lossTypes sums lost quantities per loss type in first-seen order.
func lossTypes(own []model.Activity) Series[int] {
	out := Series[int]{Labels: []string{}, Data: []int{}}
	index := make(map[string]int)
	for _, a := range own {
		if a.Type != model.ActivityLoss {
			continue
		}
		key := UnspecifiedLossType
		if a.LossType != nil {
			key = *a.LossType
		}
		i, ok := index[key]
		if !ok {
			i = len(out.Labels)
			index[key] = i
			out.Labels = append(out.Labels, key)
			out.Data = append(out.Data, 0)
		}
		out.Data[i] += int(a.Quantity)
	}
	return out
}
