package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zaloga/internal/model"
)

// ownedBy returns the activities of userID in log order.
func ownedBy(activities []model.Activity, userID string) []model.Activity {
	own := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if a.UserID == userID {
			own = append(own, a)
		}
	}
	return own
}

func sumAmount(activities []model.Activity, kind string) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range activities {
		if a.Type == kind {
			sum = sum.Add(a.Amount)
		}
	}
	return sum
}

func sumQuantity(activities []model.Activity, kind string) int {
	sum := 0
	for _, a := range activities {
		if a.Type == kind {
			sum += int(a.Quantity)
		}
	}
	return sum
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
