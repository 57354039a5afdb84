package service

import (
	"fmt"
	"strings"

	"github.com/kalongo/booking-pricing/internal/storage"
)

// SelectNightlyPrice applies the room's occupancy rule to the guest count and
// returns the nightly TZS price with a short description of how it was made up.
func SelectNightlyPrice(room RoomType, guests int, prices OccupancyPrices) (int64, string) {
	g := clampNonNegative(guests)

	switch room {
	case RoomACabin, RoomCottage:
		if g == 0 {
			return 0, Placeholder
		}
		couple := prices.get(OccupancyCouple, DefaultCouplePrice)
		couples := g / 2
		if g%2 == 0 {
			return int64(couples) * couple, fmt.Sprintf("%d %s", couples, plural(couples, "couple", "couples"))
		}
		single := prices.get(OccupancySingle, DefaultSinglePrice)
		price := int64(couples)*couple + single
		if couples == 0 {
			return price, "1 single"
		}
		return price, fmt.Sprintf("%d %s + 1 single", couples, plural(couples, "couple", "couples"))

	case RoomFamilyHouse:
		if g == 0 {
			return 0, Placeholder
		}
		five := prices.get(OccupancyFive, DefaultFamilyFivePrice)
		couples := prices.get(OccupancyCouple, DefaultFamilyTwoPrice)
		groups := g / familyGroupSize
		rest := g % familyGroupSize

		var restPrice int64
		switch {
		case rest == 0:
			restPrice = 0
		case rest <= 2:
			restPrice = couples
		default:
			restPrice = 2 * couples
		}

		var parts []string
		if groups > 0 {
			parts = append(parts, fmt.Sprintf("%d × %d occupants", groups, familyGroupSize))
		}
		if rest > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", rest, plural(rest, "guest", "guests")))
		}
		return int64(groups)*five + restPrice, strings.Join(parts, " + ")

	case RoomKikota:
		if g == 0 {
			return 0, Placeholder
		}
		perPerson := prices.get(OccupancyPerPerson, DefaultKikotaPerPersonPrice)
		return int64(g) * perPerson, fmt.Sprintf("%d × %s", g, thousandsLabel(perPerson))

	case RoomTent:
		if g <= 1 {
			return prices.get(OccupancySingle, DefaultTentSinglePrice), "Single"
		}
		return prices.get(OccupancyDouble, DefaultTentDoublePrice), "Double"

	default:
		return 0, Placeholder
	}
}

// CalculateNights returns the number of whole nights between two calendar
// dates, or 0 when either date is unreadable or checkOut is not after checkIn.
func CalculateNights(checkIn, checkOut string) int {
	in := mustParseISODate(checkIn)
	out := mustParseISODate(checkOut)
	if in.IsZero() || out.IsZero() {
		return 0
	}
	if !out.After(in) {
		return 0
	}
	return wholeDaysBetween(in, out)
}

// BuildQuote assembles the cost summary for one form state. It reads nothing
// but its arguments, so the same inputs always give the same breakdown.
func BuildQuote(req QuoteReq, catalog []storage.CatalogCategory, rates storage.RateTable) CostBreakdown {
	room := ParseRoomType(req.RoomType)
	guests := clampNonNegative(req.Adults) + clampNonNegative(req.Children)
	nights := CalculateNights(req.CheckIn, req.CheckOut)
	currency := NormalizeCurrency(req.Currency)

	perNight, label := SelectNightlyPrice(room, guests, ResolveOccupancyPrices(catalog, room))
	total := int64(nights) * perNight

	roomLabel := string(room)
	if strings.TrimSpace(req.RoomType) == "" {
		roomLabel = Placeholder
	}

	breakdown := CostBreakdown{
		RoomType:          roomLabel,
		OccupancyLabel:    label,
		TotalGuests:       guests,
		Nights:            nights,
		PricePerNight:     Placeholder,
		Total:             Placeholder,
		Currency:          currency,
		PricePerNightBase: perNight,
		TotalBase:         total,
	}
	if room == RoomNone {
		return breakdown
	}

	perNightConv := ConvertFromBase(perNight, currency, rates)
	totalConv := ConvertFromBase(total, currency, rates)

	breakdown.Rate = perNightConv.Rate
	breakdown.RateSource = perNightConv.Source
	breakdown.PricePerNightConv = perNightConv.Amount
	breakdown.TotalConv = totalConv.Amount
	breakdown.PricePerNight = FormatAmount(perNightConv.Amount, currency)
	if nights > 0 {
		breakdown.Total = FormatAmount(totalConv.Amount, currency)
	}
	return breakdown
}
