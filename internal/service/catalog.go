package service

import (
	"strings"

	"github.com/kalongo/booking-pricing/internal/storage"
)

// OccupancyPrices maps an occupancy bucket to a nightly TZS price.
type OccupancyPrices map[Occupancy]int64

// get returns the bucket price, or def when it is missing or zero.
func (p OccupancyPrices) get(bucket Occupancy, def int64) int64 {
	if v := p[bucket]; v > 0 {
		return v
	}
	return def
}

// ParseRoomType maps form values and catalog names ("Family", "Tents") onto a
// RoomType. Unknown names are RoomNone.
func ParseRoomType(name string) RoomType {
	if rt, ok := roomAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return rt
	}
	return RoomNone
}

// ResolveOccupancyPrices returns the occupancy table for room, taken from the
// accommodation category of catalog when it lists the room and from the
// built-in table otherwise. It never fails.
func ResolveOccupancyPrices(catalog []storage.CatalogCategory, room RoomType) OccupancyPrices {
	prices, _ := resolveOccupancyPrices(catalog, room)
	return prices
}

func resolveOccupancyPrices(catalog []storage.CatalogCategory, room RoomType) (OccupancyPrices, string) {
	if prices, ok := catalogOccupancyPrices(catalog, room); ok {
		return prices, PriceSourceCatalog
	}
	return fallbackPrices(room), PriceSourceFallback
}

func fallbackPrices(room RoomType) OccupancyPrices {
	prices := make(OccupancyPrices)
	for bucket, price := range fallbackOccupancyPrices[room] {
		prices[bucket] = price
	}
	return prices
}

func catalogOccupancyPrices(catalog []storage.CatalogCategory, room RoomType) (OccupancyPrices, bool) {
	if room == RoomNone {
		return nil, false
	}
	category := findAccommodationCategory(catalog)
	if category == nil {
		return nil, false
	}

	prices := make(OccupancyPrices)
	found := false
	for _, item := range category.Items {
		if ParseRoomType(item.Name) != room {
			continue
		}
		found = true
		bucket := occupancyFromLabel(room, item.PriceLabel)
		// the catalog is ordered, first row per bucket wins
		if _, taken := prices[bucket]; taken {
			continue
		}
		prices[bucket] = parsePriceValue(item.PriceValue.String())
	}
	return prices, found
}

func findAccommodationCategory(catalog []storage.CatalogCategory) *storage.CatalogCategory {
	for i := range catalog {
		c := &catalog[i]
		if strings.EqualFold(strings.TrimSpace(c.CategoryType), accommodationCategory) ||
			strings.Contains(strings.ToLower(c.Name), accommodationCategory) {
			return c
		}
	}
	return nil
}

// occupancyFromLabel reads a free text label like "Single occupancy" or
// "5 occupants" into a bucket.
func occupancyFromLabel(room RoomType, label string) Occupancy {
	if room == RoomKikota {
		return OccupancyPerPerson
	}
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "single"):
		return OccupancySingle
	case strings.Contains(l, "couple"):
		return OccupancyCouple
	case strings.Contains(l, "5"), strings.Contains(l, "occupant"):
		return OccupancyFive
	case strings.Contains(l, "double"):
		return OccupancyDouble
	default:
		return OccupancyPerPerson
	}
}
