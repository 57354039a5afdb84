package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/kalongo/booking-pricing/internal/service"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

type palette struct {
	label   func(a ...interface{}) string
	value   func(a ...interface{}) string
	total   func(a ...interface{}) string
	warning func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		label:   mk(color.Faint),
		value:   mk(color.Bold),
		total:   mk(color.FgGreen, color.Bold),
		warning: mk(color.FgYellow),
	}
}

func renderQuote(w io.Writer, q service.CostBreakdown, colored bool) error {
	p := newPalette(colored)
	tw := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)

	rows := [][2]string{
		{"Room", q.RoomType},
		{"Occupancy", q.OccupancyLabel},
		{"Guests", fmt.Sprint(q.TotalGuests)},
		{"Nights", fmt.Sprint(q.Nights)},
		{"Per night", q.PricePerNight},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", p.label(row[0]), p.value(row[1]))
	}
	fmt.Fprintf(tw, "%s\t%s\n", p.label("Total"), p.total(q.Total))
	if err := tw.Flush(); err != nil {
		return err
	}

	if q.RateSource == service.RateSourceFallback {
		fmt.Fprintln(w, p.warning(fmt.Sprintf("Live rates unavailable, %s converted with a built-in rate.", q.Currency)))
	}
	return nil
}

func renderRates(w io.Writer, view service.RatesView, colored bool) error {
	p := newPalette(colored)
	if view.Live {
		fmt.Fprintf(w, "Live rates, fetched %s\n\n", view.FetchedAt.Local().Format(time.RFC1123))
	} else {
		fmt.Fprintln(w, p.warning("Live rates unavailable, showing built-in rates."))
		fmt.Fprintln(w)
	}

	tw := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tPER 1 TZS\tTZS PER UNIT\tSOURCE")
	for _, q := range view.Currencies {
		fmt.Fprintf(tw, "%s\t%s\t%.8f\t%.2f\t%s\n", p.value(q.Code), q.Name, q.Rate, q.TZSPerUnit, q.Source)
	}
	return tw.Flush()
}

var occupancyOrder = map[service.Occupancy]int{
	service.OccupancySingle:    0,
	service.OccupancyCouple:    1,
	service.OccupancyDouble:    2,
	service.OccupancyFive:      3,
	service.OccupancyPerPerson: 4,
}

func renderCatalog(w io.Writer, rooms []service.RoomPrices, colored bool) error {
	p := newPalette(colored)
	tw := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tOCCUPANCY\tPER NIGHT\tSOURCE")
	for _, room := range rooms {
		buckets := make([]service.Occupancy, 0, len(room.Prices))
		for bucket := range room.Prices {
			buckets = append(buckets, bucket)
		}
		sort.Slice(buckets, func(i, j int) bool {
			return occupancyOrder[buckets[i]] < occupancyOrder[buckets[j]]
		})
		for _, bucket := range buckets {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.value(room.RoomType), bucket, service.FormatBase(room.Prices[bucket]), room.Source)
		}
	}
	return tw.Flush()
}
