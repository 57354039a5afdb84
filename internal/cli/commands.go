package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalongo/booking-pricing/internal/service"
)

func quoteCmd(a *app) *cobra.Command {
	var req service.QuoteReq
	var checkIn, checkOut string

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Show the cost summary for a stay",
		Example: `  stayquote quote --room "Family House" --check-in 2025-07-01 --check-out 2025-07-04 --adults 4 --children 3 --currency USD
  stayquote quote --room Tent --check-in today --check-out tomorrow --adults 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.CheckIn, err = parseDateInput(checkIn, time.Now()); err != nil {
				return err
			}
			if req.CheckOut, err = parseDateInput(checkOut, time.Now()); err != nil {
				return err
			}
			if req.RoomType != "" && service.ParseRoomType(req.RoomType) == service.RoomNone {
				return fmt.Errorf("unknown room type %q (choose one of %s)", req.RoomType, strings.Join(roomNames(), ", "))
			}

			svc, err := a.newService(a.verbose)
			if err != nil {
				return err
			}
			defer svc.Stop()

			quote := svc.Quote(cmd.Context(), req)
			if a.outputJSON {
				return writeJSON(a.out, quote)
			}
			return renderQuote(a.out, quote, a.colorize())
		},
	}

	cmd.Flags().StringVar(&req.RoomType, "room", "", "Room type: "+strings.Join(roomNames(), ", "))
	cmd.Flags().StringVar(&checkIn, "check-in", "", "Check-in date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "Check-out date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().IntVar(&req.Adults, "adults", 1, "Number of adults")
	cmd.Flags().IntVar(&req.Children, "children", 0, "Number of children")
	cmd.Flags().StringVar(&req.Currency, "currency", "TZS", "Display currency")
	return cmd
}

func ratesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "List the exchange rates quotes are converted with",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService(a.verbose)
			if err != nil {
				return err
			}
			defer svc.Stop()

			view := svc.Rates(cmd.Context())
			if a.outputJSON {
				return writeJSON(a.out, view)
			}
			return renderRates(a.out, view, a.colorize())
		},
	}
}

func catalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [room]",
		Short: "Show nightly occupancy prices per room",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms := allRooms
			if len(args) == 1 {
				room := service.ParseRoomType(args[0])
				if room == service.RoomNone {
					return fmt.Errorf("unknown room type %q", args[0])
				}
				rooms = []service.RoomType{room}
			}

			svc, err := a.newService(a.verbose)
			if err != nil {
				return err
			}
			defer svc.Stop()

			prices := make([]service.RoomPrices, 0, len(rooms))
			for _, room := range rooms {
				prices = append(prices, svc.RoomPrices(cmd.Context(), room))
			}
			if a.outputJSON {
				return writeJSON(a.out, prices)
			}
			return renderCatalog(a.out, prices, a.colorize())
		},
	}
}

var allRooms = []service.RoomType{
	service.RoomACabin,
	service.RoomCottage,
	service.RoomFamilyHouse,
	service.RoomKikota,
	service.RoomTent,
}

func roomNames() []string {
	names := make([]string, len(allRooms))
	for i, room := range allRooms {
		names[i] = string(room)
	}
	return names
}

// parseDateInput accepts YYYY-MM-DD plus "today" and "tomorrow". Empty input
// stays empty, which prices zero nights.
func parseDateInput(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "":
		return "", nil
	case "today":
		return now.Format("2006-01-02"), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", input); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", input)
	}
	return input, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
