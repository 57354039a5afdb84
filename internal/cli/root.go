package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kalongo/booking-pricing/internal/config"
	"github.com/kalongo/booking-pricing/internal/service"
)

type app struct {
	out        io.Writer
	outputJSON bool
	configFile string
	verbose    bool
	noColor    bool
	cfg        config.Config
}

// Execute runs the stayquote command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		errColorPrint := color.New(color.FgRed).Add(color.Bold)
		errColorPrint.Fprint(os.Stderr, "ERROR")
		fmt.Fprintf(os.Stderr, ": %v\n", err)
		os.Exit(1)
	}
}

func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	cmd := &cobra.Command{
		Use:   "stayquote",
		Short: "Price stays at the camp: quotes, exchange rates and the room catalog",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().BoolVar(&a.outputJSON, "json", false, "Output JSON")
	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file in KEY=value form (default ./config.env)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log cache and upstream activity")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(quoteCmd(a))
	cmd.AddCommand(ratesCmd(a))
	cmd.AddCommand(catalogCmd(a))
	cmd.AddCommand(serveCmd(a))
	return cmd
}

// newService builds a pricing service from the loaded configuration. Service
// logs go to stdout, so they stay off for one-shot commands unless asked for.
func (a *app) newService(logging bool) (*service.PricingService, error) {
	opts := a.cfg.ServiceOptions()
	opts = append(opts, service.WithLogging(logging))
	return service.NewPricingService(opts...)
}

// colorize reports whether output should carry ANSI colors.
func (a *app) colorize() bool {
	if a.noColor || a.outputJSON {
		return false
	}
	f, ok := a.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
