package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/DavidGamba/go-getoptions"

	"github.com/Badsnus/cu-events-notifier/cmd/notifier"
	"github.com/Badsnus/cu-events-notifier/internal/adapters/config"

	_ "time/tzdata"
)

type commandLineOptionValues struct {
	Config string
	Token  string
}

func parseCommandLine() *commandLineOptionValues {
	optionValues := &commandLineOptionValues{}
	opt := getoptions.New()

	opt.Bool("help", false, opt.Alias("h", "?"))
	opt.StringVar(&optionValues.Config, "config", "",
		opt.Alias("c"),
		opt.Description("path to the configuration file (default: ./config.yaml)"))
	opt.StringVar(&optionValues.Token, "token", os.Getenv("CU_EVENTS_TOKEN"),
		opt.Alias("t"),
		opt.Description("access token of the signed-in viewer"))

	_, err := opt.Parse(os.Args[1:])
	if opt.Called("help") {
		fmt.Fprint(os.Stderr, opt.Help())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
		fmt.Fprint(os.Stderr, opt.Help(getoptions.HelpSynopsis))
		os.Exit(1)
	}

	return optionValues
}

func main() {
	optionValues := parseCommandLine()

	cfg := config.Get(optionValues.Config)
	defer cfg.Close()

	n, err := notifier.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = n.Run(ctx, optionValues.Token); err != nil {
		log.Panic(err)
	}
}
