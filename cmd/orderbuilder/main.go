package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joseph-ayodele/live-orders/internal/bootstrap"
	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		in          = flag.String("in", "-", "extraction JSON file, or - for stdin")
		form        = flag.String("form", "", "form fields JSON file (optional)")
		serviceType = flag.String("service", "", "payload shape: default, shopify, woocommerce (defaults to ORDER_SERVICE_TYPE)")
		raw         = flag.Bool("raw", false, "print the canonical order instead of the service payload")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	bootstrap.LoadEnv(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}
	if *serviceType == "" {
		*serviceType = cfg.Engine.ServiceType
	}

	data, err := readInput(*in)
	if err != nil {
		printError("Error: reading %s: %v\n", *in, err)
		os.Exit(1)
	}
	env, err := ingest.ParseEnvelope(data)
	if err != nil {
		env = ingest.Envelope{Extraction: data}
	}
	if *form != "" {
		formData, err := os.ReadFile(*form)
		if err != nil {
			printError("Error: reading %s: %v\n", *form, err)
			os.Exit(1)
		}
		env.FormFields = formData
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, reqID := common.EnsureRequestID(ctx)
	if env.RequestID != "" {
		ctx, reqID = common.WithRequestID(ctx, env.RequestID), env.RequestID
	}

	engine, err := bootstrap.NewEngine(ctx, cfg, nil, logger)
	if err != nil {
		logger.Error("failed to initialize engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close(logger)

	o := engine.Builder.BuildFromJSON(ctx, env.Extraction, env.FormFields)
	logger.Info("order built", "order_id", o.OrderID, "req_id", reqID, "intent", o.Intent)

	var out any = o
	if !*raw {
		out = engine.Adapter.Prepare(o, *serviceType)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		printError("Error: encoding output: %v\n", err)
		os.Exit(1)
	}
	if o.Failed() {
		engine.Close(logger)
		stop()
		os.Exit(3)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
