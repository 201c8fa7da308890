package main

import (
	"fmt"
	"os"

	"log/slog"

	"github.com/shopspring/decimal"
)

var version string

func main() {
	decimal.MarshalJSONWithoutQuotes = true
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
