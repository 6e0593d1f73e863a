package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "weather-ensemble",
		Short:        "Ensemble weather aggregation service",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newOnceCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
