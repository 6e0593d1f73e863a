package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

func newOnceCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single refresh cycle and print the result as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := a.service.Refresh(ctx)
			if err != nil && !errors.Is(err, weather.ErrNoProvidersAvailable) {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(result); encErr != nil {
				return encErr
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "upper bound for the whole cycle")
	return cmd
}
