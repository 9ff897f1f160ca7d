package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/njprem/Voyara_APP_BackEnd/internal/client"
	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/export"
	"github.com/njprem/Voyara_APP_BackEnd/internal/stream"
)

func newPlanCmd() *cobra.Command {
	var (
		apiURL string
		req    domain.PlanRequest
		days   int
		mode   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "plan <destination>",
		Short: "Generate an itinerary against a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Destination = args[0]
			req.TransportMode = mode
			if cmd.Flags().Changed("days") {
				req.NumDays = &days
			}

			result, err := client.New(apiURL).Generate(cmd.Context(), req)
			if errors.Is(err, stream.ErrMalformed) {
				return errors.New(stream.RetryMessage)
			}
			if err != nil {
				return err
			}

			itin := domain.NormalizeItinerary(result.Document)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(itin)
			}
			if itin.BestTimeToVisit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Best time to visit: %s\n\n", itin.BestTimeToVisit)
			}
			fmt.Fprintln(cmd.OutOrStdout(), export.PlainText(itin))
			return nil
		},
	}
	cmd.Flags().StringVarP(&apiURL, "api", "a", "http://localhost:8080", "Voyara server base URL")
	cmd.Flags().StringSliceVarP(&req.Vibes, "vibe", "v", []string{"Relaxing"}, "Trip vibe, repeatable")
	cmd.Flags().IntVarP(&days, "days", "d", domain.DefaultTripDays, "Number of days (1-10)")
	cmd.Flags().StringVar(&req.SourceCity, "from", "", "City the traveller starts from")
	cmd.Flags().StringVarP(&mode, "transport", "t", string(domain.TransportAny), "Any, Airways, Train, Bus or Car")
	cmd.Flags().StringVar(&req.TravelPeriod, "period", domain.PeriodAny, "Time of year")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the normalized itinerary as JSON")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a shared itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid itinerary id %q", args[0])
			}
			trip, err := client.New(apiURL).FetchShared(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trip to %s\n\n%s\n", trip.Destination, export.PlainText(trip.Itinerary()))
			return nil
		},
	})
	return cmd
}
