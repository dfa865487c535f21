package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Kayz-mann/trip-planner/client"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			list := client.NewTripList(newClient())
			if err := list.Reload(ctx); err != nil {
				return err
			}
			trips := list.Trips()
			log.Debug().Int("count", len(trips)).Str("base_url", baseURL).Msg("trips listed")
			return printJSON(cmd.OutOrStdout(), trips)
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			trip, err := newClient().GetTrip(ctx, args[0])
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("trip %q not found", args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), trip)
		},
	}
}

// formFlags binds the create/update flags onto a TripForm.
func formFlags(cmd *cobra.Command, f *client.TripForm) {
	cmd.Flags().StringVar(&f.Name, "name", "", "Trip name (required)")
	cmd.Flags().StringVar(&f.Destination, "destination", "", "Destination (required)")
	cmd.Flags().StringVar(&f.StartDate, "start-date", "", "Start date, yyyy-MM-dd")
	cmd.Flags().StringVar(&f.EndDate, "end-date", "", "End date, yyyy-MM-dd")
	cmd.Flags().StringVar(&f.Duration, "duration", "", "Duration in days")
	cmd.Flags().StringVar(&f.TravelStyle, "travel-style", "", "Travel style")
	cmd.Flags().StringVar(&f.Description, "description", "", "Free-form description")
}

func saveForm(cmd *cobra.Command, form client.TripForm, editingID *string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	log.Debug().
		Str("name", form.Name).
		Str("destination", form.Destination).
		Str("base_url", baseURL).
		Msg("saving trip")

	start := time.Now()
	trip, err := form.Save(ctx, newClient(), editingID)
	if err != nil {
		return err
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("trip saved")
	return printJSON(cmd.OutOrStdout(), trip)
}

func newCreateCmd() *cobra.Command {
	var form client.TripForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveForm(cmd, form, nil)
		},
	}
	formFlags(cmd, &form)
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var form client.TripForm
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return saveForm(cmd, form, &id)
		},
	}
	formFlags(cmd, &form)
	return cmd
}

func newPatchCmd() *cobra.Command {
	var form client.TripForm
	cmd := &cobra.Command{
		Use:   "patch <id>",
		Short: "Change only the given fields of a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			// Unset flags stay nil so the backend keeps the stored values.
			req := client.TripRequest{Name: form.Name, Destination: form.Destination}
			set := func(name string, v string) *string {
				if !cmd.Flags().Changed(name) {
					return nil
				}
				return client.StringPtr(v)
			}
			req.StartDate = set("start-date", form.StartDate)
			req.EndDate = set("end-date", form.EndDate)
			req.TravelStyle = set("travel-style", form.TravelStyle)
			req.Description = set("description", form.Description)
			if cmd.Flags().Changed("duration") {
				req.Duration = form.Request().Duration
			}

			trip, err := newClient().PatchTrip(ctx, args[0], req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), trip)
		},
	}
	formFlags(cmd, &form)
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			err := newClient().DeleteTrip(ctx, args[0])
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("trip %q not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to delete trip: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
