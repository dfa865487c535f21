package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Kayz-mann/trip-planner/client/imagecache"
	"github.com/Kayz-mann/trip-planner/client/imageloader"
	"github.com/Kayz-mann/trip-planner/client/tripdate"
)

func newDaysBetweenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "days-between <start> <end>",
		Short: "Count the days a trip covers, both ends included",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := tripdate.ParseRequestDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", args[0], err)
			}
			end, err := tripdate.ParseRequestDate(args[1])
			if err != nil {
				return fmt.Errorf("invalid end date %q: %w", args[1], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s - %s: %d days\n",
				tripdate.FormatTripDate(start), tripdate.FormatTripDate(end), tripdate.DaysBetween(start, end))
			return nil
		},
	}
}

func newFetchImageCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "fetch-image <url>...",
		Short: "Download and decode images through the image cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out != "" && len(args) > 1 {
				return fmt.Errorf("--out accepts a single url")
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			cache := imagecache.New(cacheSize)
			opts := []imageloader.Option{imageloader.WithLogger(log.Logger)}
			if httpTimeout > 0 {
				opts = append(opts, imageloader.WithTimeout(httpTimeout))
			}
			loader := imageloader.New(cache, opts...)
			defer func() {
				if err := loader.Close(); err != nil {
					log.Warn().Err(err).Msg("image loader close")
				}
			}()

			for _, u := range args {
				img, err := loader.Load(ctx, u)
				if err != nil {
					return err
				}
				b := img.Bounds()
				fmt.Fprintf(cmd.OutOrStdout(), "%s %dx%d\n", u, b.Dx(), b.Dy())

				if out != "" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					if err := png.Encode(f, img); err != nil {
						_ = f.Close()
						return err
					}
					if err := f.Close(); err != nil {
						return err
					}
				}
			}
			log.Debug().Int("cached", cache.Size()).Int("capacity", cache.Capacity()).Msg("image cache")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the decoded image as PNG")
	return cmd
}
