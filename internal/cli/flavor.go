package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sandeepkv93/petd/internal/routine"
	"github.com/sandeepkv93/petd/internal/views"
)

const flavorGrace = 5 * time.Second

func flavorContext(cmd *cobra.Command, a *app) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.Flavor.Timeout+flavorGrace)
}

func newTipCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Print a care tip for your pet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(a *app) error {
				state := a.session.Snapshot()
				if !state.HasPet() {
					return routine.ErrNoPet
				}
				ctx, cancel := flavorContext(cmd, a)
				defer cancel()
				res := a.flavor.DailyTip(ctx, *state.Pet)
				fmt.Fprintln(cmd.OutOrStdout(), res.Text)
				noteFallback(cmd, res.Fallback)
				return nil
			})
		},
	}
}

func newReportCmd(flags *rootFlags) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a markdown report of today's care",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(a *app) error {
				in, err := a.session.ReportContext(cmd.Context(), notes)
				if err != nil {
					return err
				}
				ctx, cancel := flavorContext(cmd, a)
				defer cancel()
				res := a.flavor.DayReport(ctx, in)

				out := cmd.OutOrStdout()
				if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
					width, _, err := term.GetSize(int(f.Fd()))
					if err != nil {
						width = 80
					}
					fmt.Fprint(out, views.RenderMarkdown(res.Text, width))
				} else {
					fmt.Fprintln(out, res.Text)
				}
				noteFallback(cmd, res.Fallback)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "extra observations to include")
	return cmd
}

func newPortraitCmd(flags *rootFlags) *cobra.Command {
	var out string
	var setPhoto bool
	cmd := &cobra.Command{
		Use:   "portrait",
		Short: "Draw a portrait of your pet in its current mood",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" && !setPhoto {
				return errors.New("pass --out <file>, --set, or both")
			}
			return withApp(cmd, flags, func(a *app) error {
				state := a.session.Snapshot()
				if !state.HasPet() {
					return routine.ErrNoPet
				}
				if !a.flavor.ImageEnabled() {
					return errors.New("no image provider configured")
				}
				ctx, cancel := flavorContext(cmd, a)
				defer cancel()
				img, ok := a.flavor.Portrait(ctx, *state.Pet, a.session.Mood())
				if !ok {
					return errors.New("portrait generation failed; see the log for details")
				}
				if out != "" {
					if err := os.WriteFile(out, img.Data, 0o644); err != nil {
						return fmt.Errorf("write portrait: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %d bytes)\n", out, img.MIMEType, len(img.Data))
				}
				if setPhoto {
					if err := a.session.SetPhoto(cmd.Context(), img.Photo()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Portrait set as the pet photo.")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "file to write the image to")
	cmd.Flags().BoolVar(&setPhoto, "set", false, "also use the portrait as the pet photo")
	return cmd
}

func noteFallback(cmd *cobra.Command, fallback bool) {
	if fallback {
		fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render("(offline text; no flavor provider answered)"))
	}
}
