package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/petd/internal/model"
	"github.com/sandeepkv93/petd/internal/routine"
)

func newPetCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pet",
		Short: "Set up or edit your pet's profile",
	}
	cmd.AddCommand(newPetSetupCmd(flags), newPetEditCmd(flags), newPetPhotoCmd(flags))
	return cmd
}

func newPetSetupCmd(flags *rootFlags) *cobra.Command {
	var name, breed, photoPath string
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the pet profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var photo *model.Photo
			if photoPath != "" {
				p, err := readPhoto(photoPath)
				if err != nil {
					return err
				}
				photo = &p
			}
			return withApp(cmd, flags, func(a *app) error {
				if a.session.Snapshot().HasPet() {
					return errors.New("a pet is already set up; use `petd pet edit` or `petd reset --yes`")
				}
				if err := a.session.SetupPet(cmd.Context(), name, breed, photo); err != nil {
					return err
				}
				pet := a.session.Snapshot().Pet
				fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s the %s!\n", pet.Name, pet.BreedOrUnknown())
				if photo != nil {
					printPhotoComment(cmd, a, *pet)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "pet name (required)")
	cmd.Flags().StringVar(&breed, "breed", "", "breed")
	cmd.Flags().StringVar(&photoPath, "photo", "", "path to a photo")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPetEditCmd(flags *rootFlags) *cobra.Command {
	var name, breed string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change the pet's name or breed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("breed") {
				return errors.New("nothing to change; pass --name and/or --breed")
			}
			return withApp(cmd, flags, func(a *app) error {
				state := a.session.Snapshot()
				if !state.HasPet() {
					return routine.ErrNoPet
				}
				newName, newBreed := state.Pet.Name, state.Pet.Breed
				if cmd.Flags().Changed("name") {
					newName = name
				}
				if cmd.Flags().Changed("breed") {
					newBreed = breed
				}
				if err := a.session.EditPet(cmd.Context(), newName, newBreed); err != nil {
					return err
				}
				pet := a.session.Snapshot().Pet
				fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s the %s\n", pet.Name, pet.BreedOrUnknown())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&breed, "breed", "", "new breed (empty clears it)")
	return cmd
}

func newPetPhotoCmd(flags *rootFlags) *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "photo [path]",
		Short: "Replace the pet photo, or restore the default with --remove",
		Args: func(cmd *cobra.Command, args []string) error {
			if remove && len(args) > 0 {
				return errors.New("pass either a path or --remove, not both")
			}
			if !remove && len(args) != 1 {
				return errors.New("photo path is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var photo model.Photo
			if !remove {
				p, err := readPhoto(args[0])
				if err != nil {
					return err
				}
				photo = p
			}
			return withApp(cmd, flags, func(a *app) error {
				if !a.session.Snapshot().HasPet() {
					return routine.ErrNoPet
				}
				if remove {
					if a.session.RemovePhoto(cmd.Context()) {
						fmt.Fprintln(cmd.OutOrStdout(), "Photo removed; using the default.")
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Already using the default photo."))
					}
					return nil
				}
				if err := a.session.SetPhoto(cmd.Context(), photo); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Photo updated (%s, %d bytes).\n", photo.MIMEType, len(photo.Data))
				printPhotoComment(cmd, a, *a.session.Snapshot().Pet)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "restore the default photo")
	return cmd
}

func printPhotoComment(cmd *cobra.Command, a *app, pet model.Pet) {
	ctx, cancel := flavorContext(cmd, a)
	defer cancel()
	res := a.flavor.PhotoComment(ctx, pet)
	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	noteFallback(cmd, res.Fallback)
}

// readPhoto loads an image file, sniffing its type from the content.
func readPhoto(path string) (model.Photo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.Photo{}, fmt.Errorf("read photo: %w", err)
	}
	if info.Size() > model.MaxPhotoBytes {
		return model.Photo{}, fmt.Errorf("%w: %d bytes", model.ErrPhotoTooLarge, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Photo{}, fmt.Errorf("read photo: %w", err)
	}
	photo := model.Photo{MIMEType: http.DetectContentType(data), Data: data}
	if err := photo.Validate(); err != nil {
		return model.Photo{}, err
	}
	return photo, nil
}
