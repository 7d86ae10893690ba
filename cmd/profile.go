package cmd

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvmatch/cvmatch-cli/internal/cvmatch"
	"github.com/cvmatch/cvmatch-cli/internal/intake"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Run: func(cmd *cobra.Command, _ []string) {
		logger := newLogger()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		_, client, err := resumeSession(context.Background(), logger, config)
		if err != nil {
			logger.Fatal("a session is required", zap.Error(err),
				zap.String("hint", "run 'cvmatch login' first"))
		}

		update := &cvmatch.ProfileUpdate{
			Nom:                optionalFlag(cmd, "nom"),
			Prenom:             optionalFlag(cmd, "prenom"),
			Telephone:          optionalFlag(cmd, "telephone"),
			VillePreferee:      optionalFlag(cmd, "ville"),
			TypeContratPrefere: optionalFlag(cmd, "type-contrat"),
			SecteurActivite:    optionalFlag(cmd, "secteur"),
		}

		if cmd.Flags().Changed("salaire-minimum") {
			salary, _ := cmd.Flags().GetInt("salaire-minimum")
			update.SalaireMinimum = &salary
		}

		if cmd.Flags().Changed("teletravail") {
			remote, _ := cmd.Flags().GetBool("teletravail")
			update.AccepteTeletravail = &remote
		}

		if err := client.UpdateProfile(update); err != nil {
			logger.Fatal("updating profile", zap.Error(err))
		}

		logger.Info("profile updated")
	},
}

var profilePhotoCmd = &cobra.Command{
	Use:   "photo <file>",
	Short: "Upload a new profile photo (image, max 5 MB)",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		logger := newLogger()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		sess, client, err := resumeSession(context.Background(), logger, config)
		if err != nil {
			logger.Fatal("a session is required", zap.Error(err),
				zap.String("hint", "run 'cvmatch login' first"))
		}

		// Same client-side gate as the web form: images only, 5 MB cap,
		// checked before any network call.
		doc, err := intake.Open(args[0], intake.PhotoConstraints())
		if err != nil {
			var tooLarge *intake.TooLargeError
			switch {
			case errors.As(err, &tooLarge):
				logger.Fatal("photo rejected", zap.Error(tooLarge))
			case errors.Is(err, intake.ErrUnsupportedType):
				logger.Fatal("photo rejected", zap.Error(err),
					zap.String("hint", "the photo flow only accepts images"))
			default:
				logger.Fatal("photo rejected", zap.Error(err))
			}
		}

		if err := client.UploadPhoto(doc.Path); err != nil {
			logger.Fatal("uploading photo", zap.Error(err))
		}

		// Refresh the profile explicitly so the caller sees the new
		// photo path without restarting anything.
		user, err := client.Me()
		if err != nil {
			logger.Warn("photo uploaded but refreshing the profile failed", zap.Error(err))
			return
		}

		logger.Info("photo uploaded",
			zap.String("user", sess.User.Email),
			zap.String("photo", strOrDash(user.PhotoProfil)),
			zap.String("size", strconv.FormatInt(doc.Size, 10)+" bytes"),
		)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd, profilePhotoCmd)

	profileSetCmd.Flags().String("nom", "", "last name")
	profileSetCmd.Flags().String("prenom", "", "first name")
	profileSetCmd.Flags().String("telephone", "", "phone number")
	profileSetCmd.Flags().String("ville", "", "preferred city")
	profileSetCmd.Flags().Int("salaire-minimum", 0, "minimum salary")
	profileSetCmd.Flags().String("type-contrat", "", "preferred contract type")
	profileSetCmd.Flags().String("secteur", "", "business sector")
	profileSetCmd.Flags().Bool("teletravail", false, "accept remote work")
}
