package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvmatch/cvmatch-cli/internal/cvmatch"
	"github.com/cvmatch/cvmatch-cli/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the platform and store the session token",
	Run: func(cmd *cobra.Command, _ []string) {
		logger := newLogger()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			logger.Fatal("email is required", zap.String("hint", "pass it with --email"))
		}

		password, err := askPassword("Password")
		if err != nil {
			logger.Fatal("reading password", zap.Error(err))
		}

		store, err := tokenStore(config)
		if err != nil {
			logger.Fatal("resolving token store", zap.Error(err))
		}

		client := newClient(context.Background(), logger, config, "")

		sess, err := session.Establish(client, store, email, password, logger)
		if err != nil {
			logger.Fatal("login failed", zap.Error(err))
		}

		logger.Info("logged in", zap.String("user", sess.User.FullName()))
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account and log in",
	Run: func(cmd *cobra.Command, _ []string) {
		logger := newLogger()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		email, _ := cmd.Flags().GetString("email")
		nom, _ := cmd.Flags().GetString("nom")
		prenom, _ := cmd.Flags().GetString("prenom")
		if email == "" || nom == "" || prenom == "" {
			logger.Fatal("registration needs --email, --nom and --prenom")
		}

		password, err := askPassword("Choose a password")
		if err != nil {
			logger.Fatal("reading password", zap.Error(err))
		}

		registration := &cvmatch.Registration{
			Email:         email,
			MotDePasse:    password,
			Nom:           nom,
			Prenom:        prenom,
			Telephone:     optionalFlag(cmd, "telephone"),
			VillePreferee: optionalFlag(cmd, "ville"),
		}

		client := newClient(context.Background(), logger, config, "")

		if err := client.Register(registration); err != nil {
			logger.Fatal("registration failed", zap.Error(err))
		}

		store, err := tokenStore(config)
		if err != nil {
			logger.Fatal("resolving token store", zap.Error(err))
		}

		// Log in right away, like the web flow does after signup.
		sess, err := session.Establish(client, store, email, password, logger)
		if err != nil {
			logger.Fatal("login after registration failed", zap.Error(err))
		}

		logger.Info("account created", zap.String("user", sess.User.FullName()))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session token",
	Run: func(_ *cobra.Command, _ []string) {
		logger := newLogger()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		store, err := tokenStore(config)
		if err != nil {
			logger.Fatal("resolving token store", zap.Error(err))
		}

		if err := session.Close(store); err != nil {
			logger.Fatal("logout failed", zap.Error(err))
		}

		logger.Info("logged out")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	Run: func(_ *cobra.Command, _ []string) {
		logger := newLogger()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		sess, _, err := resumeSession(context.Background(), logger, config)
		if err != nil {
			if errors.Is(err, session.ErrNotLoggedIn) {
				logger.Fatal("not logged in", zap.String("hint", "run 'cvmatch login' first"))
			}
			logger.Fatal("resuming session", zap.Error(err))
		}

		fmt.Printf("%s <%s>\n", sess.User.FullName(), sess.User.Email)
		if sess.User.VillePreferee != nil {
			fmt.Printf("preferred city: %s\n", *sess.User.VillePreferee)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringP("email", "e", "", "account email")

	registerCmd.Flags().StringP("email", "e", "", "account email")
	registerCmd.Flags().String("nom", "", "last name")
	registerCmd.Flags().String("prenom", "", "first name")
	registerCmd.Flags().String("telephone", "", "phone number (optional)")
	registerCmd.Flags().String("ville", "", "preferred city (optional)")
}

func askPassword(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}

	value, err := prompt.Run()
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(value) == "" {
		return "", errors.New("password must not be empty")
	}

	return value, nil
}

func optionalFlag(cmd *cobra.Command, name string) *string {
	value, _ := cmd.Flags().GetString(name)
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	return &value
}
