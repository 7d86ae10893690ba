package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvmatch/cvmatch-cli/internal/cvmatch"
)

const (
	PromptBack   = "back"
	PromptShow   = "Show extracted data"
	PromptDelete = "Delete this CV"
)

var cvsCmd = &cobra.Command{
	Use:   "cvs",
	Short: "List and manage your uploaded CVs",
	Run: func(_ *cobra.Command, _ []string) {
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

		if err := browseCVs(client, logger); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(cvsCmd)
}

func browseCVs(client *cvmatch.Client, logger *zap.Logger) error {
	for {
		cvs, err := client.GetMyCVs()
		if err != nil {
			return fmt.Errorf("getting my cvs: %w", err)
		}

		logger.Info("current list of cvs", zap.Int("count", cvs.Len()))

		if cvs.Len() == 0 {
			logger.Info("exiting", zap.String("reason", "no cvs uploaded yet"))
			return nil
		}

		items := make([]string, 0, cvs.Len()+1)
		for _, cv := range cvs.Items {
			items = append(items, cv.Label())
		}

		cvPrompt := promptui.Select{
			Label: "Choose a CV and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := cvPrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		id, err := strconv.Atoi(strings.Split(selected, " ")[0])
		if err != nil {
			return fmt.Errorf("parsing cv id from %q: %w", selected, err)
		}

		cv := cvs.FindByID(id)
		if cv == nil {
			return fmt.Errorf("there is no such cv id %d", id)
		}

		if err := handleCV(client, logger, cv); err != nil {
			return err
		}
	}
}

func handleCV(client *cvmatch.Client, logger *zap.Logger, cv *cvmatch.CV) error {
	actionPrompt := promptui.Select{
		Label: cv.NomFichier,
		Items: []string{PromptShow, PromptDelete, PromptBack},
	}

	_, action, err := actionPrompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptShow:
		printCV(cv)
		return nil
	case PromptDelete:
		if err := client.DeleteCV(cv.ID); err != nil {
			return fmt.Errorf("deleting cv %d: %w", cv.ID, err)
		}
		logger.Info("cv deleted", zap.Int("cv_id", cv.ID), zap.String("filename", cv.NomFichier))
		return nil
	case PromptBack:
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printCV(cv *cvmatch.CV) {
	fmt.Printf("id:        %d\n", cv.ID)
	fmt.Printf("file:      %s (%s)\n", cv.NomFichier, cv.TypeFichier)
	fmt.Printf("uploaded:  %s\n", cv.DateUpload)
	fmt.Printf("name:      %s\n", strOrDash(cv.NomComplet))
	fmt.Printf("email:     %s\n", strOrDash(cv.EmailCV))
	fmt.Printf("phone:     %s\n", strOrDash(cv.TelephoneCV))
	fmt.Printf("skills:    %s\n", strings.Join(cv.CompetencesExtraites, ", "))
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}

	return *s
}
