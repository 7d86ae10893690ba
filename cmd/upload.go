package cmd

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvmatch/cvmatch-cli/internal/intake"
	"github.com/cvmatch/cvmatch-cli/internal/tui"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a CV (pdf or image), verify the extracted data and save it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		sess, client, err := resumeSession(context.Background(), logger, config)
		if err != nil {
			logger.Fatal("a session is required to upload", zap.Error(err),
				zap.String("hint", "run 'cvmatch login' first"))
		}

		logger.Debug("starting intake flow", zap.String("user", sess.User.Email))

		machine := intake.NewMachine(client, client, logger)

		if err := machine.Select(args[0], intake.CVConstraints()); err != nil {
			var tooLarge *intake.TooLargeError
			switch {
			case errors.As(err, &tooLarge):
				logger.Fatal("file rejected", zap.Error(tooLarge))
			case errors.Is(err, intake.ErrUnsupportedType):
				logger.Fatal("file rejected", zap.Error(err),
					zap.String("hint", "the CV flow accepts PDF or image files"))
			default:
				logger.Fatal("file rejected", zap.Error(err))
			}
		}

		autoApprove, _ := cmd.Flags().GetBool("auto-approve")
		if autoApprove {
			runAutoApprove(machine, logger)
			return
		}

		model := tui.NewIntake(machine, client, client, logger)

		program := tea.NewProgram(model)
		if _, err := program.Run(); err != nil {
			logger.Fatal("running verification form", zap.Error(err))
		}

		switch {
		case model.Err() != nil:
			logger.Fatal("intake flow failed", zap.Error(model.Err()))
		case model.Finished():
			logger.Info("CV saved successfully", zap.Int("cv_id", machine.CVID()))
		default:
			logger.Info("intake flow cancelled")
		}
	},
}

// runAutoApprove submits the extracted data unedited, for scripted use.
func runAutoApprove(machine *intake.Machine, logger *zap.Logger) {
	if err := machine.Upload(); err != nil {
		logger.Fatal("extraction failed", zap.Error(err))
	}

	draft := machine.Draft()
	logger.Info("extracted data",
		zap.String("full_name", draft.FullName),
		zap.String("email", draft.Email),
		zap.Strings("skills", draft.Skills),
	)

	if err := machine.Submit(); err != nil {
		logger.Fatal("saving extracted data", zap.Error(err))
	}

	logger.Info("CV saved successfully", zap.Int("cv_id", machine.CVID()))
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().BoolP("auto-approve", "y", false, "submit the extracted data without interactive verification")
}
