package stores

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/storerate/storerate/cli/cmd"
	"github.com/storerate/storerate/cli/helpers"
	"github.com/storerate/storerate/cli/tui/components"
	"github.com/storerate/storerate/cli/tui/styles"
	"github.com/storerate/storerate/internal/rating"
	"github.com/storerate/storerate/pkg/logger"
	"github.com/storerate/storerate/pkg/session"
)

const (
	flagValue    = "value"
	flagName     = "name"
	flagPrevious = "previous"
)

// RateResult is printed after a successful rating in JSON mode
type RateResult struct {
	StoreID string `json:"store_id"`
	Rating  int    `json:"rating"`
	Message string `json:"message"`
}

// RateCmd creates the stores rate command
func RateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "rate <store-id>",
		Short: "Submit or update your rating for a store",
		Long: `Submit a 1 to 5 star rating for a store. Submitting again replaces your
previous rating. Only Normal Users may rate stores.

Without --value an interactive terminal prompts for the stars.`,
		Example: `  storerate stores rate 42 --value 4
  storerate stores rate 42`,
		Args: cobra.ExactArgs(1),
		RunE: runRate,
	}
	c.Flags().Int(flagValue, 0, "Rating from 1 to 5")
	c.Flags().String(flagName, "", "Store name shown in the prompt")
	c.Flags().Int(flagPrevious, 0, "Your previous rating, preselected in the prompt")
	return c
}

func runRate(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		RequireAuth: true,
		Allow:       func(c session.Capabilities) bool { return c.CanRate },
		Denied:      rating.MsgNotPermitted,
	}, cmd.ModeHandlers{
		JSON: rateJSONHandler,
		TUI:  rateTUIHandler,
	}, args)
}

func rateTarget(cobraCmd *cobra.Command, args []string) (rating.Target, error) {
	id := args[0]
	if err := helpers.ValidateStoreID(id); err != nil {
		return rating.Target{}, err
	}
	return rating.Target{
		ID:             id,
		Name:           helpers.GetFlagStringWithDefault(cobraCmd, flagName, id),
		PreviousRating: helpers.GetFlagIntWithDefault(cobraCmd, flagPrevious, 0),
	}, nil
}

// submitRating runs the whole rating dialog for target and value
func submitRating(
	ctx context.Context,
	executor *cmd.CommandExecutor,
	target rating.Target,
	value int,
) (rating.Outcome, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return rating.Outcome{}, err
	}
	workflow := rating.NewWorkflow(executor.Client().Ratings(), sess.Capabilities().CanRate)
	var outcome rating.Outcome
	err = helpers.LogOperation(ctx, "submit rating", func() error {
		var runErr error
		outcome, runErr = workflow.Do(ctx, target, value)
		return runErr
	})
	if err != nil {
		if outcome.Err != "" {
			return outcome, helpers.NewCliError("RATING_FAILED", outcome.Err, err.Error())
		}
		return outcome, err
	}
	return outcome, nil
}

func rateJSONHandler(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	target, err := rateTarget(cobraCmd, args)
	if err != nil {
		return err
	}
	value := helpers.GetFlagIntWithDefault(cobraCmd, flagValue, 0)
	if value == 0 {
		return helpers.NewCliError("INVALID_INPUT", "--value is required in non-interactive mode")
	}
	outcome, err := submitRating(ctx, executor, target, value)
	if err != nil {
		return err
	}
	return cmd.WriteJSON(cobraCmd.OutOrStdout(), RateResult{StoreID: target.ID, Rating: value, Message: outcome.Notice})
}

func rateTUIHandler(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	log := logger.FromContext(ctx)
	target, err := rateTarget(cobraCmd, args)
	if err != nil {
		return err
	}
	value := helpers.GetFlagIntWithDefault(cobraCmd, flagValue, 0)
	if value == 0 {
		value, err = promptRating(ctx, target)
		if err != nil {
			return err
		}
		if value == 0 {
			log.Debug("rating prompt canceled", "store_id", target.ID)
			return nil
		}
	}
	outcome, err := submitRating(ctx, executor, target, value)
	if err != nil {
		return err
	}
	fmt.Fprintln(cobraCmd.OutOrStdout(), styles.SuccessStyle.Render("✔ "+outcome.Notice))
	fmt.Fprintln(cobraCmd.OutOrStdout(), styles.Stars(value, rating.MaxValue))
	return nil
}

// promptRating asks for stars; it returns 0 when the prompt is canceled.
func promptRating(ctx context.Context, target rating.Target) (int, error) {
	value := target.PreviousRating
	if value < rating.MinValue {
		value = rating.MaxValue
	}
	title := "Submit Rating"
	if target.PreviousRating > 0 {
		title = "Edit Your Rating"
	}
	form := components.NewRatingForm(ctx, title, target.Name, rating.MaxValue, &value)
	if _, err := tea.NewProgram(form, tea.WithContext(ctx)).Run(); err != nil {
		return 0, fmt.Errorf("failed to run rating prompt: %w", err)
	}
	if form.IsCanceled() || !form.IsCompleted() {
		return 0, nil
	}
	return value, nil
}
