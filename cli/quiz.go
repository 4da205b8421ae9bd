package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/spf13/cobra"
)

func (c *cli) quizCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take the quiz that completes a level",
	}

	show := &cobra.Command{
		Use:   "show LEVEL_ID",
		Short: "Print a level's quiz questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			levelID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := c.requireUser(ctx); err != nil {
				return err
			}
			quiz, err := c.app.Client.LevelQuiz(ctx, levelID)
			if err != nil {
				return err
			}
			c.printf("%s (%d questions, %s)\n", quiz.LevelTitle, len(quiz.Questions), time.Duration(quiz.TimeLimit)*time.Second)
			for _, q := range quiz.Questions {
				c.printf("\n%d. %s\n", q.ID, q.Question)
				for _, o := range q.Options {
					c.printf("   %s) %s\n", o.Value, o.Text)
				}
			}
			c.printf("\nAnswer with: questpath quiz submit %d --answers 1=a,2=b,...\n", levelID)
			return nil
		},
	}

	var answers string
	var taken time.Duration
	submit := &cobra.Command{
		Use:   "submit LEVEL_ID",
		Short: "Grade your answers and submit the attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			levelID, err := parseID(args[0])
			if err != nil {
				return err
			}
			chosen, err := parseAnswers(answers)
			if err != nil {
				return err
			}
			if _, err := c.requireUser(ctx); err != nil {
				return err
			}
			quiz, err := c.app.Client.LevelQuiz(ctx, levelID)
			if err != nil {
				return err
			}
			submission, correct := model.GradeQuiz(quiz, chosen)
			submission.TimeTaken = int(taken.Seconds())
			c.printf("%d/%d correct, score %d%%\n", correct, len(quiz.Questions), submission.Score)

			result, err := c.app.Client.SubmitQuiz(ctx, levelID, submission)
			if err != nil {
				return err
			}
			if !submission.Passed {
				c.printf("%s %s\n", c.colors.paint(Yellow, "Not passed."), result.Message)
				return nil
			}
			before := c.app.Session.Level()
			if err := c.app.Session.RefreshUser(ctx); err != nil {
				return err
			}
			c.printf("%s +%d XP. %s\n", c.colors.paint(Green, "Passed!"), result.XPEarned, result.Message)
			if after := c.app.Session.Level(); after > before {
				c.printf("%s You reached level %d\n", c.colors.paint(Magenta, "Level up!"), after)
			}
			return nil
		},
	}
	submit.Flags().StringVarP(&answers, "answers", "a", "", "comma separated QUESTION_ID=OPTION pairs")
	submit.Flags().DurationVar(&taken, "time", 0, "time taken")
	_ = submit.MarkFlagRequired("answers")

	cmd.AddCommand(show, submit)
	return cmd
}

// parseAnswers reads "1=a,2=c" into question id -> option value.
func parseAnswers(s string) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid answer %q, want QUESTION_ID=OPTION", pair)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid question id %q", k)
		}
		out[id] = strings.TrimSpace(v)
	}
	return out, nil
}
