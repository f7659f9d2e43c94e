package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quiz-game-service/internal/app"
	"quiz-game-service/internal/client"
	"quiz-game-service/internal/domain"
	"quiz-game-service/internal/player"

	"github.com/spf13/cobra"
)

// NewPlayCmd walks a player through a game on the terminal.
func NewPlayCmd(apiURL *string) *cobra.Command {
	var (
		key    string
		remote bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game by its key",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.New(*apiURL, apiTimeout)
			in := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			game, err := fetchGame(cmd.Context(), api, in, out, key)
			if err != nil {
				return err
			}
			answers, err := playGame(in, out, game)
			if err != nil {
				return err
			}

			var score app.ScoreView
			if remote {
				score, err = api.Score(cmd.Context(), game.Key, app.NewScoreInput(answers))
			} else {
				var s domain.Score
				s, err = domain.ScoreQuizzes(game.DomainQuizzes(), answers)
				score = app.MapScore(s)
			}
			if err != nil {
				return err
			}
			printScore(out, score)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "game key")
	cmd.Flags().BoolVar(&remote, "remote", false, "grade answers on the server instead of locally")
	return cmd
}

// fetchGame asks for a key until a game is found or input runs out.
func fetchGame(ctx context.Context, api *client.Client, in *bufio.Scanner, out io.Writer, key string) (app.GameView, error) {
	for {
		if key == "" {
			fmt.Fprint(out, "game key: ")
			if !in.Scan() {
				return app.GameView{}, io.EOF
			}
			key = strings.TrimSpace(in.Text())
			if key == "" {
				continue
			}
		}
		game, err := api.GetGameByKey(ctx, key)
		if err == nil {
			return game, nil
		}
		if errors.Is(err, client.ErrNotFound) {
			fmt.Fprintf(out, "no game with key %s, try again\n", app.NormalizeKey(key))
		} else {
			fmt.Fprintf(out, "could not load game: %v\n", err)
		}
		key = ""
	}
}

// playGame runs the question loop. Input is a 1-based answer number to
// select (or toggle), "n" for next, "p" for previous and "q" to quit.
func playGame(in *bufio.Scanner, out io.Writer, game app.GameView) (domain.Answers, error) {
	walk, err := player.NewWalk(game.DomainQuizzes())
	if err != nil {
		return nil, fmt.Errorf("game %s cannot be played: %w", game.Key, err)
	}

	fmt.Fprintf(out, "%s: %d questions\n", game.Title, walk.Current().Total)
	printStep(out, walk.Current())
	for !walk.Complete() {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return nil, io.EOF
		}

		switch cmd := strings.ToLower(strings.TrimSpace(in.Text())); cmd {
		case "n", "next":
			if err := walk.Next(); err != nil {
				fmt.Fprintf(out, "%v\n", err)
				continue
			}
		case "p", "prev", "previous":
			if moved, _ := walk.Previous(); !moved {
				fmt.Fprintln(out, "already at the first question")
				continue
			}
		case "q", "quit":
			return nil, errors.New("game abandoned")
		default:
			n, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintln(out, "enter an answer number, n, p or q")
				continue
			}
			if err := walk.Select(n - 1); err != nil {
				fmt.Fprintf(out, "%v\n", err)
				continue
			}
		}
		if !walk.Complete() {
			printStep(out, walk.Current())
		}
	}
	return walk.Answers(), nil
}

func printStep(out io.Writer, step player.Step) {
	fmt.Fprintf(out, "\n[%d/%d] %s (%s)\n%s\n", step.Number, step.Total, step.QuizTitle, step.Type, step.Question.Text)
	for i, answer := range step.Question.Answers {
		mark := " "
		for _, s := range step.Selected {
			if s == i {
				mark = "x"
			}
		}
		fmt.Fprintf(out, "  [%s] %d. %s\n", mark, i+1, answer)
	}
}

func printScore(out io.Writer, score app.ScoreView) {
	fmt.Fprintf(out, "\nYou got %d of %d right (%d%%). %s\n", score.Correct, score.Total, score.Percentage, score.Feedback)
}
