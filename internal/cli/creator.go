package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"quiz-game-service/internal/app"
	"quiz-game-service/internal/client"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewCreatorCmd groups the authoring commands.
func NewCreatorCmd(apiURL *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creator",
		Short: "Create and manage games",
	}
	api := func() *client.Client { return client.New(*apiURL, apiTimeout) }

	cmd.AddCommand(
		newCreateGameCmd(api),
		newListGamesCmd(api),
		newShowGameCmd(api),
		newAddQuizCmd(api),
		newUpdateQuizCmd(api),
		newDeleteQuizCmd(api),
		newDeleteGameCmd(api),
	)
	return cmd
}

func newCreateGameCmd(api func() *client.Client) *cobra.Command {
	var title, email string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty game and print its key",
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := api().CreateGame(cmd.Context(), app.CreateGameInput{Title: title, CreatorEmail: email})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %q\n  id:  %s\n  key: %s\n", game.Title, game.ID, game.Key)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "game title")
	cmd.Flags().StringVar(&email, "email", "", "creator email")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newListGamesCmd(api func() *client.Client) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games created by an email",
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := api().ListGamesByCreator(cmd.Context(), email)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(games) == 0 {
				fmt.Fprintf(out, "no games for %s\n", email)
				return nil
			}
			for _, game := range games {
				fmt.Fprintf(out, "%s  %-30s %d quizzes  created %s  (id %s)\n",
					game.Key, game.Title, len(game.Quizzes), humanize.Time(game.CreatedAt), game.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "creator email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newShowGameCmd(api func() *client.Client) *cobra.Command {
	var key, id string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a game with its quizzes and answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				game app.GameView
				err  error
			)
			switch {
			case key != "":
				game, err = api().GetGameByKey(cmd.Context(), key)
			case id != "":
				game, err = api().GetGame(cmd.Context(), id)
			default:
				return fmt.Errorf("one of --key or --game is required")
			}
			if err != nil {
				return err
			}
			printGame(cmd.OutOrStdout(), game)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "game key")
	cmd.Flags().StringVar(&id, "game", "", "game id")
	return cmd
}

func newAddQuizCmd(api func() *client.Client) *cobra.Command {
	var gameID, file string
	cmd := &cobra.Command{
		Use:   "add-quiz",
		Short: "Append a quiz read from a YAML or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			quiz, err := readQuizFile(file)
			if err != nil {
				return err
			}
			game, err := api().AddQuiz(cmd.Context(), gameID, quiz)
			if err != nil {
				return err
			}
			added := game.Quizzes[len(game.Quizzes)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "added quiz %q (id %s) with %d questions\n", added.Title, added.ID, len(added.Questions))
			return nil
		},
	}
	cmd.Flags().StringVar(&gameID, "game", "", "game id")
	cmd.Flags().StringVar(&file, "file", "", "quiz definition (YAML or JSON)")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newUpdateQuizCmd(api func() *client.Client) *cobra.Command {
	var gameID, quizID, file string
	cmd := &cobra.Command{
		Use:   "update-quiz",
		Short: "Replace a quiz with the definition in a YAML or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			quiz, err := readQuizFile(file)
			if err != nil {
				return err
			}
			if _, err := api().UpdateQuiz(cmd.Context(), gameID, quizID, quiz); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated quiz %s\n", quizID)
			return nil
		},
	}
	cmd.Flags().StringVar(&gameID, "game", "", "game id")
	cmd.Flags().StringVar(&quizID, "quiz", "", "quiz id")
	cmd.Flags().StringVar(&file, "file", "", "quiz definition (YAML or JSON)")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("quiz")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDeleteQuizCmd(api func() *client.Client) *cobra.Command {
	var gameID, quizID string
	cmd := &cobra.Command{
		Use:   "delete-quiz",
		Short: "Remove a quiz from a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api().DeleteQuiz(cmd.Context(), gameID, quizID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted quiz %s\n", quizID)
			return nil
		},
	}
	cmd.Flags().StringVar(&gameID, "game", "", "game id")
	cmd.Flags().StringVar(&quizID, "quiz", "", "quiz id")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("quiz")
	return cmd
}

func newDeleteGameCmd(api func() *client.Client) *cobra.Command {
	var gameID string
	cmd := &cobra.Command{
		Use:   "delete-game",
		Short: "Delete a game and all its quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api().DeleteGame(cmd.Context(), gameID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted game %s\n", gameID)
			return nil
		},
	}
	cmd.Flags().StringVar(&gameID, "game", "", "game id")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}

// readQuizFile loads a quiz definition. JSON is a subset of YAML, so one decoder covers both.
func readQuizFile(path string) (app.QuizInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return app.QuizInput{}, err
	}
	return parseQuiz(raw)
}

func parseQuiz(raw []byte) (app.QuizInput, error) {
	var quiz app.QuizInput
	if err := yaml.Unmarshal(raw, &quiz); err != nil {
		return app.QuizInput{}, fmt.Errorf("parse quiz: %w", err)
	}
	if strings.TrimSpace(quiz.Title) == "" {
		return app.QuizInput{}, fmt.Errorf("parse quiz: title is required")
	}
	if quiz.Type == "" {
		return app.QuizInput{}, fmt.Errorf("parse quiz: type is required")
	}
	return quiz, nil
}

func printGame(out io.Writer, game app.GameView) {
	fmt.Fprintf(out, "%s  (key %s, id %s)\n", game.Title, game.Key, game.ID)
	fmt.Fprintf(out, "by %s, updated %s\n", game.CreatorEmail, humanize.Time(game.UpdatedAt))
	for i, quiz := range game.Quizzes {
		fmt.Fprintf(out, "\n%d. %s [%s] (id %s)\n", i+1, quiz.Title, quiz.Type, quiz.ID)
		for j, q := range quiz.Questions {
			fmt.Fprintf(out, "   %d.%d %s\n", i+1, j+1, q.Text)
			for k, answer := range q.Answers {
				mark := " "
				for _, c := range q.CorrectAnswers {
					if c == k {
						mark = "*"
					}
				}
				fmt.Fprintf(out, "       %s %c) %s\n", mark, 'a'+rune(k), answer)
			}
		}
	}
}
