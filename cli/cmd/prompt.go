package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"

	"github.com/ardnew/makemake/log"
)

// Prompt selects how confirmation questions are answered.
type Prompt string

const (
	PromptYes Prompt = "yes" // accept without asking
	PromptNo  Prompt = "no"  // decline without asking
	PromptAsk Prompt = "ask" // ask on the terminal
)

// confirm asks question and reports whether it was accepted.
//
// With [PromptAsk], "y" or "Y" accepts and "n", "N" or an empty line
// declines. Anything else is [ErrInvalidAnswer]. Without a terminal to ask
// on, the question is declined.
func confirm(ctx context.Context, env *Env, question string) (bool, error) {
	switch env.Prompt {
	case PromptYes:
		log.DebugContext(ctx, "confirmed", slog.String("question", question))

		return true, nil

	case PromptNo:
		log.DebugContext(ctx, "declined", slog.String("question", question))

		return false, nil
	}

	ask := env.Ask
	if ask == nil {
		if !env.Interactive {
			log.WarnContext(ctx, "cannot ask without a terminal",
				slog.String("question", question),
			)

			return false, nil
		}

		ask = askTerminal
	}

	answer, err := ask(question + " [y/N] ")
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return false, nil
	}

	if err != nil {
		return false, ErrInvalidAnswer.Wrap(err)
	}

	return parseAnswer(answer)
}

func parseAnswer(answer string) (bool, error) {
	switch strings.TrimSpace(answer) {
	case "y", "Y":
		return true, nil
	case "n", "N", "":
		return false, nil
	default:
		return false, ErrInvalidAnswer.With(slog.String("answer", answer))
	}
}

func askTerminal(question string) (string, error) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	return line.Prompt(question)
}
