package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tougpt/pkg/chat"

	"github.com/spf13/cobra"
)

func newAskCmd(a *app) *cobra.Command {
	var newChat bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question in the active chat and print the answer",
		Long: "Ask one question in the active chat and print the answer. " +
			"Without arguments the question is read from standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := a.readQuestion(args)
			if err != nil {
				return err
			}

			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			defer a.close()

			if newChat {
				a.manager.CreateChat()
			}
			return a.ask(cmd, question)
		},
	}
	cmd.Flags().BoolVarP(&newChat, "new", "n", false, "start a new chat for this question")
	return cmd
}

func (a *app) readQuestion(args []string) (string, error) {
	question := strings.Join(args, " ")
	if strings.TrimSpace(question) == "" {
		if f, ok := a.stdin.(*os.File); ok && isTerminal(f) {
			return "", errors.New("no question given")
		}
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("error reading question: %w", err)
		}
		question = string(data)
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("no question given")
	}
	if n := len([]rune(question)); n > chat.MaxQuestionLength {
		return "", fmt.Errorf("question is %d characters long, the limit is %d", n, chat.MaxQuestionLength)
	}
	return question, nil
}

// ask sends question and waits for the reply. Error replies are saved in the
// chat like in the interface and reported as a command error.
func (a *app) ask(cmd *cobra.Command, question string) error {
	replies, ok := a.manager.SendMessage(cmd.Context(), question)
	if !ok {
		return errors.New("the question was not sent")
	}

	reply := <-replies
	if reply.Dropped {
		return errors.New("the chat was deleted before the answer arrived")
	}
	if reply.ErrorText != "" {
		return errors.New(reply.ErrorText)
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply.Message.Content)
	return nil
}
