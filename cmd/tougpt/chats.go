package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tougpt/pkg/chat"
	"tougpt/pkg/commands"

	"github.com/spf13/cobra"
	input "github.com/tcnksm/go-input"
)

func newChatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chats",
		Short: "Manage saved chats",
	}
	cmd.AddCommand(
		newChatsListCmd(a),
		newChatsNewCmd(a),
		newChatsSelectCmd(a),
		newChatsShowCmd(a),
		newChatsDeleteCmd(a),
		newChatsClearCmd(a),
	)
	return cmd
}

// withManager opens storage around fn
func (a *app) withManager(cmd *cobra.Command, fn func() error) error {
	if err := a.open(cmd.Context()); err != nil {
		return err
	}
	defer a.close()
	return fn()
}

func (a *app) resolveChat(ref string) (chat.Chat, error) {
	if ref == "" {
		return a.manager.ActiveChat(), nil
	}
	found, ok := chat.ResolveChat(a.manager.Chats(), ref)
	if !ok {
		return chat.Chat{}, fmt.Errorf("no chat matches %q, see 'tougpt chats list'", ref)
	}
	return found, nil
}

func newChatsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List chats, newest first; * marks the active one",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd, func() error {
				fmt.Fprintln(cmd.OutOrStdout(), commands.FormatChatList(a.manager.Chats(), a.manager.ActiveChatID()))
				return nil
			})
		},
	}
}

func newChatsNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new chat and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd, func() error {
				c := a.manager.CreateChat()
				fmt.Fprintln(cmd.OutOrStdout(), c.ID)
				return nil
			})
		},
	}
}

func newChatsSelectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <n|id>",
		Short: "Make a chat active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd, func() error {
				c, err := a.resolveChat(args[0])
				if err != nil {
					return err
				}
				a.manager.SelectChat(c.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Switched to %q.\n", c.Title)
				return nil
			})
		},
	}
}

func newChatsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [n|id]",
		Short: "Print a chat, the active one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd, func() error {
				c, err := a.resolveChat(firstArg(args))
				if err != nil {
					return err
				}
				writeTranscript(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
}

func writeTranscript(w io.Writer, c chat.Chat) {
	fmt.Fprintf(w, "# %s\n", c.Title)
	for _, msg := range c.Messages {
		label := "You"
		if msg.Role == chat.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(w, "\n%s:\n%s\n", label, msg.Content)
	}
}

func newChatsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [n|id]",
		Aliases: []string{"rm"},
		Short:   "Delete a chat, the active one by default",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd, func() error {
				c, err := a.resolveChat(firstArg(args))
				if err != nil {
					return err
				}
				a.manager.DeleteChat(c.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", c.Title)
				return nil
			})
		},
	}
}

func newChatsClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all messages from the active chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd, func() error {
				if len(a.manager.ActiveChat().Messages) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "The current chat is already empty.")
					return nil
				}

				var confirmer chat.Confirmer = chat.ConfirmFunc(func(string) bool { return true })
				if !yes {
					if f, ok := a.stdin.(*os.File); ok && !isTerminal(f) {
						return errors.New("refusing to clear without a terminal, pass --yes")
					}
					confirmer = newPromptConfirmer(a.stdin, cmd.ErrOrStderr())
				}

				if !a.manager.ClearActiveChat(confirmer) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Chat cleared.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "clear without asking")
	return cmd
}

// promptConfirmer asks a y/N question on the terminal
type promptConfirmer struct {
	ui *input.UI
}

func newPromptConfirmer(r io.Reader, w io.Writer) *promptConfirmer {
	return &promptConfirmer{ui: &input.UI{Reader: r, Writer: w}}
}

func (p *promptConfirmer) Confirm(prompt string) bool {
	answer, err := p.ui.Ask(prompt+" [y/N]", &input.Options{
		Default:     "n",
		HideDefault: true,
		Loop:        true,
		ValidateFunc: func(answer string) error {
			switch strings.ToLower(answer) {
			case "y", "yes", "n", "no":
				return nil
			default:
				return errors.New("please enter 'y' or 'n'")
			}
		},
	})
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
