// File: cmd/chat/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-chat/internal/client"
	"github.com/iyunix/go-chat/internal/domain"
	"github.com/iyunix/go-chat/internal/services"
)

var (
	serverURL string
	timeout   time.Duration
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "chat",
	Short: "Terminal client for the chat server",
	Long: `Talks to a running chat server over its JSON API.

Run without arguments to start an interactive session. Inside the session:
  /new          start a new chat
  /retry        ask again for a reply to the last message after a failure
  /chats        list chats, newest first
  /use <n|id>   switch to a chat by list position or id
  /quit         exit`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, cleanup, err := newController(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()
		return runInteractive(cmd.Context(), controller, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List chats, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, cleanup, err := newController(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := controller.RefreshChats(cmd.Context()); err != nil {
			return err
		}
		printChats(cmd.OutOrStdout(), controller.Chats())
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send one message and print the reply",
	Long: `Sends a message to the chat given by --chat, or to a new chat when --chat is empty,
and prints the assistant's reply.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, cleanup, err := newController(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()

		chatID, _ := cmd.Flags().GetString("chat")
		if chatID != "" {
			if err := controller.SelectChat(cmd.Context(), chatID); err != nil {
				return err
			}
		}
		return sendAndPrint(cmd.Context(), controller, strings.Join(args, " "), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "chat server base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "per-request timeout, including completion time")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	sendCmd.Flags().String("chat", "", "chat id to send to")

	rootCmd.AddCommand(listCmd, sendCmd)
}

type stderrNotifier struct {
	w io.Writer
}

func (n stderrNotifier) Notify(title, description string) {
	fmt.Fprintf(n.w, "! %s: %s\n", title, description)
}

func newController(stderr io.Writer) (*client.Controller, func(), error) {
	logger, err := services.NewLogger("go-chat-cli", "development", logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	api := client.NewAPIClient(serverURL, timeout)
	controller := client.NewController(api, stderrNotifier{w: stderr}, logger)
	cleanup := func() {
		controller.Wait()
		_ = logger.Sync()
	}
	return controller, cleanup, nil
}

func runInteractive(ctx context.Context, controller *client.Controller, in io.Reader, out io.Writer) error {
	_ = controller.RefreshChats(ctx)
	fmt.Fprintln(out, "Type a message, or /new, /retry, /chats, /use <n|id>, /quit.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/new":
			if created, err := controller.NewChat(ctx); err == nil {
				fmt.Fprintf(out, "Started chat %s\n", created.ID)
			}
		case line == "/retry":
			if exchange, err := controller.Regenerate(ctx); err == nil && exchange != nil {
				fmt.Fprintf(out, "assistant: %s\n", exchange.AssistantMessage.Content)
			}
		case line == "/chats":
			if err := controller.RefreshChats(ctx); err == nil {
				printChats(out, controller.Chats())
			}
		case strings.HasPrefix(line, "/use "):
			chatID := resolveChat(controller.Chats(), strings.TrimSpace(strings.TrimPrefix(line, "/use ")))
			if err := controller.SelectChat(ctx, chatID); err == nil {
				printMessages(out, controller.Messages(chatID))
			}
		default:
			if err := sendAndPrint(ctx, controller, line, out); err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}

func sendAndPrint(ctx context.Context, controller *client.Controller, content string, out io.Writer) error {
	mutation, err := controller.Submit(ctx, content)
	if err != nil || mutation == nil {
		return err
	}
	fmt.Fprintln(out, "thinking...")

	exchange, err := mutation.Wait(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "assistant: %s\n", exchange.AssistantMessage.Content)
	return nil
}

// resolveChat accepts a 1-based position in the last listing or a raw chat id.
func resolveChat(chats []domain.Chat, ref string) string {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(chats) {
		return chats[n-1].ID
	}
	return ref
}

func printChats(out io.Writer, chats []domain.Chat) {
	if len(chats) == 0 {
		fmt.Fprintln(out, "No chats yet.")
		return
	}
	for i, c := range chats {
		fmt.Fprintf(out, "%2d. %s  (%s, %s)\n", i+1, c.Title, c.ID, c.CreatedAt.Local().Format(time.DateTime))
	}
}

func printMessages(out io.Writer, messages []domain.Message) {
	for _, m := range messages {
		fmt.Fprintf(out, "%s: %s\n", m.Role, m.Content)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
