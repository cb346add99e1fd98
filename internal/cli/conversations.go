package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mayeuticsapp/parley/internal/api"
	"github.com/mayeuticsapp/parley/internal/console"
)

var (
	convTopic        string
	convParticipants []int
	convPersonality  int
	convRounds       int
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv"},
	Short:   "Manage conversations",
	Long: `Manage multi-AI conversations.

Subcommands:
  list    List conversations (default)
  show    Print a conversation transcript
  create  Start a new conversation
  send    Post a message of your own
  reply   Ask a specific participant for the next turn
  auto    Run autonomous continuation rounds
  delete  Remove a conversation

Examples:
  parley conversations
  parley conversations create "Dibattito AI" --participants 1,2
  parley conversations show 5
  parley conversations send 5 "E la coscienza?"
  parley conversations reply 5 --personality 2
  parley conversations auto 5 --rounds 3
  parley conversations delete 5 --force`,
	RunE: runConversationsList,
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	RunE:  runConversationsList,
}

var conversationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsShow,
}

var conversationsCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Start a new conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsCreate,
}

var conversationsSendCmd = &cobra.Command{
	Use:   "send <id> <message>",
	Short: "Post a message of your own",
	Args:  cobra.ExactArgs(2),
	RunE:  runConversationsSend,
}

var conversationsReplyCmd = &cobra.Command{
	Use:   "reply <id>",
	Short: "Ask a specific participant for the next turn",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsReply,
}

var conversationsAutoCmd = &cobra.Command{
	Use:   "auto <id>",
	Short: "Run autonomous continuation rounds",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsAuto,
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsDelete,
}

func init() {
	conversationsCreateCmd.Flags().StringVarP(&convTopic, "topic", "t", "", "conversation topic")
	conversationsCreateCmd.Flags().IntSliceVarP(&convParticipants, "participants", "p", nil, "personality ids, at least two (required)")
	_ = conversationsCreateCmd.MarkFlagRequired("participants")

	conversationsReplyCmd.Flags().IntVar(&convPersonality, "personality", 0, "participant personality id (required)")
	_ = conversationsReplyCmd.MarkFlagRequired("personality")

	conversationsAutoCmd.Flags().IntVarP(&convRounds, "rounds", "r", 3, "rounds to run, clamped to [1, 10]")

	conversationsDeleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")

	conversationsCmd.AddCommand(conversationsListCmd)
	conversationsCmd.AddCommand(conversationsShowCmd)
	conversationsCmd.AddCommand(conversationsCreateCmd)
	conversationsCmd.AddCommand(conversationsSendCmd)
	conversationsCmd.AddCommand(conversationsReplyCmd)
	conversationsCmd.AddCommand(conversationsAutoCmd)
	conversationsCmd.AddCommand(conversationsDeleteCmd)
}

func parseConversationID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid conversation id: %q", arg)
	}
	return id, nil
}

func runConversationsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	conversations, err := apiClient.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}

	if len(conversations) == 0 {
		fmt.Println("No conversations yet.")
		return nil
	}

	fmt.Printf("Conversations (%d):\n\n", len(conversations))
	for _, c := range conversations {
		fmt.Printf("- [%d] %s (%s, %d participants, %d messages)\n",
			c.ID, c.Title, c.Status, len(c.Participants), c.MessageCount)
		if verbose && c.Topic != "" {
			fmt.Printf("  %s\n", c.Topic)
		}
	}

	return nil
}

func runConversationsShow(cmd *cobra.Command, args []string) error {
	id, err := parseConversationID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	bundle, err := apiClient.GetConversation(ctx, id)
	if err != nil {
		return fmt.Errorf("get conversation: %w", err)
	}

	fmt.Printf("%s (%s)\n", bundle.Conversation.Title, bundle.Conversation.Status)
	if bundle.Conversation.Topic != "" {
		fmt.Printf("Topic: %s\n", bundle.Conversation.Topic)
	}

	fmt.Print("Participants: ")
	for i, p := range bundle.Participants {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(p.DisplayName)
	}
	fmt.Print("\n\n")

	for _, msg := range bundle.Messages {
		sender := "You"
		if msg.SenderType == api.SenderAI {
			sender = "AI"
			if msg.PersonalityID != nil {
				for _, p := range bundle.Participants {
					if p.ID == *msg.PersonalityID {
						sender = p.DisplayName
					}
				}
			}
		}
		fmt.Printf("[%s] %s:\n%s\n\n", console.FormatClock(msg.CreatedAt), sender, msg.Content)
	}

	return nil
}

func runConversationsCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	conversation, err := apiClient.CreateConversation(ctx, api.ConversationInput{
		Title:        args[0],
		Topic:        convTopic,
		Participants: convParticipants,
	})
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	fmt.Printf("Created conversation [%d] %s\n", conversation.ID, conversation.Title)
	return nil
}

func runConversationsSend(cmd *cobra.Command, args []string) error {
	id, err := parseConversationID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	err = apiClient.SendMessage(ctx, id, api.MessageInput{
		SenderType: api.SenderUser,
		Content:    args[1],
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	fmt.Println("Message sent.")
	return nil
}

func runConversationsReply(cmd *cobra.Command, args []string) error {
	id, err := parseConversationID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	personalityID := convPersonality
	err = apiClient.SendMessage(ctx, id, api.MessageInput{
		SenderType:    api.SenderAI,
		PersonalityID: &personalityID,
		Content:       console.ContinuationPrompt,
	})
	if err != nil {
		return fmt.Errorf("request reply: %w", err)
	}

	fmt.Println("Reply requested. Run 'parley conversations show' to read it.")
	return nil
}

func runConversationsAuto(cmd *cobra.Command, args []string) error {
	id, err := parseConversationID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	rounds := api.ClampRounds(convRounds)
	if rounds != convRounds {
		fmt.Printf("Rounds adjusted to %d.\n", rounds)
	}

	fmt.Printf("Running %d autonomous rounds, this can take a while...\n", rounds)
	if err := apiClient.AutoContinue(ctx, id, rounds); err != nil {
		return fmt.Errorf("auto-continue: %w", err)
	}

	fmt.Println("Done. Run 'parley conversations show' to read the new turns.")
	return nil
}

func runConversationsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseConversationID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	if !deleteForce {
		ok, err := confirm(fmt.Sprintf("About to delete conversation %d and its messages.", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := apiClient.DeleteConversation(ctx, id); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}

	fmt.Printf("Deleted conversation %d\n", id)
	return nil
}
