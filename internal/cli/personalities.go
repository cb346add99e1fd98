package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mayeuticsapp/parley/internal/api"
)

var (
	personalityName        string
	personalityDisplayName string
	personalityDescription string
	personalityPrompt      string
	personalityColor       string
	personalityProviderID  int
	personalityCustomName  string
)

var personalitiesCmd = &cobra.Command{
	Use:   "personalities",
	Short: "Manage AI personalities",
	Long: `Manage the AI personalities available as conversation participants.

Subcommands:
  list       List personalities (default)
  add        Create a personality
  update     Change a personality
  templates  Show the server-side template catalog
  from-template  Instantiate a personality from a template
  delete     Remove a personality

Examples:
  parley personalities
  parley personalities add filosofo --display "Filosofo Greco" --provider 1 \
      --prompt "Sei un filosofo greco dell'antichità..."
  parley personalities templates
  parley personalities from-template socratic --provider 1
  parley personalities delete 4 --force`,
	RunE: runPersonalitiesList,
}

var personalitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List personalities",
	RunE:  runPersonalitiesList,
}

var personalitiesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a personality",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonalitiesAdd,
}

var personalitiesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a personality",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonalitiesUpdate,
}

var personalitiesTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show the template catalog",
	RunE:  runPersonalitiesTemplates,
}

var personalitiesFromTemplateCmd = &cobra.Command{
	Use:   "from-template <template>",
	Short: "Instantiate a personality from a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonalitiesFromTemplate,
}

var personalitiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a personality",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonalitiesDelete,
}

func init() {
	personalitiesAddCmd.Flags().StringVarP(&personalityDisplayName, "display", "d", "", "display name (defaults to the name)")
	personalitiesAddCmd.Flags().StringVar(&personalityDescription, "description", "", "short description")
	personalitiesAddCmd.Flags().StringVarP(&personalityPrompt, "prompt", "p", "", "system prompt (required)")
	personalitiesAddCmd.Flags().StringVarP(&personalityColor, "color", "c", "#3B82F6", "hex theme color")
	personalitiesAddCmd.Flags().IntVar(&personalityProviderID, "provider", 0, "provider id (required)")
	_ = personalitiesAddCmd.MarkFlagRequired("prompt")
	_ = personalitiesAddCmd.MarkFlagRequired("provider")

	personalitiesFromTemplateCmd.Flags().IntVar(&personalityProviderID, "provider", 0, "provider id (required)")
	personalitiesFromTemplateCmd.Flags().StringVar(&personalityCustomName, "name", "", "override the template's name")
	_ = personalitiesFromTemplateCmd.MarkFlagRequired("provider")

	personalitiesUpdateCmd.Flags().StringVar(&personalityName, "name", "", "new identifier name")
	personalitiesUpdateCmd.Flags().StringVarP(&personalityDisplayName, "display", "d", "", "display name")
	personalitiesUpdateCmd.Flags().StringVar(&personalityDescription, "description", "", "short description")
	personalitiesUpdateCmd.Flags().StringVarP(&personalityPrompt, "prompt", "p", "", "system prompt")
	personalitiesUpdateCmd.Flags().StringVarP(&personalityColor, "color", "c", "", "hex theme color")
	personalitiesUpdateCmd.Flags().IntVar(&personalityProviderID, "provider", 0, "provider id")

	personalitiesDeleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")

	personalitiesCmd.AddCommand(personalitiesListCmd)
	personalitiesCmd.AddCommand(personalitiesAddCmd)
	personalitiesCmd.AddCommand(personalitiesUpdateCmd)
	personalitiesCmd.AddCommand(personalitiesTemplatesCmd)
	personalitiesCmd.AddCommand(personalitiesFromTemplateCmd)
	personalitiesCmd.AddCommand(personalitiesDeleteCmd)
}

func runPersonalitiesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	personalities, err := apiClient.ListPersonalities(ctx)
	if err != nil {
		return fmt.Errorf("list personalities: %w", err)
	}

	if len(personalities) == 0 {
		fmt.Println("No personalities configured.")
		return nil
	}

	fmt.Printf("Personalities (%d):\n\n", len(personalities))
	for _, p := range personalities {
		state := ""
		if !p.IsActive {
			state = " [inactive]"
		}
		provider := p.ProviderName
		if provider == "" {
			provider = fmt.Sprintf("provider %d", p.ProviderID)
		}
		fmt.Printf("- [%d] %s (%s)%s\n", p.ID, p.DisplayName, provider, state)
		if verbose {
			if p.Description != "" {
				fmt.Printf("  %s\n", p.Description)
			}
			fmt.Printf("  color: %s\n", p.ColorTheme)
		}
	}

	return nil
}

func runPersonalitiesAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	display := personalityDisplayName
	if display == "" {
		display = args[0]
	}

	input := api.PersonalityInput{
		Name:         args[0],
		DisplayName:  display,
		Description:  personalityDescription,
		SystemPrompt: personalityPrompt,
		ColorTheme:   personalityColor,
		ProviderID:   personalityProviderID,
	}

	personality, err := apiClient.CreatePersonality(ctx, input)
	if err != nil {
		return fmt.Errorf("create personality: %w", err)
	}

	fmt.Printf("Created personality [%d] %s\n", personality.ID, personality.DisplayName)
	return nil
}

func runPersonalitiesUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid personality id: %q", args[0])
	}
	ctx := context.Background()

	// The update endpoint wants the full record, so start from the current
	// one and overlay only the flags that were set.
	personalities, err := apiClient.ListPersonalities(ctx)
	if err != nil {
		return fmt.Errorf("list personalities: %w", err)
	}
	var current *api.Personality
	for i := range personalities {
		if personalities[i].ID == id {
			current = &personalities[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("personality not found: %d", id)
	}

	input := api.PersonalityInput{
		Name:         current.Name,
		DisplayName:  current.DisplayName,
		Description:  current.Description,
		SystemPrompt: current.SystemPrompt,
		ColorTheme:   current.ColorTheme,
		ProviderID:   current.ProviderID,
	}
	if cmd.Flags().Changed("name") {
		input.Name = personalityName
	}
	if cmd.Flags().Changed("display") {
		input.DisplayName = personalityDisplayName
	}
	if cmd.Flags().Changed("description") {
		input.Description = personalityDescription
	}
	if cmd.Flags().Changed("prompt") {
		input.SystemPrompt = personalityPrompt
	}
	if cmd.Flags().Changed("color") {
		input.ColorTheme = personalityColor
	}
	if cmd.Flags().Changed("provider") {
		input.ProviderID = personalityProviderID
	}

	personality, err := apiClient.UpdatePersonality(ctx, id, input)
	if err != nil {
		return fmt.Errorf("update personality: %w", err)
	}

	fmt.Printf("Updated personality [%d] %s\n", personality.ID, personality.DisplayName)
	return nil
}

func runPersonalitiesTemplates(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	templates, err := apiClient.ListTemplates(ctx)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	if len(templates) == 0 {
		fmt.Println("No templates available.")
		return nil
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("Templates (%d):\n\n", len(templates))
	for _, name := range names {
		t := templates[name]
		fmt.Printf("- %s: %s\n", name, t.DisplayName)
		if verbose && t.Description != "" {
			fmt.Printf("  %s\n", t.Description)
		}
	}

	return nil
}

func runPersonalitiesFromTemplate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	personality, err := apiClient.CreateFromTemplate(ctx, api.FromTemplateInput{
		TemplateName: args[0],
		ProviderID:   personalityProviderID,
		CustomName:   personalityCustomName,
	})
	if err != nil {
		return fmt.Errorf("create from template: %w", err)
	}

	fmt.Printf("Created personality [%d] %s\n", personality.ID, personality.DisplayName)
	return nil
}

func runPersonalitiesDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid personality id: %q", args[0])
	}
	ctx := context.Background()

	if !deleteForce {
		ok, err := confirm(fmt.Sprintf("About to delete personality %d.", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := apiClient.DeletePersonality(ctx, id); err != nil {
		return fmt.Errorf("delete personality: %w", err)
	}

	fmt.Printf("Deleted personality %d\n", id)
	return nil
}
