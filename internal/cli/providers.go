package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mayeuticsapp/parley/internal/api"
)

var (
	providerName      string
	providerAPIType   string
	providerBaseURL   string
	providerAPIKey    string
	providerModel     string
	providerMaxTokens int
	providerTemp      float64
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Manage AI providers",
	Long: `Manage the configured AI providers.

Subcommands:
  list    List providers (default)
  add     Register a new provider
  update  Change a provider's settings
  test    Verify a provider's connectivity
  delete  Remove a provider

Examples:
  parley providers
  parley providers add "OpenAI GPT-4" --type openai --key sk-... --model gpt-4
  parley providers update 3 --model gpt-4-turbo
  parley providers test 3
  parley providers delete 3 --force`,
	RunE: runProvidersList,
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers",
	RunE:  runProvidersList,
}

var providersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runProvidersAdd,
}

var providersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a provider's settings",
	Args:  cobra.ExactArgs(1),
	RunE:  runProvidersUpdate,
}

var providersTestCmd = &cobra.Command{
	Use:   "test <id>",
	Short: "Verify a provider's connectivity",
	Args:  cobra.ExactArgs(1),
	RunE:  runProvidersTest,
}

var providersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runProvidersDelete,
}

func init() {
	providersAddCmd.Flags().StringVarP(&providerAPIType, "type", "t", "openai", "api type: openai, anthropic or google")
	providersAddCmd.Flags().StringVarP(&providerAPIKey, "key", "k", "", "api key (required)")
	providersAddCmd.Flags().StringVarP(&providerModel, "model", "m", "gpt-4", "default model")
	providersAddCmd.Flags().StringVarP(&providerBaseURL, "url", "u", "", "custom base URL")
	providersAddCmd.Flags().IntVar(&providerMaxTokens, "max-tokens", 1000, "max tokens per completion")
	providersAddCmd.Flags().Float64Var(&providerTemp, "temperature", 0.7, "sampling temperature [0.0, 2.0]")
	_ = providersAddCmd.MarkFlagRequired("key")

	providersUpdateCmd.Flags().StringVar(&providerName, "name", "", "new name")
	providersUpdateCmd.Flags().StringVarP(&providerAPIType, "type", "t", "", "api type: openai, anthropic or google")
	providersUpdateCmd.Flags().StringVarP(&providerAPIKey, "key", "k", "", "replace the stored api key")
	providersUpdateCmd.Flags().StringVarP(&providerModel, "model", "m", "", "default model")
	providersUpdateCmd.Flags().StringVarP(&providerBaseURL, "url", "u", "", "custom base URL")
	providersUpdateCmd.Flags().IntVar(&providerMaxTokens, "max-tokens", 0, "max tokens per completion")
	providersUpdateCmd.Flags().Float64Var(&providerTemp, "temperature", -1, "sampling temperature [0.0, 2.0]")

	providersDeleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")

	providersCmd.AddCommand(providersListCmd)
	providersCmd.AddCommand(providersAddCmd)
	providersCmd.AddCommand(providersUpdateCmd)
	providersCmd.AddCommand(providersTestCmd)
	providersCmd.AddCommand(providersDeleteCmd)
}

func runProvidersList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	providers, err := apiClient.ListProviders(ctx)
	if err != nil {
		return fmt.Errorf("list providers: %w", err)
	}

	if len(providers) == 0 {
		fmt.Println("No providers configured.")
		return nil
	}

	fmt.Printf("Providers (%d):\n\n", len(providers))
	for _, p := range providers {
		state := "active"
		if !p.IsActive {
			state = "inactive"
		}
		fmt.Printf("- [%d] %s (%s, %s) [%s]\n", p.ID, p.Name, p.APIType, p.DefaultModel, state)
		if verbose {
			fmt.Printf("  max tokens: %d, temperature: %.1f, personalities: %d\n",
				p.MaxTokens, p.Temperature, p.PersonalitiesCount)
			if p.APIBaseURL != "" {
				fmt.Printf("  base URL: %s\n", p.APIBaseURL)
			}
		}
	}

	return nil
}

func runProvidersAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	input := api.ProviderInput{
		Name:         args[0],
		APIType:      api.APIType(providerAPIType),
		APIBaseURL:   providerBaseURL,
		APIKey:       providerAPIKey,
		DefaultModel: providerModel,
		MaxTokens:    providerMaxTokens,
		Temperature:  providerTemp,
	}

	provider, err := apiClient.CreateProvider(ctx, input)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	fmt.Printf("Created provider [%d] %s\n", provider.ID, provider.Name)
	return nil
}

func runProvidersUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid provider id: %q", args[0])
	}
	ctx := context.Background()

	// The update endpoint wants the full record, so start from the current
	// one and overlay only the flags that were set.
	providers, err := apiClient.ListProviders(ctx)
	if err != nil {
		return fmt.Errorf("list providers: %w", err)
	}
	var current *api.Provider
	for i := range providers {
		if providers[i].ID == id {
			current = &providers[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("provider not found: %d", id)
	}

	input := api.ProviderInput{
		Name:         current.Name,
		APIType:      current.APIType,
		APIBaseURL:   current.APIBaseURL,
		DefaultModel: current.DefaultModel,
		MaxTokens:    current.MaxTokens,
		Temperature:  current.Temperature,
	}
	if cmd.Flags().Changed("name") {
		input.Name = providerName
	}
	if cmd.Flags().Changed("type") {
		input.APIType = api.APIType(providerAPIType)
	}
	if cmd.Flags().Changed("key") {
		input.APIKey = providerAPIKey
	}
	if cmd.Flags().Changed("model") {
		input.DefaultModel = providerModel
	}
	if cmd.Flags().Changed("url") {
		input.APIBaseURL = providerBaseURL
	}
	if cmd.Flags().Changed("max-tokens") {
		input.MaxTokens = providerMaxTokens
	}
	if cmd.Flags().Changed("temperature") {
		input.Temperature = providerTemp
	}

	provider, err := apiClient.UpdateProvider(ctx, id, input)
	if err != nil {
		return fmt.Errorf("update provider: %w", err)
	}

	fmt.Printf("Updated provider [%d] %s\n", provider.ID, provider.Name)
	return nil
}

func runProvidersTest(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid provider id: %q", args[0])
	}
	ctx := context.Background()

	response, err := apiClient.TestProvider(ctx, id)
	if err != nil {
		return fmt.Errorf("test provider: %w", err)
	}

	fmt.Printf("Test succeeded. Response: %s\n", response)
	return nil
}

func runProvidersDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid provider id: %q", args[0])
	}
	ctx := context.Background()

	if !deleteForce {
		ok, err := confirm(fmt.Sprintf("About to delete provider %d.", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := apiClient.DeleteProvider(ctx, id); err != nil {
		return fmt.Errorf("delete provider: %w", err)
	}

	fmt.Printf("Deleted provider %d\n", id)
	return nil
}
