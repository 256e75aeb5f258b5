package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arb8020/ireul/internal/config"
	"github.com/arb8020/ireul/internal/logger"
	"github.com/arb8020/ireul/pkg/agent"
	"github.com/arb8020/ireul/pkg/approval"
	"github.com/arb8020/ireul/pkg/session"
	"github.com/arb8020/ireul/pkg/tools"
)

var (
	agentAPIKey    string
	agentProvider  string
	agentModel     string
	agentNoConfirm bool
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the interactive Ireul agent",
	Long: `Run the interactive agent loop. The agent reads your messages, calls the
configured model provider, and executes requested tools (file read, file
edit, shell command, glob, grep) behind an interactive confirmation gate.`,
	RunE: runAgent,
}

func init() {
	agentCmd.Flags().StringVar(&agentAPIKey, "api-key", "", "API key (falls back to the provider's environment variable)")
	agentCmd.Flags().StringVar(&agentProvider, "provider", "", "model provider: anthropic, openai, or google")
	agentCmd.Flags().StringVar(&agentModel, "model", "", "model name (defaults per provider)")
	agentCmd.Flags().BoolVar(&agentNoConfirm, "no-confirm", false, "disable confirmation before executing tools")
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if agentProvider != "" {
		cfg.Provider = agentProvider
	}
	if agentModel != "" {
		cfg.Model = agentModel
	}
	if agentAPIKey != "" {
		cfg.APIKey = agentAPIKey
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(agent.APIKeyEnvVar(cfg.Provider))
	}
	if apiKey == "" {
		return fmt.Errorf("%s API key is required. Provide it with --api-key or set the %s environment variable",
			cfg.Provider, agent.APIKeyEnvVar(cfg.Provider))
	}

	model := cfg.Model
	if model == "" {
		model = agent.DefaultModel(cfg.Provider)
	}

	provider, err := agent.NewProvider(agent.ProviderOptions{
		Provider: cfg.Provider,
		APIKey:   apiKey,
		Model:    model,
	})
	if err != nil {
		return err
	}

	registry, err := tools.NewCoreRegistry(log)
	if err != nil {
		return err
	}

	// One shared reader: the confirmation gate and the chat loop must not
	// buffer past each other on the same descriptor.
	stdin := bufio.NewReader(os.Stdin)

	var gate approval.Gate = approval.AllowAll{}
	if !agentNoConfirm {
		gate = approval.NewCLIGate(stdin, os.Stdout, log)
	}

	// Transcript failures downgrade to in-memory only.
	var transcript *session.Transcript
	transcript, err = session.New(filepath.Join(cfg.DataDir, "sessions"), log)
	if err != nil {
		log.Warn().Err(err).Msg("Session transcript disabled")
		transcript = nil
	}

	engine, err := agent.NewEngine(agent.Config{
		Provider:   provider,
		Registry:   registry,
		Gate:       gate,
		Output:     os.Stdout,
		Transcript: transcript,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Interactive interrupt is a normal way to leave the chat.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}()

	fmt.Printf("Using %s provider with model: %s\n", cfg.Provider, model)
	return engine.Run(ctx, stdin)
}
