// File: cmd/diagnostic/llm_diagnostic.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/iyunix/go-chat/internal/config"
	"github.com/iyunix/go-chat/internal/services/ai"
	"github.com/iyunix/go-chat/internal/services/chat"
)

// Sends one turn through the completion provider and reports the reply or the error kind.
func main() {
	prompt := flag.String("prompt", "What is the answer to life, universe and everything?", "user turn to send")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY not set in environment")
	}

	provider, err := ai.NewOpenAIProvider(&ai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.CompletionTimeout,
	})
	if err != nil {
		log.Fatalf("Provider error: %v", err)
	}

	fmt.Printf("Model: %s\n", cfg.OpenAIModel)
	fmt.Printf("Timeout: %s\n", cfg.CompletionTimeout)

	reply, err := provider.Complete(context.Background(), []ai.Turn{
		{Role: ai.RoleSystem, Content: chat.DefaultSystemPrompt},
		{Role: ai.RoleUser, Content: *prompt},
	})
	if err != nil {
		fmt.Printf("Completion failed (%s): %v\n", ai.TypeOf(err), err)
		os.Exit(1)
	}

	fmt.Printf("Response: %s\n", reply)
}
