package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/scamshield-ai/scamshield/internal/llm"
)

// Smoke test for the configured LLM providers. Sends one short conversation
// to each provider whose credentials are set and prints the reply and usage.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req := llm.LLMRequest{
		System: []string{"You are a fraud analyst. Keep responses brief."},
		Messages: []llm.ChatMessage{
			{Role: llm.ChatRoleUser, Content: "Is 'your parcel is held, pay a small customs fee at this link' a scam pattern?"},
		},
		MaxTokens:   200,
		Temperature: 0.3,
	}

	divider := strings.Repeat("=", 60)
	fmt.Println(divider)
	fmt.Println("LLM Provider Smoke Test")
	fmt.Println(divider)

	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		fmt.Println("\n[1] Testing Groq...")
		baseURL := os.Getenv("GROQ_BASE_URL")
		if baseURL == "" {
			baseURL = "https://api.groq.com/openai/v1"
		}
		model := os.Getenv("GROQ_MODEL")
		if model == "" {
			model = "llama-3.3-70b-versatile"
		}
		client, err := llm.NewGroqClient(key, baseURL)
		if err != nil {
			fmt.Printf("    failed to create Groq client: %v\n", err)
		} else {
			groqReq := req
			groqReq.Model = model
			run(ctx, client, groqReq)
		}
	} else {
		fmt.Println("\n[1] Skipping Groq test (GROQ_API_KEY not set)")
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		fmt.Println("\n[2] Testing Gemini...")
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			model = "gemini-2.5-flash"
		}
		client, err := llm.NewGeminiClient(ctx, key, model)
		if err != nil {
			fmt.Printf("    failed to create Gemini client: %v\n", err)
		} else {
			run(ctx, client, req)
		}
	} else {
		fmt.Println("\n[2] Skipping Gemini test (GEMINI_API_KEY not set)")
	}

	fmt.Println("\n" + divider)
	fmt.Println("If both providers responded, the fallback chain is healthy.")
}

func run(ctx context.Context, client llm.LLMClient, req llm.LLMRequest) {
	start := time.Now()
	resp, err := client.Complete(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("    error: %v\n", err)
		return
	}
	fmt.Printf("    response (%v):\n    %s\n", elapsed.Round(time.Millisecond), resp.Text)
	fmt.Printf("    tokens: in=%d, out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
}
