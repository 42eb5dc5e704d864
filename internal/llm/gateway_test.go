package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubClient struct {
	resp  LLMResponse
	err   error
	delay time.Duration

	lastReq LLMRequest
}

func (s *stubClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	s.lastReq = req
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return LLMResponse{}, ctx.Err()
		}
	}
	return s.resp, s.err
}

func TestGatewayStripsCodeFences(t *testing.T) {
	client := &stubClient{resp: LLMResponse{Text: "```json\n{\"is_scam\": true}\n```"}}
	gw := NewGateway(client, "llama-3.3-70b-versatile", time.Second, nil)

	text, err := gw.Complete(context.Background(), "classify this", 0.3, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"is_scam": true}` {
		t.Fatalf("expected fences stripped, got %q", text)
	}
	if client.lastReq.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected model %q", client.lastReq.Model)
	}
	if len(client.lastReq.System) != 1 {
		t.Fatalf("expected system instruction to be set")
	}
}

func TestGatewayTimeout(t *testing.T) {
	client := &stubClient{delay: 500 * time.Millisecond}
	gw := NewGateway(client, "model-id", 20*time.Millisecond, nil)

	_, err := gw.Complete(context.Background(), "prompt", 0.3, 256)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestGatewayFailure(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	gw := NewGateway(client, "model-id", time.Second, nil)

	_, err := gw.Complete(context.Background(), "prompt", 0.3, 256)
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Fatalf("failure must not classify as timeout")
	}
}

func TestGatewayHonorsCallerDeadline(t *testing.T) {
	client := &stubClient{delay: time.Second}
	gw := NewGateway(client, "model-id", time.Minute, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := gw.Complete(ctx, "prompt", 0.3, 256)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("gateway did not return promptly, took %s", elapsed)
	}
}
