package llm

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

// fakeBackend 测试用后端
type fakeBackend struct {
	name  string
	reply *Reply
	err   error
	calls int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) generate(_ context.Context, _ string, _ Options) (*Reply, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func rateLimitErr() error {
	return genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota exceeded"}
}

func TestClientGenerate(t *testing.T) {
	t.Run("首个模型成功不触发降级", func(t *testing.T) {
		primary := &fakeBackend{name: "m1", reply: &Reply{Text: "ok"}}
		secondary := &fakeBackend{name: "m2", reply: &Reply{Text: "fallback"}}
		client := &Client{backends: []backend{primary, secondary}}

		reply, err := client.Generate(context.Background(), "hello", Options{})
		if err != nil {
			t.Fatalf("Generate error: %v", err)
		}
		if reply.Text != "ok" {
			t.Errorf("expected reply from primary, got %q", reply.Text)
		}
		if secondary.calls != 0 {
			t.Errorf("secondary should not be called, got %d calls", secondary.calls)
		}
	})

	t.Run("限流降级到下一个模型", func(t *testing.T) {
		primary := &fakeBackend{name: "m1", err: rateLimitErr()}
		secondary := &fakeBackend{name: "m2", reply: &Reply{Text: "fallback"}}
		client := &Client{backends: []backend{primary, secondary}}

		reply, err := client.Generate(context.Background(), "hello", Options{})
		if err != nil {
			t.Fatalf("Generate error: %v", err)
		}
		if reply.Text != "fallback" {
			t.Errorf("expected fallback reply, got %q", reply.Text)
		}
		if primary.calls != 1 || secondary.calls != 1 {
			t.Errorf("expected one call each, got %d and %d", primary.calls, secondary.calls)
		}
	})

	t.Run("非限流错误立即失败", func(t *testing.T) {
		primary := &fakeBackend{name: "m1", err: errors.New("invalid api key")}
		secondary := &fakeBackend{name: "m2", reply: &Reply{Text: "fallback"}}
		client := &Client{backends: []backend{primary, secondary}}

		_, err := client.Generate(context.Background(), "hello", Options{})
		if !errors.Is(err, ErrGenerationFailed) {
			t.Fatalf("expected ErrGenerationFailed, got %v", err)
		}
		if secondary.calls != 0 {
			t.Errorf("secondary should not be called on non-retryable error, got %d calls", secondary.calls)
		}
	})

	t.Run("全部限流返回生成失败", func(t *testing.T) {
		primary := &fakeBackend{name: "m1", err: rateLimitErr()}
		secondary := &fakeBackend{name: "m2", err: rateLimitErr()}
		client := &Client{backends: []backend{primary, secondary}}

		_, err := client.Generate(context.Background(), "hello", Options{})
		if !errors.Is(err, ErrGenerationFailed) {
			t.Fatalf("expected ErrGenerationFailed, got %v", err)
		}
	})
}

func TestIsRateLimit(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"gemini 429", genai.APIError{Code: 429}, true},
		{"gemini resource exhausted", genai.APIError{Status: "RESOURCE_EXHAUSTED"}, true},
		{"gemini invalid argument", genai.APIError{Code: 400, Status: "INVALID_ARGUMENT"}, false},
		{"包装的限流信息", errors.New("upstream returned 429 too many requests"), true},
		{"普通错误", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRateLimit(tc.err); got != tc.want {
				t.Errorf("isRateLimit(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
