package websearch

import (
	"strings"
	"testing"
)

const fixtureHTML = `
<html><body>
<div class="result">
  <a class="result__a" href="/l/?uddg=https%3A%2F%2Fexample.com%2Fcoffee&amp;rut=abc">Subscription Coffee Trends</a>
  <a class="result__snippet">The subscription coffee market grew 20% last year.</a>
</div>
<div class="result">
  <a class="result__a" href="https://news.example.com/launch">Launch playbooks</a>
  <a class="result__snippet">How to launch a D2C box.</a>
</div>
<div class="result">
  <a class="result__a" href="//cdn.example.com/report">Industry report</a>
</div>
</body></html>`

// TestParseResults 结果页解析
func TestParseResults(t *testing.T) {
	results, err := parseResults(strings.NewReader(fixtureHTML), 5)
	if err != nil {
		t.Fatalf("parseResults: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	t.Run("还原跳转链接", func(t *testing.T) {
		if results[0].URL != "https://example.com/coffee" {
			t.Errorf("url = %q", results[0].URL)
		}
		if results[0].Title != "Subscription Coffee Trends" {
			t.Errorf("title = %q", results[0].Title)
		}
		if !strings.Contains(results[0].Snippet, "grew 20%") {
			t.Errorf("snippet = %q", results[0].Snippet)
		}
	})

	t.Run("直链原样保留", func(t *testing.T) {
		if results[1].URL != "https://news.example.com/launch" {
			t.Errorf("url = %q", results[1].URL)
		}
	})

	t.Run("无协议链接补 https", func(t *testing.T) {
		if results[2].URL != "https://cdn.example.com/report" {
			t.Errorf("url = %q", results[2].URL)
		}
	})
}

// TestParseResultsLimit 条数上限
func TestParseResultsLimit(t *testing.T) {
	results, err := parseResults(strings.NewReader(fixtureHTML), 1)
	if err != nil {
		t.Fatalf("parseResults: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}
