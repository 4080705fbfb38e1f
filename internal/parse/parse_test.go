package parse

import (
	"errors"
	"testing"
)

type sample struct {
	A int   `json:"a"`
	B []int `json:"b"`
}

// TestObject 容错解析的各条路径
func TestObject(t *testing.T) {
	t.Run("裸 JSON 直接解析", func(t *testing.T) {
		got, err := Object[sample](`{"a":1,"b":[1,2]}`, "tester")
		if err != nil {
			t.Fatalf("Object: %v", err)
		}
		if got.A != 1 || len(got.B) != 2 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("围栏加尾逗号加裸换行", func(t *testing.T) {
		raw := "```json\n{ \"a\": 1,\n \"b\": [1,2,], }\n```"
		got, err := Object[sample](raw, "tester")
		if err != nil {
			t.Fatalf("Object: %v", err)
		}
		if got.A != 1 || len(got.B) != 2 || got.B[0] != 1 || got.B[1] != 2 {
			t.Errorf("got %+v, want {a:1 b:[1 2]}", got)
		}
	})

	t.Run("前后闲话", func(t *testing.T) {
		raw := `Sure! Here is the JSON you asked for: {"a":7,"b":[]} Hope it helps.`
		got, err := Object[sample](raw, "tester")
		if err != nil {
			t.Fatalf("Object: %v", err)
		}
		if got.A != 7 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("字符串里的括号不干扰配对", func(t *testing.T) {
		type msg struct {
			Text string `json:"text"`
		}
		raw := `{"text":"braces } inside ] a string"} trailing noise }`
		got, err := Object[msg](raw, "tester")
		if err != nil {
			t.Fatalf("Object: %v", err)
		}
		if got.Text != "braces } inside ] a string" {
			t.Errorf("got %q", got.Text)
		}
	})

	t.Run("数组顶层", func(t *testing.T) {
		got, err := Object[[]sample](`[{"a":1,"b":[]},{"a":2,"b":[3]}]`, "tester")
		if err != nil {
			t.Fatalf("Object: %v", err)
		}
		if len(got) != 2 || got[1].A != 2 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("完全不是 JSON", func(t *testing.T) {
		_, err := Object[sample]("I refuse to answer in JSON.", "Product Manager")
		var malformed *MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Fatalf("err = %v, want MalformedResponseError", err)
		}
		if malformed.Origin != "Product Manager" {
			t.Errorf("origin = %q", malformed.Origin)
		}
	})

	t.Run("修复后仍解析失败", func(t *testing.T) {
		_, err := Object[sample](`{"a": not even close`, "tester")
		var malformed *MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Fatalf("err = %v, want MalformedResponseError", err)
		}
	})
}
