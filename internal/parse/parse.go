// Package parse 容错 JSON 解析
// 生成端返回的是自由文本，可能带代码围栏、前后闲话、尾逗号等杂质。
// 这里负责提取、修复、严格解析，失败则报 MalformedResponseError。
// 容错全部隔离在本包内，下游拿到的一律是完整类型化的结构
package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// MalformedResponseError 生成结果无法解析为期望结构
// Origin 标记出错的专家或调用点
type MalformedResponseError struct {
	Origin string
	Err    error
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("response from %s is not valid JSON: %v", e.Origin, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Object 从自由文本中提取并解析一个 JSON 对象/数组
// 流程：剥代码围栏 → 括号截取 → 严格解析 → 修复后重试 → 报错
func Object[T any](raw, origin string) (T, error) {
	var result T

	slice := extract(raw)
	if slice == "" {
		return result, &MalformedResponseError{
			Origin: origin,
			Err:    fmt.Errorf("no JSON object or array found"),
			Raw:    truncate(raw, 200),
		}
	}

	if err := json.Unmarshal([]byte(slice), &result); err == nil {
		return result, nil
	}

	repaired := repair(slice)
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, &MalformedResponseError{
			Origin: origin,
			Err:    err,
			Raw:    truncate(slice, 200),
		}
	}
	return result, nil
}

// extract 从文本中切出最可能的 JSON 片段
func extract(content string) string {
	content = strings.TrimSpace(content)

	// 代码围栏包裹的优先
	if fenced := extractFenced(content); fenced != "" {
		return fenced
	}

	// 找第一个 { 或 [
	start := -1
	for i := 0; i < len(content); i++ {
		if content[i] == '{' || content[i] == '[' {
			start = i
			break
		}
	}
	if start == -1 {
		return ""
	}

	// 括号配对扫描，字符串内的括号不算
	if end := matchBracket(content, start); end != -1 {
		return content[start : end+1]
	}

	// 回退：截到最后一个闭括号
	end := strings.LastIndexAny(content, "}]")
	if end > start {
		return content[start : end+1]
	}
	return ""
}

// extractFenced 提取 ``` 围栏内容
func extractFenced(content string) string {
	idx := strings.Index(content, "```")
	if idx == -1 {
		return ""
	}
	start := idx + 3
	// 跳过语言标识行（如 json）
	if newline := strings.IndexByte(content[start:], '\n'); newline != -1 {
		head := strings.TrimSpace(content[start : start+newline])
		if head == "" || !strings.ContainsAny(head, "{[") {
			start += newline + 1
		}
	}
	end := strings.Index(content[start:], "```")
	if end == -1 {
		return ""
	}
	inner := strings.TrimSpace(content[start : start+end])
	if strings.HasPrefix(inner, "{") || strings.HasPrefix(inner, "[") {
		return inner
	}
	return ""
}

// matchBracket 从 start 处的开括号扫描到配对的闭括号
func matchBracket(content string, start int) int {
	open := content[start]
	var close byte
	switch open {
	case '{':
		close = '}'
	case '[':
		close = ']'
	default:
		return -1
	}

	depth := 0
	inString := false
	escape := false

	for i := start; i < len(content); i++ {
		c := content[i]

		if escape {
			escape = false
			continue
		}
		if c == '\\' && inString {
			escape = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == open {
			depth++
		} else if c == close {
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// repair 修复常见生成瑕疵：字符串内的裸换行、闭括号前的尾逗号
func repair(slice string) string {
	repaired := strings.ReplaceAll(slice, "\r\n", " ")
	repaired = strings.ReplaceAll(repaired, "\n", " ")
	repaired = trailingCommaRe.ReplaceAllString(repaired, "$1")
	return repaired
}

// truncate 截断字符串用于错误信息
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
