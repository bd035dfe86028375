package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BaSui01/lexflow/types"
)

// parseCitations 解析引文抽取调用返回的 JSON 数组。
// 容忍 Markdown 代码块包裹；类型非法的条目按 case 归类。
func parseCitations(raw string) ([]types.Citation, error) {
	cleaned := stripCodeFence(raw)

	var citations []types.Citation
	if err := json.Unmarshal([]byte(cleaned), &citations); err != nil {
		return nil, fmt.Errorf("parse citations: %w", err)
	}

	out := citations[:0]
	for _, c := range citations {
		c.Citation = strings.TrimSpace(c.Citation)
		if c.Citation == "" {
			continue
		}
		switch c.Type {
		case types.CitationCase, types.CitationStatute, types.CitationRegulation:
		default:
			c.Type = types.CitationCase
		}
		out = append(out, c)
	}
	return out, nil
}

// parseKeywords 解析关键词抽取调用返回的 JSON 字符串数组。
func parseKeywords(raw string) ([]string, error) {
	cleaned := stripCodeFence(raw)

	var keywords []string
	if err := json.Unmarshal([]byte(cleaned), &keywords); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}

	out := keywords[:0]
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out, nil
}

// stripCodeFence 去掉 LLM 输出中常见的 ```json 代码块包裹。
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// FormatWithFootnotes 在答案中标注引文脚注并追加引文列表。
//
// 对每条引文，在其文本首次出现处之后插入 [n] 标记；引文文本未在
// 答案中逐字出现时静默跳过（尽力标注，不视为错误）。编号按抽取
// 顺序从 1 起连续递增，与是否匹配无关。至少插入一个标记时，在
// 末尾追加 "Citations:" 列表，按抽取顺序列出全部引文。
// 返回格式化结果与成功插入的标记数。
func FormatWithFootnotes(answer string, citations []types.Citation) (string, int) {
	formatted := answer
	inserted := 0

	for i, c := range citations {
		if c.Citation == "" {
			continue
		}
		marker := fmt.Sprintf("[%d]", i+1)
		idx := strings.Index(formatted, c.Citation)
		if idx < 0 {
			continue
		}
		end := idx + len(c.Citation)
		formatted = formatted[:end] + marker + formatted[end:]
		inserted++
	}

	if inserted == 0 {
		return formatted, 0
	}

	var sb strings.Builder
	sb.WriteString(formatted)
	sb.WriteString("\n\nCitations:\n")
	for i, c := range citations {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, c.Citation)
	}
	return strings.TrimRight(sb.String(), "\n"), inserted
}
