package telegram

import "strings"

// MessageLimit ограничивает длину сообщения Bot API в символах.
const MessageLimit = 4096

// SplitMessage режет текст на части не длиннее MessageLimit, по возможности по переводам строк.
func SplitMessage(text string) []string {
	return splitLines(text, MessageLimit)
}

func splitLines(text string, limit int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	runes := []rune(trimmed)
	if len(runes) <= limit {
		return []string{trimmed}
	}

	var parts []string
	push := func(chunk []rune) {
		if s := strings.Trim(string(chunk), "\n"); s != "" {
			parts = append(parts, s)
		}
	}
	for len(runes) > 0 {
		if len(runes) <= limit {
			push(runes)
			break
		}
		cut := limit
		for i := limit; i > 0; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		push(runes[:cut])
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == '\n' {
			runes = runes[1:]
		}
	}
	return parts
}
