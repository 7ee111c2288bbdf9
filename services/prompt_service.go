package services

import (
	"fmt"
	"strings"

	"sprout/utils"
)

const (
	themeTitleMaxTokens  = 32
	maxThemeTitleRunes   = 80
	themePromptMaxTokens = 1500 // 成员标题部分的 token 上限
)

// buildThemeTitlePrompt 构建主题标题提示词
func buildThemeTitlePrompt(topicName string, memberTitles []string) string {
	titles := utils.TakeByTokens(utils.DeduplicateSlice(memberTitles), themePromptMaxTokens)

	var b strings.Builder
	for _, t := range titles {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}

	return fmt.Sprintf(`The following headlines were published by different sources under the topic "%s" and cover the same emerging story.

Headlines:
%s
Write one short headline (at most 8 words) that names the shared story.
Reply with the headline only, without quotes or any other text.`, topicName, b.String())
}
