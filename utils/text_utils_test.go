package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanGeneratedTitle(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"Chip export rules tighten"`, "Chip export rules tighten"},
		{"## Title: **Open-source LLM race**\nextra text", "Open-source LLM race"},
		{"\n\n  标题：芯片出口管制  ", "芯片出口管制"},
		{"Café culture 🚀 returns", "Café culture returns"},
		{"   \n ** ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanGeneratedTitle(tt.raw), tt.raw)
	}
}

func TestTakeByTokens(t *testing.T) {
	titles := []string{"one two three", "four five", "six seven eight nine"}
	assert.Equal(t, titles[:2], TakeByTokens(titles, 5))
	assert.Equal(t, titles[:1], TakeByTokens(titles, 1))
	assert.Equal(t, titles, TakeByTokens(titles, 100))
}

func TestDeduplicateSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, DeduplicateSlice([]string{" a", "b", "a ", ""}))
}

func TestCalculateTokens(t *testing.T) {
	assert.Equal(t, 2, CalculateTokens("hello world"))
	assert.Equal(t, 4, CalculateTokens("芯片"))
}
