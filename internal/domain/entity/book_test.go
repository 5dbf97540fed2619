package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBook_ApplyWordCount(t *testing.T) {
	tests := []struct {
		name         string
		target       int
		total        int
		wantProgress int
		wantStatus   BookStatus
	}{
		{"零字数", 50000, 0, 0, BookStatusWriting},
		{"半程", 50000, 25000, 50, BookStatusWriting},
		{"四舍五入不足完成", 50000, 49700, 99, BookStatusWriting},
		{"四舍五入到完成", 50000, 49800, 100, BookStatusCompleted},
		{"恰好完成", 50000, 50000, 100, BookStatusCompleted},
		{"超出目标截断", 50000, 80000, 100, BookStatusCompleted},
		{"目标为零不除零", 0, 12345, 0, BookStatusWriting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBook("owner", "title", tt.target)
			b.ApplyWordCount(tt.total)
			assert.Equal(t, tt.total, b.CurrentWordCount)
			assert.Equal(t, tt.wantProgress, b.Progress)
			assert.Equal(t, tt.wantStatus, b.Status)
		})
	}
}

func TestBook_ApplyWordCount_Regression(t *testing.T) {
	// 字数回落后完成状态要能回退到写作中
	b := NewBook("owner", "title", 1000)
	b.ApplyWordCount(1000)
	assert.True(t, b.IsCompleted())

	b.ApplyWordCount(400)
	assert.False(t, b.IsCompleted())
	assert.Equal(t, BookStatusWriting, b.Status)
	assert.Equal(t, 40, b.Progress)
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"空串", "", 0},
		{"纯空白", "  \n\t ", 0},
		{"单词", "hello", 1},
		{"多空格分隔", "one  two\tthree\nfour", 4},
		{"首尾空白", "  trimmed words  ", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.content))
		})
	}
}

func TestChapter_SetContent(t *testing.T) {
	c := NewChapter("book", "outline", 1, "Opening")
	assert.Equal(t, ChapterStatusPending, c.Status)

	c.SetContent("some generated words here")
	assert.Equal(t, 4, c.WordCount)
	assert.Equal(t, ChapterStatusCompleted, c.Status)

	c.SetContent("")
	assert.Equal(t, 0, c.WordCount)
	assert.Equal(t, ChapterStatusWriting, c.Status)
}
