package generation

import (
	"fmt"
	"strings"

	"bookforge-api/internal/domain/entity"
)

const ideaSystemPrompt = `You are an experienced non-fiction book development editor.
You respond with valid JSON only, no commentary and no markdown fences.`

const outlineSystemPrompt = `You are an experienced non-fiction book development editor.
You design practical, well-structured book outlines.
You respond with valid JSON only, no commentary and no markdown fences.`

const chapterSystemPrompt = `You are a professional non-fiction ghostwriter.
You write clear, engaging prose in plain paragraphs separated by blank lines.
Do not include markdown headings or any metadata, only the chapter body.`

// buildIdeaPrompt 构建书籍创意生成提示词
func buildIdeaPrompt(brief *IdeaBrief) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d distinct non-fiction book ideas", brief.Count)
	if brief.Genre != "" {
		fmt.Fprintf(&b, " in the %s category", brief.Genre)
	}
	if brief.TargetAudience != "" {
		fmt.Fprintf(&b, " for this audience: %s", brief.TargetAudience)
	}
	b.WriteString(".\n")
	if brief.Topic != "" {
		fmt.Fprintf(&b, "The ideas should relate to this topic: %s\n", brief.Topic)
	}
	b.WriteString(`Return a JSON array. Each element must have exactly these fields:
{"title": string, "description": string, "genre": string, "target_audience": string, "key_points": [string]}
`)
	return b.String()
}

// buildOutlinePrompt 构建大纲生成提示词
func buildOutlinePrompt(book *entity.Book, chapterCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a chapter outline for a non-fiction book.\n")
	fmt.Fprintf(&b, "Title: %s\n", book.Title)
	if book.Genre != "" {
		fmt.Fprintf(&b, "Category: %s\n", book.Genre)
	}
	if book.Description != "" {
		fmt.Fprintf(&b, "Summary: %s\n", book.Description)
	}
	if book.TargetAudience != "" {
		fmt.Fprintf(&b, "Target audience: %s\n", book.TargetAudience)
	}
	if len(book.KeyPoints) > 0 {
		fmt.Fprintf(&b, "Key points to cover: %s\n", strings.Join(book.KeyPoints, "; "))
	}
	fmt.Fprintf(&b, "Target length: %d words across %d chapters.\n", book.TargetWordCount, chapterCount)
	b.WriteString(`Return a JSON array of chapters in reading order. Each element must have exactly these fields:
{"title": string, "description": string, "key_points": [string], "estimated_word_count": number}
The estimated word counts should sum roughly to the target length.
`)
	return b.String()
}

// buildChapterPrompt 构建章节正文生成提示词
func buildChapterPrompt(book *entity.Book, plan *entity.OutlineChapterPlan, number int, previousTail string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write chapter %d of the non-fiction book %q.\n", number, book.Title)
	fmt.Fprintf(&b, "Chapter title: %s\n", plan.Title)
	if plan.Description != "" {
		fmt.Fprintf(&b, "Chapter brief: %s\n", plan.Description)
	}
	if len(plan.KeyPoints) > 0 {
		fmt.Fprintf(&b, "Cover these points: %s\n", strings.Join(plan.KeyPoints, "; "))
	}
	if book.TargetAudience != "" {
		fmt.Fprintf(&b, "Audience: %s\n", book.TargetAudience)
	}
	if plan.EstimatedWordCount > 0 {
		fmt.Fprintf(&b, "Aim for roughly %d words.\n", plan.EstimatedWordCount)
	}
	if previousTail != "" {
		fmt.Fprintf(&b, "The previous chapter ended with:\n%s\nContinue naturally from there.\n", previousTail)
	}
	b.WriteString("Write only the chapter body as plain prose paragraphs.\n")
	return b.String()
}

// previousChapterTail 截取上一章结尾，给续写提供上下文
func previousChapterTail(content string, maxRunes int) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	runes := []rune(trimmed)
	if len(runes) <= maxRunes {
		return trimmed
	}
	return string(runes[len(runes)-maxRunes:])
}
