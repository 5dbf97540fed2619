package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline_RecalcTotals(t *testing.T) {
	o := NewOutline("book", "Title", []OutlineChapterPlan{
		{Title: "A", EstimatedWordCount: 3000},
		{Title: "B", EstimatedWordCount: 4500},
	})
	assert.Equal(t, 2, o.TotalChapters)
	assert.Equal(t, 7500, o.TotalEstimatedWords)

	o.Chapters = append(o.Chapters, OutlineChapterPlan{Title: "C", EstimatedWordCount: 500})
	o.RecalcTotals()
	assert.Equal(t, 3, o.TotalChapters)
	assert.Equal(t, 8000, o.TotalEstimatedWords)
}

func TestOutline_EnsurePlanIDs(t *testing.T) {
	o := NewOutline("book", "Title", []OutlineChapterPlan{
		{ID: "keep-me", Title: "A"},
		{Title: "B"},
	})
	o.EnsurePlanIDs()

	assert.Equal(t, "keep-me", o.Chapters[0].ID)
	assert.NotEmpty(t, o.Chapters[1].ID)

	generated := o.Chapters[1].ID
	o.EnsurePlanIDs()
	assert.Equal(t, generated, o.Chapters[1].ID)
}

func TestOutline_Approve(t *testing.T) {
	o := NewOutline("book", "Title", []OutlineChapterPlan{{Title: "A"}})
	require.False(t, o.IsApproved)

	first := time.Now()
	o.Approve(first)
	assert.True(t, o.IsApproved)
	require.NotNil(t, o.ApprovedAt)
	assert.Equal(t, first, *o.ApprovedAt)

	// 重复批准只刷新时间戳
	second := first.Add(time.Hour)
	o.Approve(second)
	assert.True(t, o.IsApproved)
	assert.Equal(t, second, *o.ApprovedAt)
}

func TestOutline_FindChapterPlan(t *testing.T) {
	o := NewOutline("book", "Title", []OutlineChapterPlan{
		{ID: "p1", Title: "A"},
		{ID: "p2", Title: "B"},
	})

	plan, ok := o.FindChapterPlan("p2")
	require.True(t, ok)
	assert.Equal(t, "B", plan.Title)

	_, ok = o.FindChapterPlan("nope")
	assert.False(t, ok)
}
