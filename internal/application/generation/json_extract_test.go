package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bookforge-api/pkg/errors"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "纯对象",
			input: `{"title":"x"}`,
			want:  `{"title":"x"}`,
		},
		{
			name:  "纯数组",
			input: `[{"title":"x"}]`,
			want:  `[{"title":"x"}]`,
		},
		{
			name:  "代码围栏包裹",
			input: "```json\n{\"title\":\"x\"}\n```",
			want:  `{"title":"x"}`,
		},
		{
			name:  "前后夹杂说明文字",
			input: "Here are the ideas:\n[{\"title\":\"x\"}]\nHope this helps!",
			want:  `[{"title":"x"}]`,
		},
		{
			name:  "对象在数组之前",
			input: `{"chapters":[{"title":"x"}]} trailing`,
			want:  `{"chapters":[{"title":"x"}]}`,
		},
		{
			name:  "空输入",
			input: "   \n ",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.input))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type idea struct {
		Title string `json:"title"`
	}

	t.Run("正常解析", func(t *testing.T) {
		var out []idea
		err := DecodeJSON("```json\n[{\"title\":\"a\"},{\"title\":\"b\"}]\n```", &out)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "a", out[0].Title)
	})

	t.Run("空输出", func(t *testing.T) {
		var out []idea
		err := DecodeJSON("", &out)
		assert.ErrorIs(t, err, apperrors.ErrResponseParse)
	})

	t.Run("非法 JSON", func(t *testing.T) {
		var out []idea
		err := DecodeJSON("the model refused to answer", &out)
		assert.ErrorIs(t, err, apperrors.ErrResponseParse)
	})

	t.Run("类型不匹配", func(t *testing.T) {
		var out []idea
		err := DecodeJSON(`{"title":"not an array"}`, &out)
		assert.ErrorIs(t, err, apperrors.ErrResponseParse)
	})
}
