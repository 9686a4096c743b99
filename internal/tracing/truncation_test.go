package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10), "不超长时原样返回")

	long := strings.Repeat("a", 50) + strings.Repeat("b", 50)
	truncated := TruncateString(long, 21)
	assert.Len(t, []rune(truncated), 21)
	assert.Contains(t, truncated, "...")
	assert.True(t, strings.HasPrefix(truncated, "aaa"))
	assert.True(t, strings.HasSuffix(truncated, "bbb"))

	assert.Equal(t, "ab", TruncateString("abcdef", 2), "极短上限直接截断")
}

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("王"))
	assert.Equal(t, "张*", MaskPII("张伟"))
	assert.Equal(t, "欧*阳", MaskPII("欧阳阳"))
	assert.Equal(t, "zh"+strings.Repeat("*", 11)+"om", MaskPII("zhangwei@qq.com"))
}

func TestSafeAttributeValue(t *testing.T) {
	masked := SafeAttributeValue("candidate.name", "张伟", DefaultMaxLength)
	assert.Equal(t, "张*", masked, "属性名命中PII关键字时掩码")

	plain := SafeAttributeValue("db.operation", "SELECT", DefaultMaxLength)
	assert.Equal(t, "SELECT", plain, "普通属性只做截断")
}

func TestSafeRedisKey(t *testing.T) {
	key := "screener:query_cache:" + strings.Repeat("x", 200)
	safe := SafeRedisKey(key)
	assert.LessOrEqual(t, len([]rune(safe)), MaxRedisLength)
}
