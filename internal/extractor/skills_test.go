package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSkills_DiscoveryOrder(t *testing.T) {
	// 结果顺序由词表优先级决定，而不是文本出现顺序
	got := extractSkills("Java, SQL, JavaScript")
	assert.Equal(t, []string{"JavaScript", "Java", "SQL"}, got)
}

func TestExtractSkills_SpanClaiming(t *testing.T) {
	// "Node.js" 命中后，JavaScript 的 JS 模式不允许在它内部再触发
	assert.Equal(t, []string{"Node.js"}, extractSkills("Node.js"))
}

func TestExtractSkills_Dedup(t *testing.T) {
	assert.Equal(t, []string{"Python"}, extractSkills("Python python PYTHON"))
}

func TestExtractSkills_Empty(t *testing.T) {
	assert.Empty(t, extractSkills("plain prose with no technology words"))
}

func TestSpanSet(t *testing.T) {
	var s spanSet
	assert.False(t, s.overlaps(0, 10))

	s.claim(5, 10)
	assert.True(t, s.overlaps(0, 6))
	assert.True(t, s.overlaps(9, 20))
	assert.True(t, s.overlaps(6, 8))
	assert.False(t, s.overlaps(0, 5))
	assert.False(t, s.overlaps(10, 15))
}
