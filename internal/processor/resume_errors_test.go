package processor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeProcessError_Is(t *testing.T) {
	err := NewExtractError("uuid-123", "pdf损坏")
	assert.True(t, errors.Is(err, ErrExtractTextFailed))
	assert.False(t, errors.Is(err, ErrResumeDownloadFailed))
}

func TestResumeProcessError_Unwrap(t *testing.T) {
	err := NewIndexingError("uuid-456", "向量维度不匹配")

	var procErr *ResumeProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "uuid-456", procErr.SubmissionUUID)
	assert.Equal(t, "index", procErr.Op)
	assert.Equal(t, ErrIndexingFailed, errors.Unwrap(err))
}

func TestResumeProcessError_Message(t *testing.T) {
	withDetail := NewStoreError("uuid-789", "minio不可达")
	assert.Contains(t, withDetail.Error(), "uuid-789")
	assert.Contains(t, withDetail.Error(), "minio不可达")

	bare := &ResumeProcessError{SubmissionUUID: "uuid-000", Op: "update", BaseErr: ErrUpdateStatusFailed}
	assert.Contains(t, bare.Error(), "uuid-000")
	assert.NotContains(t, bare.Error(), ": \n")
}
