package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3ArchiveValidation(t *testing.T) {
	_, err := NewS3Archive(&Config{Bucket: "b"})
	assert.Error(t, err)

	_, err = NewS3Archive(&Config{AccessKeyID: "id", AccessKeySecret: "secret"})
	assert.Error(t, err)
}

func TestObjectURL(t *testing.T) {
	custom, err := NewS3Archive(&Config{Endpoint: "http://minio:9000/", AccessKeyID: "id", AccessKeySecret: "s", Bucket: "docs", Region: "us-east-1"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/docs/invoices/a/b.pdf", custom.ObjectURL("invoices/a/b.pdf"))

	aws, err := NewS3Archive(&Config{AccessKeyID: "id", AccessKeySecret: "s", Bucket: "docs", Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, "https://docs.s3.eu-west-1.amazonaws.com/x%20y.pdf", aws.ObjectURL("x y.pdf"))
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 7, 9, 23, 0, 0, 0, time.UTC)
	key := ObjectKey("user/1", "INV #42", at)

	assert.True(t, strings.HasPrefix(key, "invoices/user_1/2024/07/INV-42-"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, ObjectKey("user/1", "INV #42", at))
	assert.Contains(t, ObjectKey("", "", at), "invoices/anonymous/2024/07/invoice-")
}
