package storage

import (
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minio.New only parses the endpoint, so a store can be built without a
// reachable server.
func newMinioStoreForURL(t *testing.T, useSSL bool) *MinioStore {
	cli, err := minio.New("minio.example.com:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("key", "secret", ""),
		Secure: useSSL,
	})
	require.NoError(t, err)
	return &MinioStore{client: cli, bucket: "reports"}
}

func TestObjectURLScheme(t *testing.T) {
	plain := newMinioStoreForURL(t, false)
	assert.Equal(t, "http://minio.example.com:9000/reports/report.md", plain.objectURL("report.md"))

	secure := newMinioStoreForURL(t, true)
	assert.Equal(t, "https://minio.example.com:9000/reports/report.md", secure.objectURL("report.md"))
}
