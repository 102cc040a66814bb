package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stintd/stint/internal/application/port/output"
)

func TestS3ArchiveGateway_SaveArchiveUploadsUnderPrefix(t *testing.T) {
	client := NewMockS3Client()
	gateway := NewS3ArchiveGatewayWithClient(client, "stint-archive", "exports")

	meta, err := gateway.SaveArchive(context.Background(), output.SaveArchiveRequest{
		Name:        "cycles-20260201-120000.ndjson",
		Content:     []byte(`{"id":"c1"}` + "\n"),
		ContentType: "application/x-ndjson",
	})
	require.NoError(t, err)

	assert.Equal(t, "cycles-20260201-120000.ndjson", meta.Name)
	assert.Equal(t, "s3://stint-archive/exports/cycles-20260201-120000.ndjson", meta.Location)
	assert.Equal(t, int64(len(`{"id":"c1"}`)+1), meta.SizeBytes)

	content, contentType, ok := client.Object("exports/cycles-20260201-120000.ndjson")
	require.True(t, ok)
	assert.Equal(t, `{"id":"c1"}`+"\n", string(content))
	assert.Equal(t, "application/x-ndjson", contentType)
}

func TestS3ArchiveGateway_SaveArchiveWithoutPrefixUsesBareKey(t *testing.T) {
	client := NewMockS3Client()
	gateway := NewS3ArchiveGatewayWithClient(client, "stint-archive", "")

	meta, err := gateway.SaveArchive(context.Background(), output.SaveArchiveRequest{
		Name:    "cycles.ndjson",
		Content: []byte("{}\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, "s3://stint-archive/cycles.ndjson", meta.Location)

	_, _, ok := client.Object("cycles.ndjson")
	assert.True(t, ok)
}

func TestS3ArchiveGateway_ListArchivesReturnsNewestFirst(t *testing.T) {
	client := NewMockS3Client()
	client.objects["exports/old.ndjson"] = mockObject{
		content:      []byte("old"),
		lastModified: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	client.objects["exports/new.ndjson"] = mockObject{
		content:      []byte("newer"),
		lastModified: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	gateway := NewS3ArchiveGatewayWithClient(client, "stint-archive", "exports")

	archives, err := gateway.ListArchives(context.Background())
	require.NoError(t, err)
	require.Len(t, archives, 2)

	assert.Equal(t, "new.ndjson", archives[0].Name)
	assert.Equal(t, int64(5), archives[0].SizeBytes)
	assert.Equal(t, "old.ndjson", archives[1].Name)
	assert.Equal(t, "s3://stint-archive/exports/old.ndjson", archives[1].Location)
}

func TestS3ArchiveGateway_ListArchivesIgnoresOtherPrefixes(t *testing.T) {
	client := NewMockS3Client()
	client.objects["exports/mine.ndjson"] = mockObject{lastModified: time.Now().UTC()}
	client.objects["backups/other.ndjson"] = mockObject{lastModified: time.Now().UTC()}
	gateway := NewS3ArchiveGatewayWithClient(client, "stint-archive", "exports")

	archives, err := gateway.ListArchives(context.Background())
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, "mine.ndjson", archives[0].Name)
}

func TestS3ArchiveGateway_UploadFailurePropagates(t *testing.T) {
	client := NewMockS3Client()
	client.PutErr = assert.AnError
	gateway := NewS3ArchiveGatewayWithClient(client, "stint-archive", "exports")

	_, err := gateway.SaveArchive(context.Background(), output.SaveArchiveRequest{Name: "x", Content: []byte("x")})
	require.ErrorIs(t, err, assert.AnError)
}
