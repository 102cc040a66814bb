package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/stintd/stint/internal/application/port/output"
)

// S3ArchiveGateway implements output.ArchiveGateway on an S3 bucket.
// Documents live under s3://<bucket>/<prefix>/<name>.
type S3ArchiveGateway struct {
	client S3API
	bucket string
	prefix string
}

// S3Config holds S3 archive configuration
type S3Config struct {
	Bucket string // bucket name
	Prefix string // optional key prefix, e.g. "stint/exports"
	Region string // optional region override
}

// NewS3ArchiveGateway creates a gateway against the default AWS config chain
func NewS3ArchiveGateway(ctx context.Context, cfg S3Config) (*S3ArchiveGateway, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}

	return NewS3ArchiveGatewayWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

// NewS3ArchiveGatewayWithClient creates a gateway with a custom S3 client.
// Primarily used for testing with mock clients.
func NewS3ArchiveGatewayWithClient(client S3API, bucket, prefix string) *S3ArchiveGateway {
	return &S3ArchiveGateway{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// SaveArchive uploads an export document
func (g *S3ArchiveGateway) SaveArchive(ctx context.Context, req output.SaveArchiveRequest) (*output.ArchiveMetadata, error) {
	key := g.buildKey(req.Name)

	input := &s3.PutObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(req.Content),
	}
	if req.ContentType != "" {
		input.ContentType = aws.String(req.ContentType)
	}

	if _, err := g.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("upload to S3: %w", err)
	}

	return &output.ArchiveMetadata{
		Name:      req.Name,
		Location:  fmt.Sprintf("s3://%s/%s", g.bucket, key),
		SizeBytes: int64(len(req.Content)),
		SavedAt:   time.Now().UTC(),
	}, nil
}

// ListArchives lists previously exported documents, newest first
func (g *S3ArchiveGateway) ListArchives(ctx context.Context) ([]*output.ArchiveMetadata, error) {
	listPrefix := ""
	if g.prefix != "" {
		listPrefix = g.prefix + "/"
	}

	out, err := g.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(g.bucket),
		Prefix: aws.String(listPrefix),
	})
	if err != nil {
		return nil, fmt.Errorf("list S3 objects: %w", err)
	}

	archives := make([]*output.ArchiveMetadata, 0, len(out.Contents))
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		archives = append(archives, &output.ArchiveMetadata{
			Name:      path.Base(key),
			Location:  fmt.Sprintf("s3://%s/%s", g.bucket, key),
			SizeBytes: aws.ToInt64(obj.Size),
			SavedAt:   aws.ToTime(obj.LastModified),
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].SavedAt.After(archives[j].SavedAt)
	})
	return archives, nil
}

// buildKey joins the prefix and document name
func (g *S3ArchiveGateway) buildKey(name string) string {
	if g.prefix == "" {
		return name
	}
	return path.Join(g.prefix, name)
}
