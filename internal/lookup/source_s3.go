package lookup

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// getObjectAPI is the subset of the S3 client used by s3Source.
type getObjectAPI interface {
	GetObject(
		context.Context,
		*s3.GetObjectInput,
		...func(*s3.Options),
	) (*s3.GetObjectOutput, error)
}

type s3Source struct {
	client getObjectAPI
	bucket string
	key    string
}

// NewS3Source returns a Source that reads a CSV object from a bucket. A
// non-empty baseEndpoint points the client at non-AWS object storage.
func NewS3Source(cfg aws.Config, bucket, key, baseEndpoint string) Source {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Source{
		client: client,
		bucket: bucket,
		key:    strings.TrimPrefix(key, "/"),
	}
}

func (s *s3Source) Fetch(ctx context.Context) ([]Row, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, newFetchError(err, "error getting s3://%s/%s", s.bucket, s.key)
	}
	defer out.Body.Close()
	rows, err := ParseCSV(out.Body)
	if err != nil {
		return nil, newFetchError(err, "error reading s3://%s/%s", s.bucket, s.key)
	}
	return rows, nil
}
