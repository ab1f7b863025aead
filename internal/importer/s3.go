package importer

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config locates the bucket contact exports land in.
type S3Config struct {
	Region     string
	AWSProfile string
	Bucket     string
	Prefix     string
}

// S3Source reads contact CSVs out of an S3 bucket.
type S3Source struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Source creates an S3-backed CSV source using the ambient AWS
// credential chain, optionally pinned to a shared-config profile.
func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	var awsCfg aws.Config
	var err error
	if cfg.AWSProfile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithSharedConfigProfile(cfg.AWSProfile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Source{client: s3.NewFromConfig(awsCfg), cfg: cfg}, nil
}

// ListCSVKeys returns the keys of every CSV under the configured prefix.
func (s *S3Source) ListCSVKeys(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(s.cfg.Prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.EqualFold(path.Ext(key), ".csv") {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

// Open streams one object's contents. The caller closes the reader.
func (s *S3Source) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.cfg.Bucket, key, err)
	}
	return out.Body, nil
}

// ImportObject pulls one CSV out of the bucket and runs it through the
// importer.
func (imp *Importer) ImportObject(ctx context.Context, src *S3Source, key string) (Summary, error) {
	body, err := src.Open(ctx, key)
	if err != nil {
		return Summary{}, err
	}
	defer body.Close()
	return imp.ImportCSV(ctx, body)
}
