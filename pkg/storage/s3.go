package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures an S3-compatible disk. Endpoint is empty for AWS.
type S3Options struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string
	BaseURL  string
	Prefix   string // key prefix, e.g. "uploads/"
}

// S3Disk stores files as objects under a key prefix.
type S3Disk struct {
	client  *s3.Client
	bucket  string
	prefix  string
	baseURL string
}

func NewS3(ctx context.Context, o S3Options) (*S3Disk, error) {
	if o.Bucket == "" {
		return nil, errors.New("storage/s3: S3_BUCKET is not configured")
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(o.Region)}
	if o.Key != "" && o.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.Key, o.Secret, ""),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage/s3: load config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if o.Endpoint != "" {
		clientOpts = append(clientOpts, func(so *s3.Options) {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true // MinIO
		})
	}

	baseURL := strings.TrimRight(o.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", o.Bucket, o.Region)
	}
	prefix := strings.Trim(o.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &S3Disk{
		client:  s3.NewFromConfig(cfg, clientOpts...),
		bucket:  o.Bucket,
		prefix:  prefix,
		baseURL: baseURL,
	}, nil
}

func (d *S3Disk) key(name string) string { return d.prefix + name }

func (d *S3Disk) Put(ctx context.Context, name string, r io.Reader) error {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("storage/s3: read %s: %w", name, err)
		}
		body = bytes.NewReader(data)
	}
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(name)),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("storage/s3: put %s: %w", name, err)
	}
	return nil
}

func (d *S3Disk) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage/s3: get %s: %w", name, err)
	}
	return out.Body, nil
}

func (d *S3Disk) Exists(ctx context.Context, name string) (bool, error) {
	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(name)),
	})
	if err == nil {
		return true, nil
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return false, nil
	}
	return false, fmt.Errorf("storage/s3: head %s: %w", name, err)
}

// Delete succeeds for missing keys; S3 reports no error for them.
func (d *S3Disk) Delete(ctx context.Context, name string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(name)),
	})
	if err != nil {
		return fmt.Errorf("storage/s3: delete %s: %w", name, err)
	}
	return nil
}

func (d *S3Disk) List(ctx context.Context) ([]File, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(d.bucket),
		Prefix:    aws.String(d.prefix),
		Delimiter: aws.String("/"),
	}

	var out []File
	pages := s3.NewListObjectsV2Paginator(d.client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage/s3: list: %w", err)
		}
		for _, obj := range page.Contents {
			f := File{Name: strings.TrimPrefix(aws.ToString(obj.Key), d.prefix)}
			if obj.Size != nil {
				f.Size = *obj.Size
			}
			if obj.LastModified != nil {
				f.ModTime = *obj.LastModified
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func (d *S3Disk) URL(name string) string {
	return d.baseURL + "/" + d.prefix + url.PathEscape(name)
}
