package filesystem

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FileSystem stores generated files such as attendance reports.
type FileSystem interface {
	WriteFile(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	ReadFile(ctx context.Context, key string, out io.Writer) error
	// ListFiles returns the keys starting with prefix.
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type S3FileSystem struct {
	client S3API
	bucket string
}

func NewS3FileSystem(client S3API, bucket string) *S3FileSystem {
	return &S3FileSystem{client: client, bucket: bucket}
}

// ConnectS3 builds a client from the default AWS credential chain.
func ConnectS3(ctx context.Context, bucket string) (*S3FileSystem, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewS3FileSystem(s3.NewFromConfig(cfg), bucket), nil
}

// WriteFile uploads body and returns the s3:// location of the object.
func (fs *S3FileSystem) WriteFile(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(fs.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s to bucket %s: %w", key, fs.bucket, err)
	}
	return fmt.Sprintf("s3://%s/%s", fs.bucket, key), nil
}

func (fs *S3FileSystem) ReadFile(ctx context.Context, key string, out io.Writer) error {
	resp, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s from bucket %s: %w", key, fs.bucket, err)
	}
	defer resp.Body.Close()

	if _, err = io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to copy object %s from bucket %s: %w", key, fs.bucket, err)
	}
	return nil
}

func (fs *S3FileSystem) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(fs.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(fs.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", fs.bucket, err)
		}

		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	return keys, nil
}

// LocalFileSystem writes under a root directory.
type LocalFileSystem struct {
	Root string
}

func (fs LocalFileSystem) WriteFile(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	path := filepath.Join(fs.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (fs LocalFileSystem) ReadFile(ctx context.Context, key string, out io.Writer) error {
	f, err := os.Open(filepath.Join(fs.Root, filepath.FromSlash(key)))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(out, f)
	return err
}

func (fs LocalFileSystem) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(fs.Root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(fs.Root, path)
		if err != nil {
			return err
		}
		if key := filepath.ToSlash(rel); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", fs.Root, err)
	}
	sort.Strings(keys)
	return keys, nil
}
