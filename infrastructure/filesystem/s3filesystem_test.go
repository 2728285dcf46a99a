package filesystem

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(params.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
		}
	}
	return out, nil
}

func TestS3FileSystem(t *testing.T) {
	ctx := context.Background()
	fs := NewS3FileSystem(&fakeS3{objects: map[string][]byte{}}, "reports")

	location, err := fs.WriteFile(ctx, "2024-03/alice.xlsx", "application/octet-stream", strings.NewReader("content"))
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/2024-03/alice.xlsx", location)

	var buf bytes.Buffer
	require.NoError(t, fs.ReadFile(ctx, "2024-03/alice.xlsx", &buf))
	assert.Equal(t, "content", buf.String())

	keys, err := fs.ListFiles(ctx, "2024-03/")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03/alice.xlsx"}, keys)

	assert.Error(t, fs.ReadFile(ctx, "missing", &buf))
}

func TestLocalFileSystem(t *testing.T) {
	ctx := context.Background()
	fs := LocalFileSystem{Root: t.TempDir()}

	_, err := fs.WriteFile(ctx, "nested/report.xlsx", "", strings.NewReader("content"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, fs.ReadFile(ctx, "nested/report.xlsx", &buf))
	assert.Equal(t, "content", buf.String())

	_, err = fs.WriteFile(ctx, "other/a.xlsx", "", strings.NewReader("a"))
	require.NoError(t, err)

	keys, err := fs.ListFiles(ctx, "nested/")
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/report.xlsx"}, keys)

	keys, err = fs.ListFiles(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/report.xlsx", "other/a.xlsx"}, keys)
}
