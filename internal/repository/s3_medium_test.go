package repository

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjectAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := *in.Bucket + "/" + *in.Key
	f.objects[key] = b
	f.types[key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Medium(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI()
	medium := NewS3Medium(api, "bucket", "composer")

	_, ok, err := medium.Get(ctx, PostsKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, medium.Set(ctx, PostsKey, "[]"))
	assert.Equal(t, "[]", string(api.objects["bucket/composer/linkedinPosts.json"]))
	assert.Equal(t, "application/json", api.types["bucket/composer/linkedinPosts.json"])

	v, ok, err := medium.Get(ctx, PostsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, medium.Remove(ctx, PostsKey))
	_, ok, err = medium.Get(ctx, PostsKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3MediumBackedRepository(t *testing.T) {
	exerciseRepository(t, NewMediumPostRepository(NewS3Medium(newFakeObjectAPI(), "bucket", ""), quietLogger()))
}

func TestS3MediumErrors(t *testing.T) {
	api := newFakeObjectAPI()
	api.err = errors.New("access denied")
	repo := NewMediumPostRepository(NewS3Medium(api, "bucket", ""), quietLogger())

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, ErrStorage)
}

func TestNewR2ClientRequiresAccount(t *testing.T) {
	_, err := NewR2Client(context.Background(), r2Config("", "bucket"))
	assert.Error(t, err)

	client, err := NewR2Client(context.Background(), r2Config("acct", "bucket"))
	require.NoError(t, err)
	assert.NotNil(t, client)
}
