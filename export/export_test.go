package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "cities_dist_time.csv")

	content := `"locations","distance_mi","time_min"
"Portland, OR",174.0,171
"Honolulu, HI","None","None"
`
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o600))

	xlsxPath := XLSXName(csvPath)
	require.Equal(t, filepath.Join(dir, "cities_dist_time.xlsx"), xlsxPath)
	require.NoError(t, WriteXLSX(csvPath, xlsxPath))

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)

	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"locations", "distance_mi", "time_min"},
		{"Portland, OR", "174", "171"},
		{"Honolulu, HI", "None", "None"},
	}, rows)
}

func TestWriteXLSXMissingInput(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, WriteXLSX(filepath.Join(dir, "nope.csv"), filepath.Join(dir, "nope.xlsx")))
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in

	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.body = string(data)

	return &s3.PutObjectOutput{}, f.err
}

func TestS3Upload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities_dist_time.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o600))

	putter := &fakePutter{}
	u := newS3Uploader(putter, "results", "runs/2026")

	require.NoError(t, u.Upload(context.Background(), path))
	require.Equal(t, "results", aws.ToString(putter.input.Bucket))
	require.Equal(t, "runs/2026/cities_dist_time.csv", aws.ToString(putter.input.Key))
	require.Equal(t, "text/csv", aws.ToString(putter.input.ContentType))
	require.Equal(t, "x\n", putter.body)

	putter.err = errors.New("access denied")
	require.ErrorIs(t, u.Upload(context.Background(), path), putter.err)

	require.Error(t, u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.csv")))
}

func TestS3KeyWithoutPrefix(t *testing.T) {
	u := newS3Uploader(&fakePutter{}, "results", "")
	require.Equal(t, "a.xlsx", u.Key("/tmp/x/a.xlsx"))
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType("a.xlsx"))
}
