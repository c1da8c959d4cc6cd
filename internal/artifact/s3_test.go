package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		bucket  string
		key     string
		wantErr bool
	}{
		{name: "valid", ref: "s3://reports/batches/b1.json", bucket: "reports", key: "batches/b1.json"},
		{name: "missing scheme", ref: "reports/b1.json", wantErr: true},
		{name: "missing key", ref: "s3://reports/", wantErr: true},
		{name: "missing bucket", ref: "s3:///key", wantErr: true},
		{name: "empty", ref: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := ParseRef(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestLoadEnv_Unset(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "")
	assert.Nil(t, LoadEnv())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_BUCKET", "reports")
	t.Setenv("MINIO_ACCESS_KEY", "minio")
	t.Setenv("MINIO_SECRET_KEY", "minio123")

	cfg := LoadEnv()
	require.NotNil(t, cfg)
	assert.Equal(t, "localhost:9000", cfg.Endpoint)
	assert.Equal(t, "reports", cfg.Bucket)
}
