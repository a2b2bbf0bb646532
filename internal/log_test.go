package internal

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		name string
		i, n int
		file string
		want string
	}{
		{
			name: "short name",
			i:    1,
			n:    2,
			file: "path/to/test.zip",
			want: `[1/2] "test.zip" - `,
		},
		{
			name: "long name",
			i:    3,
			n:    3,
			file: "a-really-long-archive-name-that-goes-on.zip",
			want: `[3/3] "a-really-long-archive-name-tha..." - `,
		},
		{
			name: "s3 key",
			i:    1,
			n:    1,
			file: "s3://bucket/prefix/test.zip",
			want: `[1/1] "test.zip" - `,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prefix(tt.i, tt.n, tt.file))
		})
	}
}

func TestTruncateRightWithSuffix(t *testing.T) {
	assert.Equal(t, "hello", TruncateRightWithSuffix("hello", 5, "..."))
	assert.Equal(t, "hel...", TruncateRightWithSuffix("hello", 3, "..."))
	assert.Equal(t, "日本...", TruncateRightWithSuffix("日本語", 2, "..."))
	assert.Equal(t, "...", TruncateRightWithSuffix("hello", -1, "..."))
}

func TestProgressLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewProgressLogger(log.New(&buf, "", 0), "dumped", 2048, time.Hour)

	_, _ = l.Write(make([]byte, 1024))
	_, _ = l.Write(make([]byte, 1024))
	assert.NoError(t, l.Close())

	// the first write always logs; the second is throttled.
	assert.Equal(t, "dumped 1.0 KiB / 2.0 KiB so far\ndumped 2.0 KiB in total\n", buf.String())
}
