package source

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// partLoggingClient calls postGetObject after every GetObject that manager.Downloader makes.
//
// The hook may be called from any of the goroutines that download parts in parallel.
type partLoggingClient struct {
	manager.DownloadAPIClient
	postGetObject func(*s3.GetObjectOutput, error)
}

func (c partLoggingClient) GetObject(ctx context.Context, input *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	o, err := c.DownloadAPIClient.GetObject(ctx, input, optFns...)
	c.postGetObject(o, err)
	return o, err
}

// logParts makes the downloader log a running tally of successfully downloaded parts.
//
// Messages are `downloaded %d/%d parts so far`, or `downloaded %d/%d parts` once the tally reaches partCount. If
// partCount is not positive, the messages are `downloaded %d parts so far` instead.
func logParts(logger *log.Logger, partCount int32) func(*manager.Downloader) {
	return func(downloader *manager.Downloader) {
		var n atomic.Int32
		downloader.S3 = partLoggingClient{
			DownloadAPIClient: downloader.S3,
			postGetObject: func(_ *s3.GetObjectOutput, err error) {
				if err != nil {
					return
				}

				switch v := n.Add(1); {
				case partCount <= 0:
					logger.Printf("downloaded %d parts so far", v)
				case v == partCount:
					logger.Printf("downloaded %d/%d parts", v, partCount)
				default:
					logger.Printf("downloaded %d/%d parts so far", v, partCount)
				}
			},
		}
	}
}

var _ manager.DownloadAPIClient = partLoggingClient{}
