package netbench

//
// File transfer collector
//

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"
)

// megabyte is the unit we use for file sizes and transfer speeds.
const megabyte = 1 << 20

// downloadFileName is the name of the downloaded file inside LocalDir.
const downloadFileName = "download_test"

// errNonPositiveDuration indicates we cannot compute a speed.
var errNonPositiveDuration = errors.New("netbench: non-positive transfer duration")

// FileTransferCollector measures the upload and download speed of a bulk
// file transfer using scp. The zero value is invalid; please, use
// [NewFileTransferCollector] to construct.
type FileTransferCollector struct {
	config *Config
	logger Logger
	tool   ToolAdapter

	// timeNow is the function returning the current time.
	timeNow func() time.Time
}

// NewFileTransferCollector creates a new [FileTransferCollector].
func NewFileTransferCollector(config *Config, tool ToolAdapter, logger Logger) *FileTransferCollector {
	return &FileTransferCollector{
		config:  config,
		logger:  logger,
		tool:    tool,
		timeNow: time.Now,
	}
}

// Collect creates a zero-filled file of sizeMB megabytes, uploads it to
// the remote host, downloads it back and returns the [MetricUploadSpeed]
// and [MetricDownloadSpeed] samples in MB/s. On failure, both samples
// are absent. The local files are always removed before returning.
func (fc *FileTransferCollector) Collect(ctx context.Context, sizeMB int) Samples {
	name := fmt.Sprintf("test_file_%dMB", sizeMB)
	source := filepath.Join(fc.config.LocalDir, name)
	if err := createZeroFile(source, int64(sizeMB)*megabyte); err != nil {
		return fc.failed(err)
	}
	defer fc.remove(source)

	upload, err := fc.copy(ctx, source, fc.remotePath(fc.config.RemoteDir+"/"))
	if err != nil {
		return fc.failed(err)
	}

	// we remove the downloaded file as long as we attempted the download
	download := filepath.Join(fc.config.LocalDir, downloadFileName)
	defer fc.remove(download)
	downloadTime, err := fc.copy(ctx, fc.remotePath(path.Join(fc.config.RemoteDir, name)), download)
	if err != nil {
		return fc.failed(err)
	}

	uploadSpeed, err := transferSpeed(sizeMB, upload)
	if err != nil {
		return fc.failed(err)
	}
	downloadSpeed, err := transferSpeed(sizeMB, downloadTime)
	if err != nil {
		return fc.failed(err)
	}
	return Samples{
		NewSample(MetricUploadSpeed, uploadSpeed),
		NewSample(MetricDownloadSpeed, downloadSpeed),
	}
}

// remotePath returns the scp notation for a path on the remote host.
func (fc *FileTransferCollector) remotePath(p string) string {
	if fc.config.User == "" {
		return fmt.Sprintf("%s:%s", fc.config.Host, p)
	}
	return fmt.Sprintf("%s@%s:%s", fc.config.User, fc.config.Host, p)
}

// copy runs scp and returns the wall clock time it took.
func (fc *FileTransferCollector) copy(ctx context.Context, source, dest string) (time.Duration, error) {
	t0 := fc.timeNow()
	if _, err := invokeAndCheck(ctx, fc.tool, fc.config.TransferTimeout, "scp", source, dest); err != nil {
		return 0, err
	}
	return fc.timeNow().Sub(t0), nil
}

// remove removes a local file created or downloaded by Collect.
func (fc *FileTransferCollector) remove(filename string) {
	err := os.Remove(filename)
	switch {
	case err == nil:
		fc.logger.Debugf("netbench: removed %s", filename)
	case errors.Is(err, fs.ErrNotExist):
		fc.logger.Debugf("netbench: %s does not exist", filename)
	default:
		fc.logger.Warnf("netbench: cannot remove %s: %s", filename, err.Error())
	}
}

// failed logs the error and returns absent samples.
func (fc *FileTransferCollector) failed(err error) Samples {
	fc.logger.Errorf("%s", fmt.Errorf("%w: file transfer: %w", ErrMeasurement, err))
	return absentSamples(MetricUploadSpeed, MetricDownloadSpeed)
}

// createZeroFile creates a file containing size zero bytes.
func createZeroFile(filename string, size int64) error {
	filep, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := filep.Truncate(size); err != nil {
		filep.Close()
		os.Remove(filename)
		return err
	}
	return filep.Close()
}

// transferSpeed returns the speed in MB/s.
func transferSpeed(sizeMB int, elapsed time.Duration) (float64, error) {
	if elapsed <= 0 {
		return 0, errNonPositiveDuration
	}
	return float64(sizeMB) / elapsed.Seconds(), nil
}
