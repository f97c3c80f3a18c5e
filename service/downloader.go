package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/flowci/flow-impex/api"
	"github.com/flowci/flow-impex/domain"
	"github.com/flowci/flow-impex/util"
)

// Downloader stream file from url to local disk
type Downloader struct {
	client api.Client

	// progress output, ex: os.Stdout, skipped if nil
	progress io.Writer
}

// Download write content of url into path, the existing file will be overwritten
func (d *Downloader) Download(ctx context.Context, url, path string) (*domain.TransferResult, error) {
	if util.IsEmptyString(path) {
		return nil, ErrorNoArchivePath
	}

	util.LogInfo("attempt to download file from %s", url)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	counter := &api.CounterWrite{Out: d.progress}
	_, err = d.client.Download(ctx, url, io.MultiWriter(file, counter))
	closeErr := file.Close()

	if d.progress != nil {
		_, _ = fmt.Fprintln(d.progress)
	}

	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(path)
		util.LogWarn("failed to write file %s", path)
		return nil, err
	}

	size, err := util.FileSize(path)
	if err != nil {
		return nil, err
	}

	util.LogInfo("file of size %s downloaded from %s", humanize.Bytes(uint64(size)), url)
	return &domain.TransferResult{Path: path, Size: size}, nil
}
