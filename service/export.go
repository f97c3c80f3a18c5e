package service

import (
	"context"
	"errors"

	"github.com/flowci/flow-impex/api"
	"github.com/flowci/flow-impex/domain"
	"github.com/flowci/flow-impex/util"
)

// ExportService execute export api, wait for the job and download the files
type ExportService struct {
	client     api.Client
	poller     *Poller
	downloader *Downloader
	opts       Options
}

func (s *ExportService) Poller() *Poller {
	return s.poller
}

// Export returns the report of downloaded files, the fetch failure of single file is logged and skipped,
// but the local file error aborts the export
func (s *ExportService) Export(ctx context.Context, args *domain.ExportArgs) (*domain.ExportReport, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}

	endpoint := api.BuildEndpoint(s.opts.HostTemplate, args.Env, args.Tenant, api.ActionExport)
	req, err := api.NewExportRequest(endpoint, args.Token, args.Body(s.opts.SourceSystem))
	if err != nil {
		return nil, domain.NewError("failed to build export request", domain.ErrBadRequest, err)
	}

	// 1. execute export api
	util.LogInfo("attempt to export %v from %s", domain.SanitizeServices(args.Services), endpoint)
	handle, err := s.client.Submit(ctx, req)
	if err != nil {
		return nil, api.Classify(err, "failed to execute export api")
	}

	if handle.IsEmpty() {
		return nil, domain.NewError("failed to obtain <$.status_url>", domain.ErrUnprocessable, nil)
	}

	// 2. check status
	outputs, err := s.poller.Poll(ctx, handle, args.Token)
	if err != nil {
		return nil, err
	}

	if len(outputs.Files) == 0 {
		return nil, domain.NewError("failed to obtain <$.outputs.files>", domain.ErrUnprocessable, nil)
	}

	// 3. download files
	path := args.File
	if util.IsEmptyString(path) {
		path = NewArchivePath(s.opts.WorkDir)
	}

	report := &domain.ExportReport{}
	for _, url := range outputs.FileUrls() {
		report.Initiated++

		result, err := s.downloader.Download(ctx, url, util.IndexedPath(path, report.Initiated))
		if err != nil {
			if !isFetchError(err) {
				util.LogWarn("failed to write archive: %v", err)
				return nil, err
			}

			util.LogWarn("failed to download file from %s: %v", url, err)
			report.Failed = append(report.Failed, url)
			continue
		}

		report.Downloaded = append(report.Downloaded, result)
	}

	util.LogInfo("%d service(s) exported, %s", len(domain.SanitizeServices(args.Services)), report)
	return report, nil
}

// isFetchError reports whether err comes from the remote side, the local file errors are returned raw
func isFetchError(err error) bool {
	var se *domain.ScriptError
	return errors.As(err, &se) || api.IsTransportError(err)
}
