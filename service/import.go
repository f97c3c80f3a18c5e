package service

import (
	"context"

	"github.com/flowci/flow-impex/api"
	"github.com/flowci/flow-impex/domain"
	"github.com/flowci/flow-impex/util"
)

// ImportService upload archive to import api and wait for the imported services
type ImportService struct {
	client api.Client
	poller *Poller
	opts   Options
}

func (s *ImportService) Poller() *Poller {
	return s.poller
}

func (s *ImportService) Import(ctx context.Context, args *domain.ImportArgs) (*domain.ImportReport, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}

	if util.IsEmptyString(args.File) || !util.IsFileExists(args.File) {
		return nil, domain.NewError("<file> is required", domain.ErrArgumentMissing, "file")
	}

	endpoint := api.BuildEndpoint(s.opts.HostTemplate, args.Env, args.Tenant, api.ActionImport)
	req, err := api.NewImportRequest(endpoint, args.Token, args.File, args.Metadata(s.opts.SourceSystem))
	if err != nil {
		return nil, domain.NewError("failed to build import request", domain.ErrBadRequest, err)
	}

	// 1. execute import api, upload archive
	util.LogInfo("attempt to upload file %s to %s", args.File, endpoint)
	handle, err := s.client.Submit(ctx, req)
	if err != nil {
		return nil, api.Classify(err, "failed to execute import api")
	}

	if handle.IsEmpty() {
		return nil, domain.NewError("failed to obtain <$.status_url>", domain.ErrUnprocessable, nil)
	}

	// 2. check status
	outputs, err := s.poller.Poll(ctx, handle, args.Token)
	if err != nil {
		return nil, err
	}

	if len(outputs.Services) == 0 {
		return nil, domain.NewError("failed to obtain <$.outputs.services>", domain.ErrUnprocessable, nil)
	}

	util.LogInfo("%d service(s) imported", len(outputs.Services))
	return &domain.ImportReport{Services: outputs.Services}, nil
}
