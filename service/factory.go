package service

import (
	"io"
	"time"

	"github.com/flowci/flow-impex/api"
)

const (
	DefaultSourceSystem = "GitHub Actions"
	DefaultHostTemplate = "excel.{env}.coherent.global"
)

// Options the settings shared by export and import services
type Options struct {
	HostTemplate  string
	SourceSystem  string
	MaxRetries    int
	RetryInterval time.Duration
	StrictPolling bool

	// WorkDir the dir of generated archive
	WorkDir string

	Sleeper  Sleeper
	Progress io.Writer
}

func NewExportService(client api.Client, opts Options) *ExportService {
	opts = withDefaults(opts)

	return &ExportService{
		client:     client,
		poller:     newPoller(client, opts),
		downloader: &Downloader{client: client, progress: opts.Progress},
		opts:       opts,
	}
}

func NewImportService(client api.Client, opts Options) *ImportService {
	opts = withDefaults(opts)

	return &ImportService{
		client: client,
		poller: newPoller(client, opts),
		opts:   opts,
	}
}

func newPoller(client api.Client, opts Options) *Poller {
	poller := NewPoller(client, opts.Sleeper, opts.MaxRetries, opts.RetryInterval)
	poller.Strict = opts.StrictPolling
	return poller
}

func withDefaults(opts Options) Options {
	if opts.HostTemplate == "" {
		opts.HostTemplate = DefaultHostTemplate
	}

	if opts.SourceSystem == "" {
		opts.SourceSystem = DefaultSourceSystem
	}

	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}

	return opts
}
