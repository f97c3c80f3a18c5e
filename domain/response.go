package domain

const (
	JobStatusPending   = "pending"
	JobStatusCompleted = "completed"
	JobStatusClosed    = "closed"
)

type (
	// JobHandle the status url returned by job submission, only valid within current process
	JobHandle string

	// SubmitResponse the response of export or import api
	SubmitResponse struct {
		StatusUrl string `json:"status_url"`
	}

	// StatusResponse the response of job status api
	StatusResponse struct {
		Status  string      `json:"status"`
		Outputs *JobOutputs `json:"outputs"`
	}

	FileDescriptor struct {
		File string `json:"file"`
	}

	// JobOutputs the payload of terminal job, Files for export and Services for import
	JobOutputs struct {
		Files    []FileDescriptor   `json:"files,omitempty"`
		Services []ServiceReference `json:"services,omitempty"`
	}

	// TransferResult the downloaded file on local disk
	TransferResult struct {
		Path string
		Size int64
	}
)

func (h JobHandle) IsEmpty() bool {
	return h == ""
}

func (h JobHandle) String() string {
	return string(h)
}

func (r *SubmitResponse) Handle() JobHandle {
	if r == nil {
		return ""
	}
	return JobHandle(r.StatusUrl)
}

// IsTerminal returns true on 'completed' or 'closed', exact match
func (r *StatusResponse) IsTerminal() bool {
	return r.Status == JobStatusCompleted || r.Status == JobStatusClosed
}

// GetOutputs returns outputs or an empty one if absent
func (r *StatusResponse) GetOutputs() *JobOutputs {
	if r.Outputs == nil {
		return &JobOutputs{}
	}
	return r.Outputs
}

func (o *JobOutputs) IsEmpty() bool {
	return o == nil || (len(o.Files) == 0 && len(o.Services) == 0)
}

// FileUrls returns non-empty file urls in descriptor order
func (o *JobOutputs) FileUrls() []string {
	urls := make([]string, 0, len(o.Files))
	for _, f := range o.Files {
		if f.File == "" {
			continue
		}
		urls = append(urls, f.File)
	}
	return urls
}
