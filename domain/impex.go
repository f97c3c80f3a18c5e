package domain

import (
	"fmt"
	"strings"
)

const (
	UpdateVersionMajor     = "major"
	ServicesExistingUpdate = "update"
)

type (
	// ExportArgs the input of export flow
	ExportArgs struct {
		Env      string
		Tenant   string
		Token    string
		Services interface{}

		// File is local path of the archive, generated if empty
		File string
	}

	// ImportArgs the input of import flow, Target defaults to Source
	ImportArgs struct {
		Env    string
		Tenant string
		Token  string
		Source interface{}
		Target interface{}
		File   string
	}

	ExportInputs struct {
		Services []ServiceReference `json:"services"`
	}

	// ExportBody the json body of export api
	ExportBody struct {
		Inputs       ExportInputs `json:"inputs"`
		SourceSystem string       `json:"source_system"`
	}

	ServiceModify struct {
		ServiceUriSource      string `json:"service_uri_source"`
		ServiceUriDestination string `json:"service_uri_destination"`
		UpdateVersionType     string `json:"update_version_type"`
	}

	ImportInputs struct {
		ServicesModify []ServiceModify `json:"services_modify"`
	}

	// ImportMetadata the 'importRequestEntity' part of import api
	ImportMetadata struct {
		Inputs           ImportInputs `json:"inputs"`
		ServicesExisting string       `json:"services_existing"`
		SourceSystem     string       `json:"source_system"`
	}

	ExportReport struct {
		Initiated  int
		Downloaded []*TransferResult
		Failed     []string
	}

	ImportReport struct {
		Services []ServiceReference
	}
)

// ===================================
//		ExportArgs Methods
// ===================================

// Validate env, tenant, token and services in order, returns ARGUMENT_MISSING on first missing field
func (a *ExportArgs) Validate() error {
	return validate(a.Env, a.Tenant, a.Token, a.Services)
}

func (a *ExportArgs) Body(sourceSystem string) *ExportBody {
	return &ExportBody{
		Inputs:       ExportInputs{Services: SanitizeServices(a.Services)},
		SourceSystem: sourceSystem,
	}
}

// ===================================
//		ImportArgs Methods
// ===================================

func (a *ImportArgs) Validate() error {
	return validate(a.Env, a.Tenant, a.Token, a.Source)
}

func (a *ImportArgs) Metadata(sourceSystem string) *ImportMetadata {
	target := a.Target
	if len(SanitizeServices(target)) == 0 {
		target = a.Source
	}

	return &ImportMetadata{
		Inputs: ImportInputs{
			ServicesModify: []ServiceModify{
				{
					ServiceUriSource:      JoinServices(a.Source),
					ServiceUriDestination: JoinServices(target),
					UpdateVersionType:     UpdateVersionMajor,
				},
			},
		},
		ServicesExisting: ServicesExistingUpdate,
		SourceSystem:     sourceSystem,
	}
}

// ===================================
//		Report Methods
// ===================================

func (r *ExportReport) String() string {
	return fmt.Sprintf("%d file(s) initiated, %d downloaded, %d failed", r.Initiated, len(r.Downloaded), len(r.Failed))
}

func (r *ImportReport) Count() int {
	return len(r.Services)
}

func validate(env, tenant, token string, services interface{}) error {
	fields := []struct {
		name  string
		value string
	}{
		{"env", env},
		{"tenant", tenant},
		{"token", token},
	}

	for _, f := range fields {
		if isBlank(f.value) {
			return NewError(fmt.Sprintf("<%s> is required", f.name), ErrArgumentMissing, f.name)
		}
	}

	if len(SanitizeServices(services)) == 0 {
		return NewError("<services> is required", ErrArgumentMissing, "services")
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
