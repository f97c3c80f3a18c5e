package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/flowci/flow-impex/domain"
	"github.com/flowci/flow-impex/util"
)

const (
	FormFieldFile     = "file"
	FormFieldMetadata = "importRequestEntity"
)

// JobRequest the export or import request, body can be opened once
type JobRequest struct {
	Endpoint    string
	Token       string
	ContentType string

	open func() (io.Reader, error)
}

// Open returns the request body
func (r *JobRequest) Open() (io.Reader, error) {
	if r.open == nil {
		return nil, nil
	}
	return r.open()
}

// NewExportRequest create request with json body
func NewExportRequest(endpoint, token string, body *domain.ExportBody) (*JobRequest, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	return &JobRequest{
		Endpoint:    endpoint,
		Token:       token,
		ContentType: util.HttpMimeJson,
		open: func() (io.Reader, error) {
			return bytes.NewReader(raw), nil
		},
	}, nil
}

// NewImportRequest create multipart request with archive file and metadata,
// the archive is streamed into request body instead of loading into memory
func NewImportRequest(endpoint, token, archive string, metadata *domain.ImportMetadata) (*JobRequest, error) {
	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	if _, err = os.Stat(archive); err != nil {
		return nil, err
	}

	boundary := multipart.NewWriter(io.Discard).Boundary()

	return &JobRequest{
		Endpoint:    endpoint,
		Token:       token,
		ContentType: fmt.Sprintf("%s; boundary=%s", util.HttpMimeMultipart, boundary),
		open: func() (io.Reader, error) {
			file, err := os.Open(archive)
			if err != nil {
				return nil, err
			}

			pr, pw := io.Pipe()
			go func() {
				defer file.Close()
				pw.CloseWithError(writeImportForm(pw, boundary, file, filepath.Base(archive), meta))
			}()

			return pr, nil
		},
	}, nil
}

func writeImportForm(w io.Writer, boundary string, file io.Reader, fileName string, meta []byte) error {
	writer := multipart.NewWriter(w)
	if err := writer.SetBoundary(boundary); err != nil {
		return err
	}

	part, err := writer.CreateFormFile(FormFieldFile, fileName)
	if err != nil {
		return err
	}

	if _, err = io.Copy(part, file); err != nil {
		return err
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, FormFieldMetadata))
	header.Set(util.HttpHeaderContentType, util.HttpMimeJson)

	part, err = writer.CreatePart(header)
	if err != nil {
		return err
	}

	if _, err = part.Write(meta); err != nil {
		return err
	}

	// flush closing boundary
	return writer.Close()
}
