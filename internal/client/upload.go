package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

const uploadPath = "/api/fileUpload/multipleFile"

var ErrMalformedUploadResponse = errors.New("upload response has no files array")

// File is a file picked for upload.
type File struct {
	Name        string
	ContentType string
	Data        io.Reader
}

type UploadedFile struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Uploader relays picked files to the upload route for one endpoint.
type Uploader struct {
	client   *Client
	endpoint string
	courseID string
}

func NewUploader(c *Client, endpoint, courseID string) *Uploader {
	return &Uploader{client: c, endpoint: endpoint, courseID: courseID}
}

// Submit uploads files and calls onChange once per stored file. An empty
// selection sends nothing.
func (u *Uploader) Submit(ctx context.Context, files []File, onChange func(UploadedFile)) error {
	if len(files) == 0 {
		return nil
	}
	body, contentType, err := u.encode(files)
	if err != nil {
		return err
	}

	resp, err := u.client.do(ctx, http.MethodPost, uploadPath, contentType, body)
	if err != nil {
		u.client.logger.Error().Err(err).Str("endpoint", u.endpoint).Msg("upload failed")
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		u.client.logger.Error().Err(err).Str("endpoint", u.endpoint).Msg("upload rejected")
		return err
	}

	var payload struct {
		Files json.RawMessage `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode upload response: %w", err)
	}
	var uploaded []UploadedFile
	if len(payload.Files) == 0 || payload.Files[0] != '[' {
		u.client.logger.Error().RawJSON("files", nonEmpty(payload.Files)).Msg("upload response is not an array")
		return ErrMalformedUploadResponse
	}
	if err := json.Unmarshal(payload.Files, &uploaded); err != nil {
		return fmt.Errorf("failed to decode uploaded files: %w", err)
	}
	for _, f := range uploaded {
		onChange(f)
	}
	return nil
}

func (u *Uploader) encode(files []File) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.Name))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Data); err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := mw.WriteField("endpoint", u.endpoint); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("courseId", u.courseID); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func nonEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
