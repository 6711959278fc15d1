// Package noop provides an ObjectStorage that discards uploads, used when archiving is disabled.
package noop

import (
	"context"
	"io"

	"invoiceinsight/internal/port"
)

type storage struct{}

// NewStorage returns an ObjectStorage that drains and drops every upload.
func NewStorage() port.ObjectStorage {
	return storage{}
}

func (storage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	if input.Body != nil {
		if _, err := io.Copy(io.Discard, input.Body); err != nil {
			return nil, err
		}
	}
	return &port.UploadOutput{}, nil
}
