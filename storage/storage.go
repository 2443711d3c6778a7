package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

type UploadResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	ETag     string `json:"etag,omitempty"`
}

// FileUploader stores team logos and match report archives. Keys are bucket-relative.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// TeamLogoKey gives every logo upload its own object key.
func TeamLogoKey(teamID int, objectID, ext string) string {
	return fmt.Sprintf("logos/teams/%d/%s%s", teamID, objectID, ext)
}

// MatchReportKey is the object key of one saved match report.
func MatchReportKey(fixtureID int, saveID string) string {
	return fmt.Sprintf("match-reports/fixture-%d/%s.json", fixtureID, saveID)
}

// ArchiveJSON marshals report and uploads it under key.
func ArchiveJSON(ctx context.Context, uploader FileUploader, key string, report interface{}) (*UploadResult, error) {
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report %s: %w", key, err)
	}
	return uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
}
