package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ScreenshotStatus represents the lifecycle status of a capture request.
// Values include ScreenshotStatusPending, ScreenshotStatusCompleted, and ScreenshotStatusFailed.
type ScreenshotStatus string

const (
	ScreenshotStatusPending   ScreenshotStatus = "pending"
	ScreenshotStatusCompleted ScreenshotStatus = "completed"
	ScreenshotStatusFailed    ScreenshotStatus = "failed"
)

// IsTerminal reports whether the status is terminal (no further polling).
func (s ScreenshotStatus) IsTerminal() bool {
	return s == ScreenshotStatusCompleted || s == ScreenshotStatusFailed
}

// DeviceProfile names a capture configuration controlling viewport and user agent.
type DeviceProfile string

const (
	DeviceDesktop DeviceProfile = "desktop"
	DeviceMobile  DeviceProfile = "mobile"
)

// HighlightList is a custom type for storing highlight slices as JSON in the database.
type HighlightList []Highlight

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (l HighlightList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (l *HighlightList) Scan(value interface{}) error {
	if value == nil {
		*l = HighlightList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan HighlightList")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, l)
}

// ScreenshotRecord represents one user-initiated capture request and its
// render lifecycle. A pending record carries the provider status URL; a
// completed record carries the final image payload as a base64 data URL.
type ScreenshotRecord struct {
	ID            string           `gorm:"type:text;primaryKey" json:"id"`
	URL           string           `gorm:"type:text;not null" json:"url"`
	BrandName     string           `gorm:"type:text" json:"brandName"`
	PageType      string           `gorm:"type:text;index:idx_screenshots_page_type" json:"pageType"`
	DeviceProfile DeviceProfile    `gorm:"type:text;default:desktop" json:"deviceProfile"`
	Status        ScreenshotStatus `gorm:"type:text;index:idx_screenshots_status;default:pending" json:"status"`
	RenderID      string           `gorm:"type:text" json:"renderId,omitempty"`
	StatusURL     string           `gorm:"type:text" json:"statusUrl,omitempty"`
	ImageData     string           `gorm:"type:text" json:"imageData,omitempty"`
	Highlights    HighlightList    `gorm:"type:text" json:"highlights,omitempty"`
	StorageKey    string           `gorm:"type:text" json:"storageKey,omitempty"`
	Width         int              `json:"width,omitempty"`
	Height        int              `json:"height,omitempty"`
	Format        string           `json:"format,omitempty"`
	Error         string           `gorm:"type:text" json:"error,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// TableName returns the database table name for ScreenshotRecord.
func (ScreenshotRecord) TableName() string {
	return "screenshots"
}
