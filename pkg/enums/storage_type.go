package enums

import "fmt"

// StorageType records which backing store holds a catalog record's media.
type StorageType string

const (
	StorageTypeGCS StorageType = "gcs"
)

var validStorageTypes = []StorageType{
	StorageTypeGCS,
}

func (s StorageType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StorageType.
func (s StorageType) IsValid() bool {
	for _, candidate := range validStorageTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStorageType converts raw input into a StorageType.
func ParseStorageType(value string) (StorageType, error) {
	for _, candidate := range validStorageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage type %q", value)
}
