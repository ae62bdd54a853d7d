package statutory

import "errors"

var (
	ErrSettingsNotFound = errors.New("statutory settings not found")
)
