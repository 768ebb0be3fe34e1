package cachecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const clearMessageType = "contentlayer.cache.clear"

// CacheClearCommand invalidates cached image resolutions. Key removes a
// single entry (the raw frontmatter reference); All empties the cache.
type CacheClearCommand struct {
	Key string `json:"key,omitempty"`
	All bool   `json:"all,omitempty"`
}

// Type implements command.Message.
func (CacheClearCommand) Type() string { return clearMessageType }

// Validate requires exactly one of Key or All.
func (cmd CacheClearCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Key, validation.By(func(value any) error {
			key, _ := value.(string)
			key = strings.TrimSpace(key)
			switch {
			case key == "" && !cmd.All:
				return validation.NewError("contentlayer.cache.clear.target_required", "a cache key or all is required")
			case key != "" && cmd.All:
				return validation.NewError("contentlayer.cache.clear.target_ambiguous", "key and all are mutually exclusive")
			}
			return nil
		})),
	)
}
