package buildcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const buildMessageType = "contentlayer.build.run"

// BuildCommand runs the content build once.
type BuildCommand struct {
	// DryRun processes every document without writing generated output.
	DryRun bool `json:"dry_run,omitempty"`
	// BuildID overrides the generated build identifier (e.g. a CI run id).
	BuildID string `json:"build_id,omitempty"`
}

// Type implements command.Message.
func (BuildCommand) Type() string { return buildMessageType }

// Validate rejects build ids that cannot be used as file-safe identifiers.
func (cmd BuildCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.BuildID,
			validation.Length(0, 128),
			validation.By(func(value any) error {
				id, _ := value.(string)
				if id != "" && strings.TrimSpace(id) != id {
					return validation.NewError("contentlayer.build.build_id_whitespace", "build id must not contain surrounding whitespace")
				}
				if strings.ContainsAny(id, "/\\") {
					return validation.NewError("contentlayer.build.build_id_invalid", "build id must not contain path separators")
				}
				return nil
			}),
		),
	)
}
