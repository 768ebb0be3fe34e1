package cache

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

func encode(value interfaces.ImageResolution) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("cache encode: %w", err)
	}
	return string(payload), nil
}

func decode(payload string) (interfaces.ImageResolution, error) {
	var value interfaces.ImageResolution
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return interfaces.ImageResolution{}, fmt.Errorf("cache decode: %w", err)
	}
	return value, nil
}
