package behavior

import (
	"encoding/json"
	"fmt"
)

// Load reads and unmarshals one of the embedded behavior data files.
func Load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("failed to read behavior data %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to decode behavior data %s: %w", filename, err)
	}

	return result, nil
}
