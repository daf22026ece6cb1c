package store

import (
	"encoding/json"

	"tasker/internal/service"
)

// Encode serializes tasks into the snapshot format (a JSON array).
// A nil slice encodes as "[]".
func Encode(tasks []service.Task) (string, error) {
	if tasks == nil {
		tasks = []service.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a snapshot. The JSON literal null decodes to an empty slice.
func Decode(text string) ([]service.Task, error) {
	var tasks []service.Task
	if err := json.Unmarshal([]byte(text), &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}
