package main

import (
	"encoding/json"
	"fmt"
	"os"

	"flowctl/internal/pipeline"
)

// readDocument loads and parses a pipeline document written by generate.
func readDocument(path string) (pipeline.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Document{}, fmt.Errorf("read pipeline document %s: %w", path, err)
	}
	var doc pipeline.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return pipeline.Document{}, fmt.Errorf("parse pipeline document %s: %w", path, err)
	}
	return doc, nil
}
