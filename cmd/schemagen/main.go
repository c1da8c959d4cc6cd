package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/reprolabs/verdict/internal/dto"
	"github.com/reprolabs/verdict/pkg/schema"
)

func main() {
	var (
		outputDir = flag.String("output", "api", "Output directory for generated schemas")
	)
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	generator := schema.NewGenerator()

	targets := []struct {
		name  string
		value interface{}
	}{
		{"rubric-v1", dto.CreateRubricRequest{}},
		{"submission-v1", dto.CreateSubmissionRequest{}},
		{"derive-v1", dto.DeriveRequest{}},
	}

	for _, target := range targets {
		schemaJSON, err := generator.GenerateJSONSchema(target.value)
		if err != nil {
			log.Fatalf("Failed to generate schema for %s: %v", target.name, err)
		}

		jsonFile := filepath.Join(*outputDir, target.name+".json")
		if err := os.WriteFile(jsonFile, []byte(schemaJSON), 0644); err != nil {
			log.Fatalf("Failed to write JSON schema: %v", err)
		}

		fmt.Printf("Generated JSON schema: %s\n", jsonFile)
	}

	yamlFile := filepath.Join(*outputDir, "rubric-example.yaml")
	if err := os.WriteFile(yamlFile, []byte(rubricYAMLExample()), 0644); err != nil {
		log.Fatalf("Failed to write YAML example: %v", err)
	}

	fmt.Printf("Generated YAML example: %s\n", yamlFile)
}

func rubricYAMLExample() string {
	return `# Rubric Example Configuration
# Criterion weights must sum to 1.0; thresholds are on the 0-10 scale.

name: "code-quality"
description: "General code quality rubric"
criteria:
  - name: "correctness"
    description: "Does the code do what it claims"
    weight: 0.5
    threshold: 6.0
  - name: "readability"
    description: "Naming, structure, and comments"
    weight: 0.3
    threshold: 5.0
  - name: "testing"
    description: "Coverage and quality of tests"
    weight: 0.2
    threshold: 4.0
    category: "quality"
`
}
