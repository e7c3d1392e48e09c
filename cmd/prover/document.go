package main

import (
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/herbrand/fol-engine/logic"
	"github.com/herbrand/fol-engine/parser"
)

// Document is a knowledge-base file: sentences to assert and optional
// default queries, all in the parser's syntax.
type Document struct {
	Sentences []string `yaml:"sentences"`
	Queries   []string `yaml:"queries"`
}

// LoadDocument reads a knowledge-base document from a YAML file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}

// loadAll loads and parses every document concurrently, returning the
// asserted sentences in file order and the merged default queries.
func loadAll(paths []string) ([]logic.Sentence, []string, error) {
	type parsed struct {
		sentences []logic.Sentence
		queries   []string
	}
	results := make([]parsed, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			doc, err := LoadDocument(path)
			if err != nil {
				return err
			}
			for _, text := range doc.Sentences {
				s, err := parser.Sentence(text)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				results[i].sentences = append(results[i].sentences, s)
			}
			results[i].queries = doc.Queries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	var sentences []logic.Sentence
	var queries []string
	for _, r := range results {
		sentences = append(sentences, r.sentences...)
		queries = append(queries, r.queries...)
	}
	return sentences, queries, nil
}
