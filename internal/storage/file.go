package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/authkeeper/internal/constants"
)

// ErrMalformedSessionFile indicates that the session file is not a YAML mapping.
var ErrMalformedSessionFile = errors.New("session file is not a YAML mapping")

// FileStorage keeps slots as top-level keys of a YAML document.
// Writes preserve the order, comments and style of existing keys.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates a storage backed by the YAML file at path.
// The file and its folder are created on the first write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the location of the session file.
func (s *FileStorage) Path() string {
	return s.path
}

// Get returns the value of key and whether it is present.
func (s *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	document, err := s.readDocument()
	if err != nil {
		return "", false, err
	}

	valueNode := findValueNode(document.Content[0], key)
	if valueNode == nil {
		return "", false, nil
	}

	return valueNode.Value, true, nil
}

// Set stores value under key and rewrites the file.
func (s *FileStorage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	document, err := s.readDocument()
	if err != nil {
		return err
	}

	mapNode := document.Content[0]

	if valueNode := findValueNode(mapNode, key); valueNode != nil {
		valueNode.Kind = yaml.ScalarNode
		valueNode.Tag = "!!str"
		valueNode.Value = value
		valueNode.Style = yaml.DoubleQuotedStyle
	} else {
		mapNode.Content = append(mapNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle})
	}

	return s.writeDocument(document)
}

// Remove deletes key and rewrites the file.
func (s *FileStorage) Remove(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	document, err := s.readDocument()
	if err != nil {
		return err
	}

	mapNode := document.Content[0]

	// Keys and values are stored as alternating nodes.
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		if mapNode.Content[i].Value == key {
			mapNode.Content = append(mapNode.Content[:i], mapNode.Content[i+2:]...)

			return s.writeDocument(document)
		}
	}

	return nil
}

// readDocument loads the file as a document node whose first child is a mapping.
// A missing or empty file yields an empty mapping.
func (s *FileStorage) readDocument() (*yaml.Node, error) {
	content, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var document yaml.Node
	if len(content) > 0 {
		if err = yaml.Unmarshal(content, &document); err != nil {
			return nil, fmt.Errorf("failed to parse session file: %w", err)
		}
	}

	if len(document.Content) == 0 {
		return &yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}, nil
	}

	if document.Content[0].Kind != yaml.MappingNode {
		return nil, ErrMalformedSessionFile
	}

	return &document, nil
}

// writeDocument replaces the file atomically through a temporary file in the same folder.
func (s *FileStorage) writeDocument(document *yaml.Node) error {
	content, err := yaml.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	folder := filepath.Dir(s.path)
	if err = os.MkdirAll(folder, constants.SecretFolderPermissions); err != nil {
		return fmt.Errorf("failed to create session folder: %w", err)
	}

	tempPath := s.path + constants.ExtensionTmp
	if err = os.WriteFile(tempPath, content, constants.SecretFilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err = os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)

		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}

// findValueNode returns the value node of key in a mapping node, or nil.
func findValueNode(mapNode *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		if mapNode.Content[i].Value == key {
			return mapNode.Content[i+1]
		}
	}

	return nil
}
