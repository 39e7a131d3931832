package providers

import (
	"context"
)

// Config represents one text-generation request
type Config struct {
	Model             string
	Temperature       float64
	SystemInstruction string
	Prompt            string
	// Schema, when set, constrains the response to JSON matching it
	Schema *Schema
}

// Provider defines the interface for a text-generation backend
type Provider interface {
	GenerateText(ctx context.Context, config Config) (string, error)
}

// ImageConfig represents one image-generation request
type ImageConfig struct {
	Model  string
	Prompt string
}

// Image is the first inline image returned by an image backend
type Image struct {
	Data     []byte
	MimeType string
}

// ImageProvider defines the interface for an image-generation backend
type ImageProvider interface {
	GenerateImage(ctx context.Context, config ImageConfig) (*Image, error)
}

// Type names a JSON schema type
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// Schema is the subset of JSON Schema every backend can express
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}
