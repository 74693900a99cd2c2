// Package codec turns a todo list into text and back.
//
// The encoding is a JSON array of objects with id, title, text and completed
// fields. Decode validates the text against an embedded JSON Schema before
// accepting it, so anything that does not look like a list written by Encode
// is reported as ErrMalformed.
package codec

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tadacards/internal/model"
)

// ErrMalformed reports persisted text that is not an encoded todo list.
var ErrMalformed = errors.New("malformed todo list")

// ErrInvalidUTF8 reports a todo field that JSON cannot carry unchanged.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

const schemaURL = "https://github.com/Makepad-fr/tadacards/todos.schema.json"

//go:embed todos.schema.json
var schemaText string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaText)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Encode serializes todos. An empty or nil list encodes as "[]". Strings
// that are not valid UTF-8 are rejected, since JSON would silently rewrite
// them and Decode would then return a different list.
func Encode(todos []model.Todo) (string, error) {
	if todos == nil {
		todos = []model.Todo{}
	}
	for i, t := range todos {
		if !utf8.ValidString(t.ID) || !utf8.ValidString(t.Title) || !utf8.ValidString(t.Text) {
			return "", fmt.Errorf("%w: todo %d (id %q)", ErrInvalidUTF8, i, t.ID)
		}
	}
	b, err := json.Marshal(todos)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// Decode parses text produced by Encode. A JSON null decodes to a nil list
// and no error, which callers treat as "nothing saved".
func Decode(text string) ([]model.Todo, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return nil, nil
	}

	sch, err := compiled()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, describe(err))
	}

	todos := []model.Todo{}
	if err := json.Unmarshal([]byte(text), &todos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return todos, nil
}

// describe flattens a schema validation error into its first leaf cause.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
