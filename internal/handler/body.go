package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Request body schemas.
const (
	schemaAssignmentCreate = "assignment_create"
	schemaAssignmentUpdate = "assignment_update"
	schemaSubmissionCreate = "submission_create"
	schemaSubmissionGrade  = "submission_grade"
	schemaTokenRequest     = "token_request"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

type bodyError struct {
	message string
}

func (e *bodyError) Error() string {
	return e.message
}

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		names := []string{
			schemaAssignmentCreate,
			schemaAssignmentUpdate,
			schemaSubmissionCreate,
			schemaSubmissionGrade,
			schemaTokenRequest,
		}

		compiler := jsonschema.NewCompiler()
		compiled := make(map[string]*jsonschema.Schema, len(names))
		for _, name := range names {
			raw, err := schemaFiles.ReadFile("schemas/" + name + ".json")
			if err != nil {
				schemasErr = fmt.Errorf("read schema %s: %w", name, err)
				return
			}
			url := "mem://schemas/" + name + ".json"
			if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
			schema, err := compiler.Compile(url)
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			compiled[name] = schema
		}
		schemas = compiled
	})
	return schemas, schemasErr
}

// decodeBody checks the JSON body against the named schema, rejecting unknown
// fields and wrong types, and then decodes it into dst.
func decodeBody(c *fiber.Ctx, schemaName string, dst interface{}) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return &bodyError{message: "request body is required"}
	}

	var document interface{}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&document); err != nil {
		return &bodyError{message: "malformed JSON body"}
	}

	compiled, err := loadSchemas()
	if err != nil {
		return err
	}
	schema, ok := compiled[schemaName]
	if !ok {
		return fmt.Errorf("unknown schema %q", schemaName)
	}
	if err := schema.Validate(document); err != nil {
		return &bodyError{message: schemaMessage(err)}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &bodyError{message: "malformed JSON body"}
	}
	return nil
}

func schemaMessage(err error) string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return err.Error()
	}

	var leaves []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "/"
			}
			leaves = append(leaves, location+": "+e.Message)
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(validationErr)

	return "invalid request body: " + strings.Join(leaves, "; ")
}
