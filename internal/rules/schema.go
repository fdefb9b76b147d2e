package rules

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	catalogueSchemaURL = "https://wals.local/schema/catalogue.json"
	ruleSchemaURL      = "https://wals.local/schema/rule.json"
)

var (
	//go:embed catalogue/catalogue.schema.json
	catalogueSchemaJSON string
	//go:embed catalogue/rule.schema.json
	ruleSchemaJSON string
)

type schemas struct {
	catalogue *jsonschema.Schema
	rule      *jsonschema.Schema
}

var loadSchemas = sync.OnceValues(func() (schemas, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(catalogueSchemaURL, strings.NewReader(catalogueSchemaJSON)); err != nil {
		return schemas{}, fmt.Errorf("add catalogue schema: %w", err)
	}
	if err := c.AddResource(ruleSchemaURL, strings.NewReader(ruleSchemaJSON)); err != nil {
		return schemas{}, fmt.Errorf("add rule schema: %w", err)
	}
	cat, err := c.Compile(catalogueSchemaURL)
	if err != nil {
		return schemas{}, fmt.Errorf("compile catalogue schema: %w", err)
	}
	rule, err := c.Compile(ruleSchemaURL)
	if err != nil {
		return schemas{}, fmt.Errorf("compile rule schema: %w", err)
	}
	return schemas{catalogue: cat, rule: rule}, nil
})
