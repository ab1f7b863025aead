// Package message renders campaign template bodies with Liquid, one message
// per recipient. Parsed templates are cached since a campaign send renders
// the same body for every contact in the audience.
package message

import (
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"
)

// Renderer renders Liquid template bodies. Safe for concurrent use.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewRenderer creates a renderer with the CRM's custom filters registered.
func NewRenderer() *Renderer {
	r := &Renderer{engine: liquid.NewEngine()}

	// Default value filter: {{ first_name | default: "there" }}
	r.engine.RegisterFilter("default", func(value interface{}, fallback interface{}) interface{} {
		s, ok := value.(string)
		if value == nil || (ok && strings.TrimSpace(s) == "") {
			return fallback
		}
		return value
	})

	return r
}

// Render renders body against the given bindings. Missing variables render
// as empty strings, matching Liquid's lax semantics; syntax errors fail.
func (r *Renderer) Render(body string, data map[string]interface{}) (string, error) {
	tpl, err := r.template(body)
	if err != nil {
		return "", err
	}
	out, err := tpl.RenderString(data)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

// Validate parses body without rendering, for draft-time feedback.
func (r *Renderer) Validate(body string) error {
	_, err := r.template(body)
	return err
}

func (r *Renderer) template(body string) (*liquid.Template, error) {
	if cached, ok := r.cache.Load(body); ok {
		return cached.(*liquid.Template), nil
	}
	tpl, err := r.engine.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	r.cache.Store(body, tpl)
	return tpl, nil
}
