// Package brief loads the YAML creative briefs consumed by the batch CLI.
package brief

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"creative-builder/internal/model"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed brief.schema.yaml
var schemaYAML []byte

// Brief is the brand copy plus optional per-template style overrides. Style
// keys are template labels or slugs.
type Brief struct {
	BrandName     string               `yaml:"brand_name"`
	Tagline       string               `yaml:"tagline"`
	CTAText       string               `yaml:"cta_text"`
	RetailerTheme model.RetailerTheme  `yaml:"retailer_theme"`
	AccentColor   string               `yaml:"accent_color"`
	RawStyles     map[string]yaml.Node `yaml:"styles"`

	styles map[string]model.StyleConfig
}

// Load reads and validates a brief file.
func Load(path string) (*Brief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brief file: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the brief schema and decodes it. Style entries
// are decoded on top of the defaults, so omitted fields keep default values.
func Parse(data []byte) (*Brief, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var b Brief
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse brief YAML: %w", err)
	}
	b.styles = make(map[string]model.StyleConfig, len(b.RawStyles))
	for key, node := range b.RawStyles {
		cfg := model.DefaultStyleConfig()
		if err := node.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("style %q: %w", key, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("style %q: %w", key, err)
		}
		b.styles[strings.TrimSpace(key)] = cfg
	}
	return &b, nil
}

// BrandContext returns the brand inputs. An empty accent is left empty for the
// caller to fill from the product image.
func (b *Brief) BrandContext() model.BrandContext {
	return model.BrandContext{
		BrandName:     b.BrandName,
		Tagline:       b.Tagline,
		CTAText:       b.CTAText,
		RetailerTheme: b.RetailerTheme,
		AccentColor:   b.AccentColor,
	}
}

// StyleFor returns the override for t, matched by label or slug, or the
// defaults.
func (b *Brief) StyleFor(t model.Template) model.StyleConfig {
	if cfg, ok := b.styles[t.Label]; ok {
		return cfg
	}
	for key, cfg := range b.styles {
		if strings.EqualFold(key, t.Slug) {
			return cfg
		}
	}
	return model.DefaultStyleConfig()
}

// StyleKeys lists the override keys as written in the brief.
func (b *Brief) StyleKeys() []string {
	keys := make([]string, 0, len(b.styles))
	for k := range b.styles {
		keys = append(keys, k)
	}
	return keys
}

var (
	schemaOnce sync.Once
	compiled   *jsonschema.Schema
	schemaErr  error
)

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		jsonData, err := yamlToJSON(schemaYAML)
		if err != nil {
			schemaErr = fmt.Errorf("failed to marshal schema: %w", err)
			return
		}
		compiled, schemaErr = jsonschema.CompileString("brief.schema.json", string(jsonData))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to compile schema: %w", schemaErr)
		}
	})
	return compiled, schemaErr
}

func validate(data []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}
	jsonData, err := yamlToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse brief YAML: %w", err)
	}
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to parse brief YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	if err := s.Validate(doc); err != nil {
		return &model.ValidationError{Field: "brief", Reason: err.Error()}
	}
	return nil
}

// yamlToJSON converts a YAML document to JSON for the schema validator.
func yamlToJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
