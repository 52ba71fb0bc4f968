package apischema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/broady/apischema/extract"
	"github.com/broady/apischema/sink"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate      = validator.New()
	optionDecoder = schema.NewDecoder()
)

func init() {
	// Hosts pass the options of every processor in one map.
	optionDecoder.IgnoreUnknownKeys(true)
	err := validate.RegisterValidation("artifact", func(fl validator.FieldLevel) bool {
		return sink.ValidatePath(fl.Field().String()) == nil
	})
	if err != nil {
		panic(err)
	}
}

// Config controls one extraction run.
type Config struct {
	// ImplicitAPI accepts web controllers and HTTP operations without
	// explicit API markers.
	ImplicitAPI bool

	// IncludeServices names service types processed after the sweep,
	// whether or not they are marked.
	IncludeServices []string `validate:"dive,required"`

	// Includes and Excludes are qualified-name prefixes filtering the sweep.
	Includes []string `validate:"dive,required"`
	Excludes []string `validate:"dive,required"`

	// Artifact is the relative output path of the schema.
	// Default: META-INF/apischema/client.json
	Artifact string `validate:"omitempty,artifact"`
}

// Validate checks the configuration. All problems are reported in one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, ve.Namespace()+": "+formatValidationError(ve))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "must not be empty"
	case "artifact":
		return fmt.Sprintf("%q is not a clean relative path", ve.Value())
	default:
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// processorOptions mirrors the dotted option keys of a host toolchain.
type processorOptions struct {
	APISchema struct {
		ImplicitAPI bool   `schema:"implicitApi"`
		Services    string `schema:"services"`
		Includes    string `schema:"includes"`
		Excludes    string `schema:"excludes"`
		Artifact    string `schema:"artifact"`
	} `schema:"apischema"`
}

// ConfigFromOptions decodes processor options such as
// "apischema.implicitApi" and "apischema.services". List values are
// comma separated. Keys of other processors are ignored.
func ConfigFromOptions(options map[string]string) (*Config, error) {
	values := make(map[string][]string, len(options))
	for k, v := range options {
		values[k] = []string{v}
	}
	var opts processorOptions
	if err := optionDecoder.Decode(&opts, values); err != nil {
		return nil, fmt.Errorf("decode processor options: %w", err)
	}
	o := opts.APISchema
	cfg := &Config{
		ImplicitAPI:     o.ImplicitAPI,
		IncludeServices: splitList(o.Services),
		Includes:        splitList(o.Includes),
		Excludes:        splitList(o.Excludes),
		Artifact:        strings.TrimSpace(o.Artifact),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) options() extract.Options {
	return extract.Options{
		ImplicitAPI:     c.ImplicitAPI,
		IncludeServices: c.IncludeServices,
		Includes:        c.Includes,
		Excludes:        c.Excludes,
	}
}
