package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/domainhealth/internal/domain"
)

var (
	ErrFileNotFound = errors.New("endpoints file not found")
	ErrNotYAML      = errors.New("endpoints file must have a .yaml or .yml extension")
	ErrEmptyFile    = errors.New("endpoints file is empty")
	ErrInvalidYAML  = errors.New("endpoints file is not valid yaml")
	ErrNoEndpoints  = errors.New("endpoints file lists no endpoints")
)

var methodRe = regexp.MustCompile(`^[A-Za-z]+$`)

// LoadEndpoints reads and validates the endpoints file at path. Defaults
// are applied to every returned spec.
func LoadEndpoints(path string) ([]domain.EndpointSpec, error) {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotYAML, path)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints: %w", err)
	}
	return ParseEndpoints(data)
}

// ParseEndpoints decodes a YAML sequence of endpoint mappings. Unknown keys
// are ignored. Every invalid entry is reported, not just the first.
func ParseEndpoints(data []byte) ([]domain.EndpointSpec, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	var raw []domain.EndpointSpec
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if len(raw) == 0 {
		return nil, ErrNoEndpoints
	}

	var errs error
	out := make([]domain.EndpointSpec, 0, len(raw))
	for i, e := range raw {
		if err := validateEndpoint(e); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("endpoint %d (%s): %w", i, e.Label(), err))
			continue
		}
		out = append(out, e.WithDefaults())
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

func validateEndpoint(e domain.EndpointSpec) error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.URL, validation.Required, validation.By(validateEndpointURL)),
		validation.Field(&e.Method, validation.Match(methodRe).Error("must be an HTTP method")),
	)
}

func validateEndpointURL(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	raw = strings.TrimSpace(raw)
	if _, err := domain.DomainOf(raw); err != nil {
		return err
	}
	scheme := strings.ToLower(raw[:strings.Index(raw, "://")])
	if scheme != "http" && scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}
	return nil
}
