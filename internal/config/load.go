package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultEnvFile is read by Load when the caller does not name another file.
const DefaultEnvFile = ".env"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report failures by environment key rather than Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("envconfig")
	})
	return v
}

// Load builds Settings from the process environment. If envFile exists it is
// read first; variables already present in the environment take precedence
// over the file. A missing envFile is not an error.
func Load(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("read env file %s: %w", envFile, err)
		}
	}

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		var perr *envconfig.ParseError
		if errors.As(err, &perr) {
			return Settings{}, &Error{Invalid: []string{perr.KeyName}, cause: perr.Err}
		}
		return Settings{}, fmt.Errorf("process environment: %w", err)
	}

	if err := check(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func check(s Settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate settings: %w", err)
	}

	cerr := &Error{}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			cerr.Missing = append(cerr.Missing, fe.Field())
			continue
		}
		cerr.Invalid = append(cerr.Invalid, fe.Field())
	}
	return cerr
}
