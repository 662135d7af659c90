package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"github.com/nuget/login/pkg/api"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyUser            = "user"
	KeyTokenServiceURL = "token-service-url"
	KeyAudience        = "audience"

	// EnvPrefix matches how the Actions runner exposes step inputs: INPUT_USER,
	// INPUT_TOKEN-SERVICE-URL, INPUT_AUDIENCE.
	EnvPrefix = "INPUT"
)

// Inputs are the resolved step inputs.
type Inputs struct {
	User            string `mapstructure:"user" validate:"required"`
	TokenServiceURL string `mapstructure:"token-service-url" validate:"required,url"`
	Audience        string `mapstructure:"audience" validate:"required"`
}

func (i *Inputs) ExchangeRequest() api.ExchangeRequest {
	return api.ExchangeRequest{
		PrincipalIdentifier:  i.User,
		TokenServiceEndpoint: i.TokenServiceURL,
		Audience:             i.Audience,
	}
}

// Options locate the optional sources consulted before defaults.
type Options struct {
	// ConfigFile overrides the default $XDG_CONFIG_HOME/nuget-login/config.yaml.
	ConfigFile string
	// EnvFile is a dotenv file loaded into the process environment first.
	EnvFile string
}

// DefaultConfigFile returns the first nuget-login/config.yaml found in the XDG
// config directories, or "" when there is none.
func DefaultConfigFile() string {
	path, err := xdg.SearchConfigFile("nuget-login/config.yaml")
	if err != nil {
		return ""
	}
	return path
}

// Load resolves inputs from flags, INPUT_* environment variables, the config
// file and defaults, in that order of precedence.
func Load(flags *pflag.FlagSet, opts Options) (*Inputs, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, api.NewConfigurationError("unable to read env file: %v", err)
		}
	}

	v := viper.New()
	v.SetDefault(KeyTokenServiceURL, api.DefaultTokenServiceURL)
	v.SetDefault(KeyAudience, api.DefaultAudience)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = DefaultConfigFile()
	}
	if configFile != "" {
		if err := readConfigFile(v, configFile); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		for _, key := range []string{KeyUser, KeyTokenServiceURL, KeyAudience} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	inputs := &Inputs{
		User:            strings.TrimSpace(v.GetString(KeyUser)),
		TokenServiceURL: strings.TrimSpace(v.GetString(KeyTokenServiceURL)),
		Audience:        strings.TrimSpace(v.GetString(KeyAudience)),
	}
	// An input passed but left empty falls back to its default, as with
	// `core.getInput(...) || default`.
	if inputs.TokenServiceURL == "" {
		inputs.TokenServiceURL = api.DefaultTokenServiceURL
	}
	if inputs.Audience == "" {
		inputs.Audience = api.DefaultAudience
	}

	if err := Validate(inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return api.NewConfigurationError("unable to read config file: %v", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks inputs and reports the first problem as a configuration error.
func Validate(inputs *Inputs) error {
	err := validate.Struct(inputs)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return api.NewConfigurationError("invalid inputs: %v", err)
	}

	fe := validationErrors[0]
	switch fe.Tag() {
	case "required":
		return api.NewConfigurationError("input required and not supplied: %s", fe.Field())
	case "url":
		return api.NewConfigurationError("input %s is not a valid URL: %q", fe.Field(), fmt.Sprint(fe.Value()))
	default:
		return api.NewConfigurationError("input %s is invalid", fe.Field())
	}
}
