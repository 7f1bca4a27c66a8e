package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/unifisync/unifisync/internal/model"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

// ValidateConfig applies the structural validation rules plus the per-kind
// payload checks the struct tags cannot express.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return syncerrors.NewConfigError("", "configuration is empty", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return syncerrors.NewConfigError(first.Namespace(),
				fmt.Sprintf("failed validation on rule %q", first.Tag()), err)
		}
		return syncerrors.NewConfigError("", "configuration failed validation", err)
	}

	for i, res := range cfg.Resources {
		if err := validateResource(i, res); err != nil {
			return err
		}
	}

	return nil
}

func validateResource(index int, res Resource) error {
	field := fmt.Sprintf("resources[%d]", index)

	if !res.State.Valid() {
		return syncerrors.NewConfigError(field,
			fmt.Sprintf("got unexpected value for requested state: %q", res.State), nil)
	}

	switch res.Kind {
	case "setting":
		if len(res.Settings) == 0 {
			return syncerrors.NewConfigError(field, "setting resources need at least one section", nil)
		}
	case "port":
		if res.Port == nil {
			return syncerrors.NewConfigError(field, "port resources need a device and port selection", nil)
		}
		if res.Port.Device == "" {
			return syncerrors.NewConfigError(field+".device", "device name or MAC address is required", nil)
		}
		if res.Port.Port == nil {
			return syncerrors.NewConfigError(field+".port", "port index or name is required", nil)
		}
		if res.State == model.StatePresent && res.Port.Profile == "" {
			return syncerrors.NewConfigError(field+".portconf",
				"a port profile name is required when the assignment should be present", nil)
		}
	default:
		if res.Spec == nil {
			return syncerrors.NewConfigError(field,
				fmt.Sprintf("%s resources need a %s payload", res.Kind, res.Kind), nil)
		}
	}

	return nil
}
