// Package config parses and validates the declarative resource documents
// fed to the reconciler.
package config

import (
	"gopkg.in/yaml.v3"

	"github.com/unifisync/unifisync/internal/model"
)

// Config represents a full resource document.
type Config struct {
	Version     string     `yaml:"version,omitempty" validate:"omitempty,semver"`
	Name        string     `yaml:"name,omitempty" validate:"omitempty,max=100"`
	Description string     `yaml:"description,omitempty"`
	Controller  Controller `yaml:"controller" validate:"required"`
	Resources   []Resource `yaml:"resources" validate:"required,min=1,dive"`
}

// Controller holds the connection parameters for one UniFi controller.
type Controller struct {
	URL      string `yaml:"url" validate:"required,controller_url"`
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password" validate:"required"`
	// Site is the default site for resources that do not name one.
	Site string `yaml:"site,omitempty"`
	// InsecureSkipVerify disables TLS verification for self-signed
	// controllers.
	InsecureSkipVerify bool    `yaml:"insecure_skip_verify,omitempty"`
	TimeoutSeconds     int     `yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1,max=600"`
	RateLimit          float64 `yaml:"rate_limit,omitempty" validate:"omitempty,gt=0,lte=100"`
}

// SiteOrDefault returns the configured default site, falling back to the
// controller's built-in site name.
func (c Controller) SiteOrDefault() string {
	if c.Site != "" {
		return c.Site
	}
	return "default"
}

// Resource is one declared resource entry. The kind selects which payload
// field is populated.
type Resource struct {
	Kind  string `validate:"required,resource_kind"`
	State model.State
	Site  string

	// Spec carries the item payload for the item-shaped kinds
	// (networkconf, wlanconf, portconf).
	Spec model.Item
	// Settings carries the section-keyed payloads for the setting kind.
	Settings map[string]model.Item
	// Port carries the port assignment for the port kind.
	Port *PortSpec
}

// PortSpec assigns a port profile to one port of a device.
type PortSpec struct {
	// Device is the device name or MAC address.
	Device string `yaml:"device" validate:"required"`
	// Port selects the port by index or by port name.
	Port any `yaml:"port" validate:"required"`
	// Profile is the name of the port profile to assign.
	Profile string `yaml:"portconf"`
	// Override holds additional per-port override fields.
	Override model.Item `yaml:"override,omitempty"`
}

// UnmarshalYAML customises resource decoding so each kind populates its own
// payload field while sharing the kind/state/site envelope.
func (r *Resource) UnmarshalYAML(value *yaml.Node) error {
	type baseResource struct {
		Kind  string    `yaml:"kind"`
		State yaml.Node `yaml:"state"`
		Site  string    `yaml:"site"`
	}

	var base baseResource
	if err := value.Decode(&base); err != nil {
		return err
	}

	r.Kind = base.Kind
	r.Site = base.Site

	if base.State.Kind == 0 {
		r.State = model.StatePresent
	} else if err := base.State.Decode(&r.State); err != nil {
		return err
	}

	r.Spec = nil
	r.Settings = nil
	r.Port = nil

	switch base.Kind {
	case "setting":
		var aux struct {
			Setting map[string]model.Item `yaml:"setting"`
		}
		if err := value.Decode(&aux); err != nil {
			return err
		}
		r.Settings = aux.Setting
	case "port":
		var spec PortSpec
		if err := value.Decode(&spec); err != nil {
			return err
		}
		r.Port = &spec
	default:
		var payload map[string]yaml.Node
		if err := value.Decode(&payload); err != nil {
			return err
		}
		if node, ok := payload[base.Kind]; ok {
			var item model.Item
			if err := node.Decode(&item); err != nil {
				return err
			}
			r.Spec = item
		}
	}

	return nil
}
