// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package config holds the parameters of sweeps and generation runs.
//
// A Config starts from Default, is overlaid by a YAML file with Load and by
// command line flags, and must pass Validate before use.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/shlex"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned, wrapped, by Validate and Load.
var ErrInvalid = errors.New("invalid configuration")

// Backends.
const (
	BackendExec = "exec"
	BackendGini = "gini"
)

// Type Profile is a named set of solver options.  Each trial runs the solver
// once per profile.
type Profile struct {
	Name    string `yaml:"name" validate:"required,alphanum"`
	Options string `yaml:"options"`
}

// Type Notify configures e-mail notification.  Notification is off when
// Email is empty.
type Notify struct {
	Email       string        `yaml:"email" validate:"omitempty,email"`
	Password    string        `yaml:"password"`
	Host        string        `yaml:"smtp" validate:"required_with=Email"`
	Port        int           `yaml:"port" validate:"gte=1,lte=65535"`
	Threshold   time.Duration `yaml:"threshold" validate:"gte=0"`
	MinInterval time.Duration `yaml:"min_interval" validate:"gte=0"`
}

// Type Config is the full set of parameters.
type Config struct {
	KMin  int `yaml:"k_min" validate:"gte=1"`
	KMax  int `yaml:"k_max" validate:"gte=1,gtefield=KMin"`
	KStep int `yaml:"k_step" validate:"gte=1"`
	Vars  int `yaml:"vars" validate:"gte=2"`

	Samples int     `yaml:"samples" validate:"gte=1"`
	MinBias float64 `yaml:"min_bias" validate:"gte=0,lte=1"` // 0 means 1/Samples
	Beta    float64 `yaml:"beta" validate:"gt=0,lte=1"`      // gen command only
	Count   int     `yaml:"count" validate:"gte=0"`          // gen command only, 0 is unbounded

	Cutoff        int  `yaml:"cutoff" validate:"gte=1"`
	Components    int  `yaml:"components" validate:"gte=1"`
	Compact       bool `yaml:"compact"`
	Trials        int  `yaml:"trials" validate:"gte=1"`
	MaxFailures   int  `yaml:"max_failures" validate:"gte=1"`
	MaxIterations int  `yaml:"max_iterations" validate:"gte=0"`

	Backend  string        `yaml:"backend" validate:"oneof=exec gini"`
	Solver   string        `yaml:"solver"`
	Options  string        `yaml:"options"`
	Profiles []Profile     `yaml:"profiles" validate:"dive"`
	Timeout  time.Duration `yaml:"timeout" validate:"gt=0"`
	Settle   time.Duration `yaml:"settle" validate:"gte=0"`

	Dir           string `yaml:"dir" validate:"required"`
	KeepArtifacts bool   `yaml:"keep_artifacts"`
	Seed          int64  `yaml:"seed"`
	Parallel      int    `yaml:"parallel" validate:"gte=1"`
	MetricsFile   string `yaml:"metrics_file"`

	Notify Notify `yaml:"notify"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		KMin:        3,
		KMax:        3,
		KStep:       1,
		Vars:        100,
		Samples:     100,
		Beta:        1,
		Cutoff:      10000,
		Components:  1,
		Trials:      10,
		MaxFailures: 1,
		Backend:     BackendExec,
		Timeout:     30 * time.Second,
		Settle:      time.Second,
		Dir:         ".",
		Seed:        time.Now().UnixNano(),
		Parallel:    1,
		Notify: Notify{
			Host:      "smtp.gmail.com",
			Port:      587,
			Threshold: time.Hour}}
}

// Load reads the YAML file at path over the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	c := Default()
	if e := Read(path, c); e != nil {
		return nil, e
	}
	if e := c.Validate(); e != nil {
		return nil, errors.Wrap(e, path)
	}
	return c, nil
}

// Read overlays c with the YAML file at path, without validating.
// Unknown keys are an error.
func Read(path string, c *Config) error {
	buf, e := os.ReadFile(path)
	if e != nil {
		return errors.Wrap(e, "reading config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if e := dec.Decode(c); e != nil && e != io.EOF {
		return errors.Wrapf(ErrInvalid, "%s: %s", path, e)
	}
	return nil
}

var validate = validator.New()

// Validate checks c.  All errors wrap ErrInvalid.
func (c *Config) Validate() error {
	if e := validate.Struct(c); e != nil {
		return errors.Wrap(ErrInvalid, e.Error())
	}
	if c.KMax >= c.Vars {
		return errors.Wrapf(ErrInvalid, "k_max %d must be less than vars %d", c.KMax, c.Vars)
	}
	if c.Vars/c.Components <= c.KMax {
		return errors.Wrapf(ErrInvalid, "%d components of %d variables leave no more than k_max %d variables per component",
			c.Components, c.Vars, c.KMax)
	}
	if c.Backend == BackendExec && c.Solver == "" {
		return errors.Wrap(ErrInvalid, "the exec backend needs a solver")
	}
	names := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if names[p.Name] {
			return errors.Wrapf(ErrInvalid, "duplicate profile %q", p.Name)
		}
		names[p.Name] = true
	}
	for _, p := range c.SolverProfiles() {
		if _, e := shlex.Split(p.Options); e != nil {
			return errors.Wrapf(ErrInvalid, "profile %s options: %s", p.Name, e)
		}
	}
	return nil
}

// Bias returns the smallest bias swept.
func (c *Config) Bias() float64 {
	if c.MinBias > 0 {
		return c.MinBias
	}
	return 1 / float64(c.Samples)
}

// Ks returns the clause widths swept, in increasing order.
func (c *Config) Ks() []int {
	var ks []int
	for k := c.KMin; k <= c.KMax; k += c.KStep {
		ks = append(ks, k)
	}
	return ks
}

// SolverProfiles returns the configured profiles, or a single profile
// "default" with Options if none are configured.
func (c *Config) SolverProfiles() []Profile {
	if len(c.Profiles) != 0 {
		return c.Profiles
	}
	return []Profile{{Name: "default", Options: c.Options}}
}

// Args splits the options of p as a shell would.
func (p Profile) Args() ([]string, error) {
	return shlex.Split(p.Options)
}

func (p Profile) String() string {
	return fmt.Sprintf("%s[%s]", p.Name, p.Options)
}
