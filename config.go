package tick

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a flat namespace of typed settings shared by the analyzer and
// the emitter, the same shape as a build flag table: values are looked up
// by dotted path and panic on type mismatch so a typo in a setting name is
// caught at the call site instead of silently defaulting.
type Config map[string]*cfgVal

// NewConfig returns a Config primed with every default the compiler needs
// to run without a project file.
func NewConfig() *Config {
	m := make(Config)
	m.SetInt("analyzer.max_errors", 64)
	m.SetBool("emit.line_directives", true)
	m.SetBool("emit.runtime_prelude", true)
	m.SetInt("compiler.optimize", 1)
	return &m
}

// LoadConfigFile merges a project's tick.yaml over the defaults. Keys not
// present in the file keep their default value.
func LoadConfigFile(path string) (*Config, error) {
	cfg := NewConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	for key, val := range raw {
		switch v := val.(type) {
		case bool:
			cfg.SetBool(key, v)
		case int:
			cfg.SetInt(key, v)
		case string:
			cfg.SetString(key, v)
		default:
			return nil, fmt.Errorf("config %s: key %q has unsupported type %T", path, key, val)
		}
	}
	return cfg, nil
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("string setting `%s` does not exist", path))
}
