package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FlexBool tolerates the boolean spellings that show up in hand-edited
// config files: a YAML bool, a string such as "true" or "1", or an integer
// where zero means false. It backs the database.enabled and
// model.poly_include_bias flags.
type FlexBool bool

// UnmarshalYAML implements yaml.Unmarshaler.
func (fb *FlexBool) UnmarshalYAML(value *yaml.Node) error {
	switch value.Tag {
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		*fb = FlexBool(b)
	case "!!str":
		b, err := strconv.ParseBool(value.Value)
		if err != nil {
			return fmt.Errorf("cannot read string %q as a flag", value.Value)
		}
		*fb = FlexBool(b)
	case "!!int":
		i, err := strconv.Atoi(value.Value)
		if err != nil {
			return err
		}
		*fb = FlexBool(i != 0)
	default:
		return fmt.Errorf("cannot read %s node as a flag", value.Tag)
	}
	return nil
}
