package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"pathreflect/internal/common"
)

// StringOrArray is a list written in YAML either as one string or as a
// sequence of strings.
type StringOrArray []string

// UnmarshalYAML accepts a scalar or a sequence.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str == "" {
			*s = StringOrArray{}
		} else {
			*s = StringOrArray{str}
		}

		return nil
	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil
	default:
		return fmt.Errorf("line %d: expected string or array, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML writes a single element as a plain string.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty reports whether the list has no elements.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}
