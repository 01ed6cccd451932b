package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/distill"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads flag defaults from a YAML document. Top-level keys
// apply to flags of any command; a mapping named after a command holds
// values for that command only and takes precedence. Keys are flag names
// written with dashes or underscores. Lists are joined with commas.
func YAMLLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, distill.Errorf(distill.EINVALID, "parse config: %v", err)
	}

	var resolver kong.ResolverFunc = func(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if parent != nil && parent.Command != nil {
			if section, ok := values[parent.Command.Name].(map[string]any); ok {
				if v, ok := flagValue(section, flag.Name); ok {
					return v, nil
				}
			}
		}
		if v, ok := flagValue(values, flag.Name); ok {
			return v, nil
		}
		return nil, nil
	}
	return resolver, nil
}

func flagValue(values map[string]any, name string) (string, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		switch v := values[key].(type) {
		case nil, map[string]any:
			continue
		case []any:
			parts := make([]string, len(v))
			for i, e := range v {
				parts[i] = fmt.Sprint(e)
			}
			return strings.Join(parts, ","), true
		default:
			return fmt.Sprint(v), true
		}
	}
	return "", false
}
