package spec

import (
	"fmt"

	"argspecgen/internal/report"
	"argspecgen/internal/types"
)

// Validate checks entry points for structural problems: unknown option
// types and conditional requirements referencing undeclared options.
// Problems are logged and flip the result to false; validation itself
// never aborts.
func Validate(order []string, entryPoints map[string]*EntryPoint, log *report.Logger) bool {
	valid := true

	for _, name := range order {
		ep, ok := entryPoints[name]
		if !ok {
			continue
		}
		log.Info("Validating entry point: %s", name)

		if ep.ShortDescription == "" {
			log.Verbose("No short_description for %s", name)
		}

		for argName, arg := range ep.Options {
			if !types.IsValid(arg.Type) {
				log.Error("Invalid type '%s' for argument '%s'", arg.Type, argName)
				valid = false
			}
			if (arg.Type == types.List || arg.Type == types.Dict) && arg.Elements == "" {
				log.Verbose("No elements type specified for %s argument '%s'", arg.Type, argName)
			}
		}

		declared := make(map[string]bool, len(ep.Options))
		for argName := range ep.Options {
			declared[argName] = true
		}

		check := func(conditionType, param string) {
			if !declared[param] {
				log.Error("%s references unknown argument '%s'", conditionType, param)
				valid = false
			}
		}

		for _, condition := range ep.RequiredIf {
			if len(condition) < 3 {
				continue
			}
			if param, ok := condition[0].(string); ok {
				check("required_if", param)
			}
			for _, req := range requiredIfParams(condition[2]) {
				check("required_if", req)
			}
		}
		for _, group := range ep.RequiredOneOf {
			for _, param := range group {
				check("required_one_of", param)
			}
		}
		for _, group := range ep.MutuallyExclusive {
			for _, param := range group {
				check("mutually_exclusive", param)
			}
		}
		for _, group := range ep.RequiredTogether {
			for _, param := range group {
				check("required_together", param)
			}
		}
	}

	return valid
}

// requiredIfParams extracts the required-parameter names from the third
// element of a required_if triple, which may be a single name or a list.
func requiredIfParams(v any) []string {
	switch value := v.(type) {
	case string:
		return []string{value}
	case []string:
		return value
	case []any:
		var out []string
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprintf("%v", item))
			}
		}
		return out
	}
	return nil
}
