// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Fields flattens a Resolved into dotted name -> value pairs, e.g.
// "dataset.fastqDir". List values are joined with commas.
func (c Resolved) Fields() map[string]string {
	out := make(map[string]string)
	flatten("", reflect.ValueOf(c), out)
	return out
}

// FieldNames returns the keys of Fields in sorted order.
func (c Resolved) FieldNames() []string {
	fields := c.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func flatten(prefix string, v reflect.Value, out map[string]string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		fv := v.Field(i)
		switch {
		case fv.Kind() == reflect.Struct:
			flatten(name, fv, out)
		case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String:
			out[name] = strings.Join(fv.Interface().([]string), ",")
		default:
			out[name] = fmt.Sprint(fv.Interface())
		}
	}
}

// ChangeSummary describes the result of comparing two Resolved values.
type ChangeSummary struct {
	ChangedFields   []string // List of field paths that changed
	RestartRequired bool     // True if any changed field is not hot-reloadable
}

// hotReloadAllowlist names the fields a running pipeline may pick up for
// stages it has not started yet. Every path change needs a fresh run.
var hotReloadAllowlist = map[string]struct{}{
	"run.threads":     {},
	"run.variantJobs": {},
	"run.javaMemory":  {},
}

// Diff compares two resolved configurations field by field.
func Diff(old, next Resolved) ChangeSummary {
	oldFields := old.Fields()
	nextFields := next.Fields()

	summary := ChangeSummary{}
	for _, name := range next.FieldNames() {
		if oldFields[name] == nextFields[name] {
			continue
		}
		summary.ChangedFields = append(summary.ChangedFields, name)
		if _, ok := hotReloadAllowlist[name]; !ok {
			summary.RestartRequired = true
		}
	}
	return summary
}
