// Package validate provides struct-tag validation for request inputs.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	numeric             any number
//	integer             whole number
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gte=N               number >= N
//	in=a,b,c            value must be one of the listed items
//
// Example:
//
//	type Input struct {
//	    Name  string `json:"name"  validate:"required,max=100"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//
// Validation errors come back as a map of json field name → message,
// ready to be serialised into a 422 response.
package validate

import (
	"fmt"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
)

// Struct validates v (a struct or pointer to struct) against its `validate`
// tags. Returns a map of field → first failed rule message; empty input or
// non-struct values yield a nil map.
func Struct(v interface{}) map[string]string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	errs := map[string]string{}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}

		name := jsonName(field)
		value := rv.Field(i)

		if msg := applyRules(name, value, strings.Split(tag, ",")); msg != "" {
			errs[name] = msg
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// HasErrors reports whether the error map contains any entries.
func HasErrors(errs map[string]string) bool {
	return len(errs) > 0
}

func applyRules(name string, value reflect.Value, rules []string) string {
	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}

		key, arg := rule, ""
		if idx := strings.IndexByte(rule, '='); idx != -1 {
			key, arg = rule[:idx], rule[idx+1:]
		}

		switch key {
		case "nullable":
			if isZero(value) {
				return ""
			}
		case "required":
			if isZero(value) {
				return fmt.Sprintf("The %s field is required", name)
			}
		case "email":
			if _, err := mail.ParseAddress(asString(value)); err != nil {
				return fmt.Sprintf("The %s field must be a valid email address", name)
			}
		case "numeric":
			if _, err := strconv.ParseFloat(asString(value), 64); err != nil {
				return fmt.Sprintf("The %s field must be numeric", name)
			}
		case "integer":
			if _, err := strconv.ParseInt(asString(value), 10, 64); err != nil {
				return fmt.Sprintf("The %s field must be an integer", name)
			}
		case "min":
			if !compareSize(value, arg, func(have, want float64) bool { return have >= want }) {
				return fmt.Sprintf("The %s field must be at least %s", name, arg)
			}
		case "max":
			if !compareSize(value, arg, func(have, want float64) bool { return have <= want }) {
				return fmt.Sprintf("The %s field may not be greater than %s", name, arg)
			}
		case "gte":
			if !compareNumber(value, arg, func(have, want float64) bool { return have >= want }) {
				return fmt.Sprintf("The %s field must be greater than or equal to %s", name, arg)
			}
		case "in":
			if !inList(asString(value), arg) {
				return fmt.Sprintf("The %s field must be one of: %s", name, arg)
			}
		}
	}
	return ""
}

// compareSize measures strings by rune length and numbers by value.
func compareSize(value reflect.Value, arg string, cmp func(have, want float64) bool) bool {
	want, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return true
	}

	switch value.Kind() {
	case reflect.String:
		return cmp(float64(len([]rune(value.String()))), want)
	default:
		return compareNumber(value, arg, cmp)
	}
}

func compareNumber(value reflect.Value, arg string, cmp func(have, want float64) bool) bool {
	want, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return true
	}

	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp(float64(value.Int()), want)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp(float64(value.Uint()), want)
	case reflect.Float32, reflect.Float64:
		return cmp(value.Float(), want)
	case reflect.String:
		have, err := strconv.ParseFloat(value.String(), 64)
		if err != nil {
			return false
		}
		return cmp(have, want)
	default:
		return true
	}
}

func inList(value, arg string) bool {
	for _, item := range strings.Split(arg, ",") {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}

func isZero(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.String:
		return strings.TrimSpace(value.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return value.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return value.IsNil()
	default:
		return value.IsZero()
	}
}

func asString(value reflect.Value) string {
	switch value.Kind() {
	case reflect.String:
		return value.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(value.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(value.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(value.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(value.Bool())
	default:
		return fmt.Sprintf("%v", value.Interface())
	}
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
