// Package env writes structs tagged for caarlos0/env back out as .env files.
package env

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var ErrNotStructPointer = errors.New("env: MarshalEnv needs a pointer to a struct")

var durationType = reflect.TypeOf(time.Duration(0))

// MarshalEnv renders the env-tagged fields of the struct c points to as
// KEY=value lines in field order. Zero values are omitted so that
// envDefault applies on load. Pointer fields are always written when
// non-nil, which is how an explicit false or 0 is kept.
func MarshalEnv(c any) (string, error) {
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return "", ErrNotStructPointer
	}
	v = v.Elem()
	t := v.Type()

	var b strings.Builder
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		key, _, _ := strings.Cut(field.Tag.Get("env"), ",")
		if key == "" {
			continue
		}

		val := v.Field(i)
		if val.IsZero() {
			continue
		}

		sep := field.Tag.Get("envSeparator")
		if sep == "" {
			sep = ","
		}

		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(quote(format(val, sep)))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func format(v reflect.Value, sep string) string {
	if v.Type() == durationType {
		return time.Duration(v.Int()).String()
	}

	switch v.Kind() {
	case reflect.Pointer:
		return format(v.Elem(), sep)
	case reflect.Slice:
		items := make([]string, v.Len())
		for i := range items {
			items[i] = format(v.Index(i), sep)
		}
		return strings.Join(items, sep)
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits())
	}
	return ""
}

// quote wraps values godotenv would otherwise split or strip.
func quote(s string) string {
	if !strings.ContainsAny(s, " \t\n\"'#\\=$") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "$", `\$`)
	return `"` + r.Replace(s) + `"`
}
