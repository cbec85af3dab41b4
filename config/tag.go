package config

import (
	"reflect"
	"strconv"
)

// TagString
// Options in struct tag form.
// Example: seed:"42" saturation:"0.8" timestamp:"true"
type TagString reflect.StructTag

func (d TagString) Get(key string) string {
	return reflect.StructTag(d).Get(key)
}

func (d TagString) GetInt(key string, defaultValue int) (int, error) {
	value := d.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func (d TagString) GetUint64(key string, defaultValue uint64) (uint64, error) {
	value := d.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseUint(value, 10, 64)
}

func (d TagString) GetFloat(key string, defaultValue float64) (float64, error) {
	value := d.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseFloat(value, 64)
}

func (d TagString) GetBool(key string, defaultValue bool) (bool, error) {
	value := d.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(value)
}
