package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the calendar-day layout used in config files and CSV output.
const DateLayout = "2006-01-02"

// FlexBool is a boolean that can be unmarshalled from a boolean, a string
// ("true", "yes", "sim", "on", ...) or a number.
type FlexBool bool

// UnmarshalYAML implements the yaml.Unmarshaler interface for FlexBool.
func (fb *FlexBool) UnmarshalYAML(value *yaml.Node) error {
	switch value.Tag {
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		*fb = FlexBool(b)
	case "!!str":
		b, err := parseWordBool(value.Value)
		if err != nil {
			return err
		}
		*fb = FlexBool(b)
	case "!!int":
		i, err := strconv.Atoi(value.Value)
		if err != nil {
			return err
		}
		*fb = FlexBool(i != 0)
	case "!!float":
		f, err := strconv.ParseFloat(value.Value, 64)
		if err != nil {
			return err
		}
		*fb = FlexBool(f != 0)
	default:
		return fmt.Errorf("cannot unmarshal %s into FlexBool", value.Tag)
	}
	return nil
}

func parseWordBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on", "sim", "s":
		return true, nil
	case "no", "n", "off", "nao", "não":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("cannot unmarshal string %q into FlexBool", s)
	}
	return b, nil
}

// Date is a calendar day (UTC midnight) parsed from "YYYY-MM-DD".
type Date struct {
	time.Time
}

// ParseDate parses a "YYYY-MM-DD" string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want %s): %w", s, DateLayout, err)
	}
	return Date{Time: t}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Date.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("cannot unmarshal %s into Date", value.Tag)
	}
	parsed, err := ParseDate(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Date.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.Format(DateLayout), nil
}
