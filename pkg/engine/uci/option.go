package uci

import (
	"fmt"
	"strconv"
)

// option is one UCI-exposed engine parameter: the "option name ... type ..." line sent
// during startup, and the handler invoked on a matching "setoption" command. A flat list
// of these replaces the teacher's ad hoc printf-per-option list (spec's configuration
// redesign): each option owns its own declaration line and its own parsing.
type option interface {
	name() string
	declare() string
	set(value string) error
}

// spinOption is a UCI "spin" option: an integer within [min, max].
type spinOption struct {
	Name             string
	Default, Min, Max int
	Apply            func(int)
}

func (o spinOption) name() string { return o.Name }

func (o spinOption) declare() string {
	return fmt.Sprintf("option name %v type spin default %v min %v max %v", o.Name, o.Default, o.Min, o.Max)
}

func (o spinOption) set(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("option %v: %w", o.Name, err)
	}
	if n < o.Min || n > o.Max {
		return fmt.Errorf("option %v: %v out of range [%v, %v]", o.Name, n, o.Min, o.Max)
	}
	o.Apply(n)
	return nil
}

// stringOption is a UCI "string" option.
type stringOption struct {
	Name    string
	Default string
	Apply   func(string)
}

func (o stringOption) name() string { return o.Name }

func (o stringOption) declare() string {
	return fmt.Sprintf("option name %v type string default %v", o.Name, o.Default)
}

func (o stringOption) set(value string) error {
	o.Apply(value)
	return nil
}

// optionSet finds an option by name within a flat list, case-sensitively per the UCI
// spec's convention of exact <id> matching.
func optionSet(options []option, name string) (option, bool) {
	for _, o := range options {
		if o.name() == name {
			return o, true
		}
	}
	return nil, false
}
