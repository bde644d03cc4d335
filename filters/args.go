package filters

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

func StringArg(x any) (string, error) {
	if s, ok := x.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("%v is not a string", x)
}

func IntArg(x any) (int, error) {
	switch i := x.(type) {
	case int:
		return i, nil
	case float64:
		ii := int(i)
		if float64(ii) == i {
			return ii, nil
		}
	}
	return 0, fmt.Errorf("%v is not an integer", x)
}

func BoolArg(x any) (bool, error) {
	if b, ok := x.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("%v is not a bool", x)
}

// DurationArg accepts time.Duration values as they are, and parses strings
// with time.ParseDuration. Negative durations are rejected.
func DurationArg(x any) (time.Duration, error) {
	var d time.Duration
	switch t := x.(type) {
	case time.Duration:
		d = t
	case string:
		var err error
		d, err = time.ParseDuration(t)
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("%v is not a duration", x)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %v is negative", x)
	}
	return d, nil
}

// FilterArgs provides sequential access to the arguments of a filter.
// Every call of a non-optional accessor increases the expected number of
// arguments, and Err reports when the count doesn't match, or when a
// conversion failed:
//
//	a := filters.Args(args)
//	name, size, timeout := a.String(), a.Int(), a.OptionalDuration(time.Second)
//	if err := a.Err(); err != nil {
//		return nil, err
//	}
type FilterArgs struct {
	args []any
	pos  int
	errs []error
}

func Args(args []any) *FilterArgs {
	return &FilterArgs{args: args}
}

func (a *FilterArgs) String() (_ string) {
	if x, ok := a.next(); ok {
		s, err := StringArg(x)
		if err == nil {
			return s
		}
		a.error(err)
	}
	return
}

func (a *FilterArgs) OptionalString(defaultValue string) string {
	if a.pos >= len(a.args) {
		return defaultValue
	}
	return a.String()
}

func (a *FilterArgs) Int() (_ int) {
	if x, ok := a.next(); ok {
		i, err := IntArg(x)
		if err == nil {
			return i
		}
		a.error(err)
	}
	return
}

func (a *FilterArgs) OptionalInt(defaultValue int) int {
	if a.pos >= len(a.args) {
		return defaultValue
	}
	return a.Int()
}

func (a *FilterArgs) Bool() (_ bool) {
	if x, ok := a.next(); ok {
		b, err := BoolArg(x)
		if err == nil {
			return b
		}
		a.error(err)
	}
	return
}

func (a *FilterArgs) Duration() (_ time.Duration) {
	if x, ok := a.next(); ok {
		d, err := DurationArg(x)
		if err == nil {
			return d
		}
		a.error(err)
	}
	return
}

func (a *FilterArgs) OptionalDuration(defaultValue time.Duration) time.Duration {
	if a.pos >= len(a.args) {
		return defaultValue
	}
	return a.Duration()
}

func (a *FilterArgs) Err() error {
	var errs []string
	if a.pos != len(a.args) {
		if a.pos == 1 {
			errs = append(errs, "expects 1 argument")
		} else {
			errs = append(errs, fmt.Sprintf("expects %d arguments", a.pos))
		}
	}
	for _, err := range a.errs {
		errs = append(errs, err.Error())
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(errs, ", "))
}

func (a *FilterArgs) next() (x any, ok bool) {
	if a.pos < len(a.args) {
		x, ok = a.args[a.pos], true
	}
	a.pos++
	return
}

func (a *FilterArgs) error(err error) {
	a.errs = append(a.errs, err)
}
