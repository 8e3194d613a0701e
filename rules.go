package formcheck

import (
	"regexp"
	"sync"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Required fails iff v is empty.
func Required(v Value) bool {
	return !IsEmpty(v)
}

// Email reports whether v is an address of the form local@domain.tld with
// an ASCII local part and domain and a TLD of at least two letters. Empty
// values pass.
func Email(v Value) bool {
	if IsEmpty(v) {
		return true
	}
	s, ok := AsString(v)
	if !ok {
		return true
	}
	return emailPattern.MatchString(s)
}

// MinLength reports whether v has at least bound characters. Empty values,
// values that cannot be read as text and non-numeric bounds pass.
func MinLength(v Value, bound any) bool {
	n, s, ok := lengthOperands(v, bound)
	if !ok {
		return true
	}
	return float64(textLength(s)) >= n
}

// MaxLength reports whether v has at most bound characters. Empty values,
// values that cannot be read as text and non-numeric bounds pass.
func MaxLength(v Value, bound any) bool {
	n, s, ok := lengthOperands(v, bound)
	if !ok {
		return true
	}
	return float64(textLength(s)) <= n
}

// Min reports whether v is numerically at least bound. Numeric strings are
// accepted; anything that cannot be read as a number passes.
func Min(v Value, bound any) bool {
	n, b, ok := numericOperands(v, bound)
	if !ok {
		return true
	}
	return n >= b
}

// Max reports whether v is numerically at most bound.
func Max(v Value, bound any) bool {
	n, b, ok := numericOperands(v, bound)
	if !ok {
		return true
	}
	return n <= b
}

// Pattern reports whether v matches the regular expression source. The
// match is unanchored, like RegExp.test. A source that does not compile is
// returned as an error together with true: callers decide whether to honour
// the pass.
func Pattern(v Value, source any) (bool, error) {
	if IsEmpty(v) {
		return true, nil
	}
	src, ok := AsString(FromAny(source))
	if !ok {
		return true, nil
	}
	re, err := compilePattern(src)
	if err != nil {
		return true, err
	}
	s, ok := AsString(v)
	if !ok {
		return true, nil
	}
	return re.MatchString(s), nil
}

func lengthOperands(v Value, bound any) (float64, string, bool) {
	if IsEmpty(v) {
		return 0, "", false
	}
	n, ok := AsNumber(FromAny(bound))
	if !ok {
		return 0, "", false
	}
	s, ok := AsString(v)
	if !ok {
		return 0, "", false
	}
	return n, s, true
}

func numericOperands(v Value, bound any) (float64, float64, bool) {
	if IsEmpty(v) {
		return 0, 0, false
	}
	b, ok := AsNumber(FromAny(bound))
	if !ok {
		return 0, 0, false
	}
	n, ok := AsNumber(v)
	if !ok {
		return 0, 0, false
	}
	return n, b, true
}

type compiledPattern struct {
	re  *regexp.Regexp
	err error
}

// patterns caches compiled pattern sources, including failures.
var patterns sync.Map // map[string]compiledPattern

func compilePattern(src string) (*regexp.Regexp, error) {
	if cached, ok := patterns.Load(src); ok {
		c := cached.(compiledPattern)
		return c.re, c.err
	}
	re, err := regexp.Compile(src)
	patterns.Store(src, compiledPattern{re: re, err: err})
	return re, err
}
