package muon

import "fmt"

const (
	defaultMaxDepth = 1000
	defaultIndent   = 2
)

// options holds the configuration shared by encoding and decoding.
type options struct {
	indent   int
	maxDepth int
}

func defaultOptions() options {
	return options{indent: defaultIndent, maxDepth: defaultMaxDepth}
}

// Option configures encoding or decoding.
type Option func(*options) error

// Indent returns an Option that sets the number of spaces per nesting
// level when encoding. The format allows 2, 3 or 4.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 2 || n > 4 {
			return fmt.Errorf("muon: indent must be 2, 3 or 4")
		}
		o.indent = n
		return nil
	}
}

// MaxDepth returns an Option that sets the maximum nesting depth for the
// decoder, limiting stack growth on adversarial input.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("muon: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}
