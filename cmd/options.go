// Copyright © 2024 The ELPS authors

package cmd

import "github.com/luthersystems/tinylisp/lisp"

// Option configures an exported command factory (DocCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	env *lisp.LEnv
}

// WithEnv injects a fully configured LEnv.  The doc command renders the
// bindings of its root scope in addition to the builtins.
func WithEnv(env *lisp.LEnv) Option {
	return func(c *cmdConfig) { c.env = env }
}
