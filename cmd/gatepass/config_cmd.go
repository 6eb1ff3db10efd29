package main

import "fmt"

// runConfigCmd prints the effective configuration as YAML.
func runConfigCmd(args []string, env *Environment) error {
	f, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(f.common, f.runtime, f.addr)
	if err != nil {
		return err
	}
	out, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}
