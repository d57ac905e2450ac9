package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/config"
	"github.com/jonathan/pku-porter/internal/porter"
)

// chooser picks an option index for one pending choice.
type chooser func(c *alerts.Choice) (int, error)

// parseChoiceFlags turns repeated "Category=N" flags into a resolution map.
func parseChoiceFlags(flags []string) (map[string]int, error) {
	out := make(map[string]int, len(flags))
	for _, f := range flags {
		cat, idx, ok := strings.Cut(f, "=")
		cat = strings.TrimSpace(cat)
		if !ok || cat == "" {
			return nil, errors.Newf("invalid --choice %q: expected Category=N", f)
		}
		n, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil {
			return nil, errors.Newf("invalid --choice %q: option must be a number", f)
		}
		if _, dup := out[cat]; dup {
			return nil, errors.Newf("choice %q given more than once", cat)
		}
		out[cat] = n
	}
	return out, nil
}

// resolvePending settles the choices left after the explicit ones, following
// policy. Under PolicyFail the session stays unresolved and Finalize reports
// the pending categories.
func resolvePending(sess *porter.Session, policy string, choose chooser) error {
	switch policy {
	case config.PolicyFirst:
		sess.ResolveFirst()
	case config.PolicyPrompt:
		for _, c := range sess.Pending() {
			idx, err := choose(c)
			if err != nil {
				return errors.Wrapf(err, "choice %q", c.Category)
			}
			if err := sess.Resolve(c.Category, idx); err != nil {
				return err
			}
		}
	}
	return nil
}

// promptChoice asks on the terminal with a pterm select menu.
func promptChoice(c *alerts.Choice) (int, error) {
	options := make([]string, len(c.Options))
	for i, o := range c.Options {
		options[i] = fmt.Sprintf("%d. %s", i, o.Name)
		if o.Description != "" {
			options[i] += " - " + o.Description
		}
	}

	prompt := c.Category
	if c.Message != "" {
		prompt += ": " + c.Message
	}
	selected, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultText(prompt).
		Show()
	if err != nil {
		return 0, err
	}
	idx := slices.Index(options, selected)
	if idx < 0 {
		return 0, errors.Newf("unknown option %q", selected)
	}
	return idx, nil
}
