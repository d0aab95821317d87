package command

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/papercompute/loom/pkg/apperrors"
)

// invocationPattern matches "/<name> <rest>". The TUI re-joins the name and
// rest that router.DetectSlash split off, with the leading slash, before
// dispatching; the registry re-validates the name shape independently so
// it can be driven directly in tests.
var invocationPattern = regexp.MustCompile(`^/([A-Za-z][A-Za-z0-9_-]*)\s*(.*)$`)

// Registry holds every registered Command, keyed by name and alias in one
// flat namespace.
type Registry struct {
	byName map[string]*Command
	order  []string // registration order, for /help listings
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Command{}}
}

// Register adds cmd to the registry. It panics on a duplicate name or
// alias, since that can only happen from a programming error at startup -
// the registry's uniqueness invariant must hold before the TUI ever runs.
func (r *Registry) Register(cmd Command) {
	names := append([]string{cmd.Name}, cmd.Aliases...)
	for _, n := range names {
		if _, exists := r.byName[n]; exists {
			panic(fmt.Sprintf("command namespace collision: %q already registered", n))
		}
	}
	c := cmd
	for _, n := range names {
		r.byName[n] = &c
	}
	r.order = append(r.order, cmd.Name)
}

// Commands returns every registered command in registration order (not
// expanded by alias).
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Parse splits "/name rest" into a command name and tokenized arguments.
// Quoted strings (single or double) are respected; loom's contract is
// narrower than shellquote's default (no backslash escapes), so an input
// containing a backslash is split on whitespace by splitNoEscape, which
// still respects quotes but keeps each backslash as a literal character.
func Parse(input string) (name string, tokens []string, ok bool) {
	m := invocationPattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return "", nil, false
	}
	name, rest := m[1], m[2]

	if strings.Contains(rest, `\`) {
		return name, splitNoEscape(rest), true
	}

	split, err := shellquote.Split(rest)
	if err != nil {
		// Unbalanced quotes: fall back to naive whitespace splitting so a
		// malformed command still dispatches to argument validation,
		// which will produce a more specific ArgumentError.
		return name, splitNoEscape(rest), true
	}
	return name, split, true
}

// splitNoEscape tokenizes on whitespace while still respecting quotes, but
// treats backslash as a literal character rather than an escape.
func splitNoEscape(rest string) []string {
	var tokens []string
	var current strings.Builder
	var quote rune
	for _, r := range rest {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ' ' || r == '\t':
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Lookup finds a command by name or alias.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Dispatch parses input, resolves the command, binds arguments, and runs
// Execute. Unknown commands return Result{Success: false} with up to 3
// suggestions scoring > 0.6. Argument errors are rendered with the
// command's usage line.
func (r *Registry) Dispatch(ctx context.Context, input string, ec *ExecutionContext) Result {
	name, tokens, ok := Parse(input)
	if !ok {
		return Fail("not a command: " + input)
	}

	cmd, found := r.Lookup(name)
	if !found {
		suggestions := r.Suggest(name)
		if len(suggestions) == 0 {
			return Fail(fmt.Sprintf("unknown command: /%s", name))
		}
		return Fail(fmt.Sprintf("unknown command: /%s (did you mean: %s?)", name, strings.Join(suggestions, ", ")))
	}

	args, err := bindArguments(cmd.Arguments, tokens)
	if err != nil {
		return Fail(fmt.Sprintf("%v\nusage: %s", err, Usage(cmd)))
	}

	return cmd.Execute(ctx, args, ec)
}

// Usage renders a one-line usage string for a command, e.g.
// "/model <name> [temperature=<float>]".
func Usage(cmd *Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "/%s", cmd.Name)
	for _, a := range cmd.Arguments {
		if a.Required {
			fmt.Fprintf(&b, " <%s>", a.Name)
		} else {
			fmt.Fprintf(&b, " [%s=<%s>]", a.Name, a.Type)
		}
	}
	return b.String()
}

// bindArguments assigns tokens to the declared argument slots: positional
// tokens fill required slots in order, remaining tokens are parsed as
// key=value or as boolean flags matching a defined bool argument.
// Defaults fill absent optional arguments.
func bindArguments(defs []ArgumentDef, tokens []string) (map[string]any, error) {
	result := map[string]any{}
	byName := map[string]ArgumentDef{}
	for _, d := range defs {
		byName[d.Name] = d
	}

	var positional []ArgumentDef
	for _, d := range defs {
		if d.Required {
			positional = append(positional, d)
		}
	}

	posIndex := 0
	var rest []string
	for _, tok := range tokens {
		if key, value, isKV := strings.Cut(tok, "="); isKV {
			if _, known := byName[key]; !known {
				return nil, &apperrors.ArgumentError{ArgName: key, Reason: "unknown argument"}
			}
			rest = append(rest, tok)
			_ = value
			continue
		}
		if posIndex < len(positional) {
			def := positional[posIndex]
			v, err := convert(def, tok)
			if err != nil {
				return nil, err
			}
			result[def.Name] = v
			posIndex++
			continue
		}
		rest = append(rest, tok)
	}

	if posIndex < len(positional) {
		missing := positional[posIndex]
		return nil, &apperrors.ArgumentError{ArgName: missing.Name, Reason: "missing required argument"}
	}

	for _, tok := range rest {
		if key, value, isKV := strings.Cut(tok, "="); isKV {
			def := byName[key]
			v, err := convert(def, value)
			if err != nil {
				return nil, err
			}
			result[key] = v
			continue
		}

		// Bare token matching a bool flag name turns it on.
		if def, known := byName[tok]; known && def.Type == ArgBool {
			result[tok] = true
			continue
		}

		return nil, &apperrors.ArgumentError{ArgName: tok, Reason: "unrecognized argument"}
	}

	for _, d := range defs {
		if _, set := result[d.Name]; !set && !d.Required {
			if d.Default != nil {
				result[d.Name] = d.Default
			}
		}
	}

	return result, nil
}

func convert(def ArgumentDef, raw string) (any, error) {
	if len(def.Choices) > 0 && !contains(def.Choices, raw) {
		return nil, &apperrors.ArgumentError{ArgName: def.Name, ExpectedType: "one of " + strings.Join(def.Choices, "|"), GotValue: raw}
	}

	switch def.Type {
	case ArgInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &apperrors.ArgumentError{ArgName: def.Name, ExpectedType: "int", GotValue: raw}
		}
		return v, nil
	case ArgFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &apperrors.ArgumentError{ArgName: def.Name, ExpectedType: "float", GotValue: raw}
		}
		return v, nil
	case ArgBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &apperrors.ArgumentError{ArgName: def.Name, ExpectedType: "bool", GotValue: raw}
		}
		return v, nil
	default:
		return raw, nil
	}
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}

// Suggest returns up to 3 registered command names similar to name,
// ranked by a same-position character-match ratio, restricted to
// scores > 0.6.
func (r *Registry) Suggest(name string) []string {
	type scored struct {
		name  string
		score float64
	}
	var candidates []scored
	for _, cmd := range r.Commands() {
		if s := similarity(name, cmd.Name); s > 0.6 {
			candidates = append(candidates, scored{cmd.Name, s})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	n := len(candidates)
	if n > 3 {
		n = 3
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = candidates[i].name
	}
	return out
}

// similarity is a same-position character-match ratio over the longer of
// the two strings.
func similarity(a, b string) float64 {
	longer, shorter := a, b
	if len(b) > len(a) {
		longer, shorter = b, a
	}
	if len(longer) == 0 {
		return 1
	}

	matches := 0
	for i := 0; i < len(shorter); i++ {
		if shorter[i] == longer[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(longer))
}
