// pre_processor.go implements the WGSL directive pre-processor. Directives are single-line
// comments prefixed with @oxy: and are replaced before parsing:
//
//	//@oxy:include <name>                                    injects a registered struct source
//	//@oxy:group <group> <binding> <space> <var> <name>      emits a @group/@binding declaration
//
// <space> is one of uniform, storage_read or storage_read_write. <name> refers to an entry
// in the registry given to NewPreProcessor.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// directivePrefix marks a pre-processor directive inside a WGSL line comment.
const directivePrefix = "@oxy:"

// Include is a registered WGSL struct: its source text and the type name it declares.
type Include struct {
	Source string
	Type   string
}

// Declaration records a binding emitted by an @oxy:group directive.
type Declaration struct {
	Group   int
	Binding int
	VarName string
	Include string
	Line    int
}

var addressSpaces = map[string]string{
	"uniform":            "var<uniform>",
	"storage_read":       "var<storage, read>",
	"storage_read_write": "var<storage, read_write>",
}

type preProcessor struct {
	registry     map[string]Include
	declarations []Declaration
}

// PreProcessor expands @oxy: directives in WGSL source.
type PreProcessor interface {
	// Process expands every directive in source. Declarations are reset on each call.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error naming the line of a malformed directive or unknown include
	Process(source string) (string, error)

	// Declarations returns the bindings emitted by the last Process call, in source order.
	//
	// Returns:
	//   - []Declaration: the emitted bindings
	Declarations() []Declaration
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor resolving directive names against registry.
//
// Parameters:
//   - registry: include name to struct source and type name
//
// Returns:
//   - PreProcessor: the pre-processor
func NewPreProcessor(registry map[string]Include) PreProcessor {
	return &preProcessor{registry: registry}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[string]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		_, directive, ok := strings.Cut(strings.TrimSpace(line), "//"+directivePrefix)
		if !ok {
			out = append(out, line)
			continue
		}

		lineNum := i + 1
		args := strings.Fields(directive)
		if len(args) == 0 {
			return "", fmt.Errorf("line %d: empty directive", lineNum)
		}

		switch args[0] {
		case "include":
			if len(args) != 2 {
				return "", fmt.Errorf("line %d: include takes exactly one name", lineNum)
			}
			inc, ok := p.registry[args[1]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown include %q", lineNum, args[1])
			}
			// a struct may only be declared once per module
			if !included[args[1]] {
				out = append(out, inc.Source)
				included[args[1]] = true
			}

		case "group":
			if len(args) != 6 {
				return "", fmt.Errorf("line %d: group takes <group> <binding> <space> <var> <name>", lineNum)
			}
			group, err := strconv.Atoi(args[1])
			if err != nil {
				return "", fmt.Errorf("line %d: invalid group %q: %w", lineNum, args[1], err)
			}
			binding, err := strconv.Atoi(args[2])
			if err != nil {
				return "", fmt.Errorf("line %d: invalid binding %q: %w", lineNum, args[2], err)
			}
			space, ok := addressSpaces[args[3]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
			}
			inc, ok := p.registry[args[5]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown include %q", lineNum, args[5])
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", group, binding, space, args[4], inc.Type))
			p.declarations = append(p.declarations, Declaration{
				Group:   group,
				Binding: binding,
				VarName: args[4],
				Include: args[5],
				Line:    lineNum,
			})

		default:
			return "", fmt.Errorf("line %d: unknown directive %q", lineNum, args[0])
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Declaration {
	return p.declarations
}
