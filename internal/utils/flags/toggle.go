package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueLiteralConstant        = "true"
	toggleFalseLiteralConstant       = "false"
	toggleYesLiteralConstant         = "yes"
	toggleNoLiteralConstant          = "no"
	toggleValueTypeNameConstant      = "bool"
	toggleParseErrorTemplateConstant = "invalid toggle value %q"
	longFlagPrefixConstant           = "--"
	shortFlagPrefixConstant          = "-"
	argumentTerminatorConstant       = "--"
	flagAssignmentConstant           = "="
)

// toggleLiteralValues maps every accepted spelling onto its boolean meaning.
var toggleLiteralValues = map[string]bool{
	toggleTrueLiteralConstant:  true,
	toggleYesLiteralConstant:   true,
	"on":                       true,
	"1":                        true,
	"t":                        true,
	"y":                        true,
	toggleFalseLiteralConstant: false,
	toggleNoLiteralConstant:    false,
	"off":                      false,
	"0":                        false,
	"f":                        false,
	"n":                        false,
}

// toggleRegistry remembers every toggle flag bound in the process so argument
// normalization can tell toggles apart from ordinary value flags.
type toggleRegistry struct {
	mutex      sync.RWMutex
	longNames  map[string]struct{}
	shorthands map[string]struct{}
}

var boundToggles = &toggleRegistry{
	longNames:  map[string]struct{}{},
	shorthands: map[string]struct{}{},
}

func (registry *toggleRegistry) remember(name string, shorthand string) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	registry.longNames[name] = struct{}{}
	if len(shorthand) > 0 {
		registry.shorthands[shorthand] = struct{}{}
	}
}

func (registry *toggleRegistry) isLongName(name string) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	_, known := registry.longNames[name]
	return known
}

func (registry *toggleRegistry) isShorthand(shorthand string) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	_, known := registry.shorthands[shorthand]
	return known
}

// AddToggleFlag binds a yes/no style boolean flag. The flag accepts bare use
// (--flag), explicit assignment (--flag=no), and a space-separated value once
// the arguments have passed through NormalizeToggleArguments.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	if target != nil {
		*target = defaultValue
	}
	boundValue := &toggleValue{state: defaultValue, target: target}

	if len(shorthand) > 0 {
		flagSet.VarP(boundValue, name, shorthand, usage)
	} else {
		flagSet.Var(boundValue, name, usage)
	}

	boundFlag := flagSet.Lookup(name)
	if boundFlag == nil {
		return
	}
	boundFlag.NoOptDefVal = toggleTrueLiteralConstant
	boundFlag.Usage = toggleUsage(usage, defaultValue)

	boundToggles.remember(name, shorthand)
}

// toggleUsage reuses the choice-usage formatting so the default spelling is
// uppercased inside the yes/no placeholder.
func toggleUsage(description string, defaultValue bool) string {
	defaultLiteral := toggleNoLiteralConstant
	if defaultValue {
		defaultLiteral = toggleYesLiteralConstant
	}
	return FormatChoiceUsage(defaultLiteral, []string{toggleYesLiteralConstant, toggleNoLiteralConstant}, description)
}

// NormalizeToggleArguments rewrites "--flag value" into "--flag=value" for
// registered toggle flags, which pflag requires for flags carrying an optional
// value. Arguments after a bare "--" terminator pass through untouched.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == argumentTerminatorConstant {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		toggleName, hasAssignedValue := registeredToggleToken(current)
		if len(toggleName) > 0 && !hasAssignedValue && index+1 < len(arguments) {
			if followingValue := arguments[index+1]; !strings.HasPrefix(followingValue, shortFlagPrefixConstant) {
				normalized = append(normalized, current+flagAssignmentConstant+followingValue)
				index++
				continue
			}
		}

		normalized = append(normalized, current)
	}

	return normalized
}

// registeredToggleToken names the registered toggle flag an argument refers
// to, if any, and reports whether the argument already assigns a value.
func registeredToggleToken(argument string) (string, bool) {
	var flagName string
	var isShorthand bool
	switch {
	case strings.HasPrefix(argument, longFlagPrefixConstant):
		flagName = strings.TrimPrefix(argument, longFlagPrefixConstant)
	case strings.HasPrefix(argument, shortFlagPrefixConstant):
		flagName = strings.TrimPrefix(argument, shortFlagPrefixConstant)
		isShorthand = true
	default:
		return "", false
	}

	hasAssignedValue := false
	if assignmentIndex := strings.Index(flagName, flagAssignmentConstant); assignmentIndex >= 0 {
		flagName = flagName[:assignmentIndex]
		hasAssignedValue = true
	}
	if len(flagName) == 0 {
		return "", false
	}

	if isShorthand {
		if len(flagName) != 1 || !boundToggles.isShorthand(flagName) {
			return "", false
		}
		return flagName, hasAssignedValue
	}

	if !boundToggles.isLongName(flagName) {
		return "", false
	}
	return flagName, hasAssignedValue
}

// toggleValue implements pflag.Value for yes/no style booleans.
type toggleValue struct {
	state  bool
	target *bool
}

func (value *toggleValue) Set(rawValue string) error {
	spelledValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(spelledValue) == 0 {
		spelledValue = toggleTrueLiteralConstant
	}

	parsedValue, recognized := toggleLiteralValues[spelledValue]
	if !recognized {
		return fmt.Errorf(toggleParseErrorTemplateConstant, rawValue)
	}

	value.state = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && value.state {
		return toggleTrueLiteralConstant
	}
	return toggleFalseLiteralConstant
}

func (value *toggleValue) Type() string {
	return toggleValueTypeNameConstant
}
