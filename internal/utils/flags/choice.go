package flags

import (
	"strings"
)

const (
	choiceListOpenerConstant    = "`<"
	choiceListCloserConstant    = ">`"
	choiceListSeparatorConstant = "|"
	choiceUsageSpacerConstant   = " "
)

// FormatChoiceUsage renders a flag usage string listing the accepted values,
// with the default value uppercased so it stands out in help output. Values
// are trimmed and deduplicated case-insensitively; blank values are dropped.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	var usage strings.Builder
	usage.WriteString(choiceListOpenerConstant)

	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	listed := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		cleanedChoice := strings.TrimSpace(choice)
		if len(cleanedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(cleanedChoice)
		if _, alreadyListed := listed[normalizedChoice]; alreadyListed {
			continue
		}

		if len(listed) > 0 {
			usage.WriteString(choiceListSeparatorConstant)
		}
		if normalizedChoice == normalizedDefault {
			usage.WriteString(strings.ToUpper(cleanedChoice))
		} else {
			usage.WriteString(cleanedChoice)
		}
		listed[normalizedChoice] = struct{}{}
	}

	usage.WriteString(choiceListCloserConstant)

	cleanedDescription := strings.TrimSpace(description)
	if len(cleanedDescription) > 0 {
		usage.WriteString(choiceUsageSpacerConstant)
		usage.WriteString(description)
	}
	return usage.String()
}
