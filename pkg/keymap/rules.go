package keymap

import "strings"

// WrapResetRule links the generated dynamic_keymap_reset wrapper in place
// of the firmware's own reset routine.
const WrapResetRule = "LDFLAGS += -Wl,-wrap=dynamic_keymap_reset"

// GenerateRulesMk appends the reset wrap rule to rules.mk unless it is
// already present.
func GenerateRulesMk(content string) string {
	if strings.Contains(content, WrapResetRule) {
		return content
	}
	return content + "\n\n# Override dynamic_keymap_reset\n" + WrapResetRule
}
