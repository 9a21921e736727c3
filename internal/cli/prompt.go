package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

func promptSecret(title string) (string, error) {
	var value string
	input := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value)

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return value, nil
}
