package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// deleteForce is shared by every delete subcommand; only one of them runs
// per invocation.
var deleteForce bool

// confirm prints the prompt and reads a y/N answer from stdin.
func confirm(prompt string) (bool, error) {
	fmt.Println(prompt)
	fmt.Print("\nContinue? [y/N]: ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read input: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
