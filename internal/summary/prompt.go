package summary

import (
	"fmt"
	"os"
	"strings"
)

// DefaultInstruction is the system instruction sent with every summary request.
const DefaultInstruction = `You are an experienced software engineer and open source maintainer. Write a first-release README for the project whose files follow. The readers are professional developers with several years of experience.

- Start with a short description of what the project does.
- List the interesting techniques the code uses.
- List non-obvious libraries or technologies that experienced developers would want to know about.
- Show the project structure as a directory listing in a code block. Include directories, and files only when they sit in the root directory. Describe the notable directories below the block.
- When you mention a file or directory, link to it with a relative link from the repository root.
- When you describe a platform feature, link to its reference documentation.
- Do not write a usage section.

Use plain, direct, neutral language with few adjectives.`

// LoadInstruction returns the content of instructionFilePath, or DefaultInstruction when the path is empty.
func LoadInstruction(instructionFilePath string) (string, error) {
	trimmedPath := strings.TrimSpace(instructionFilePath)
	if trimmedPath == "" {
		return DefaultInstruction, nil
	}
	instructionBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return "", fmt.Errorf("read summary prompt %s: %w", trimmedPath, readError)
	}
	instruction := strings.TrimSpace(string(instructionBytes))
	if instruction == "" {
		return "", fmt.Errorf("summary prompt %s is empty", trimmedPath)
	}
	return instruction, nil
}
