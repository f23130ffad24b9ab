package lang

import (
	"github.com/smacker/go-tree-sitter/java"
)

// Java is the registry name of the Java language.
const Java = "java"

func init() {
	Languages[Java] = &Language{
		Name:       Java,
		Extensions: []string{".java"},
		lang:       java.GetLanguage(),
	}
}
