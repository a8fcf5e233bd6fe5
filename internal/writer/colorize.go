package writer

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// noColorEnv disables colorizing when set to any value.
const noColorEnv = "NO_COLOR"

// assemblyLexer returns an assembly lexer with fallbacks.
func assemblyLexer() chroma.Lexer {
	for _, name := range []string{"nasm", "gas"} {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func listingStyle() *chroma.Style {
	for _, name := range []string{"monokai", "dracula"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func terminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal256", "terminal16"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Colorize applies syntax highlighting to assembly code. The code is returned unchanged
// if colors are disabled or highlighting fails.
func Colorize(code string) string {
	if os.Getenv(noColorEnv) != "" {
		return code
	}

	lexer := assemblyLexer()
	if lexer == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := terminalFormatter().Format(&buf, listingStyle(), iterator); err != nil {
		return code
	}
	return buf.String()
}
