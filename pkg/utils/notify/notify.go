package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"
)

// Message type constants.
const (
	// ErrorType represents an error message (red, with ✗ symbol).
	ErrorType MessageType = iota
	// WarningType represents a warning message (yellow, with ⚠ symbol).
	WarningType
	// HintType represents a follow-up suggestion (blue, with ℹ symbol).
	HintType
)

// MessageType defines the type of notification message.
type MessageType int

// Message is a notification displayed to the user.
type Message struct {
	Type    MessageType
	Content string
	// Writer is the output destination. If nil, defaults to os.Stderr.
	Writer io.Writer
	Args   []any
}

// Errorf writes an error message to the writer.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Warningf writes a warning message to the writer.
func Warningf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: writer})
}

// Hintf writes a hint message to the writer.
func Hintf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: HintType, Content: format, Args: args, Writer: writer})
}

// WriteMessage writes msg with the symbol and colour of its type.
// Continuation lines are indented under the first one.
func WriteMessage(msg Message) {
	if msg.Writer == nil {
		msg.Writer = os.Stderr
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	symbol, color := style(msg.Type)

	_, err := color.Fprintf(msg.Writer, "%s%s\n", symbol, indent(content, symbol))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

func style(msgType MessageType) (string, *fcolor.Color) {
	switch msgType {
	case ErrorType:
		return "✗ ", fcolor.New(fcolor.FgRed)
	case WarningType:
		return "⚠ ", fcolor.New(fcolor.FgYellow)
	case HintType:
		return "ℹ ", fcolor.New(fcolor.FgBlue)
	default:
		return "", fcolor.New(fcolor.Reset)
	}
}

func indent(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	pad := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}
